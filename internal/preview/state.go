package preview

// Status is the lifecycle phase of the session's single preview.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// State is the session's preview snapshot. Exactly one exists per explorer
// session; Handle is non-nil only when Status is StatusReady.
type State struct {
	Kind    Kind
	Status  Status
	Handle  Handle
	Message string
}

// InitialState returns the state a fresh (or torn-down) session holds.
func InitialState() State {
	return State{Kind: KindNone, Status: StatusIdle}
}
