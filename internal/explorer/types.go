package explorer

import (
	"github.com/shelfware/shelf-admin/internal/events"
	"github.com/shelfware/shelf-admin/internal/preview"
)

// Explorer event types published on the session's bus.
const (
	EventTreeChanged      events.EventType = "explorer_tree_changed"
	EventMetadataChanged  events.EventType = "explorer_metadata_changed"
	EventSelectionChanged events.EventType = "explorer_selection_changed"
	EventPreviewChanged   events.EventType = "explorer_preview_changed"
)

// TreeChangedEvent is published after every tree fetch attempt. Root is nil
// when the fetch failed; Err carries the failure.
type TreeChangedEvent struct {
	events.BaseEvent
	Container string
	Item      string
	Root      *Node
	Err       error
}

// MetadataChangedEvent is published after every metadata fetch attempt.
// Metadata is always populated (fallback-only on failure); Err carries the
// document fetch failure, if any.
type MetadataChangedEvent struct {
	events.BaseEvent
	Container string
	Item      string
	Metadata  Metadata
	Err       error
}

// SelectionChangedEvent is published when the selected path changes.
// RelPath is empty for "no selection".
type SelectionChangedEvent struct {
	events.BaseEvent
	RelPath string
}

// PreviewChangedEvent is published on every preview state transition.
type PreviewChangedEvent struct {
	events.BaseEvent
	State preview.State
}

// NewTreeChangedEvent creates a TreeChangedEvent.
func NewTreeChangedEvent(container, item string, root *Node, err error) *TreeChangedEvent {
	return &TreeChangedEvent{
		BaseEvent: events.NewBase(EventTreeChanged),
		Container: container,
		Item:      item,
		Root:      root,
		Err:       err,
	}
}

// NewMetadataChangedEvent creates a MetadataChangedEvent.
func NewMetadataChangedEvent(container, item string, meta Metadata, err error) *MetadataChangedEvent {
	return &MetadataChangedEvent{
		BaseEvent: events.NewBase(EventMetadataChanged),
		Container: container,
		Item:      item,
		Metadata:  meta,
		Err:       err,
	}
}

// NewSelectionChangedEvent creates a SelectionChangedEvent.
func NewSelectionChangedEvent(relPath string) *SelectionChangedEvent {
	return &SelectionChangedEvent{
		BaseEvent: events.NewBase(EventSelectionChanged),
		RelPath:   relPath,
	}
}

// NewPreviewChangedEvent creates a PreviewChangedEvent.
func NewPreviewChangedEvent(state preview.State) *PreviewChangedEvent {
	return &PreviewChangedEvent{
		BaseEvent: events.NewBase(EventPreviewChanged),
		State:     state,
	}
}
