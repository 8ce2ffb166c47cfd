package preview

import "sync"

// Slot is the session's single resource-handle holder. Replace and Release
// are the only write paths, and both release the prior handle first, so the
// at-most-one-live-handle invariant is structural rather than conventional.
type Slot struct {
	mu sync.Mutex
	h  Handle
}

// Replace releases the current handle (if any) and stores h. The returned
// error is the prior handle's release error; the new handle is stored
// regardless (release is best-effort cleanup).
func (s *Slot) Replace(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.h != nil {
		err = s.h.Release()
	}
	s.h = h
	return err
}

// Release releases and clears the current handle.
func (s *Slot) Release() error {
	return s.Replace(nil)
}

// Handle returns the currently held handle, nil when empty.
func (s *Slot) Handle() Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h
}
