package preview

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Handle is an opaque, releasable reference to decoded preview bytes.
// Implementations must tolerate multiple Release calls; every handle the
// resolver creates is released exactly once by the owning slot (or
// immediately, when its attempt was superseded).
type Handle interface {
	// Path is a locally addressable reference to the decoded bytes.
	Path() string

	// Size is the decoded byte count.
	Size() int64

	// Release frees the underlying resource. Idempotent.
	Release() error
}

// fileHandle spills decoded bytes to a temp file. Release removes the file.
type fileHandle struct {
	path     string
	size     int64
	mu       sync.Mutex
	released bool
}

func (h *fileHandle) Path() string { return h.path }
func (h *fileHandle) Size() int64  { return h.size }

func (h *fileHandle) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return nil
	}
	h.released = true
	if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove preview file: %w", err)
	}
	return nil
}

// spill copies r into a fresh temp file under dir (empty = system temp dir)
// and wraps it in a Handle. On any error the partial file is removed and no
// handle exists.
func spill(r io.Reader, dir string) (Handle, error) {
	f, err := os.CreateTemp(dir, "shelf-preview-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create preview file: %w", err)
	}

	size, err := io.Copy(f, r)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write preview file: %w", err)
	}

	return &fileHandle{path: f.Name(), size: size}, nil
}
