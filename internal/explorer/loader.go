package explorer

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/shelfware/shelf-admin/internal/models"
)

// Backend is the narrow platform surface the explorer consumes for one
// container/item pair. api.ItemBackend satisfies it.
type Backend interface {
	// RootPrefix is the absolute path prefix shared by every node in the
	// item's storage listing.
	RootPrefix() string

	StorageTree(ctx context.Context) (*models.RawStorageNode, error)
	ConfigDocument(ctx context.Context) (map[string]any, error)
	OpenObject(ctx context.Context, relPath string, stream bool) (io.ReadCloser, int64, error)
}

// FetchResult aggregates the two independent fetch outcomes. The channels
// are strictly independent: a failure in one never touches the other's
// success value.
type FetchResult struct {
	Tree     *models.RawStorageNode
	Document map[string]any
	TreeErr  error
	DocErr   error
}

// Fetch issues the tree-listing and config-document requests concurrently
// and returns after both settle. Each outcome is captured independently; a
// failure in one does not cancel or delay the other. No caching: every call
// re-fetches.
func Fetch(ctx context.Context, backend Backend) FetchResult {
	var res FetchResult
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				res.Tree, res.TreeErr = nil, normalizePanic("storage tree fetch", r)
			}
		}()
		res.Tree, res.TreeErr = backend.StorageTree(ctx)
	}()
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				res.Document, res.DocErr = nil, normalizePanic("config document fetch", r)
			}
		}()
		res.Document, res.DocErr = backend.ConfigDocument(ctx)
	}()
	wg.Wait()

	return res
}

// normalizePanic converts a recovered panic value into an error, preserving
// the original message where derivable.
func normalizePanic(op string, r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("%s panicked: %w", op, err)
	}
	return fmt.Errorf("%s panicked: %v", op, r)
}
