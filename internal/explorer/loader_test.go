package explorer

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shelfware/shelf-admin/internal/models"
)

// fakeBackend serves canned responses with optional delays and panics.
type fakeBackend struct {
	prefix    string
	tree      *models.RawStorageNode
	treeErr   error
	treePanic any
	treeDelay time.Duration
	doc       map[string]any
	docErr    error
	docPanic  any
	docDelay  time.Duration
}

func (b *fakeBackend) RootPrefix() string {
	if b.prefix == "" {
		return "books/alg-101/"
	}
	return b.prefix
}

func (b *fakeBackend) StorageTree(ctx context.Context) (*models.RawStorageNode, error) {
	if b.treeDelay > 0 {
		time.Sleep(b.treeDelay)
	}
	if b.treePanic != nil {
		panic(b.treePanic)
	}
	return b.tree, b.treeErr
}

func (b *fakeBackend) ConfigDocument(ctx context.Context) (map[string]any, error) {
	if b.docDelay > 0 {
		time.Sleep(b.docDelay)
	}
	if b.docPanic != nil {
		panic(b.docPanic)
	}
	return b.doc, b.docErr
}

func (b *fakeBackend) OpenObject(ctx context.Context, relPath string, stream bool) (io.ReadCloser, int64, error) {
	return io.NopCloser(strings.NewReader("bytes")), 5, nil
}

func TestFetch_BothSucceed(t *testing.T) {
	backend := &fakeBackend{
		tree: sampleTree(),
		doc:  map[string]any{"publisher": "Acme Press"},
	}

	res := Fetch(context.Background(), backend)

	if res.TreeErr != nil || res.DocErr != nil {
		t.Fatalf("Unexpected errors: tree=%v doc=%v", res.TreeErr, res.DocErr)
	}
	if res.Tree == nil || res.Document == nil {
		t.Error("Expected both values populated")
	}
}

func TestFetch_TreeFailsMetadataSucceeds(t *testing.T) {
	backend := &fakeBackend{
		treeErr: errors.New("listing unavailable"),
		doc:     map[string]any{"publisher": "Acme Press"},
	}

	res := Fetch(context.Background(), backend)

	if res.Tree != nil {
		t.Error("Expected nil tree on failure")
	}
	if res.TreeErr == nil {
		t.Error("Expected tree error captured")
	}
	if res.Document == nil || res.Document["publisher"] != "Acme Press" {
		t.Error("Tree failure corrupted the metadata result")
	}
	if res.DocErr != nil {
		t.Errorf("Unexpected metadata error: %v", res.DocErr)
	}
}

func TestFetch_MetadataFailsTreeSucceeds(t *testing.T) {
	backend := &fakeBackend{
		tree:   sampleTree(),
		docErr: errors.New("config unavailable"),
	}

	res := Fetch(context.Background(), backend)

	if res.Tree == nil || res.TreeErr != nil {
		t.Error("Metadata failure corrupted the tree result")
	}
	if res.DocErr == nil {
		t.Error("Expected metadata error captured")
	}
}

func TestFetch_SlowSourceDoesNotLoseFastFailure(t *testing.T) {
	// Fan-in barrier: the result is returned only after both settle, and
	// the early failure is still there.
	backend := &fakeBackend{
		treeErr:  errors.New("fast failure"),
		doc:      map[string]any{"k": "v"},
		docDelay: 50 * time.Millisecond,
	}

	res := Fetch(context.Background(), backend)
	if res.TreeErr == nil || res.Document == nil {
		t.Error("Expected both outcomes after barrier")
	}
}

func TestFetch_PanicNormalizedToError(t *testing.T) {
	backend := &fakeBackend{
		treePanic: "bare string failure",
		doc:       map[string]any{"k": "v"},
	}

	res := Fetch(context.Background(), backend)

	if res.TreeErr == nil {
		t.Fatal("Expected panic normalized into tree error")
	}
	if !strings.Contains(res.TreeErr.Error(), "bare string failure") {
		t.Errorf("Expected original message preserved, got %q", res.TreeErr)
	}
	if res.DocErr != nil {
		t.Errorf("Panic leaked into metadata channel: %v", res.DocErr)
	}
}

func TestFetch_ErrorPanicPreservesWrappedError(t *testing.T) {
	cause := errors.New("root cause")
	backend := &fakeBackend{
		tree:     sampleTree(),
		docPanic: cause,
	}

	res := Fetch(context.Background(), backend)
	if !errors.Is(res.DocErr, cause) {
		t.Errorf("Expected wrapped cause, got %v", res.DocErr)
	}
}
