package explorer

import (
	"context"
	"errors"
	"sync"

	"github.com/shelfware/shelf-admin/internal/events"
	"github.com/shelfware/shelf-admin/internal/logging"
	"github.com/shelfware/shelf-admin/internal/models"
	"github.com/shelfware/shelf-admin/internal/preview"
)

// previewFailedMessage is the generic user-facing text for preview fetch
// failures; the underlying error goes to the log, not the UI.
const previewFailedMessage = "preview unavailable"

// Session is one explorer over a single container/item pair: the normalized
// tree, the reconciled metadata, the current selection, and the single
// preview slot.
//
// All mutations happen under the session mutex. Asynchronous preview results
// commit only when their attempt token is still current, so a stale result
// can never clobber a newer selection.
type Session struct {
	container string
	item      string
	backend   Backend
	resolver  preview.Resolver
	bus       *events.EventBus
	logger    *logging.Logger

	mu       sync.Mutex
	tree     *Node
	treeErr  error
	meta     Metadata
	metaErr  error
	fallback models.ItemRecord
	selected string
	state    preview.State
	slot     preview.Slot
	attempt  uint64
	cancel   context.CancelFunc
	closed   bool
}

// NewSession creates a session for one item. fallback is the catalog record
// backing metadata reconciliation. bus may be nil when no frontend
// subscribes.
func NewSession(container, item string, backend Backend, fallback models.ItemRecord, bus *events.EventBus, logger *logging.Logger) *Session {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Session{
		container: container,
		item:      item,
		backend:   backend,
		resolver:  &preview.StreamResolver{Source: backend},
		bus:       bus,
		logger:    logger,
		fallback:  fallback,
		state:     preview.InitialState(),
	}
}

// SetResolver swaps the preview resolver. Used by the CLI to attach
// progress reporting and a spill directory, and by tests.
func (s *Session) SetResolver(r preview.Resolver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolver = r
}

// Load runs the fan-out/fan-in fetch and rebuilds the tree and metadata
// views. Per-source failures are recorded, not returned: a tree failure
// degrades to an empty listing, a document failure to fallback-only
// metadata, each independently.
func (s *Session) Load(ctx context.Context) {
	res := Fetch(ctx, s.backend)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if res.TreeErr != nil {
		s.tree, s.treeErr = nil, res.TreeErr
	} else {
		s.tree, s.treeErr = Normalize(res.Tree, s.backend.RootPrefix()), nil
	}
	// Metadata is recomputed on every attempt, success or failure.
	s.meta = Reconcile(res.Document, s.fallback)
	s.metaErr = res.DocErr
	tree, treeErr := s.tree, s.treeErr
	meta, metaErr := s.meta, s.metaErr
	s.mu.Unlock()

	if treeErr != nil {
		s.logger.Warn().Err(treeErr).Str("item", s.item).Msg("storage tree unavailable")
	}
	if metaErr != nil {
		s.logger.Warn().Err(metaErr).Str("item", s.item).Msg("config document unavailable, using catalog metadata")
	}

	s.publish(NewTreeChangedEvent(s.container, s.item, tree, treeErr))
	s.publish(NewMetadataChangedEvent(s.container, s.item, meta, metaErr))
}

// SetFallback replaces the catalog record used for metadata reconciliation.
// Takes effect on the next Load.
func (s *Session) SetFallback(record models.ItemRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = record
}

// Tree returns the current normalized tree, nil when the listing failed or
// has not been loaded.
func (s *Session) Tree() *Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// TreeError returns the last tree fetch failure, nil on success.
func (s *Session) TreeError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.treeErr
}

// Metadata returns the current reconciled metadata view.
func (s *Session) Metadata() Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta
}

// MetadataError returns the last config document fetch failure, nil on
// success.
func (s *Session) MetadataError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metaErr
}

// PreviewState returns a snapshot of the preview state.
func (s *Session) PreviewState() preview.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SelectPath selects the node with the given relative path, looked up in
// the current tree. Unknown paths clear the selection.
func (s *Session) SelectPath(relPath string) {
	s.mu.Lock()
	node := s.tree.Find(relPath)
	s.mu.Unlock()

	if node == nil {
		s.SelectNone()
		return
	}
	s.Select(node)
}

// SelectNone clears the selection, cancelling any in-flight preview and
// releasing the handle slot.
func (s *Session) SelectNone() {
	s.applySelection("", preview.KindNone)
}

// Select makes node the current selection and drives the preview pipeline.
// Selecting a folder behaves like clearing the selection as far as preview
// is concerned. Selecting a previewable file starts an asynchronous fetch;
// a newer selection supersedes (and cancels) an older in-flight one.
func (s *Session) Select(node *Node) {
	kind := preview.Classify(node.RelativePath, node.IsFolder())
	s.applySelection(node.RelativePath, kind)
}

// applySelection is the selection state machine. It advances the attempt
// token, cancels any in-flight fetch, releases the previous handle, and for
// previewable kinds starts the resolver.
func (s *Session) applySelection(relPath string, kind preview.Kind) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.attempt++
	token := s.attempt
	s.selected = relPath

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	// Release before any new request: rapid reselection must never hold
	// two decoded resources at once.
	if err := s.slot.Release(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to release preview resource")
	}

	if !kind.Previewable() {
		s.state = preview.State{Kind: kind, Status: preview.StatusIdle}
		state := s.state
		s.mu.Unlock()

		s.publish(NewSelectionChangedEvent(relPath))
		s.publish(NewPreviewChangedEvent(state))
		return
	}

	s.state = preview.State{Kind: kind, Status: preview.StatusLoading}
	state := s.state
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	resolver := s.resolver
	s.mu.Unlock()

	s.publish(NewSelectionChangedEvent(relPath))
	s.publish(NewPreviewChangedEvent(state))

	go s.resolve(ctx, resolver, token, relPath, kind)
}

// resolve runs one preview attempt and commits the result only if the
// attempt token is still current. Superseded or cancelled attempts are
// inert: no state transition, and any handle they produced is released on
// the spot.
func (s *Session) resolve(ctx context.Context, resolver preview.Resolver, token uint64, relPath string, kind preview.Kind) {
	handle, err := resolver.Resolve(ctx, relPath, kind)

	s.mu.Lock()
	if s.closed || token != s.attempt {
		s.mu.Unlock()
		if handle != nil {
			if relErr := handle.Release(); relErr != nil {
				s.logger.Warn().Err(relErr).Msg("failed to release superseded preview resource")
			}
		}
		return
	}
	s.cancel = nil

	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Cancelled attempts are inert: no transition, no handle.
			s.mu.Unlock()
			return
		}
		s.state = preview.State{Kind: kind, Status: preview.StatusError, Message: previewFailedMessage}
		state := s.state
		s.mu.Unlock()

		s.logger.Warn().Err(err).Str("path", relPath).Msg("preview fetch failed")
		s.publish(NewPreviewChangedEvent(state))
		return
	}

	if err := s.slot.Replace(handle); err != nil {
		s.logger.Warn().Err(err).Msg("failed to release preview resource")
	}
	s.state = preview.State{Kind: kind, Status: preview.StatusReady, Handle: handle}
	state := s.state
	s.mu.Unlock()

	s.publish(NewPreviewChangedEvent(state))
}

// Close tears the session down: the in-flight preview fetch (if any) is
// cancelled, the live handle released, and all views cleared. The session
// accepts no further operations.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.attempt++

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if err := s.slot.Release(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to release preview resource")
	}

	s.tree, s.treeErr = nil, nil
	s.meta, s.metaErr = Metadata{}, nil
	s.selected = ""
	s.state = preview.InitialState()
	s.mu.Unlock()
}

// Selected returns the relative path of the current selection, empty when
// nothing is selected.
func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *Session) publish(ev events.Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}
