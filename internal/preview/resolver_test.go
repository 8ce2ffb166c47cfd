package preview

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

// fakeSource records fetches and serves canned bytes.
type fakeSource struct {
	lastPath   string
	lastStream bool
	data       string
	err        error
	opened     int
}

func (s *fakeSource) OpenObject(ctx context.Context, relPath string, stream bool) (io.ReadCloser, int64, error) {
	s.opened++
	s.lastPath = relPath
	s.lastStream = stream
	if s.err != nil {
		return nil, 0, s.err
	}
	return io.NopCloser(strings.NewReader(s.data)), int64(len(s.data)), nil
}

func TestResolve_Image(t *testing.T) {
	src := &fakeSource{data: "image-bytes"}
	r := &StreamResolver{Source: src, Dir: t.TempDir()}

	h, err := r.Resolve(context.Background(), "assets/cover.png", KindImage)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	defer h.Release()

	if src.lastStream {
		t.Error("Image fetch must not request a byte range")
	}
	if src.lastPath != "assets/cover.png" {
		t.Errorf("Unexpected fetch path %q", src.lastPath)
	}
	if h.Size() != int64(len("image-bytes")) {
		t.Errorf("Unexpected handle size %d", h.Size())
	}
}

func TestResolve_AudioStreams(t *testing.T) {
	src := &fakeSource{data: "audio-bytes"}
	r := &StreamResolver{Source: src, Dir: t.TempDir()}

	h, err := r.Resolve(context.Background(), "audio/track.mp3", KindAudio)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	defer h.Release()

	if !src.lastStream {
		t.Error("Audio fetch must request a byte range")
	}
}

func TestResolve_RejectsNonPreviewable(t *testing.T) {
	src := &fakeSource{data: "x"}
	r := &StreamResolver{Source: src, Dir: t.TempDir()}

	if _, err := r.Resolve(context.Background(), "doc.xyz", KindUnsupported); err == nil {
		t.Error("Expected error for unsupported kind")
	}
	if src.opened != 0 {
		t.Error("Unsupported kind must not issue a fetch")
	}
}

func TestResolve_FetchError(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	r := &StreamResolver{Source: src, Dir: t.TempDir()}

	if _, err := r.Resolve(context.Background(), "a.png", KindImage); err == nil {
		t.Error("Expected fetch error to propagate")
	}
}

func TestResolve_CancelledMidCopy(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	src := &cancellingSource{cancel: cancel}
	dir := t.TempDir()
	r := &StreamResolver{Source: src, Dir: dir}

	_, err := r.Resolve(ctx, "video/clip.mp4", KindVideo)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected partial file cleaned up, found %d entries", len(entries))
	}
}

func TestResolve_Progress(t *testing.T) {
	src := &fakeSource{data: strings.Repeat("x", 1000)}
	var last, total int64
	r := &StreamResolver{
		Source:   src,
		Dir:      t.TempDir(),
		Progress: func(cur, tot int64) { last, total = cur, tot },
	}

	h, err := r.Resolve(context.Background(), "clip.webm", KindVideo)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	defer h.Release()

	if last != 1000 || total != 1000 {
		t.Errorf("Expected progress (1000, 1000), got (%d, %d)", last, total)
	}
}

// cancellingSource cancels the context after the first read, then fails
// reads with the context error, as a transport would.
type cancellingSource struct {
	cancel context.CancelFunc
}

func (s *cancellingSource) OpenObject(ctx context.Context, relPath string, stream bool) (io.ReadCloser, int64, error) {
	return &cancellingBody{ctx: ctx, cancel: s.cancel}, -1, nil
}

type cancellingBody struct {
	ctx    context.Context
	cancel context.CancelFunc
	reads  int
}

func (b *cancellingBody) Read(p []byte) (int, error) {
	b.reads++
	if b.reads == 1 {
		n := copy(p, []byte("partial"))
		b.cancel()
		return n, nil
	}
	return 0, b.ctx.Err()
}

func (b *cancellingBody) Close() error { return nil }
