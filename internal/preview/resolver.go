package preview

import (
	"context"
	"fmt"
	"io"
)

// ObjectSource opens binary objects by storage-relative path. When stream is
// true the source issues a byte-range request from offset zero.
// api.ItemBackend satisfies this.
type ObjectSource interface {
	OpenObject(ctx context.Context, relPath string, stream bool) (io.ReadCloser, int64, error)
}

// Resolver turns a previewable selection into a resource handle.
type Resolver interface {
	Resolve(ctx context.Context, relPath string, kind Kind) (Handle, error)
}

// ProgressFunc receives copy progress. total is -1 when unknown.
type ProgressFunc func(current, total int64)

// StreamResolver fetches objects from an ObjectSource and spills them to
// temp-file handles.
type StreamResolver struct {
	// Source provides the object bytes.
	Source ObjectSource

	// Dir receives the spilled temp files. Empty means the system temp dir.
	Dir string

	// Progress, when set, is called as bytes arrive.
	Progress ProgressFunc
}

// Resolve performs the cancellable binary fetch for a previewable kind and
// materializes the handle. Audio and video use a range request; images an
// unconditioned one. On error (including cancellation) no handle exists.
func (r *StreamResolver) Resolve(ctx context.Context, relPath string, kind Kind) (Handle, error) {
	if !kind.Previewable() {
		return nil, fmt.Errorf("kind %q is not previewable", kind)
	}

	body, total, err := r.Source.OpenObject(ctx, relPath, kind.Streams())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var src io.Reader = body
	if r.Progress != nil {
		src = &progressReader{r: body, total: total, fn: r.Progress}
	}

	// spill reads through the response body, so context cancellation
	// surfaces as a read error and the partial file is cleaned up.
	h, err := spill(src, r.Dir)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return h, nil
}

// progressReader reports cumulative read progress through fn.
type progressReader struct {
	r       io.Reader
	total   int64
	current int64
	fn      ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.current += int64(n)
		p.fn(p.current, p.total)
	}
	return n, err
}
