package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/shelfware/shelf-admin/internal/events"
	"github.com/shelfware/shelf-admin/internal/explorer"
	"github.com/shelfware/shelf-admin/internal/preview"
	"github.com/shelfware/shelf-admin/internal/progress"
)

// newPreviewCmd creates the 'preview' command.
func newPreviewCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "preview <container/item> <path>",
		Short: "Fetch the media preview for one object",
		Long: `Fetch a previewable object (image, audio, or video) through the
preview pipeline and write it to a local file. Audio and video are requested
as byte-range streams; images as plain fetches. Non-media objects are
rejected without touching the network.

Examples:
  # Download a cover image to ./cover.png
  shelf-admin preview books/alg-101 assets/cover.png

  # Download an audio sample to a chosen path
  shelf-admin preview books/alg-101 assets/intro.mp3 --out /tmp/intro.mp3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, item, err := splitItemRef(args[0])
			if err != nil {
				return err
			}
			relPath := strings.TrimLeft(args[1], "/")

			bus := events.NewEventBus(0)
			defer bus.Close()
			previewCh := bus.Subscribe(explorer.EventPreviewChanged)

			sess, backend, err := openSession(container, item, bus)
			if err != nil {
				return err
			}
			defer sess.Close()

			ctx := GetContext()
			sess.Load(ctx)
			if err := sess.TreeError(); err != nil {
				return fmt.Errorf("failed to list storage: %w", err)
			}

			node := sess.Tree().Find(relPath)
			if node == nil {
				return fmt.Errorf("no object at %q in %s/%s", relPath, container, item)
			}
			kind := preview.Classify(node.RelativePath, node.IsFolder())
			if !kind.Previewable() {
				return fmt.Errorf("%s has no media preview (%s)", relPath, kind)
			}

			reporter := progress.ForTerminal()
			var startOnce sync.Once
			sess.SetResolver(&preview.StreamResolver{
				Source: backend,
				Progress: func(current, total int64) {
					startOnce.Do(func() {
						reporter.Start(total, "fetching "+node.Name)
					})
					reporter.Update(current)
				},
			})

			sess.Select(node)

			for {
				select {
				case ev := <-previewCh:
					state := ev.(*explorer.PreviewChangedEvent).State
					switch state.Status {
					case preview.StatusReady:
						reporter.Finish()
						return savePreview(cmd.OutOrStdout(), state, node, outPath)
					case preview.StatusError:
						reporter.Finish()
						return fmt.Errorf("preview failed for %s: %s", relPath, state.Message)
					}
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination path (default: the object's name in the current directory)")
	return cmd
}

// savePreview copies the resolved handle's bytes to the destination. The
// handle stays owned by the session; it is released when the session closes.
func savePreview(w io.Writer, state preview.State, node *explorer.Node, outPath string) error {
	if outPath == "" {
		outPath = node.Name
	}

	src, err := os.Open(state.Handle.Path())
	if err != nil {
		return fmt.Errorf("failed to open fetched preview: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, src)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	fmt.Fprintf(w, "%s: %s preview, %s written to %s\n", node.RelativePath, state.Kind, formatSize(n), outPath)
	return nil
}
