package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shelfware/shelf-admin/internal/explorer"
	"github.com/shelfware/shelf-admin/internal/preview"
)

// newTreeCmd creates the 'tree' command.
func newTreeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tree <container/item>",
		Short: "Show the object tree of a shelf item",
		Long: `List the storage objects of a shelf item as a tree. Previewable
media files are annotated with their kind.

Examples:
  # Human-readable tree
  shelf-admin tree books/alg-101

  # Normalized tree as JSON (for scripting)
  shelf-admin tree books/alg-101 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, item, err := splitItemRef(args[0])
			if err != nil {
				return err
			}

			sess, _, err := openSession(container, item, nil)
			if err != nil {
				return err
			}
			defer sess.Close()

			sess.Load(GetContext())
			if err := sess.TreeError(); err != nil {
				return fmt.Errorf("failed to list storage: %w", err)
			}

			root := sess.Tree()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(root)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s/\n", root.Name)
			renderTree(cmd.OutOrStdout(), root, "")
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the normalized tree as JSON")
	return cmd
}

// renderTree prints n's children with box-drawing connectors.
func renderTree(w io.Writer, n *explorer.Node, prefix string) {
	for i, c := range n.Children {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(n.Children)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, connector, describeNode(c))
		if c.IsFolder() {
			renderTree(w, c, childPrefix)
		}
	}
}

func describeNode(n *explorer.Node) string {
	if n.IsFolder() {
		return n.Name + "/"
	}
	if kind := preview.Classify(n.RelativePath, false); kind.Previewable() {
		return fmt.Sprintf("%s  [%s, %s]", n.Name, kind, formatSize(n.Size))
	}
	return fmt.Sprintf("%s  [%s]", n.Name, formatSize(n.Size))
}
