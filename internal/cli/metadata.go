package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shelfware/shelf-admin/internal/explorer"
)

// newMetadataCmd creates the 'metadata' command.
func newMetadataCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "metadata <container/item>",
		Short: "Show reconciled metadata for a shelf item",
		Long: `Show an item's metadata, reconciled field by field between the
storage config document and the catalog record. When the config document is
unreachable the catalog values are shown alone.

Examples:
  shelf-admin metadata books/alg-101
  shelf-admin metadata books/alg-101 --json`,
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
			if err := sess.MetadataError(); err != nil {
				GetLogger().Warn().Err(err).Msg("config document unavailable, showing catalog values only")
			}

			meta := sess.Metadata()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(meta)
			}

			printMetadata(cmd.OutOrStdout(), meta)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the reconciled metadata as JSON")
	return cmd
}

func printMetadata(w io.Writer, meta explorer.Metadata) {
	fields := []struct {
		label string
		value string
	}{
		{"Publisher", meta.Publisher},
		{"Name", meta.Name},
		{"Language", meta.Language},
		{"Category", meta.Category},
		{"Version", meta.Version},
		{"Status", meta.Status},
		{"Created", meta.CreatedAt},
		{"Updated", meta.UpdatedAt},
	}
	for _, f := range fields {
		value := f.value
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "%-10s %s\n", f.label+":", value)
	}
}
