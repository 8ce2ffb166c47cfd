package cli

import (
	"fmt"

	"github.com/shelfware/shelf-admin/internal/api"
	"github.com/shelfware/shelf-admin/internal/events"
	"github.com/shelfware/shelf-admin/internal/explorer"
	"github.com/shelfware/shelf-admin/internal/models"
)

// openSession loads configuration, builds the API client, and opens an
// explorer session for one item. The catalog record is fetched up front as
// the metadata fallback; when the catalog itself is unreachable the session
// runs with an empty baseline rather than failing the command.
func openSession(container, item string, bus *events.EventBus) (*explorer.Session, *api.ItemBackend, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	client, err := api.NewClient(cfg, GetLogger())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create API client: %w", err)
	}

	fallback, err := client.CatalogRecord(GetContext(), container, item)
	if err != nil {
		GetLogger().Warn().Err(err).Msg("catalog record unavailable, metadata falls back to an empty baseline")
		fallback = models.ItemRecord{}
	}

	backend := client.Item(container, item)
	return explorer.NewSession(container, item, backend, fallback, bus, GetLogger()), backend, nil
}

// formatSize renders a byte count for humans.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
