package explorer

import (
	"strings"

	"github.com/shelfware/shelf-admin/internal/models"
)

// Metadata is the canonical metadata view for a shelf item, reconciled from
// the storage config document and the catalog record. An empty string means
// the field is absent from both sources; accepted document values are always
// non-empty trimmed strings, so the zero value is unambiguous.
type Metadata struct {
	Publisher string `json:"publisher,omitempty"`
	Name      string `json:"name,omitempty"`
	Language  string `json:"language,omitempty"`
	Category  string `json:"category,omitempty"`
	Version   string `json:"version,omitempty"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Reconcile resolves each canonical field independently: the first alias key
// in the document holding a non-empty trimmed string wins, else the catalog
// record's field, else absent. Document and fallback values are never
// blended within a single field.
//
// A nil document (the config fetch failed or the document is missing) yields
// fallback-only metadata.
func Reconcile(doc map[string]any, fallback models.ItemRecord) Metadata {
	return Metadata{
		Publisher: resolveField(doc, fallback.Publisher, "publisher", "publisherName", "publisher_name"),
		Name:      resolveField(doc, fallback.Name, "name", "title", "itemName"),
		Language:  resolveField(doc, fallback.Language, "language", "lang", "locale"),
		Category:  resolveField(doc, fallback.Category, "category", "subject", "genre"),
		Version:   resolveField(doc, fallback.Version, "version", "rev", "revision"),
		Status:    resolveField(doc, fallback.Status, "status", "state"),
		CreatedAt: resolveField(doc, fallback.CreatedAt, "createdAt", "created_at", "created"),
		UpdatedAt: resolveField(doc, fallback.UpdatedAt, "updatedAt", "updated_at", "modified"),
	}
}

// resolveField tries the alias keys in priority order, accepting the first
// non-empty trimmed string value. Non-string values never match.
func resolveField(doc map[string]any, fallback string, aliases ...string) string {
	for _, key := range aliases {
		v, ok := doc[key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
