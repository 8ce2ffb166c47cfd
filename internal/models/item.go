package models

// ItemRecord is the catalog record for a shelf item as returned by the
// platform's listing endpoints. It serves as the fallback source when the
// item's storage config document is missing fields (or missing entirely).
type ItemRecord struct {
	ID        string `json:"id"`
	Publisher string `json:"publisher,omitempty"`
	Name      string `json:"name,omitempty"`
	Language  string `json:"language,omitempty"`
	Category  string `json:"category,omitempty"`
	Version   string `json:"version,omitempty"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
