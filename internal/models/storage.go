// Package models defines the API payload structures for the publishing
// platform backend.
package models

// NodeKind distinguishes folders from files in a storage listing.
type NodeKind string

const (
	NodeKindFolder NodeKind = "folder"
	NodeKindFile   NodeKind = "file"
)

// RawStorageNode is one node of the recursive storage listing returned by
// GET /api/v1/storage/{container}/{item}/.
//
// Paths are absolute within the backend's namespace. The listing is
// read-only input: nothing in this tool mutates it.
type RawStorageNode struct {
	Path     string           `json:"path"`
	Kind     NodeKind         `json:"kind"`
	Size     int64            `json:"size,omitempty"`
	Children []RawStorageNode `json:"children,omitempty"`
}

// IsFolder reports whether the node is a folder.
func (n *RawStorageNode) IsFolder() bool {
	return n.Kind == NodeKindFolder
}
