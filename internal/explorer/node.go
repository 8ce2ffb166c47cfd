// Package explorer turns a backend's raw storage listing into a navigable,
// path-consistent view model and binds selection to media previews.
package explorer

import (
	"strings"

	"github.com/shelfware/shelf-admin/internal/models"
)

// Node is one node of the normalized explorer tree. Derived from the raw
// listing, immutable per load cycle, owned exclusively by the session.
type Node struct {
	// ID is the node's absolute path (unique within a listing).
	ID string `json:"id"`

	// Name is the display name derived from the path.
	Name string `json:"name"`

	Kind models.NodeKind `json:"kind"`
	Size int64           `json:"size"`

	// AbsolutePath is the backend path verbatim.
	AbsolutePath string `json:"absolutePath"`

	// RelativePath is AbsolutePath with the session's root prefix stripped.
	// Never starts with a separator.
	RelativePath string `json:"relativePath"`

	Children []*Node `json:"children,omitempty"`
}

// IsFolder reports whether the node is a folder.
func (n *Node) IsFolder() bool {
	return n.Kind == models.NodeKindFolder
}

// Normalize converts a raw listing into an explorer tree, computing every
// node's relative path against rootPrefix. The input is never mutated and
// every call produces a fresh tree. Child order is preserved as the backend
// supplied it.
func Normalize(raw *models.RawStorageNode, rootPrefix string) *Node {
	if raw == nil {
		return nil
	}

	rel := strings.TrimPrefix(raw.Path, rootPrefix)
	rel = strings.TrimLeft(rel, "/")

	// Display names come from the relative path; an empty relative path
	// (the root itself) falls back to the absolute path.
	basis := rel
	if basis == "" {
		basis = raw.Path
	}

	var name string
	if raw.IsFolder() {
		name = lastSegment(basis)
		if name == "" {
			name = "folder"
		}
	} else {
		name = lastSegment(basis)
		if name == "" {
			name = "file"
		}
	}

	node := &Node{
		ID:           raw.Path,
		Name:         name,
		Kind:         raw.Kind,
		Size:         raw.Size,
		AbsolutePath: raw.Path,
		RelativePath: rel,
	}

	if len(raw.Children) > 0 {
		node.Children = make([]*Node, 0, len(raw.Children))
		for i := range raw.Children {
			node.Children = append(node.Children, Normalize(&raw.Children[i], rootPrefix))
		}
	}

	return node
}

// lastSegment returns the last non-empty '/'-separated segment of s,
// ignoring trailing separators. Empty when no segment exists.
func lastSegment(s string) string {
	parts := strings.Split(s, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			return parts[i]
		}
	}
	return ""
}

// Find walks the tree for the node with the given relative path.
func (n *Node) Find(relPath string) *Node {
	if n == nil {
		return nil
	}
	if n.RelativePath == relPath {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(relPath); found != nil {
			return found
		}
	}
	return nil
}
