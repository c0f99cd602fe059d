package types

import "time"

// NodeType discriminates files from folders in the VFS
type NodeType string

const (
	NodeFile   NodeType = "file"
	NodeFolder NodeType = "folder"
)

// FileNode is one file or folder entry in the VFS tree. ParentID is nil
// only for the root node; siblings never share a name.
type FileNode struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      NodeType  `json:"type"`
	ParentID  *string   `json:"parent_id,omitempty"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsFolder returns true if the node is a folder
func (n *FileNode) IsFolder() bool {
	return n.Type == NodeFolder
}

// TreeNode is a FileNode with its resolved children, as returned by the
// recursive tree builder.
type TreeNode struct {
	FileNode
	Children []*TreeNode `json:"children,omitempty"`
}
