package workspace

// NodeKind distinguishes files from directories in the tree
type NodeKind string

const (
	KindFile      NodeKind = "file"
	KindDirectory NodeKind = "directory"
)

// FileNode is one path segment of the lesson tree.
//
// Directories never carry Content and files never carry Children.
// ID and Path are both the full slash-separated path.
type FileNode struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Path     string      `json:"path"`
	Kind     NodeKind    `json:"type"`
	Content  *string     `json:"content,omitempty"`  // Files only
	Children []*FileNode `json:"children,omitempty"` // Directories only
	Expanded bool        `json:"expanded,omitempty"` // Directories only
}

// IsDir reports whether the node is a directory
func (n *FileNode) IsDir() bool {
	return n.Kind == KindDirectory
}

// ContentString returns the file content, or "" for directories
func (n *FileNode) ContentString() string {
	if n.Content == nil {
		return ""
	}
	return *n.Content
}

// NewFileNode creates a file node carrying content
func NewFileNode(name, path, content string) *FileNode {
	return &FileNode{
		ID:      path,
		Name:    name,
		Path:    path,
		Kind:    KindFile,
		Content: &content,
	}
}

// NewDirectoryNode creates a collapsed, empty directory node
func NewDirectoryNode(name, path string) *FileNode {
	return &FileNode{
		ID:       path,
		Name:     name,
		Path:     path,
		Kind:     KindDirectory,
		Children: []*FileNode{},
	}
}

// SourceFile is a raw (path, content) pair fed to the tree builder
type SourceFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// FindNode walks the tree depth-first and returns the node with the given path
func FindNode(nodes []*FileNode, path string) *FileNode {
	for _, node := range nodes {
		if node.Path == path {
			return node
		}
		if node.IsDir() {
			if found := FindNode(node.Children, path); found != nil {
				return found
			}
		}
	}
	return nil
}

// Walk visits every node in pre-order with its depth (roots are depth 0)
func Walk(nodes []*FileNode, fn func(node *FileNode, depth int)) {
	walk(nodes, 0, fn)
}

func walk(nodes []*FileNode, depth int, fn func(node *FileNode, depth int)) {
	for _, node := range nodes {
		fn(node, depth)
		if node.IsDir() {
			walk(node.Children, depth+1, fn)
		}
	}
}
