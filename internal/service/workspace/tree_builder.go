package workspace

import (
	"slices"
	"strings"

	models "lessonview/internal/domain/models/workspace"
)

// BuildTree converts flat (path, content) pairs into a node tree, synthesizing
// a directory for every intermediate path segment.
//
// Input is processed in lexicographic path order so parents are always seen
// consistently; roots and children keep that first-seen order (use TreeSorter
// for display order). Paths are not validated: empty segments produce nodes
// with empty names, and duplicate paths are a caller error.
func BuildTree(files []models.SourceFile) []*models.FileNode {
	sorted := slices.Clone(files)
	slices.SortFunc(sorted, func(a, b models.SourceFile) int {
		return strings.Compare(a.Path, b.Path)
	})

	// Path index for this call only
	index := make(map[string]*models.FileNode, len(sorted))
	roots := make([]*models.FileNode, 0)

	for _, file := range sorted {
		segments := strings.Split(file.Path, "/")
		var parent *models.FileNode
		currentPath := ""

		for i, segment := range segments {
			if i == 0 {
				currentPath = segment
			} else {
				currentPath = currentPath + "/" + segment
			}

			if i == len(segments)-1 {
				node := models.NewFileNode(segment, currentPath, file.Content)
				index[currentPath] = node
				roots = attach(roots, parent, node)
				break
			}

			node, exists := index[currentPath]
			if !exists {
				node = models.NewDirectoryNode(segment, currentPath)
				index[currentPath] = node
				roots = attach(roots, parent, node)
			}
			if !node.IsDir() {
				// A file already occupies this prefix; nothing can hang below it
				break
			}
			parent = node
		}
	}

	return roots
}

// attach appends node to parent's children, or to roots when parent is nil
func attach(roots []*models.FileNode, parent, node *models.FileNode) []*models.FileNode {
	if parent == nil {
		return append(roots, node)
	}
	parent.Children = append(parent.Children, node)
	return roots
}
