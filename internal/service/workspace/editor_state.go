package workspace

import (
	"slices"
	"strings"

	"lessonview/internal/domain"
	models "lessonview/internal/domain/models/workspace"
)

// Editor state transitions. Each takes a state value and returns a new one;
// the input's slices and tree nodes are never written to.

func setTree(s models.EditorState, tree []*models.FileNode) models.EditorState {
	s.Tree = tree
	return s
}

// openFile appends a new buffer, or refreshes an existing one to content
// (discarding any edit), then activates it.
func openFile(s models.EditorState, path, content string) models.EditorState {
	files := slices.Clone(s.OpenFiles)
	if i := s.FindOpenFile(path); i >= 0 {
		files[i] = models.OpenFile{
			Path:            path,
			Content:         content,
			OriginalContent: content,
			Modified:        false,
		}
	} else {
		files = append(files, models.OpenFile{
			Path:            path,
			Content:         content,
			OriginalContent: content,
			Modified:        false,
		})
	}
	s.OpenFiles = files
	s.ActiveFile = &path
	return s
}

// closeFile removes the buffer. Closing the active buffer activates the last
// remaining one, or nothing. Unknown paths are a no-op.
func closeFile(s models.EditorState, path string) models.EditorState {
	i := s.FindOpenFile(path)
	if i < 0 {
		return s
	}
	files := slices.Delete(slices.Clone(s.OpenFiles), i, i+1)
	s.OpenFiles = files

	if s.ActiveFile != nil && *s.ActiveFile == path {
		if len(files) == 0 {
			s.ActiveFile = nil
		} else {
			last := files[len(files)-1].Path
			s.ActiveFile = &last
		}
	}
	return s
}

func setActiveFile(s models.EditorState, path string) models.EditorState {
	s.ActiveFile = &path
	return s
}

// updateFileContent sets the buffer content and recomputes Modified.
// Unknown paths are a no-op.
func updateFileContent(s models.EditorState, path, content string) models.EditorState {
	i := s.FindOpenFile(path)
	if i < 0 {
		return s
	}
	files := slices.Clone(s.OpenFiles)
	files[i].Content = content
	files[i].Modified = content != files[i].OriginalContent
	s.OpenFiles = files
	return s
}

// toggleDirectory flips Expanded on the directory at path. Only the nodes on
// the way down are copied; everything else is shared with the old tree.
func toggleDirectory(s models.EditorState, path string) models.EditorState {
	if tree, ok := toggleIn(s.Tree, path); ok {
		s.Tree = tree
	}
	return s
}

func toggleIn(nodes []*models.FileNode, path string) ([]*models.FileNode, bool) {
	for i, node := range nodes {
		if !node.IsDir() {
			continue
		}
		if node.Path == path {
			clone := *node
			clone.Expanded = !node.Expanded
			out := slices.Clone(nodes)
			out[i] = &clone
			return out, true
		}
		if strings.HasPrefix(path, node.Path+"/") {
			children, ok := toggleIn(node.Children, path)
			if !ok {
				return nodes, false
			}
			clone := *node
			clone.Children = children
			out := slices.Clone(nodes)
			out[i] = &clone
			return out, true
		}
	}
	return nodes, false
}

func clearAllFiles(s models.EditorState) models.EditorState {
	s.OpenFiles = []models.OpenFile{}
	s.ActiveFile = nil
	return s
}

// requireOpen is the strict-mode guard for buffer operations
func requireOpen(s models.EditorState, path string) error {
	if !s.IsOpen(path) {
		return domain.NewNotFound("open file", path)
	}
	return nil
}

// requireDirectory is the strict-mode guard for ToggleDirectory
func requireDirectory(s models.EditorState, path string) error {
	node := models.FindNode(s.Tree, path)
	if node == nil || !node.IsDir() {
		return domain.NewNotFound("directory", path)
	}
	return nil
}
