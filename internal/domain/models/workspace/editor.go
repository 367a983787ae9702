package workspace

import "time"

// OpenFile is an editable buffer mirroring one file node.
// Modified always equals Content != OriginalContent.
type OpenFile struct {
	Path            string `json:"path"`
	Content         string `json:"content"`
	OriginalContent string `json:"original_content"`
	Modified        bool   `json:"modified"`
}

// EditorState is the aggregate of tree, open buffers (in tab order) and the active selection.
// Values are treated as immutable: transitions return a new EditorState.
type EditorState struct {
	Tree       []*FileNode `json:"tree"`
	OpenFiles  []OpenFile  `json:"open_files"`
	ActiveFile *string     `json:"active_file"` // nil = nothing active
}

// FindOpenFile returns the index of the open buffer with the given path, or -1
func (s EditorState) FindOpenFile(path string) int {
	for i := range s.OpenFiles {
		if s.OpenFiles[i].Path == path {
			return i
		}
	}
	return -1
}

// IsOpen reports whether a buffer with the given path is open
func (s EditorState) IsOpen(path string) bool {
	return s.FindOpenFile(path) >= 0
}

// ActivePath returns the active path, or "" when nothing is active
func (s EditorState) ActivePath() string {
	if s.ActiveFile == nil {
		return ""
	}
	return *s.ActiveFile
}

// Draft is a persisted, unsaved edit of an open file.
// BaseHash is the hash of the original content the edit was made against.
type Draft struct {
	Path      string    `json:"path"`
	Content   string    `json:"content"`
	BaseHash  uint64    `json:"base_hash"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LessonFile is a lesson file as stored by a database-backed content source
type LessonFile struct {
	Path      string    `json:"path" db:"path"`
	Content   string    `json:"content" db:"content"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
