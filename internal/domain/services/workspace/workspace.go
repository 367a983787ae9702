package workspace

import (
	"context"
	"time"

	models "lessonview/internal/domain/models/workspace"
)

// EditorService is the surface the HTTP layer and CLI use to drive the editor.
// It wraps the editor store with tree lookups and draft persistence.
type EditorService interface {
	// Tree returns the current sorted tree
	Tree(ctx context.Context) ([]*models.FileNode, error)

	// State returns the current editor snapshot
	State(ctx context.Context) (models.EditorState, error)

	// Open opens (or refreshes) the file at req.Path with its tree content
	Open(ctx context.Context, req *PathRequest) (*OpenResult, error)

	// Update replaces the buffer content of an open file
	Update(ctx context.Context, req *UpdateContentRequest) (*OpenResult, error)

	// Close closes the buffer at req.Path
	Close(ctx context.Context, req *PathRequest) (models.EditorState, error)

	// Activate makes req.Path the active buffer
	Activate(ctx context.Context, req *PathRequest) (models.EditorState, error)

	// ToggleDirectory flips the expanded flag of a directory
	ToggleDirectory(ctx context.Context, req *PathRequest) (models.EditorState, error)

	// CloseAll closes every buffer and discards persisted drafts
	CloseAll(ctx context.Context) (models.EditorState, error)
}

// Loader populates the editor store from the lesson catalog
type Loader interface {
	// Load fetches, builds, sorts and installs the tree
	Load(ctx context.Context, opts LoadOptions) (*LoadReport, error)

	// Reload is Load with the configured reload options
	Reload(ctx context.Context) (*LoadReport, error)

	// IsLoading is true until the first Load completes
	IsLoading() bool
}

// LoadOptions controls a single Load call
type LoadOptions struct {
	// ClearPersisted wipes stored drafts and closes every buffer once the new
	// tree is installed
	ClearPersisted bool
}

// LoadReport summarizes a completed load
type LoadReport struct {
	Files    int           `json:"files"`
	Failed   []string      `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// PathRequest addresses a single file or directory
type PathRequest struct {
	Path string `json:"path"`
}

// UpdateContentRequest replaces the content of an open buffer
type UpdateContentRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// OpenResult is the buffer touched by an operation plus the resulting state
type OpenResult struct {
	File          models.OpenFile    `json:"file"`
	ETag          string             `json:"etag"`
	DraftRestored bool               `json:"draft_restored"`
	State         models.EditorState `json:"state"`
}
