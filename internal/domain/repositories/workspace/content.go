package workspace

import (
	"context"

	models "lessonview/internal/domain/models/workspace"
)

// ContentSource retrieves raw lesson file contents by catalog path.
// A missing file is reported with an error wrapping domain.ErrNotFound.
type ContentSource interface {
	// Fetch returns the raw text of the file at path
	Fetch(ctx context.Context, path string) (string, error)

	// Name identifies the source in logs
	Name() string
}

// LessonRepository is a writable, database-backed content source
type LessonRepository interface {
	ContentSource

	// Upsert inserts or replaces a lesson file
	Upsert(ctx context.Context, file *models.LessonFile) error

	// List returns every stored lesson file ordered by path (content included)
	List(ctx context.Context) ([]models.LessonFile, error)

	// DeleteAll removes every stored lesson file
	DeleteAll(ctx context.Context) error
}

// DraftStore persists unsaved edits outside the editor state.
// The editor store itself never touches it.
type DraftStore interface {
	// Save inserts or replaces the draft for draft.Path
	Save(ctx context.Context, draft *models.Draft) error

	// Get returns the draft for path, or nil if none exists
	Get(ctx context.Context, path string) (*models.Draft, error)

	// Delete removes the draft for path (no-op if absent)
	Delete(ctx context.Context, path string) error

	// List returns all drafts ordered by path
	List(ctx context.Context) ([]models.Draft, error)

	// Clear removes every draft
	Clear(ctx context.Context) error
}
