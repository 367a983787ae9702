package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lessonview/internal/config"
	"lessonview/internal/domain"
	models "lessonview/internal/domain/models/workspace"
	repo "lessonview/internal/domain/repositories/workspace"
	svc "lessonview/internal/domain/services/workspace"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/zeebo/xxh3"
)

// ContentHash fingerprints buffer content for drafts and ETags
func ContentHash(content string) uint64 {
	return xxh3.HashString(content)
}

// ETag formats ContentHash as unquoted hex
func ETag(content string) string {
	return fmt.Sprintf("%016x", ContentHash(content))
}

// editorService implements the EditorService interface on top of a Store.
// Draft persistence lives here, never in the Store.
type editorService struct {
	store         *Store
	drafts        repo.DraftStore // optional
	restoreDrafts bool
	logger        *slog.Logger
	now           func() time.Time
}

// NewEditorService creates the editor service. drafts may be nil.
func NewEditorService(store *Store, drafts repo.DraftStore, restoreDrafts bool, logger *slog.Logger) svc.EditorService {
	return &editorService{
		store:         store,
		drafts:        drafts,
		restoreDrafts: restoreDrafts,
		logger:        logger,
		now:           time.Now,
	}
}

// Tree returns the current sorted tree
func (s *editorService) Tree(ctx context.Context) ([]*models.FileNode, error) {
	state, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return state.Tree, nil
}

// State returns the current editor snapshot
func (s *editorService) State(ctx context.Context) (models.EditorState, error) {
	return s.store.Snapshot(ctx)
}

// Open opens the file with the content it has in the tree. Re-opening an
// already open file refreshes it and discards the edit (and its draft).
// Opening a file that was not open restores a persisted draft, unless the
// draft was made against different original content.
func (s *editorService) Open(ctx context.Context, req *svc.PathRequest) (*svc.OpenResult, error) {
	if err := validatePathRequest(req); err != nil {
		return nil, err
	}

	current, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	node := models.FindNode(current.Tree, req.Path)
	if node == nil || node.IsDir() {
		return nil, domain.NewNotFound("file", req.Path)
	}
	original := node.ContentString()

	state, wasOpen, err := s.store.OpenFileDetail(ctx, req.Path, original)
	if err != nil {
		return nil, err
	}

	restored := false
	if s.drafts != nil {
		if wasOpen || !s.restoreDrafts {
			s.deleteDraft(ctx, req.Path)
		} else {
			state, restored, err = s.restoreDraft(ctx, state, req.Path, original)
			if err != nil {
				return nil, err
			}
		}
	}

	s.logger.Info("file opened",
		"path", req.Path,
		"reopened", wasOpen,
		"draft_restored", restored,
	)

	return buildResult(state, req.Path, restored)
}

func (s *editorService) restoreDraft(ctx context.Context, state models.EditorState, path, original string) (models.EditorState, bool, error) {
	draft, err := s.drafts.Get(ctx, path)
	if err != nil {
		s.logger.Warn("failed to read draft", "path", path, "error", err)
		return state, false, nil
	}
	if draft == nil {
		return state, false, nil
	}

	if draft.BaseHash != ContentHash(original) {
		s.logger.Info("discarding stale draft", "path", path, "draft_updated_at", draft.UpdatedAt)
		s.deleteDraft(ctx, path)
		return state, false, nil
	}
	if draft.Content == original {
		s.deleteDraft(ctx, path)
		return state, false, nil
	}

	state, err = s.store.UpdateFileContent(ctx, path, draft.Content)
	if err != nil {
		return state, false, err
	}
	return state, true, nil
}

// Update replaces the content of an open buffer and persists it as a draft
// while it differs from the original
func (s *editorService) Update(ctx context.Context, req *svc.UpdateContentRequest) (*svc.OpenResult, error) {
	if err := validateUpdateRequest(req); err != nil {
		return nil, err
	}

	state, err := s.store.UpdateFileContent(ctx, req.Path, req.Content)
	if err != nil {
		return nil, err
	}
	i := state.FindOpenFile(req.Path)
	if i < 0 {
		return nil, domain.NewNotFound("open file", req.Path)
	}
	file := state.OpenFiles[i]

	if s.drafts != nil {
		if file.Modified {
			draft := &models.Draft{
				Path:      file.Path,
				Content:   file.Content,
				BaseHash:  ContentHash(file.OriginalContent),
				UpdatedAt: s.now(),
			}
			if err := s.drafts.Save(ctx, draft); err != nil {
				s.logger.Warn("failed to persist draft", "path", file.Path, "error", err)
			}
		} else {
			s.deleteDraft(ctx, file.Path)
		}
	}

	return buildResult(state, req.Path, false)
}

// Close closes the buffer and drops its draft
func (s *editorService) Close(ctx context.Context, req *svc.PathRequest) (models.EditorState, error) {
	if err := validatePathRequest(req); err != nil {
		return models.EditorState{}, err
	}

	state, err := s.store.CloseFile(ctx, req.Path)
	if err != nil {
		return models.EditorState{}, err
	}
	if s.drafts != nil {
		s.deleteDraft(ctx, req.Path)
	}
	return state, nil
}

// Activate switches the active buffer
func (s *editorService) Activate(ctx context.Context, req *svc.PathRequest) (models.EditorState, error) {
	if err := validatePathRequest(req); err != nil {
		return models.EditorState{}, err
	}
	return s.store.SetActiveFile(ctx, req.Path)
}

// ToggleDirectory expands or collapses a directory
func (s *editorService) ToggleDirectory(ctx context.Context, req *svc.PathRequest) (models.EditorState, error) {
	if err := validatePathRequest(req); err != nil {
		return models.EditorState{}, err
	}
	return s.store.ToggleDirectory(ctx, req.Path)
}

// CloseAll closes every buffer and discards all drafts
func (s *editorService) CloseAll(ctx context.Context) (models.EditorState, error) {
	state, err := s.store.ClearAllFiles(ctx)
	if err != nil {
		return models.EditorState{}, err
	}
	if s.drafts != nil {
		if err := s.drafts.Clear(ctx); err != nil {
			s.logger.Warn("failed to clear drafts", "error", err)
		}
	}
	return state, nil
}

func (s *editorService) deleteDraft(ctx context.Context, path string) {
	if err := s.drafts.Delete(ctx, path); err != nil {
		s.logger.Warn("failed to delete draft", "path", path, "error", err)
	}
}

func buildResult(state models.EditorState, path string, restored bool) (*svc.OpenResult, error) {
	i := state.FindOpenFile(path)
	if i < 0 {
		return nil, domain.NewNotFound("open file", path)
	}
	file := state.OpenFiles[i]
	return &svc.OpenResult{
		File:          file,
		ETag:          ETag(file.Content),
		DraftRestored: restored,
		State:         state,
	}, nil
}

func validatePathRequest(req *svc.PathRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", domain.ErrValidation)
	}
	err := validation.ValidateStruct(req,
		validation.Field(&req.Path,
			validation.Required,
			validation.Length(1, config.MaxPathLength),
		),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func validateUpdateRequest(req *svc.UpdateContentRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", domain.ErrValidation)
	}
	err := validation.ValidateStruct(req,
		validation.Field(&req.Path,
			validation.Required,
			validation.Length(1, config.MaxPathLength),
		),
		// Empty content is a legitimate edit, so only the upper bound applies
		validation.Field(&req.Content,
			validation.Length(0, config.MaxContentBytes),
		),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}
