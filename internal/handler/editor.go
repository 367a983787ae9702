package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	models "lessonview/internal/domain/models/workspace"
	svc "lessonview/internal/domain/services/workspace"
	"lessonview/internal/httputil"
)

type pathActionFn func(ctx context.Context, req *svc.PathRequest) (models.EditorState, error)

// EditorHandler handles HTTP requests for open buffers and directory state
type EditorHandler struct {
	editor svc.EditorService
	logger *slog.Logger
}

// NewEditorHandler creates a new editor handler
func NewEditorHandler(editor svc.EditorService, logger *slog.Logger) *EditorHandler {
	return &EditorHandler{
		editor: editor,
		logger: logger,
	}
}

// GetState returns open files and the active file
// GET /api/state
func (h *EditorHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.editor.State(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, state)
}

// OpenFile opens a file from the tree
// POST /api/files/open
func (h *EditorHandler) OpenFile(w http.ResponseWriter, r *http.Request) {
	var req svc.PathRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.editor.Open(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	respondOpenResult(w, result)
}

// UpdateContent replaces the content of an open buffer
// PUT /api/files/content
func (h *EditorHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	var req svc.UpdateContentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.editor.Update(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	respondOpenResult(w, result)
}

// CloseFile closes a buffer
// POST /api/files/close
func (h *EditorHandler) CloseFile(w http.ResponseWriter, r *http.Request) {
	h.pathAction(w, r, h.editor.Close)
}

// ActivateFile switches the active buffer
// POST /api/files/activate
func (h *EditorHandler) ActivateFile(w http.ResponseWriter, r *http.Request) {
	h.pathAction(w, r, h.editor.Activate)
}

// ToggleDirectory expands or collapses a directory
// POST /api/directories/toggle
func (h *EditorHandler) ToggleDirectory(w http.ResponseWriter, r *http.Request) {
	h.pathAction(w, r, h.editor.ToggleDirectory)
}

// CloseAll closes every buffer
// DELETE /api/files
func (h *EditorHandler) CloseAll(w http.ResponseWriter, r *http.Request) {
	state, err := h.editor.CloseAll(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	h.logger.Info("all files closed", "request_id", httputil.GetRequestID(r))
	httputil.RespondJSON(w, http.StatusOK, state)
}

func (h *EditorHandler) pathAction(w http.ResponseWriter, r *http.Request, action pathActionFn) {
	var req svc.PathRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := action(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, state)
}

func respondOpenResult(w http.ResponseWriter, result *svc.OpenResult) {
	w.Header().Set("ETag", strconv.Quote(result.ETag))
	httputil.RespondJSON(w, http.StatusOK, result)
}
