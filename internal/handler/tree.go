package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	svc "lessonview/internal/domain/services/workspace"
	"lessonview/internal/httputil"
	"lessonview/internal/service/workspace"
)

// TreeHandler handles HTTP requests for the lesson tree
type TreeHandler struct {
	editor   svc.EditorService
	loader   svc.Loader
	renderer *workspace.TreeRenderer
	logger   *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(editor svc.EditorService, loader svc.Loader, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		editor:   editor,
		loader:   loader,
		renderer: workspace.NewTreeRenderer(workspace.RenderOptions{LineCounts: true}),
		logger:   logger,
	}
}

// GetTree returns the sorted lesson tree
// GET /api/tree?format=text
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.editor.Tree(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		httputil.RespondJSON(w, http.StatusOK, tree)
	case "text":
		httputil.RespondText(w, http.StatusOK, h.renderer.Render(tree)+"\n")
	default:
		httputil.RespondError(w, http.StatusBadRequest, "format must be json or text")
	}
}

// Reload refetches every catalog file and replaces the tree
// POST /api/reload
func (h *TreeHandler) Reload(w http.ResponseWriter, r *http.Request) {
	report, err := h.loader.Reload(r.Context())
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, context.Canceled) {
			level = slog.LevelDebug
		}
		h.logger.Log(r.Context(), level, "reload failed", "error", err, "request_id", httputil.GetRequestID(r))
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, report)
}

// Health reports liveness and whether the first load has finished
// GET /health
func (h *TreeHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"loading": h.loader.IsLoading(),
	})
}
