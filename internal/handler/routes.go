package handler

import "net/http"

// RegisterRoutes mounts the API on mux (Go 1.22+ method patterns)
func RegisterRoutes(mux *http.ServeMux, tree *TreeHandler, editor *EditorHandler) {
	mux.HandleFunc("GET /health", tree.Health)

	// Tree
	mux.HandleFunc("GET /api/tree", tree.GetTree)
	mux.HandleFunc("POST /api/reload", tree.Reload)
	mux.HandleFunc("POST /api/directories/toggle", editor.ToggleDirectory)

	// Buffers
	mux.HandleFunc("GET /api/state", editor.GetState)
	mux.HandleFunc("POST /api/files/open", editor.OpenFile)
	mux.HandleFunc("POST /api/files/close", editor.CloseFile)
	mux.HandleFunc("POST /api/files/activate", editor.ActivateFile)
	mux.HandleFunc("PUT /api/files/content", editor.UpdateContent)
	mux.HandleFunc("DELETE /api/files", editor.CloseAll)
}
