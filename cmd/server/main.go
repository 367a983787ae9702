package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"lessonview/internal/bootstrap"
	"lessonview/internal/catalog"
	"lessonview/internal/config"
	repo "lessonview/internal/domain/repositories/workspace"
	svc "lessonview/internal/domain/services/workspace"
	"lessonview/internal/handler"
	"lessonview/internal/middleware"
	"lessonview/internal/service/workspace"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, logCloser, err := config.NewLogger(cfg, "server")
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"content_source", cfg.ContentSource,
		"strict_editor", cfg.StrictEditor,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Catalog
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	logger.Info("catalog loaded", "name", cat.Name, "files", len(cat.Files))

	// Content source
	content, err := bootstrap.OpenContent(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open content source: %v", err)
	}
	defer content.Close()

	// Drafts (optional)
	var drafts repo.DraftStore
	draftStore, err := bootstrap.OpenDrafts(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open drafts: %v", err)
	}
	if draftStore != nil {
		defer draftStore.Close()
		drafts = draftStore
	}

	// Editor store
	storeOpts := []workspace.StoreOption{workspace.WithStoreLogger(logger)}
	if cfg.StrictEditor {
		storeOpts = append(storeOpts, workspace.WithStrictPaths())
	}
	store := workspace.NewStore(storeOpts...)
	defer store.Close()

	sorter, err := workspace.NewTreeSorter(cfg.Locale)
	if err != nil {
		log.Fatalf("Failed to create tree sorter: %v", err)
	}

	loader := workspace.NewLoader(workspace.LoaderConfig{
		Paths:         cat.Paths(),
		Concurrency:   cfg.FetchConcurrency,
		ReloadOptions: svc.LoadOptions{ClearPersisted: cfg.ClearDraftsOnReload},
	}, content.Source, drafts, store, sorter, logger)

	editor := workspace.NewEditorService(store, drafts, cfg.RestoreDrafts, logger)

	// Initial load runs in the background; /health reports loading until it finishes
	go func() {
		if _, err := loader.Load(ctx, svc.LoadOptions{}); err != nil && ctx.Err() == nil {
			logger.Error("initial load failed", "error", err)
		}
	}()

	// Dev reload watcher
	if cfg.Watch && content.Root != "" {
		watcher, err := workspace.NewWatcher(content.Root, loader, cfg.ReloadDebounce, logger)
		if err != nil {
			logger.Warn("content watcher disabled", "root", content.Root, "error", err)
		} else {
			go watcher.Run(ctx)
		}
	}

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux,
		handler.NewTreeHandler(editor, loader, logger),
		handler.NewEditorHandler(editor, logger),
	)

	// Build middleware chain
	// Order: CORS → RequestID → AccessLog → Recovery → Routes
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)
	h = middleware.AccessLog(logger)(h)
	h = middleware.RequestID()(h)

	// CORS - outermost so OPTIONS pre-flight requests are answered directly
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposedHeaders: []string{"ETag", "X-Request-ID"},
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
