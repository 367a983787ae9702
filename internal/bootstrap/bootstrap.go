// Package bootstrap builds the collaborators shared by the server and the CLI
// from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"lessonview/internal/config"
	"lessonview/internal/domain"
	"lessonview/internal/domain/repositories"
	repo "lessonview/internal/domain/repositories/workspace"
	"lessonview/internal/repository/filesystem"
	"lessonview/internal/repository/httpsource"
	"lessonview/internal/repository/postgres"
	"lessonview/internal/repository/sqlite"
)

// Content is an opened content source plus whatever must be released with it
type Content struct {
	Source repo.ContentSource

	// Root is the watched directory for the filesystem source, "" otherwise
	Root string

	closers []func()
}

// Close releases pools and connections held by the source
func (c *Content) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// OpenContent builds the content source selected by cfg.ContentSource
func OpenContent(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Content, error) {
	switch cfg.ContentSource {
	case config.SourceFilesystem:
		return &Content{
			Source: filesystem.NewSource(cfg.ContentRoot),
			Root:   cfg.ContentRoot,
		}, nil

	case config.SourceHTTP:
		client := &http.Client{Timeout: cfg.HTTPTimeout}
		src, err := httpsource.NewSource(cfg.ContentBaseURL, client)
		if err != nil {
			return nil, err
		}
		return &Content{Source: src}, nil

	case config.SourcePostgres:
		lessons, _, closeFn, err := OpenLessonRepository(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return &Content{Source: lessons, closers: []func(){closeFn}}, nil

	default:
		return nil, domain.NewValidation("CONTENT_SOURCE", "unknown content source %q (want %s, %s or %s)",
			cfg.ContentSource, config.SourceFilesystem, config.SourceHTTP, config.SourcePostgres)
	}
}

// OpenLessonRepository connects to Postgres and ensures the lesson table exists.
// The returned func closes the pool.
func OpenLessonRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*postgres.PostgresLessonRepository, repositories.TransactionManager, func(), error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, nil, domain.NewValidation("DATABASE_URL", "DATABASE_URL is required for the postgres content source")
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	lessons := postgres.NewLessonRepository(&postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	})
	if err := lessons.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	logger.Info("database connected", "table", tables.LessonFiles)
	return lessons, postgres.NewTransactionManager(pool, logger), pool.Close, nil
}

// OpenDrafts opens the SQLite draft store, or returns nil when DraftsDBPath is empty
func OpenDrafts(cfg *config.Config, logger *slog.Logger) (*sqlite.DraftStore, error) {
	if cfg.DraftsDBPath == "" {
		logger.Info("draft persistence disabled")
		return nil, nil
	}
	drafts, err := sqlite.Open(cfg.DraftsDBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("open drafts: %w", err)
	}
	return drafts, nil
}
