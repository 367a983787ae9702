package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lessonview/internal/domain"
	models "lessonview/internal/domain/models/workspace"
	repo "lessonview/internal/domain/repositories/workspace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLessonRepository implements the LessonRepository interface
type PostgresLessonRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(config *RepositoryConfig) *PostgresLessonRepository {
	return &PostgresLessonRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

var _ repo.LessonRepository = (*PostgresLessonRepository)(nil)

// Name identifies the source in logs
func (r *PostgresLessonRepository) Name() string {
	return "postgres:" + r.tables.LessonFiles
}

// EnsureSchema creates the lesson table if it does not exist
func (r *PostgresLessonRepository) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			path       TEXT PRIMARY KEY,
			content    TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`, r.tables.LessonFiles)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query); err != nil {
		return fmt.Errorf("create %s: %w", r.tables.LessonFiles, err)
	}
	return nil
}

// Fetch returns the content stored for path
func (r *PostgresLessonRepository) Fetch(ctx context.Context, path string) (string, error) {
	query := fmt.Sprintf(`
		SELECT content
		FROM %s
		WHERE path = $1
	`, r.tables.LessonFiles)

	executor := GetExecutor(ctx, r.pool)
	var content string
	err := executor.QueryRow(ctx, query, path).Scan(&content)
	if err != nil {
		if IsPgNoRowsError(err) || IsPgUndefinedTableError(err) {
			return "", domain.NewNotFound("lesson file", path)
		}
		return "", fmt.Errorf("fetch lesson file %s: %w", path, err)
	}
	return content, nil
}

// Upsert inserts or replaces a lesson file and refreshes its UpdatedAt
func (r *PostgresLessonRepository) Upsert(ctx context.Context, file *models.LessonFile) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (path, content, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (path) DO UPDATE
		SET content = EXCLUDED.content,
		    updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`, r.tables.LessonFiles)

	if file.UpdatedAt.IsZero() {
		file.UpdatedAt = time.Now()
	}

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, file.Path, file.Content, file.UpdatedAt).Scan(&file.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert lesson file %s: %w", file.Path, err)
	}
	return nil
}

// List returns every stored lesson file ordered by path
func (r *PostgresLessonRepository) List(ctx context.Context) ([]models.LessonFile, error) {
	query := fmt.Sprintf(`
		SELECT path, content, updated_at
		FROM %s
		ORDER BY path
	`, r.tables.LessonFiles)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		if IsPgUndefinedTableError(err) {
			return []models.LessonFile{}, nil
		}
		return nil, fmt.Errorf("list lesson files: %w", err)
	}

	files, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.LessonFile, error) {
		var f models.LessonFile
		err := row.Scan(&f.Path, &f.Content, &f.UpdatedAt)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan lesson files: %w", err)
	}
	return files, nil
}

// DeleteAll removes every stored lesson file
func (r *PostgresLessonRepository) DeleteAll(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM %s`, r.tables.LessonFiles)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("delete lesson files: %w", err)
	}
	r.logger.Debug("lesson files deleted", "table", r.tables.LessonFiles, "rows", tag.RowsAffected())
	return nil
}
