// Package sqlite persists editor drafts in a local SQLite file so unsaved
// edits survive a restart.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	models "lessonview/internal/domain/models/workspace"
	repo "lessonview/internal/domain/repositories/workspace"

	_ "modernc.org/sqlite"
)

// DraftStore implements the DraftStore interface on SQLite
type DraftStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

var _ repo.DraftStore = (*DraftStore)(nil)

// Open opens or creates the drafts database at path
func Open(path string, logger *slog.Logger) (*DraftStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create drafts dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open drafts database: %w", err)
	}
	// One writer; also keeps a single connection for the lifetime of the store
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure drafts database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS drafts (
			path       TEXT PRIMARY KEY,
			content    TEXT NOT NULL,
			base_hash  TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create drafts table: %w", err)
	}

	logger.Debug("drafts database opened", "path", path)
	return &DraftStore{db: db, path: path, logger: logger}, nil
}

// Close closes the database
func (s *DraftStore) Close() error {
	return s.db.Close()
}

// Save inserts or replaces the draft for draft.Path
func (s *DraftStore) Save(ctx context.Context, draft *models.Draft) error {
	if draft.UpdatedAt.IsZero() {
		draft.UpdatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO drafts (path, content, base_hash, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			content = excluded.content,
			base_hash = excluded.base_hash,
			updated_at = excluded.updated_at
	`, draft.Path, draft.Content, formatHash(draft.BaseHash), draft.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("save draft %s: %w", draft.Path, err)
	}
	return nil
}

// Get returns the draft for path, or nil if none exists
func (s *DraftStore) Get(ctx context.Context, path string) (*models.Draft, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT path, content, base_hash, updated_at
		FROM drafts
		WHERE path = ?
	`, path)

	draft, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get draft %s: %w", path, err)
	}
	return draft, nil
}

// Delete removes the draft for path
func (s *DraftStore) Delete(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE path = ?`, path); err != nil {
		return fmt.Errorf("delete draft %s: %w", path, err)
	}
	return nil
}

// List returns all drafts ordered by path
func (s *DraftStore) List(ctx context.Context) ([]models.Draft, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, content, base_hash, updated_at
		FROM drafts
		ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	drafts := []models.Draft{}
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		drafts = append(drafts, *d)
	}
	return drafts, rows.Err()
}

// Clear removes every draft
func (s *DraftStore) Clear(ctx context.Context) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM drafts`)
	if err != nil {
		return fmt.Errorf("clear drafts: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.logger.Info("drafts cleared", "count", n)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(row scanner) (*models.Draft, error) {
	var (
		d       models.Draft
		hash    string
		updated int64
	)
	if err := row.Scan(&d.Path, &d.Content, &hash, &updated); err != nil {
		return nil, err
	}
	baseHash, err := strconv.ParseUint(hash, 16, 64)
	if err != nil {
		return nil, fmt.Errorf("parse base hash for %s: %w", d.Path, err)
	}
	d.BaseHash = baseHash
	d.UpdatedAt = time.Unix(0, updated)
	return &d, nil
}

// SQLite integers are signed; hashes are stored as hex text
func formatHash(h uint64) string {
	return strconv.FormatUint(h, 16)
}
