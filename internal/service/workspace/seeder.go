package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lessonview/internal/domain"
	models "lessonview/internal/domain/models/workspace"
	"lessonview/internal/domain/repositories"
	repo "lessonview/internal/domain/repositories/workspace"
)

// SeedOptions controls a Seed run
type SeedOptions struct {
	// Clear deletes every stored lesson before upserting
	Clear bool
}

// SeedReport summarizes a Seed run
type SeedReport struct {
	Upserted int      `json:"upserted"`
	Missing  []string `json:"missing"`
}

// Seeder copies catalog files from a content source into a lesson repository
type Seeder struct {
	from      repo.ContentSource
	to        repo.LessonRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
	now       func() time.Time
}

func NewSeeder(from repo.ContentSource, to repo.LessonRepository, txManager repositories.TransactionManager, logger *slog.Logger) *Seeder {
	return &Seeder{
		from:      from,
		to:        to,
		txManager: txManager,
		logger:    logger,
		now:       time.Now,
	}
}

// Seed reads every path from the source and upserts it in one transaction.
// Paths the source does not have are skipped and reported; any other read
// or write error rolls the whole run back.
func (s *Seeder) Seed(ctx context.Context, paths []string, opts SeedOptions) (*SeedReport, error) {
	files := make([]models.LessonFile, 0, len(paths))
	missing := make([]string, 0)

	for _, path := range paths {
		content, err := s.from.Fetch(ctx, path)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.logger.Warn("catalog file missing from seed source", "path", path, "source", s.from.Name())
				missing = append(missing, path)
				continue
			}
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, models.LessonFile{Path: path, Content: content, UpdatedAt: s.now()})
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if opts.Clear {
			if err := s.to.DeleteAll(txCtx); err != nil {
				return err
			}
		}
		for i := range files {
			if err := s.to.Upsert(txCtx, &files[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed lessons: %w", err)
	}

	s.logger.Info("lessons seeded",
		"source", s.from.Name(),
		"target", s.to.Name(),
		"upserted", len(files),
		"missing", len(missing),
		"cleared", opts.Clear,
	)

	return &SeedReport{Upserted: len(files), Missing: missing}, nil
}
