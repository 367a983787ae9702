package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"lessonview/internal/config"
	models "lessonview/internal/domain/models/workspace"
	repo "lessonview/internal/domain/repositories/workspace"
	svc "lessonview/internal/domain/services/workspace"

	"golang.org/x/sync/errgroup"
)

// Placeholder is the content substituted for a lesson file that failed to load
func Placeholder(path string) string {
	return fmt.Sprintf("// Failed to load %s", path)
}

// LoaderConfig configures a Loader
type LoaderConfig struct {
	// Paths is the lesson catalog, fixed for the Loader's lifetime
	Paths []string

	// Concurrency bounds parallel fetches (defaults to config.DefaultFetchConcurrency)
	Concurrency int

	// ReloadOptions are applied by Reload
	ReloadOptions svc.LoadOptions
}

// Loader fetches every catalog file, builds and sorts the tree, and installs
// it in the Store. A failed fetch never fails the batch: the file keeps its
// place in the tree with placeholder content.
type Loader struct {
	paths       []string
	concurrency int
	reloadOpts  svc.LoadOptions
	source      repo.ContentSource
	drafts      repo.DraftStore // optional
	store       *Store
	sorter      *TreeSorter
	logger      *slog.Logger

	loading atomic.Bool
	mu      sync.Mutex // one load at a time
}

// NewLoader creates a loader. drafts may be nil when persistence is disabled.
func NewLoader(
	cfg LoaderConfig,
	source repo.ContentSource,
	drafts repo.DraftStore,
	store *Store,
	sorter *TreeSorter,
	logger *slog.Logger,
) *Loader {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = config.DefaultFetchConcurrency
	}
	if sorter == nil {
		sorter = DefaultTreeSorter()
	}

	l := &Loader{
		paths:       append([]string(nil), cfg.Paths...),
		concurrency: concurrency,
		reloadOpts:  cfg.ReloadOptions,
		source:      source,
		drafts:      drafts,
		store:       store,
		sorter:      sorter,
		logger:      logger,
	}
	l.loading.Store(true)
	return l
}

// IsLoading is true from construction until the first Load finishes,
// then false for the rest of the Loader's life
func (l *Loader) IsLoading() bool {
	return l.loading.Load()
}

// Reload runs Load with the configured reload options
func (l *Loader) Reload(ctx context.Context) (*svc.LoadReport, error) {
	return l.Load(ctx, l.reloadOpts)
}

// Load populates the store. It only fails when ctx is cancelled or the store
// is closed, and then changes nothing; per-file fetch errors are logged and
// replaced with Placeholder.
func (l *Loader) Load(ctx context.Context, opts svc.LoadOptions) (*svc.LoadReport, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()

	files := make([]models.SourceFile, len(l.paths))
	failedAt := make([]bool, len(l.paths))

	var g errgroup.Group
	g.SetLimit(l.concurrency)
	for i, path := range l.paths {
		g.Go(func() error {
			content, err := l.source.Fetch(ctx, path)
			if err != nil {
				l.logger.Warn("lesson fetch failed, using placeholder",
					"path", path,
					"source", l.source.Name(),
					"error", err,
				)
				content = Placeholder(path)
				failedAt[i] = true
			}
			files[i] = models.SourceFile{Path: path, Content: content}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Nothing is reset until the new tree is ready, so a cancelled load
	// leaves buffers and drafts as they were
	tree := l.sorter.Sort(BuildTree(files))
	if opts.ClearPersisted {
		if _, err := l.store.ReplaceTree(ctx, tree); err != nil {
			return nil, fmt.Errorf("install tree: %w", err)
		}
		if l.drafts != nil {
			if err := l.drafts.Clear(context.WithoutCancel(ctx)); err != nil {
				l.logger.Warn("failed to clear persisted drafts", "error", err)
			}
		}
	} else if _, err := l.store.SetTree(ctx, tree); err != nil {
		return nil, fmt.Errorf("install tree: %w", err)
	}
	l.loading.Store(false)

	failed := make([]string, 0)
	for i, f := range failedAt {
		if f {
			failed = append(failed, l.paths[i])
		}
	}

	report := &svc.LoadReport{
		Files:    len(files),
		Failed:   failed,
		Duration: time.Since(start),
	}

	l.logger.Info("lesson tree loaded",
		"source", l.source.Name(),
		"files", report.Files,
		"failed", len(report.Failed),
		"cleared_persisted", opts.ClearPersisted,
		"duration", report.Duration,
	)

	return report, nil
}
