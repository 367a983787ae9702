package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	svc "lessonview/internal/domain/services/workspace"

	"github.com/fsnotify/fsnotify"
)

// Reloader is the part of the Loader a Watcher drives
type Reloader interface {
	Reload(ctx context.Context) (*svc.LoadReport, error)
}

// Watcher reloads the lesson tree when files under a content root change.
// Bursts of events (an editor saving several files) collapse into one
// reload once the root has been quiet for the debounce interval.
type Watcher struct {
	root     string
	watcher  *fsnotify.Watcher
	reloader Reloader
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher watches root and every directory below it
func NewWatcher(root string, reloader Reloader, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		root:     root,
		watcher:  fw,
		reloader: reloader,
		debounce: debounce,
		logger:   logger,
	}
	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// addTree registers dir and its subdirectories, skipping hidden ones
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isIgnored(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Run processes events until ctx is cancelled, then releases the watcher.
// Reload failures are logged; they never stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.logger.Info("watching lesson content", "root", w.root, "debounce", w.debounce)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("content watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.handleEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("content watcher error", "error", err)

		case <-fire:
			fire = nil
			w.reload(ctx)
		}
	}
}

// handleEvent reports whether the event should schedule a reload.
// New directories are added to the watch set.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if isIgnored(filepath.Base(event.Name)) {
		return false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
		}
	}

	w.logger.Debug("content changed", "path", event.Name, "op", event.Op.String())
	return true
}

func (w *Watcher) reload(ctx context.Context) {
	report, err := w.reloader.Reload(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("reload after content change failed", "error", err)
		}
		return
	}
	w.logger.Info("reloaded after content change",
		"files", report.Files,
		"failed", len(report.Failed),
	)
}

// Dotfiles and editor backup files never affect the catalog
func isIgnored(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~")
}
