package workspace

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	models "lessonview/internal/domain/models/workspace"
)

// ErrStoreClosed is returned by every Store operation after Close
var ErrStoreClosed = errors.New("editor store closed")

// Store is the single source of truth for tree, open buffers and active
// selection. One goroutine owns the state and applies operations in the order
// they arrive, so operations never interleave; every call returns the
// snapshot produced by its own operation.
//
// By default the store is permissive: activating, editing or closing a path
// that is not open (or toggling a missing directory) silently does nothing
// harmful. WithStrictPaths turns those cases into NotFound errors.
type Store struct {
	commands  chan command
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
	strict    bool
	logger    *slog.Logger
}

type command struct {
	op    string
	path  string
	apply func(models.EditorState) (models.EditorState, error)
	reply chan result
}

type result struct {
	state models.EditorState
	err   error
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithStrictPaths rejects operations on paths that are not open (or not directories)
func WithStrictPaths() StoreOption {
	return func(s *Store) { s.strict = true }
}

// WithStoreLogger sets the logger used for operation traces
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// NewStore starts an empty store. Call Close to stop its goroutine.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		commands: make(chan command),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

func (s *Store) run() {
	defer close(s.stopped)

	state := models.EditorState{
		Tree:      []*models.FileNode{},
		OpenFiles: []models.OpenFile{},
	}

	for {
		select {
		case <-s.done:
			return
		case cmd := <-s.commands:
			next, err := cmd.apply(state)
			if err == nil {
				state = next
			}
			s.logger.Debug("editor operation",
				"op", cmd.op,
				"path", cmd.path,
				"open_files", len(state.OpenFiles),
				"active_file", state.ActivePath(),
				"error", err,
			)
			cmd.reply <- result{state: state, err: err}
		}
	}
}

// do submits an operation and waits for its result. Once accepted, an
// operation always runs to completion; ctx only bounds the wait for a slot.
func (s *Store) do(ctx context.Context, op, path string, apply func(models.EditorState) (models.EditorState, error)) (models.EditorState, error) {
	cmd := command{
		op:    op,
		path:  path,
		apply: apply,
		reply: make(chan result, 1),
	}

	select {
	case <-s.done:
		return models.EditorState{}, ErrStoreClosed
	case <-ctx.Done():
		return models.EditorState{}, ctx.Err()
	case s.commands <- cmd:
	}

	r := <-cmd.reply
	return r.state, r.err
}

// Close stops the store goroutine. Safe to call more than once.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	<-s.stopped
}

// Snapshot returns the current state without changing it
func (s *Store) Snapshot(ctx context.Context) (models.EditorState, error) {
	return s.do(ctx, "snapshot", "", func(st models.EditorState) (models.EditorState, error) {
		return st, nil
	})
}

// SetTree replaces the tree wholesale; open buffers are untouched
func (s *Store) SetTree(ctx context.Context, tree []*models.FileNode) (models.EditorState, error) {
	return s.do(ctx, "set_tree", "", func(st models.EditorState) (models.EditorState, error) {
		return setTree(st, tree), nil
	})
}

// OpenFile opens path with content, or refreshes it to content if already open,
// and makes it active
func (s *Store) OpenFile(ctx context.Context, path, content string) (models.EditorState, error) {
	state, _, err := s.OpenFileDetail(ctx, path, content)
	return state, err
}

// OpenFileDetail is OpenFile that also reports whether path was already open
// when the operation ran
func (s *Store) OpenFileDetail(ctx context.Context, path, content string) (state models.EditorState, reopened bool, err error) {
	state, err = s.do(ctx, "open_file", path, func(st models.EditorState) (models.EditorState, error) {
		reopened = st.IsOpen(path)
		return openFile(st, path, content), nil
	})
	return state, reopened, err
}

// CloseFile closes the buffer at path
func (s *Store) CloseFile(ctx context.Context, path string) (models.EditorState, error) {
	return s.do(ctx, "close_file", path, func(st models.EditorState) (models.EditorState, error) {
		if s.strict {
			if err := requireOpen(st, path); err != nil {
				return st, err
			}
		}
		return closeFile(st, path), nil
	})
}

// SetActiveFile makes path the active buffer. Permissive stores do not check
// that path is open.
func (s *Store) SetActiveFile(ctx context.Context, path string) (models.EditorState, error) {
	return s.do(ctx, "set_active_file", path, func(st models.EditorState) (models.EditorState, error) {
		if s.strict {
			if err := requireOpen(st, path); err != nil {
				return st, err
			}
		}
		return setActiveFile(st, path), nil
	})
}

// UpdateFileContent replaces the content of the open buffer at path
func (s *Store) UpdateFileContent(ctx context.Context, path, content string) (models.EditorState, error) {
	return s.do(ctx, "update_file_content", path, func(st models.EditorState) (models.EditorState, error) {
		if s.strict {
			if err := requireOpen(st, path); err != nil {
				return st, err
			}
		}
		return updateFileContent(st, path, content), nil
	})
}

// ToggleDirectory flips the expanded flag of the directory at path
func (s *Store) ToggleDirectory(ctx context.Context, path string) (models.EditorState, error) {
	return s.do(ctx, "toggle_directory", path, func(st models.EditorState) (models.EditorState, error) {
		if s.strict {
			if err := requireDirectory(st, path); err != nil {
				return st, err
			}
		}
		return toggleDirectory(st, path), nil
	})
}

// ReplaceTree installs tree and closes every buffer in a single operation
func (s *Store) ReplaceTree(ctx context.Context, tree []*models.FileNode) (models.EditorState, error) {
	return s.do(ctx, "replace_tree", "", func(st models.EditorState) (models.EditorState, error) {
		return setTree(clearAllFiles(st), tree), nil
	})
}

// ClearAllFiles closes every buffer and clears the active file; the tree stays
func (s *Store) ClearAllFiles(ctx context.Context) (models.EditorState, error) {
	return s.do(ctx, "clear_all_files", "", func(st models.EditorState) (models.EditorState, error) {
		return clearAllFiles(st), nil
	})
}
