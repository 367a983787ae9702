// Package filesystem serves lesson content from a local directory.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"lessonview/internal/config"
	"lessonview/internal/domain"
	repo "lessonview/internal/domain/repositories/workspace"
)

// Source reads lesson files relative to a root directory
type Source struct {
	root string
	fsys fs.FS
}

var _ repo.ContentSource = (*Source)(nil)

// NewSource creates a source rooted at dir
func NewSource(dir string) *Source {
	return &Source{root: dir, fsys: os.DirFS(dir)}
}

// NewSourceFS creates a source over an arbitrary fs.FS
func NewSourceFS(name string, fsys fs.FS) *Source {
	return &Source{root: name, fsys: fsys}
}

// Root returns the directory the source reads from
func (s *Source) Root() string {
	return s.root
}

func (s *Source) Name() string {
	return "fs:" + s.root
}

// Fetch reads root/path. Paths that escape the root are rejected.
func (s *Source) Fetch(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !fs.ValidPath(path) {
		return "", domain.NewValidation("path", "invalid lesson path %q", path)
	}

	info, err := fs.Stat(s.fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", domain.NewNotFound("lesson file", path)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", domain.NewNotFound("lesson file", path)
	}
	if info.Size() > config.MaxContentBytes {
		return "", domain.NewValidation("content", "%s is %d bytes, maximum is %d", path, info.Size(), config.MaxContentBytes)
	}

	data, err := fs.ReadFile(s.fsys, path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
