package workspace

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"lessonview/internal/domain"
	models "lessonview/internal/domain/models/workspace"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T, opts ...StoreOption) *Store {
	t.Helper()
	s := NewStore(append([]StoreOption{WithStoreLogger(testLogger())}, opts...)...)
	t.Cleanup(s.Close)
	return s
}

// mapSource serves lesson content from memory
type mapSource struct {
	files map[string]string
	delay time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	calls       atomic.Int32
}

func newMapSource(files map[string]string) *mapSource {
	return &mapSource{files: files}
}

func (s *mapSource) Name() string { return "map" }

func (s *mapSource) Fetch(ctx context.Context, path string) (string, error) {
	s.calls.Add(1)
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		cur := s.maxInFlight.Load()
		if n <= cur || s.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	content, ok := s.files[path]
	if !ok {
		return "", domain.NewNotFound("lesson file", path)
	}
	return content, nil
}

// memDrafts is an in-memory DraftStore
type memDrafts struct {
	mu     sync.Mutex
	drafts map[string]models.Draft
}

func newMemDrafts() *memDrafts {
	return &memDrafts{drafts: make(map[string]models.Draft)}
}

func (m *memDrafts) Save(ctx context.Context, draft *models.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[draft.Path] = *draft
	return nil
}

func (m *memDrafts) Get(ctx context.Context, path string) (*models.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[path]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *memDrafts) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, path)
	return nil
}

func (m *memDrafts) List(ctx context.Context) ([]models.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Draft, 0, len(m.drafts))
	for _, d := range m.drafts {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b models.Draft) int { return strings.Compare(a.Path, b.Path) })
	return out, nil
}

func (m *memDrafts) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.drafts)
	return nil
}

func (m *memDrafts) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.drafts)
}

func nodeNames(nodes []*models.FileNode) []string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name
	}
	return names
}

func openPaths(s models.EditorState) []string {
	paths := make([]string, len(s.OpenFiles))
	for i, f := range s.OpenFiles {
		paths[i] = f.Path
	}
	return paths
}

func strPtr(s string) *string { return &s }
