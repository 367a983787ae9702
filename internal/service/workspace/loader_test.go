package workspace

import (
	"context"
	"fmt"
	"testing"
	"time"

	models "lessonview/internal/domain/models/workspace"
	svc "lessonview/internal/domain/services/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(t *testing.T, cfg LoaderConfig, source *mapSource, drafts *memDrafts) (*Loader, *Store) {
	t.Helper()
	store := newTestStore(t)
	if drafts == nil {
		// A nil *memDrafts would be a non-nil DraftStore
		return NewLoader(cfg, source, nil, store, nil, testLogger()), store
	}
	return NewLoader(cfg, source, drafts, store, nil, testLogger()), store
}

func TestLoader_BuildsSortedTree(t *testing.T) {
	source := newMapSource(map[string]string{
		"README.md":          "# Lessons",
		"01-basics/hello.ts": "hello",
		"01-basics/later.ts": "later",
	})
	loader, store := newTestLoader(t, LoaderConfig{
		Paths: []string{"README.md", "01-basics/later.ts", "01-basics/hello.ts"},
	}, source, nil)

	report, err := loader.Load(context.Background(), svc.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Files)
	assert.Empty(t, report.Failed)

	state, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"01-basics", "README.md"}, nodeNames(state.Tree))
	assert.Equal(t, []string{"hello.ts", "later.ts"}, nodeNames(state.Tree[0].Children))
	assert.Equal(t, "hello", models.FindNode(state.Tree, "01-basics/hello.ts").ContentString())
}

func TestLoader_FailedFetchUsesPlaceholder(t *testing.T) {
	source := newMapSource(map[string]string{"ok.ts": "fine"})
	loader, store := newTestLoader(t, LoaderConfig{
		Paths: []string{"ok.ts", "missing/gone.ts"},
	}, source, nil)

	report, err := loader.Load(context.Background(), svc.LoadOptions{})
	require.NoError(t, err, "a failed fetch never fails the load")
	assert.Equal(t, 2, report.Files)
	assert.Equal(t, []string{"missing/gone.ts"}, report.Failed)

	state, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	gone := models.FindNode(state.Tree, "missing/gone.ts")
	require.NotNil(t, gone)
	assert.Equal(t, "// Failed to load missing/gone.ts", gone.ContentString())
	assert.Equal(t, Placeholder("missing/gone.ts"), gone.ContentString())
}

func TestLoader_IsLoadingTransitions(t *testing.T) {
	source := newMapSource(map[string]string{"a.ts": "a"})
	loader, _ := newTestLoader(t, LoaderConfig{Paths: []string{"a.ts"}}, source, nil)

	assert.True(t, loader.IsLoading(), "loading until the first load completes")

	_, err := loader.Load(context.Background(), svc.LoadOptions{})
	require.NoError(t, err)
	assert.False(t, loader.IsLoading())

	_, err = loader.Reload(context.Background())
	require.NoError(t, err)
	assert.False(t, loader.IsLoading(), "reloads never flip the flag back")
}

func TestLoader_CancelledContext(t *testing.T) {
	source := newMapSource(map[string]string{"a.ts": "a"})
	loader, store := newTestLoader(t, LoaderConfig{Paths: []string{"a.ts"}}, source, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Load(ctx, svc.LoadOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, loader.IsLoading())

	state, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.Tree)
}

func TestLoader_BoundsConcurrency(t *testing.T) {
	files := make(map[string]string)
	paths := make([]string, 0, 12)
	for i := range 12 {
		p := fmt.Sprintf("f%02d.ts", i)
		files[p] = p
		paths = append(paths, p)
	}
	source := newMapSource(files)
	source.delay = 10 * time.Millisecond

	loader, _ := newTestLoader(t, LoaderConfig{Paths: paths, Concurrency: 3}, source, nil)

	_, err := loader.Load(context.Background(), svc.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(12), source.calls.Load())
	assert.LessOrEqual(t, source.maxInFlight.Load(), int32(3))
}

func TestLoader_ClearPersisted(t *testing.T) {
	ctx := context.Background()
	source := newMapSource(map[string]string{"a.ts": "a"})
	drafts := newMemDrafts()
	loader, store := newTestLoader(t, LoaderConfig{
		Paths:         []string{"a.ts"},
		ReloadOptions: svc.LoadOptions{ClearPersisted: true},
	}, source, drafts)

	_, err := loader.Load(ctx, svc.LoadOptions{})
	require.NoError(t, err)
	_, err = store.OpenFile(ctx, "a.ts", "a")
	require.NoError(t, err)
	require.NoError(t, drafts.Save(ctx, &models.Draft{Path: "a.ts", Content: "edited"}))

	// A plain load leaves buffers and drafts alone
	_, err = loader.Load(ctx, svc.LoadOptions{})
	require.NoError(t, err)
	state, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, state.OpenFiles, 1)
	assert.Equal(t, 1, drafts.len())

	// Reload applies the configured ClearPersisted
	_, err = loader.Reload(ctx)
	require.NoError(t, err)
	state, err = store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.OpenFiles)
	assert.Nil(t, state.ActiveFile)
	assert.Equal(t, 0, drafts.len())
	assert.Len(t, state.Tree, 1)
}

func TestLoader_PicksUpChangedContent(t *testing.T) {
	source := newMapSource(map[string]string{"a.ts": "v1"})
	loader, store := newTestLoader(t, LoaderConfig{Paths: []string{"a.ts"}}, source, nil)

	_, err := loader.Load(context.Background(), svc.LoadOptions{})
	require.NoError(t, err)

	source.files["a.ts"] = "v2"
	_, err = loader.Reload(context.Background())
	require.NoError(t, err)

	state, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v2", models.FindNode(state.Tree, "a.ts").ContentString())
}

func TestLoader_CancelledReloadKeepsBuffersAndDrafts(t *testing.T) {
	ctx := context.Background()
	source := newMapSource(map[string]string{"a.ts": "a", "b.ts": "b"})
	drafts := newMemDrafts()
	loader, store := newTestLoader(t, LoaderConfig{
		Paths:         []string{"a.ts", "b.ts"},
		ReloadOptions: svc.LoadOptions{ClearPersisted: true},
	}, source, drafts)

	_, err := loader.Load(ctx, svc.LoadOptions{})
	require.NoError(t, err)
	_, err = store.OpenFile(ctx, "a.ts", "a")
	require.NoError(t, err)
	_, err = store.UpdateFileContent(ctx, "a.ts", "edited")
	require.NoError(t, err)
	require.NoError(t, drafts.Save(ctx, &models.Draft{Path: "a.ts", Content: "edited"}))

	before, err := store.Snapshot(ctx)
	require.NoError(t, err)

	source.delay = 200 * time.Millisecond
	reloadCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	_, err = loader.Reload(reloadCtx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	after, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.OpenFiles, after.OpenFiles)
	assert.Equal(t, "a.ts", after.ActivePath())
	assert.Equal(t, []string{"a.ts", "b.ts"}, nodeNames(after.Tree))
	assert.Equal(t, 1, drafts.len())
}
