package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"lessonview/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_Fetch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "01-basics"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "01-basics", "hello.ts"), []byte("console.log(1)\n"), 0644))

	src := NewSource(root)
	ctx := context.Background()

	content, err := src.Fetch(ctx, "01-basics/hello.ts")
	require.NoError(t, err)
	assert.Equal(t, "console.log(1)\n", content)
	assert.Equal(t, "fs:"+root, src.Name())
	assert.Equal(t, root, src.Root())

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"missing file", "01-basics/nope.ts", domain.ErrNotFound},
		{"directory", "01-basics", domain.ErrNotFound},
		{"escapes root", "../outside.ts", domain.ErrValidation},
		{"absolute", "/etc/passwd", domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := src.Fetch(ctx, tt.path)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSource_FetchFS(t *testing.T) {
	src := NewSourceFS("memory", fstest.MapFS{
		"a/b.ts": {Data: []byte("b")},
	})

	content, err := src.Fetch(context.Background(), "a/b.ts")
	require.NoError(t, err)
	assert.Equal(t, "b", content)
}

func TestSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSourceFS("memory", fstest.MapFS{}).Fetch(ctx, "a.ts")
	assert.ErrorIs(t, err, context.Canceled)
}
