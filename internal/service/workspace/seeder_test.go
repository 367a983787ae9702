package workspace

import (
	"context"
	"errors"
	"testing"

	models "lessonview/internal/domain/models/workspace"
	"lessonview/internal/domain/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memLessons is a LessonRepository that stages writes until commit
type memLessons struct {
	files     map[string]models.LessonFile
	staged    map[string]models.LessonFile
	failOn    string
	cleared   bool
	committed bool
}

func newMemLessons() *memLessons {
	return &memLessons{files: map[string]models.LessonFile{}}
}

func (m *memLessons) Name() string { return "mem" }

func (m *memLessons) Fetch(ctx context.Context, path string) (string, error) {
	return m.files[path].Content, nil
}

func (m *memLessons) Upsert(ctx context.Context, file *models.LessonFile) error {
	if file.Path == m.failOn {
		return errors.New("disk full")
	}
	m.staged[file.Path] = *file
	return nil
}

func (m *memLessons) List(ctx context.Context) ([]models.LessonFile, error) {
	return nil, nil
}

func (m *memLessons) DeleteAll(ctx context.Context) error {
	m.cleared = true
	clear(m.staged)
	return nil
}

// memTx runs fn and publishes staged writes only when it succeeds
type memTx struct {
	lessons *memLessons
}

func (tx *memTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tx.lessons.staged = make(map[string]models.LessonFile)
	if !tx.lessons.cleared {
		for k, v := range tx.lessons.files {
			tx.lessons.staged[k] = v
		}
	}
	if err := fn(ctx); err != nil {
		return err
	}
	tx.lessons.files = tx.lessons.staged
	tx.lessons.committed = true
	return nil
}

func TestSeeder_Seed(t *testing.T) {
	source := newMapSource(map[string]string{
		"README.md":          "readme",
		"01-basics/hello.ts": "hello",
	})
	lessons := newMemLessons()
	seeder := NewSeeder(source, lessons, &memTx{lessons: lessons}, testLogger())

	report, err := seeder.Seed(context.Background(),
		[]string{"README.md", "01-basics/hello.ts", "02-errors/missing.ts"}, SeedOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Upserted)
	assert.Equal(t, []string{"02-errors/missing.ts"}, report.Missing)
	assert.True(t, lessons.committed)
	assert.Equal(t, "hello", lessons.files["01-basics/hello.ts"].Content)
	assert.False(t, lessons.files["README.md"].UpdatedAt.IsZero())
}

func TestSeeder_ClearFirst(t *testing.T) {
	source := newMapSource(map[string]string{"a.ts": "a"})
	lessons := newMemLessons()
	lessons.files["old.ts"] = models.LessonFile{Path: "old.ts", Content: "stale"}
	seeder := NewSeeder(source, lessons, &memTx{lessons: lessons}, testLogger())

	_, err := seeder.Seed(context.Background(), []string{"a.ts"}, SeedOptions{Clear: true})
	require.NoError(t, err)

	assert.True(t, lessons.cleared)
	assert.Contains(t, lessons.files, "a.ts")
	assert.NotContains(t, lessons.files, "old.ts")
}

func TestSeeder_WriteFailureRollsBack(t *testing.T) {
	source := newMapSource(map[string]string{"a.ts": "a", "b.ts": "b"})
	lessons := newMemLessons()
	lessons.failOn = "b.ts"
	seeder := NewSeeder(source, lessons, &memTx{lessons: lessons}, testLogger())

	_, err := seeder.Seed(context.Background(), []string{"a.ts", "b.ts"}, SeedOptions{})
	require.Error(t, err)

	assert.False(t, lessons.committed)
	assert.Empty(t, lessons.files)
}
