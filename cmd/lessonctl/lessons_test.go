package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	models "lessonview/internal/domain/models/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLessonTable(t *testing.T) {
	updated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	files := []models.LessonFile{
		{Path: "01-basics/hello.ts", Content: "hello\nworld\n", UpdatedAt: updated},
		{Path: "README.md", Content: "# Lessons", UpdatedAt: updated},
	}

	var buf bytes.Buffer
	err := writeLessonTable(&buf, files, []string{"README.md", "01-basics/hello.ts", "02-errors/missing.ts"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"PATH", "LINES", "BYTES", "UPDATED"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"01-basics/hello.ts", "2", "12", "2026-03-01T12:00:00Z"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"README.md", "1", "9", "2026-03-01T12:00:00Z"}, strings.Fields(lines[2]))
	assert.Equal(t, "  not seeded: 02-errors/missing.ts", lines[3])
}

func TestLineCount(t *testing.T) {
	assert.Equal(t, 0, lineCount(""))
	assert.Equal(t, 1, lineCount("one"))
	assert.Equal(t, 1, lineCount("one\n"))
	assert.Equal(t, 3, lineCount("a\nb\nc"))
}
