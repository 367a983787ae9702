package workspace

import (
	"testing"

	models "lessonview/internal/domain/models/workspace"

	"github.com/stretchr/testify/assert"
)

func renderFixture() []*models.FileNode {
	return DefaultTreeSorter().Sort(BuildTree([]models.SourceFile{
		{Path: "README.md", Content: "# Lessons\n"},
		{Path: "01-basics/hello.ts", Content: "a\nb"},
		{Path: "01-basics/deep/x.ts", Content: ""},
		{Path: "02-errors/retry.ts", Content: "one"},
	}))
}

func TestTreeRenderer_Render(t *testing.T) {
	r := NewTreeRenderer(RenderOptions{LineCounts: true})

	want := "/\n" +
		"├── 01-basics/\n" +
		"│   ├── deep/\n" +
		"│   │   └── x.ts (0 lines)\n" +
		"│   └── hello.ts (2 lines)\n" +
		"├── 02-errors/\n" +
		"│   └── retry.ts (1 line)\n" +
		"└── README.md (1 line)"

	assert.Equal(t, want, r.Render(renderFixture()))
}

func TestTreeRenderer_ExpandedOnly(t *testing.T) {
	tree := renderFixture()
	s := emptyState()
	s.Tree = tree
	s = toggleDirectory(s, "02-errors")

	r := NewTreeRenderer(RenderOptions{ExpandedOnly: true})

	want := "/\n" +
		"├── 01-basics/\n" +
		"├── 02-errors/\n" +
		"│   └── retry.ts\n" +
		"└── README.md"

	assert.Equal(t, want, r.Render(s.Tree))
}

func TestTreeRenderer_Empty(t *testing.T) {
	assert.Equal(t, "/", NewTreeRenderer(RenderOptions{}).Render(nil))
}

func TestLineCountLabel(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"", "(0 lines)"},
		{"x", "(1 line)"},
		{"x\n", "(1 line)"},
		{"x\ny", "(2 lines)"},
		{"x\ny\n\n", "(3 lines)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lineCountLabel(tt.content), "content %q", tt.content)
	}
}
