package workspace

import (
	"fmt"
	"strings"

	models "lessonview/internal/domain/models/workspace"
)

// RenderOptions controls TreeRenderer output
type RenderOptions struct {
	// ExpandedOnly hides the children of collapsed directories
	ExpandedOnly bool
	// LineCounts appends "(N lines)" to every file
	LineCounts bool
}

// renderRow is one flattened line of the rendered tree
type renderRow struct {
	name   string
	isDir  bool
	depth  int
	isLast bool
	meta   string
}

// TreeRenderer renders a FileNode tree using ASCII box-drawing characters.
//
// Example output:
//
//	/
//	├── 01-basics/
//	│   └── hello.ts (12 lines)
//	└── README.md (40 lines)
type TreeRenderer struct {
	opts RenderOptions
}

func NewTreeRenderer(opts RenderOptions) *TreeRenderer {
	return &TreeRenderer{opts: opts}
}

// Render returns the tree as text, rooted at "/". Nodes are rendered in the
// order given, so pass a sorted tree.
func (r *TreeRenderer) Render(nodes []*models.FileNode) string {
	rows := []renderRow{{name: "/", isDir: true}}
	rows = r.flatten(rows, nodes, 1)

	var b strings.Builder
	continuations := make(map[int]bool)

	for i, row := range rows {
		b.WriteString(buildPrefix(row.depth, row.isLast, continuations))
		b.WriteString(row.name)
		if row.isDir && !strings.HasSuffix(row.name, "/") {
			b.WriteString("/")
		}
		if row.meta != "" {
			b.WriteString(" ")
			b.WriteString(row.meta)
		}
		if i < len(rows)-1 {
			b.WriteString("\n")
		}

		if row.isLast {
			delete(continuations, row.depth)
		} else {
			continuations[row.depth] = true
		}
	}

	return b.String()
}

func (r *TreeRenderer) flatten(rows []renderRow, nodes []*models.FileNode, depth int) []renderRow {
	for i, node := range nodes {
		row := renderRow{
			name:   node.Name,
			isDir:  node.IsDir(),
			depth:  depth,
			isLast: i == len(nodes)-1,
		}
		if !row.isDir && r.opts.LineCounts {
			row.meta = lineCountLabel(node.ContentString())
		}
		rows = append(rows, row)

		if row.isDir && (node.Expanded || !r.opts.ExpandedOnly) {
			rows = r.flatten(rows, node.Children, depth+1)
		}
	}
	return rows
}

// buildPrefix draws the branch for a row plus continuation bars for each
// ancestor depth that still has siblings below
func buildPrefix(depth int, isLast bool, continuations map[int]bool) string {
	if depth == 0 {
		return ""
	}

	var prefix strings.Builder
	for d := 1; d < depth; d++ {
		if continuations[d] {
			prefix.WriteString("│   ")
		} else {
			prefix.WriteString("    ")
		}
	}

	if isLast {
		prefix.WriteString("└── ")
	} else {
		prefix.WriteString("├── ")
	}
	return prefix.String()
}

func lineCountLabel(content string) string {
	n := 0
	if content != "" {
		n = strings.Count(content, "\n") + 1
		if strings.HasSuffix(content, "\n") {
			n--
		}
	}
	if n == 1 {
		return "(1 line)"
	}
	return fmt.Sprintf("(%d lines)", n)
}
