package workspace

import (
	"fmt"
	"slices"
	"strings"

	models "lessonview/internal/domain/models/workspace"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// TreeSorter orders a tree for display: directories before files at every
// level, each group ascending by name under a locale-aware collation.
type TreeSorter struct {
	tag language.Tag
}

// NewTreeSorter creates a sorter for a BCP 47 locale such as "en" or "de-CH"
func NewTreeSorter(locale string) (*TreeSorter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &TreeSorter{tag: tag}, nil
}

// DefaultTreeSorter sorts with English collation rules
func DefaultTreeSorter() *TreeSorter {
	return &TreeSorter{tag: language.English}
}

// Sort returns a re-ordered copy of nodes. Input nodes and their children
// slices are never modified; file content is shared with the input.
// Sorting an already sorted tree yields the same order.
func (s *TreeSorter) Sort(nodes []*models.FileNode) []*models.FileNode {
	// collate.Collator keeps internal buffers, so each call gets its own
	c := collate.New(s.tag)
	return s.sortLevel(c, nodes)
}

func (s *TreeSorter) sortLevel(c *collate.Collator, nodes []*models.FileNode) []*models.FileNode {
	if nodes == nil {
		return nil
	}

	out := make([]*models.FileNode, len(nodes))
	for i, node := range nodes {
		clone := *node
		if node.IsDir() {
			clone.Children = s.sortLevel(c, node.Children)
		}
		out[i] = &clone
	}

	slices.SortStableFunc(out, func(a, b *models.FileNode) int {
		if a.IsDir() != b.IsDir() {
			if a.IsDir() {
				return -1
			}
			return 1
		}
		if r := c.CompareString(a.Name, b.Name); r != 0 {
			return r
		}
		// Collation ties (e.g. canonically equivalent names) fall back to bytes
		return strings.Compare(a.Name, b.Name)
	})

	return out
}
