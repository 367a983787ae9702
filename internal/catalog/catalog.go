// Package catalog holds the fixed list of lesson files the viewer loads.
//
// The default catalog is embedded at build time; a deployment can point
// CATALOG_PATH at its own YAML file with the same shape.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"lessonview/internal/config"
	"lessonview/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is an ordered list of lesson files
type Catalog struct {
	Name  string  `yaml:"name" json:"name"`
	Files []Entry `yaml:"files" json:"files"`
}

// Entry is one lesson file in the catalog
type Entry struct {
	Path  string `yaml:"path" json:"path"`
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
}

// Default returns the embedded catalog
func Default() (*Catalog, error) {
	c, err := Parse(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return c, nil
}

// LoadFile reads a catalog from a YAML file
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Load returns the catalog at path, or the embedded one when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Parse decodes and validates a YAML catalog
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: decode catalog: %v", domain.ErrValidation, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Paths returns the catalog paths in declaration order
func (c *Catalog) Paths() []string {
	paths := make([]string, len(c.Files))
	for i, f := range c.Files {
		paths[i] = f.Path
	}
	return paths
}

// Validate checks every path and rejects duplicates.
// The tree builder trusts its input, so this is where bad paths are stopped.
func (c *Catalog) Validate() error {
	if len(c.Files) == 0 {
		return domain.NewValidation("files", "catalog lists no files")
	}
	if len(c.Files) > config.MaxCatalogFiles {
		return domain.NewValidation("files", "catalog lists %d files, maximum is %d", len(c.Files), config.MaxCatalogFiles)
	}

	seen := make(map[string]bool, len(c.Files))
	for _, f := range c.Files {
		if err := ValidatePath(f.Path); err != nil {
			return err
		}
		if seen[f.Path] {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("catalog lists %q more than once", f.Path),
				ResourceType: "lesson_file",
				ResourceID:   f.Path,
			}
		}
		seen[f.Path] = true
	}

	// A path cannot be both a file and a directory prefix of another file
	for path := range seen {
		for prefix := parentOf(path); prefix != ""; prefix = parentOf(prefix) {
			if seen[prefix] {
				return domain.NewValidation("path", "%q is listed as a file but is also a directory of %q", prefix, path)
			}
		}
	}

	return nil
}

// ValidatePath checks a slash-separated relative lesson path
func ValidatePath(path string) error {
	if path == "" {
		return domain.NewValidation("path", "path cannot be empty")
	}
	if len(path) > config.MaxPathLength {
		return domain.NewValidation("path", "path exceeds maximum length of %d characters", config.MaxPathLength)
	}
	if strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") {
		return domain.NewValidation("path", "path %q cannot start or end with a slash", path)
	}
	if strings.Contains(path, "\\") {
		return domain.NewValidation("path", "path %q must use forward slashes", path)
	}

	for i, segment := range strings.Split(path, "/") {
		switch {
		case segment == "":
			return domain.NewValidation("path", "path %q contains empty segment at position %d", path, i)
		case segment == "." || segment == "..":
			return domain.NewValidation("path", "path %q contains relative segment %q", path, segment)
		case len(segment) > config.MaxSegmentLength:
			return domain.NewValidation("path", "path segment %q exceeds maximum length of %d", segment, config.MaxSegmentLength)
		}
	}

	return nil
}

func parentOf(path string) string {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return ""
	}
	return path[:i]
}
