package config

const (
	// MaxPathLength is the maximum length of a lesson file path.
	MaxPathLength = 500

	// MaxSegmentLength is the maximum length of a single path segment.
	MaxSegmentLength = 255

	// MaxContentBytes caps the size of a buffer sent through the API.
	MaxContentBytes = 2 << 20

	// MaxCatalogFiles bounds the number of entries a catalog may list.
	MaxCatalogFiles = 5000

	// DefaultFetchConcurrency is the number of lesson files fetched in parallel.
	DefaultFetchConcurrency = 8
)
