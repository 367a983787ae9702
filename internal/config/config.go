package config

import (
	"os"
	"strconv"
	"time"
)

// Content source kinds
const (
	SourceFilesystem = "fs"
	SourceHTTP       = "http"
	SourcePostgres   = "postgres"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// Content source
	ContentSource    string // fs | http | postgres
	ContentRoot      string // fs: directory holding the lesson files
	ContentBaseURL   string // http: base URL lesson paths are appended to
	HTTPTimeout      time.Duration
	DatabaseURL      string // postgres
	TablePrefix      string
	CatalogPath      string // empty = embedded catalog
	FetchConcurrency int
	// Editor
	Locale              string
	StrictEditor        bool
	DraftsDBPath        string // empty = drafts disabled (DRAFTS_DB_PATH=off)
	RestoreDrafts       bool
	ClearDraftsOnReload bool
	// Dev reload
	Watch          bool
	ReloadDebounce time.Duration
	// Logging
	LogDir      string
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		ContentSource:    getEnv("CONTENT_SOURCE", SourceFilesystem),
		ContentRoot:      getEnv("CONTENT_ROOT", "./lessons"),
		ContentBaseURL:   getEnv("CONTENT_BASE_URL", "http://localhost:3000/lessons"),
		HTTPTimeout:      getDuration("HTTP_TIMEOUT", 30*time.Second),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		TablePrefix:      getTablePrefix(env),
		CatalogPath:      getEnv("CATALOG_PATH", ""),
		FetchConcurrency: getInt("FETCH_CONCURRENCY", DefaultFetchConcurrency),

		Locale:              getEnv("LOCALE", "en"),
		StrictEditor:        getBool("STRICT_EDITOR", false),
		DraftsDBPath:        getDraftsPath(),
		RestoreDrafts:       getBool("RESTORE_DRAFTS", true),
		ClearDraftsOnReload: getBool("CLEAR_DRAFTS_ON_RELOAD", env == "dev"),

		// Watching only makes sense while authoring lessons locally
		Watch:          getBool("WATCH", env == "dev"),
		ReloadDebounce: getDuration("RELOAD_DEBOUNCE", 250*time.Millisecond),

		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getInt("LOG_MAX_FILES", 10),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getDraftsPath() string {
	path := getEnv("DRAFTS_DB_PATH", ".lessonview/drafts.db")
	if path == "off" {
		return ""
	}
	return path
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
