// Package config provides configuration management for the docsieve client.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/docsieve/docsieve/internal/filter"
)

// Config holds the client configuration: where the document server lives,
// where the local saved-view cache lives, and the filter defaults applied
// to a fresh document list.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	PageSize       int
	DatabaseURL    string

	SortField  string
	SortOrder  string
	SearchMode string
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		ServerURL:      "http://localhost:8000",
		RequestTimeout: 30 * time.Second,
		PageSize:       25,
		DatabaseURL:    "sqlite://docsieve.db",
		SortField:      "created",
		SortOrder:      "descending",
		SearchMode:     "title_content",
	}
}

// APIToken reads the server API token from the environment. Tokens are
// environment-only; LoadConfig rejects config files that carry one.
func APIToken() (string, error) {
	token := strings.TrimSpace(os.Getenv("DS_API_TOKEN"))
	if token == "" {
		return "", fmt.Errorf("DS_API_TOKEN environment variable not set")
	}
	return token, nil
}

// sortFields enumerates the document attributes the server can order by.
var sortFields = map[string]filter.SortField{
	"archive_serial_number": filter.SortASN,
	"correspondent__name":   filter.SortCorrespondent,
	"title":                 filter.SortTitle,
	"document_type__name":   filter.SortDocumentType,
	"created":               filter.SortCreated,
	"added":                 filter.SortAdded,
	"modified":              filter.SortModified,
	"storage_path__name":    filter.SortStoragePath,
	"owner":                 filter.SortOwner,
	"score":                 filter.SortScore,
}

var searchModes = map[string]filter.SearchMode{
	"title":         filter.SearchTitle,
	"content":       filter.SearchContent,
	"title_content": filter.SearchTitleContent,
	"advanced":      filter.SearchAdvanced,
}

// FilterDefaults converts the configured default strings into engine
// defaults, validating each against the known value sets.
func (c *Config) FilterDefaults() (filter.Defaults, error) {
	field, ok := sortFields[c.SortField]
	if !ok {
		return filter.Defaults{}, fmt.Errorf("unknown sort_field %q", c.SortField)
	}

	var order filter.SortOrder
	switch c.SortOrder {
	case "ascending":
		order = filter.SortAscending
	case "descending":
		order = filter.SortDescending
	default:
		return filter.Defaults{}, fmt.Errorf("sort_order must be ascending or descending, got %q", c.SortOrder)
	}

	mode, ok := searchModes[c.SearchMode]
	if !ok {
		return filter.Defaults{}, fmt.Errorf("unknown search_mode %q", c.SearchMode)
	}

	return filter.Defaults{SortField: field, SortOrder: order, SearchMode: mode}, nil
}
