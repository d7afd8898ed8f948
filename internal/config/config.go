// Package config holds the settings of a page-generation run.
package config

import (
	"path/filepath"
	"strings"

	derrors "git.home.luguber.info/inful/docnav/internal/errors"
)

// SubdirIndexMode selects which index pages are generated below the docs root.
type SubdirIndexMode string

const (
	// SubdirIndexNone writes only the per-site collection files.
	SubdirIndexNone SubdirIndexMode = ""
	// SubdirIndexRedirect writes meta-refresh pages into the docs tree.
	SubdirIndexRedirect SubdirIndexMode = "redirect"
	// SubdirIndexBrowse writes browse pages into the site tree.
	SubdirIndexBrowse SubdirIndexMode = "browse"
)

var subdirIndexModes = map[string]SubdirIndexMode{
	"":         SubdirIndexNone,
	"none":     SubdirIndexNone,
	"redirect": SubdirIndexRedirect,
	"browse":   SubdirIndexBrowse,
}

// ParseSubdirIndexMode converts a flag value to a mode.
func ParseSubdirIndexMode(raw string) (SubdirIndexMode, error) {
	if m, ok := subdirIndexModes[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return m, nil
	}
	return SubdirIndexNone, derrors.ValidationFailed("subdir_index", "must be one of redirect, browse; got "+raw)
}

func (m SubdirIndexMode) String() string {
	if m == SubdirIndexNone {
		return "none"
	}
	return string(m)
}

// Defaults for the directory layout.
const (
	DefaultDocsDir = "docs"
	DefaultSiteDir = "site"
)

// Config is the explicit configuration of one generation run.
type Config struct {
	// DocsDir holds the pre-built documentation. It is written into
	// generated pages as given, so relative paths stay relative.
	DocsDir string
	// SiteDir is the static-site generator source directory.
	SiteDir           string
	RootIndexRedirect bool
	SubdirIndexMode   SubdirIndexMode
	// RepositoryBaseURL prefixes every .gh_path reference.
	RepositoryBaseURL string
}

// Default returns a Config with the standard layout and no index pages.
func Default() *Config {
	return &Config{
		DocsDir: DefaultDocsDir,
		SiteDir: DefaultSiteDir,
	}
}

// Validate checks the configuration before any filesystem access.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DocsDir) == "" {
		return derrors.ValidationFailed("docs_dir", "must not be empty")
	}
	if strings.TrimSpace(c.SiteDir) == "" {
		return derrors.ValidationFailed("site_dir", "must not be empty")
	}
	if _, ok := subdirIndexModes[string(c.SubdirIndexMode)]; !ok {
		return derrors.ValidationFailed("subdir_index", "unknown mode "+string(c.SubdirIndexMode))
	}
	if filepath.Clean(c.DocsDir) == filepath.Clean(c.SiteDir) {
		return derrors.ValidationFailed("site_dir", "must differ from docs_dir")
	}
	return nil
}

// DocsPath is DocsDir in the slash-separated form used inside pages.
func (c *Config) DocsPath() string {
	return filepath.ToSlash(filepath.Clean(c.DocsDir))
}
