// Package site models one documentation source and builds it from a docs tree.
package site

import (
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"

	derrors "git.home.luguber.info/inful/docnav/internal/errors"
	"git.home.luguber.info/inful/docnav/internal/layout"
	"git.home.luguber.info/inful/docnav/internal/topology"
	"git.home.luguber.info/inful/docnav/internal/util/sets"
	"git.home.luguber.info/inful/docnav/internal/versioning"
)

// RepositoryRefFile holds the "<owner>/<repo>" reference of a site.
const RepositoryRefFile = ".gh_path"

// DefaultRepositoryBaseURL prefixes repository references.
const DefaultRepositoryBaseURL = "https://github.com/"

// MainBranch is the branch preferred when a site has no releases.
const MainBranch = "main"

// Site is one documentation source: a directory holding branch, release and
// pull-request builds.
type Site struct {
	// ID is the final path segment of the site directory.
	ID string
	// Dir is the site directory relative to the docs root ("." for a
	// single-source tree).
	Dir string
	// BasePath is the site directory as seen by the static-site generator,
	// e.g. "docs/widgets/".
	BasePath      string
	RepositoryRef string
	RepositoryURL string
	// Branches are sorted ascending.
	Branches []string
	// Releases are sorted newest first by semantic version.
	Releases []string
	// PullRequests are sorted in descending string order.
	PullRequests []string

	subKinds sets.Set[topology.SubKind]
}

// Options control how sites are built.
type Options struct {
	// DocsPath is the docs root as written into generated pages, e.g. "docs".
	DocsPath string
	// RootName names a site whose path has no usable final segment, such
	// as a docs root given as ".".
	RootName          string
	RepositoryBaseURL string
}

// Build reads the site at dir (relative to the lister root).
func Build(l layout.Lister, dir string, opts Options) (*Site, error) {
	dir = path.Clean(dir)
	base := path.Join(opts.DocsPath, dir)

	s := &Site{
		ID:       path.Base(base),
		Dir:      dir,
		BasePath: strings.TrimSuffix(base, "/") + "/",
		subKinds: sets.New[topology.SubKind](),
	}
	if s.ID == "." || s.ID == "/" {
		s.ID = opts.RootName
	}

	refPath := path.Join(dir, RepositoryRefFile)
	ref, err := l.ReadText(refPath)
	if err != nil {
		return nil, derrors.MissingRepositoryRef(path.Join(base, RepositoryRefFile), err).
			WithContext("site", s.ID)
	}
	s.RepositoryRef = ref
	baseURL := opts.RepositoryBaseURL
	if baseURL == "" {
		baseURL = DefaultRepositoryBaseURL
	}
	s.RepositoryURL = baseURL + ref

	for _, k := range topology.SubKinds {
		if l.HasDirectory(path.Join(dir, string(k))) {
			s.subKinds.Add(k)
		}
	}

	if s.Branches, err = s.children(l, topology.SubKindBranch); err != nil {
		return nil, err
	}
	tags, err := s.children(l, topology.SubKindTags)
	if err != nil {
		return nil, err
	}
	if s.Releases, err = versioning.SortReleases(tags); err != nil {
		if ne, ok := derrors.As(err); ok {
			ne.WithContext("site", s.ID)
		}
		return nil, err
	}
	pulls, err := s.children(l, topology.SubKindPulls)
	if err != nil {
		return nil, err
	}
	s.PullRequests = versioning.SortPullRequests(pulls)
	return s, nil
}

func (s *Site) children(l layout.Lister, kind topology.SubKind) ([]string, error) {
	p := path.Join(s.Dir, string(kind))
	names, err := l.ChildDirectories(p)
	if err != nil {
		return nil, derrors.FileSystemError("list "+string(kind), path.Join(s.BasePath, string(kind)), err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// HasSubKind reports whether the site has a directory for kind.
func (s *Site) HasSubKind(kind topology.SubKind) bool {
	return s.subKinds.Has(kind)
}

// HasBranch reports whether a branch build named name exists.
func (s *Site) HasBranch(name string) bool {
	for _, b := range s.Branches {
		if b == name {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the site has no builds at all.
func (s *Site) IsEmpty() bool {
	return len(s.Branches) == 0 && len(s.Releases) == 0 && len(s.PullRequests) == 0
}

// DisplayName is the ID with hyphens replaced by spaces, in NFC form so the
// same tree renders identically whichever filesystem produced the names.
func (s *Site) DisplayName() string {
	return norm.NFC.String(strings.ReplaceAll(s.ID, "-", " "))
}

// MainURL is the path of the main branch build, or "" without one.
func (s *Site) MainURL() string {
	if !s.HasBranch(MainBranch) {
		return ""
	}
	return path.Join(s.BasePath, string(topology.SubKindBranch), MainBranch)
}

// Collection is the front matter of the per-site collection page.
type Collection struct {
	BaseURL  string   `yaml:"base_url"`
	GHRepo   string   `yaml:"gh_repo"`
	Name     string   `yaml:"name"`
	JekyllID string   `yaml:"jekyll_id"`
	Branches []string `yaml:"branches"`
	MainURL  string   `yaml:"main_url"`
	Releases []string `yaml:"releases"`
	Pulls    []string `yaml:"pulls"`
}

// Collection returns the collection record of the site.
func (s *Site) Collection() Collection {
	return Collection{
		BaseURL:  s.BasePath,
		GHRepo:   s.RepositoryURL,
		Name:     s.DisplayName(),
		JekyllID: s.ID,
		Branches: s.Branches,
		MainURL:  s.MainURL(),
		Releases: s.Releases,
		Pulls:    s.PullRequests,
	}
}

// Fields returns the collection record as a front matter map.
func (c Collection) Fields() map[string]any {
	return map[string]any{
		"base_url":  c.BaseURL,
		"gh_repo":   c.GHRepo,
		"name":      c.Name,
		"jekyll_id": c.JekyllID,
		"branches":  c.Branches,
		"main_url":  c.MainURL,
		"releases":  c.Releases,
		"pulls":     c.Pulls,
	}
}
