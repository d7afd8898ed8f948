// Package pages renders the navigation pages consumed by the static-site
// generator. Rendering is pure; writing is left to the caller.
package pages

import (
	"bytes"
	"fmt"
	"html"
	"io/fs"
	"path"
	"strings"

	"git.home.luguber.info/inful/docnav/internal/frontmatter"
	"git.home.luguber.info/inful/docnav/internal/redirect"
	"git.home.luguber.info/inful/docnav/internal/site"
	"git.home.luguber.info/inful/docnav/internal/topology"
)

// Tree selects the directory a page path is relative to.
type Tree int

const (
	// DocsTree is the docs root holding the built documentation.
	DocsTree Tree = iota
	// SiteTree is the static-site generator source directory.
	SiteTree
)

func (t Tree) String() string {
	if t == SiteTree {
		return "site"
	}
	return "docs"
}

// Kind labels what a page is for, used in logs and metrics.
type Kind string

const (
	KindCollection   Kind = "collection"
	KindRedirect     Kind = "redirect"
	KindBrowse       Kind = "browse"
	KindRootRedirect Kind = "root_redirect"
)

// Page is one file to write.
type Page struct {
	Tree    Tree
	Path    string
	Kind    Kind
	Content []byte
}

const (
	collectionsDir = "_docs"
	browseDir      = "browse_pages"
	indexHTML      = "index.html"
	indexMD        = "index.md"
)

const redirectHTML = `<head>
  <meta http-equiv="Refresh" content="0; URL=%s" />
</head>
`

const browseBody = `{%% assign sublinks="%s" | split: "," %%}
{%% include browse.html target="%s" sublinks=sublinks %%}
`

// Sublink groups listed by browse pages.
const (
	SublinksAll      = "branches,pulls,releases"
	sublinksBranches = "branches"
	sublinksPulls    = "pulls"
	sublinksReleases = "releases"
)

var subKindSublinks = map[topology.SubKind]string{
	topology.SubKindBranch: sublinksBranches,
	topology.SubKindPulls:  sublinksPulls,
	topology.SubKindTags:   sublinksReleases,
}

// RedirectHTML returns a meta-refresh page pointing at target.
func RedirectHTML(target string) []byte {
	return []byte(fmt.Sprintf(redirectHTML, html.EscapeString(target)))
}

// BrowseMarkdown returns a browse page listing sublinks of the site with
// the given jekyll id.
func BrowseMarkdown(jekyllID, sublinks string) ([]byte, error) {
	body := fmt.Sprintf(browseBody, sublinks, jekyllID)
	return frontmatter.Render(map[string]any{"layout": "default"}, []byte(body))
}

// CollectionPage renders the site metadata file `_docs/<id>.md`.
func CollectionPage(s *site.Site) (Page, error) {
	content, err := frontmatter.Render(s.Collection().Fields(), nil)
	if err != nil {
		return Page{}, fmt.Errorf("render collection for %s: %w", s.ID, err)
	}
	return Page{
		Tree:    SiteTree,
		Path:    path.Join(collectionsDir, s.ID+".md"),
		Kind:    KindCollection,
		Content: content,
	}, nil
}

// CollectionCurrent reports whether existing, the content of a collection
// page on disk, holds the same record s renders. Key order and quoting in
// existing are ignored.
func CollectionCurrent(existing []byte, s *site.Site) (bool, error) {
	fm, body, had, err := frontmatter.Split(existing)
	if err != nil {
		return false, err
	}
	if !had || len(bytes.TrimSpace(body)) > 0 {
		return false, nil
	}
	fields, err := frontmatter.ParseYAML(fm)
	if err != nil {
		return false, err
	}
	got, err := frontmatter.SerializeYAML(fields)
	if err != nil {
		return false, err
	}
	want, err := frontmatter.SerializeYAML(s.Collection().Fields())
	if err != nil {
		return false, err
	}
	return bytes.Equal(got, want), nil
}

// RedirectPages renders the site root redirect and one redirect per present
// sub-kind directory, each pointing at target.
func RedirectPages(s *site.Site, target string) []Page {
	out := []Page{{
		Tree:    DocsTree,
		Path:    path.Join(s.Dir, indexHTML),
		Kind:    KindRedirect,
		Content: RedirectHTML(target),
	}}
	for _, k := range topology.SubKinds {
		if !s.HasSubKind(k) {
			continue
		}
		out = append(out, Page{
			Tree:    DocsTree,
			Path:    path.Join(s.Dir, string(k), indexHTML),
			Kind:    KindRedirect,
			Content: RedirectHTML(redirect.Relative(target, 1)),
		})
	}
	return out
}

// BrowsePages renders `browse_pages/<docsRoot>/<site dir>/index.md` and one
// page per present sub-kind directory. docsRoot is the final segment of the
// docs directory, so the pages stay inside browse_pages whatever form the
// docs directory was given in.
func BrowsePages(s *site.Site, docsRoot string) ([]Page, error) {
	root, err := browseRoot(docsRoot, s.Dir)
	if err != nil {
		return nil, err
	}
	content, err := BrowseMarkdown(s.ID, SublinksAll)
	if err != nil {
		return nil, err
	}
	out := []Page{{Tree: SiteTree, Path: path.Join(root, indexMD), Kind: KindBrowse, Content: content}}
	for _, k := range topology.SubKinds {
		if !s.HasSubKind(k) {
			continue
		}
		content, err := BrowseMarkdown(s.ID, subKindSublinks[k])
		if err != nil {
			return nil, err
		}
		out = append(out, Page{
			Tree:    SiteTree,
			Path:    path.Join(root, string(k), indexMD),
			Kind:    KindBrowse,
			Content: content,
		})
	}
	return out, nil
}

// DocsIndexRedirect renders the docs root `index.html` of a multi-source
// tree, sending visitors one level up to the landing page.
func DocsIndexRedirect() Page {
	return Page{Tree: DocsTree, Path: indexHTML, Kind: KindRedirect, Content: RedirectHTML("../")}
}

// DocsIndexBrowse renders the browse page of a multi-source docs root.
func DocsIndexBrowse(docsRoot string) (Page, error) {
	root, err := browseRoot(docsRoot, ".")
	if err != nil {
		return Page{}, err
	}
	content, err := BrowseMarkdown("", SublinksAll)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Tree:    SiteTree,
		Path:    path.Join(root, indexMD),
		Kind:    KindBrowse,
		Content: content,
	}, nil
}

func browseRoot(docsRoot, dir string) (string, error) {
	if !fs.ValidPath(docsRoot) || docsRoot == "." || strings.Contains(docsRoot, "/") {
		return "", fmt.Errorf("browse root %q is not a single directory name", docsRoot)
	}
	if !fs.ValidPath(dir) {
		return "", fmt.Errorf("site directory %q is not relative to the docs root", dir)
	}
	return path.Join(browseDir, docsRoot, dir), nil
}

// RootRedirect renders the site-tree `index.html` pointing into s.
func RootRedirect(s *site.Site, target string) Page {
	return Page{
		Tree:    SiteTree,
		Path:    indexHTML,
		Kind:    KindRootRedirect,
		Content: RedirectHTML(redirect.FromRoot(s, target)),
	}
}
