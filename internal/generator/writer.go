package generator

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docnav/internal/pages"
)

// Writer persists rendered pages.
type Writer interface {
	// Write stores content at path under tree and reports whether the file
	// changed. Identical existing content is left untouched.
	Write(tree pages.Tree, path string, content []byte) (bool, error)
}

// DirWriter writes pages below one root directory per tree.
type DirWriter struct {
	roots map[pages.Tree]string
}

// NewDirWriter returns a writer rooted at docsDir and siteDir.
func NewDirWriter(docsDir, siteDir string) *DirWriter {
	return &DirWriter{roots: map[pages.Tree]string{
		pages.DocsTree: docsDir,
		pages.SiteTree: siteDir,
	}}
}

// Resolve returns the filesystem path of a page path.
func (w *DirWriter) Resolve(tree pages.Tree, path string) (string, error) {
	root, ok := w.roots[tree]
	if !ok {
		return "", fmt.Errorf("no root for %s tree", tree)
	}
	rel := filepath.FromSlash(path)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("page path %q escapes the %s tree", path, tree)
	}
	return filepath.Join(root, rel), nil
}

func (w *DirWriter) Write(tree pages.Tree, path string, content []byte) (bool, error) {
	target, err := w.Resolve(tree, path)
	if err != nil {
		return false, err
	}
	existing, err := os.ReadFile(target)
	switch {
	case err == nil && bytes.Equal(existing, content):
		return false, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
