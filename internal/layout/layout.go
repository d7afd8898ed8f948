// Package layout exposes the directory-listing capability used to inspect a
// docs tree. All paths are slash-separated and relative to the tree root.
package layout

import (
	"errors"
	"io/fs"
	"path"
	"slices"
	"strings"
)

// Lister lists and reads entries of a docs tree.
type Lister interface {
	ChildDirectories(dir string) ([]string, error)
	HasDirectory(dir string) bool
	ReadText(name string) (string, error)
}

// FSLister implements Lister on top of an fs.FS.
type FSLister struct {
	fsys fs.FS
}

// New wraps fsys, usually os.DirFS(docsDir) or a testing/fstest.MapFS.
func New(fsys fs.FS) *FSLister {
	return &FSLister{fsys: fsys}
}

// ChildDirectories returns the names of the immediate child directories of
// dir in ascending order. Hidden directories are skipped and a missing dir
// yields no names.
func (l *FSLister) ChildDirectories(dir string) ([]string, error) {
	entries, err := fs.ReadDir(l.fsys, clean(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names, nil
}

// HasDirectory reports whether dir exists and is a directory.
func (l *FSLister) HasDirectory(dir string) bool {
	info, err := fs.Stat(l.fsys, clean(dir))
	return err == nil && info.IsDir()
}

// ReadText returns the content of name with surrounding whitespace removed.
func (l *FSLister) ReadText(name string) (string, error) {
	data, err := fs.ReadFile(l.fsys, clean(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func clean(p string) string {
	p = path.Clean(strings.TrimPrefix(p, "/"))
	if p == "" {
		return "."
	}
	return p
}
