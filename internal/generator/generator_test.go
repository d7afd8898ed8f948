package generator

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnav/internal/config"
	derrors "git.home.luguber.info/inful/docnav/internal/errors"
	"git.home.luguber.info/inful/docnav/internal/layout"
	"git.home.luguber.info/inful/docnav/internal/pages"
	"git.home.luguber.info/inful/docnav/internal/topology"
)

type memWriter struct {
	files map[string][]byte
}

func newMemWriter() *memWriter { return &memWriter{files: map[string][]byte{}} }

func (m *memWriter) Write(tree pages.Tree, path string, content []byte) (bool, error) {
	key := tree.String() + ":" + path
	if old, ok := m.files[key]; ok && string(old) == string(content) {
		return false, nil
	}
	m.files[key] = append([]byte(nil), content...)
	return true, nil
}

func (m *memWriter) get(t *testing.T, key string) string {
	t.Helper()
	data, ok := m.files[key]
	require.Truef(t, ok, "missing %s, have %v", key, m.keys())
	return string(data)
}

func (m *memWriter) keys() []string {
	out := make([]string, 0, len(m.files))
	for k := range m.files {
		out = append(out, k)
	}
	return out
}

func dir() *fstest.MapFile { return &fstest.MapFile{Mode: fs.ModeDir | 0o755} }

func ref(r string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(r + "\n")} }

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestGenerator(cfg *config.Config, fsys fs.FS, w Writer) *Generator {
	return NewGenerator(cfg,
		WithLister(layout.New(fsys)),
		WithWriter(w),
		WithLogger(quietLogger()))
}

func refresh(target string) string {
	return "<head>\n  <meta http-equiv=\"Refresh\" content=\"0; URL=" + target + "\" />\n</head>\n"
}

func TestRun_SingleSourceRedirect(t *testing.T) {
	fsys := fstest.MapFS{
		".gh_path":     ref("acme/widgets"),
		"tags/1.0.0":   dir(),
		"tags/2.0.0":   dir(),
		"branch/main":  dir(),
		"branch/dev-x": dir(),
	}
	cfg := config.Default()
	cfg.RootIndexRedirect = true
	cfg.SubdirIndexMode = config.SubdirIndexRedirect
	w := newMemWriter()

	plan, sum, err := newTestGenerator(cfg, fsys, w).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, topology.SingleSource, plan.Topology)
	require.Len(t, plan.Sites, 1)
	require.Equal(t, "tags/2.0.0", plan.Sites[0].Target)
	require.Equal(t, len(plan.Pages), sum.Written)

	require.Equal(t, refresh("tags/2.0.0"), w.get(t, "docs:index.html"))
	require.Equal(t, refresh("../tags/2.0.0"), w.get(t, "docs:tags/index.html"))
	require.Equal(t, refresh("../tags/2.0.0"), w.get(t, "docs:branch/index.html"))
	require.NotContains(t, w.files, "docs:pulls/index.html")
	require.Equal(t, refresh("docs/tags/2.0.0"), w.get(t, "site:index.html"))

	collection := w.get(t, "site:_docs/docs.md")
	require.Contains(t, collection, "jekyll_id: docs\n")
	require.Contains(t, collection, "main_url: docs/branch/main\n")
	require.Contains(t, collection, "gh_repo: https://github.com/acme/widgets\n")
}

func TestRun_MultiSourceRedirect(t *testing.T) {
	fsys := fstest.MapFS{
		"alpha/.gh_path":     ref("acme/alpha"),
		"alpha/branch/main":  dir(),
		"alpha/pulls/7":      dir(),
		"beta/.gh_path":      ref("acme/beta"),
		"beta/pulls/3":       dir(),
		"beta/pulls/12":      dir(),
		"gamma/.gh_path":     ref("acme/gamma"),
		"gamma/branch/feat":  dir(),
		"gamma/branch/alpha": dir(),
	}
	cfg := config.Default()
	cfg.RootIndexRedirect = true
	cfg.SubdirIndexMode = config.SubdirIndexRedirect
	w := newMemWriter()

	plan, _, err := newTestGenerator(cfg, fsys, w).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, topology.MultiSource, plan.Topology)
	require.Len(t, plan.Sites, 3)

	require.Equal(t, refresh("branch/main/"), w.get(t, "docs:alpha/index.html"))
	require.Equal(t, refresh("../branch/main/"), w.get(t, "docs:alpha/pulls/index.html"))
	require.Equal(t, refresh("pulls/3"), w.get(t, "docs:beta/index.html"))
	require.Equal(t, refresh("branch/alpha"), w.get(t, "docs:gamma/index.html"))
	require.Equal(t, refresh("../"), w.get(t, "docs:index.html"))
	require.Equal(t, refresh("docs/gamma/branch/alpha"), w.get(t, "site:index.html"))

	for _, id := range []string{"alpha", "beta", "gamma"} {
		w.get(t, "site:_docs/"+id+".md")
	}
}

func TestRun_BrowseMode(t *testing.T) {
	fsys := fstest.MapFS{
		"widgets/.gh_path":    ref("acme/widgets"),
		"widgets/tags/1.0.0":  dir(),
		"widgets/branch/main": dir(),
	}
	cfg := config.Default()
	cfg.SubdirIndexMode = config.SubdirIndexBrowse
	w := newMemWriter()

	_, _, err := newTestGenerator(cfg, fsys, w).Run(context.Background())
	require.NoError(t, err)

	index := w.get(t, "site:browse_pages/docs/widgets/index.md")
	require.Contains(t, index, "layout: default\n")
	require.Contains(t, index, `sublinks="branches,pulls,releases"`)
	require.Contains(t, index, `target="widgets"`)
	require.Contains(t, w.get(t, "site:browse_pages/docs/widgets/tags/index.md"), `sublinks="releases"`)
	require.Contains(t, w.get(t, "site:browse_pages/docs/widgets/branch/index.md"), `sublinks="branches"`)
	require.NotContains(t, w.files, "site:browse_pages/docs/widgets/pulls/index.md")
	require.Contains(t, w.get(t, "site:browse_pages/docs/index.md"), `target=""`)
	require.NotContains(t, w.files, "docs:widgets/index.html")
	require.NotContains(t, w.files, "site:index.html")
}

func TestRun_BrowsePagesStayInsideBrowseTree(t *testing.T) {
	fsys := fstest.MapFS{
		"widgets/.gh_path":    ref("acme/widgets"),
		"widgets/tags/1.0.0":  dir(),
		"gadgets/.gh_path":    ref("acme/gadgets"),
		"gadgets/branch/main": dir(),
	}
	for docsDir, root := range map[string]string{
		"../published":    "published",
		"../../published": "published",
		"/srv/published":  "published",
	} {
		t.Run(docsDir, func(t *testing.T) {
			cfg := config.Default()
			cfg.DocsDir = docsDir
			cfg.SubdirIndexMode = config.SubdirIndexBrowse
			w := newMemWriter()

			_, _, err := newTestGenerator(cfg, fsys, w).Run(context.Background())
			require.NoError(t, err)

			w.get(t, "site:browse_pages/"+root+"/index.md")
			w.get(t, "site:browse_pages/"+root+"/widgets/index.md")
			w.get(t, "site:browse_pages/"+root+"/widgets/tags/index.md")
			w.get(t, "site:browse_pages/"+root+"/gadgets/branch/index.md")
			for key := range w.files {
				require.Regexp(t, `^site:(_docs|browse_pages)/`, key)
			}
		})
	}
}

func TestRun_NoIndexModeWritesOnlyCollections(t *testing.T) {
	fsys := fstest.MapFS{
		"widgets/.gh_path":    ref("acme/widgets"),
		"widgets/branch/main": dir(),
	}
	w := newMemWriter()

	_, sum, err := newTestGenerator(config.Default(), fsys, w).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, sum.Written)
	require.ElementsMatch(t, []string{"site:_docs/widgets.md"}, w.keys())
}

func TestRun_SiteWithoutBuildsSkipsRedirects(t *testing.T) {
	fsys := fstest.MapFS{
		"empty/.gh_path":      ref("acme/empty"),
		"empty/branch":        dir(),
		"widgets/.gh_path":    ref("acme/widgets"),
		"widgets/branch/main": dir(),
	}
	cfg := config.Default()
	cfg.SubdirIndexMode = config.SubdirIndexRedirect
	w := newMemWriter()

	plan, _, err := newTestGenerator(cfg, fsys, w).Run(context.Background())
	require.NoError(t, err)
	require.False(t, plan.Sites[0].HasTarget)
	require.NotContains(t, w.files, "docs:empty/index.html")
	require.NotContains(t, w.files, "docs:empty/branch/index.html")
	w.get(t, "site:_docs/empty.md")
	w.get(t, "docs:widgets/index.html")
}

func TestPlan_RootRedirectErrors(t *testing.T) {
	cfg := config.Default()
	cfg.RootIndexRedirect = true

	t.Run("no sites", func(t *testing.T) {
		w := newMemWriter()
		_, _, err := newTestGenerator(cfg, fstest.MapFS{}, w).Run(context.Background())
		require.ErrorIs(t, err, derrors.ErrMissingRoot)
		require.Empty(t, w.files)
	})

	t.Run("last site without target", func(t *testing.T) {
		fsys := fstest.MapFS{
			"a/.gh_path":    ref("acme/a"),
			"a/branch/main": dir(),
			"z/.gh_path":    ref("acme/z"),
		}
		w := newMemWriter()
		_, _, err := newTestGenerator(cfg, fsys, w).Run(context.Background())
		require.ErrorIs(t, err, derrors.ErrNoRedirectTarget)
		require.Empty(t, w.files)
	})
}

func TestPlan_FailsBeforeWriting(t *testing.T) {
	cases := map[string]struct {
		fsys fstest.MapFS
		kind error
	}{
		"inconsistent topology": {
			fsys: fstest.MapFS{".gh_path": ref("acme/x"), "branch/main": dir(), "widgets": dir()},
			kind: derrors.ErrTopologyInconsistent,
		},
		"malformed release": {
			fsys: fstest.MapFS{
				"a/.gh_path":      ref("acme/a"),
				"a/branch/main":   dir(),
				"b/.gh_path":      ref("acme/b"),
				"b/tags/not-semv": dir(),
			},
			kind: derrors.ErrMalformedVersion,
		},
		"missing repository reference": {
			fsys: fstest.MapFS{
				"a/.gh_path":    ref("acme/a"),
				"a/branch/main": dir(),
				"b/branch/main": dir(),
			},
			kind: derrors.ErrMissingRepositoryRef,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			cfg.SubdirIndexMode = config.SubdirIndexRedirect
			w := newMemWriter()
			_, _, err := newTestGenerator(cfg, tc.fsys, w).Run(context.Background())
			require.ErrorIs(t, err, tc.kind)
			require.Empty(t, w.files)
		})
	}
}

func TestRun_DirWriterIsIdempotent(t *testing.T) {
	tmp := t.TempDir()
	docs := filepath.Join(tmp, "docs")
	siteDir := filepath.Join(tmp, "site")
	for _, d := range []string{"widgets/tags/1.0.0", "widgets/tags/2.0.0", "widgets/branch/main"} {
		require.NoError(t, os.MkdirAll(filepath.Join(docs, filepath.FromSlash(d)), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(docs, "widgets", ".gh_path"), []byte("acme/widgets\n"), 0o644))

	cfg := config.Default()
	cfg.RootIndexRedirect = true
	cfg.SubdirIndexMode = config.SubdirIndexRedirect
	gen := NewGenerator(cfg,
		WithLister(layout.New(os.DirFS(docs))),
		WithWriter(NewDirWriter(docs, siteDir)),
		WithLogger(quietLogger()))

	_, first, err := gen.Run(context.Background())
	require.NoError(t, err)
	require.Positive(t, first.Written)

	root, err := os.ReadFile(filepath.Join(siteDir, "index.html"))
	require.NoError(t, err)
	require.Equal(t, refresh("docs/widgets/tags/2.0.0"), string(root))
	sub, err := os.ReadFile(filepath.Join(docs, "widgets", "branch", "index.html"))
	require.NoError(t, err)
	require.Equal(t, refresh("../tags/2.0.0"), string(sub))

	_, second, err := gen.Run(context.Background())
	require.NoError(t, err)
	require.Zero(t, second.Written)
	require.Equal(t, first.Written, second.Unchanged)

	again, err := os.ReadFile(filepath.Join(siteDir, "index.html"))
	require.NoError(t, err)
	require.Equal(t, root, again)
}

func TestApply_StopsOnCancelledContext(t *testing.T) {
	gen := newTestGenerator(config.Default(), fstest.MapFS{}, newMemWriter())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	plan := &Plan{Pages: []pages.Page{pages.DocsIndexRedirect()}}
	_, err := gen.Apply(ctx, plan)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDirWriter_RejectsEscapingPaths(t *testing.T) {
	w := NewDirWriter(t.TempDir(), t.TempDir())
	_, err := w.Write(pages.DocsTree, "../outside.html", []byte("x"))
	require.Error(t, err)
}
