package topology

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docnav/internal/errors"
	"git.home.luguber.info/inful/docnav/internal/layout"
)

func tree(dirs ...string) *layout.FSLister {
	fsys := fstest.MapFS{}
	for _, d := range dirs {
		fsys[d] = &fstest.MapFile{Mode: fs.ModeDir | 0o755}
	}
	return layout.New(fsys)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		want       Classification
		wantErr    bool
	}{
		{"all sub-kinds", []string{"branch", "pulls", "tags"}, SingleSource, false},
		{"single sub-kind", []string{"tags"}, SingleSource, false},
		{"no sub-kinds", []string{"gadgets", "widgets"}, MultiSource, false},
		{"no candidates", nil, MultiSource, false},
		{"mixture", []string{"tags", "widgets"}, Inconsistent, true},
		{"name merely contains a sub-kind", []string{"tagsmith", "branches"}, MultiSource, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.candidates)
			require.Equal(t, tt.want, got)
			if tt.wantErr {
				require.ErrorIs(t, err, derrors.ErrTopologyInconsistent)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestClassify_ErrorNamesDirectories(t *testing.T) {
	_, err := Classify([]string{"gadgets", "tags", "widgets"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "[tags]")
	require.Contains(t, err.Error(), "[gadgets widgets]")
}

func TestDetect_SingleSource(t *testing.T) {
	l := tree("docs/branch/main", "docs/tags/1.0.0", "docs/pulls/12")

	res, err := Detect(l, "docs")
	require.NoError(t, err)
	require.Equal(t, SingleSource, res.Classification)
	require.Equal(t, []string{"branch", "pulls", "tags"}, res.Candidates)
	require.Equal(t, []string{"docs"}, res.SiteDirs)
}

func TestDetect_MultiSource(t *testing.T) {
	l := tree("docs/widgets/tags/1.0.0", "docs/gadgets/branch/main", "docs/.git")

	res, err := Detect(l, "docs")
	require.NoError(t, err)
	require.Equal(t, MultiSource, res.Classification)
	require.Equal(t, []string{"docs/gadgets", "docs/widgets"}, res.SiteDirs)
}

func TestDetect_Empty(t *testing.T) {
	res, err := Detect(tree(), "docs")
	require.NoError(t, err)
	require.Equal(t, MultiSource, res.Classification)
	require.Empty(t, res.SiteDirs)
}

func TestDetect_Inconsistent(t *testing.T) {
	l := tree("docs/widgets/tags/1.0.0", "docs/branch/main")

	res, err := Detect(l, "docs")
	require.ErrorIs(t, err, derrors.ErrTopologyInconsistent)
	require.Equal(t, Inconsistent, res.Classification)
	require.Empty(t, res.SiteDirs)
}

func TestClassificationString(t *testing.T) {
	require.Equal(t, "single", SingleSource.String())
	require.Equal(t, "multiple", MultiSource.String())
	require.Equal(t, "inconsistent", Inconsistent.String())
}
