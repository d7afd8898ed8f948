// Package topology decides whether a docs tree holds one documentation
// source or one source per child directory.
package topology

import (
	"path"

	derrors "git.home.luguber.info/inful/docnav/internal/errors"
	"git.home.luguber.info/inful/docnav/internal/layout"
	"git.home.luguber.info/inful/docnav/internal/util/sets"
)

// SubKind names one category of build output under a site.
type SubKind string

const (
	SubKindBranch SubKind = "branch"
	SubKindTags   SubKind = "tags"
	SubKindPulls  SubKind = "pulls"
)

// SubKinds lists every sub-kind in the order pages are emitted for them.
var SubKinds = []SubKind{SubKindBranch, SubKindPulls, SubKindTags}

var subKindNames = sets.New(string(SubKindBranch), string(SubKindTags), string(SubKindPulls))

// Classification is the shape of a docs tree.
type Classification int

const (
	Inconsistent Classification = iota
	SingleSource
	MultiSource
)

func (c Classification) String() string {
	switch c {
	case SingleSource:
		return "single"
	case MultiSource:
		return "multiple"
	default:
		return "inconsistent"
	}
}

// Result is the outcome of Detect.
type Result struct {
	Classification Classification
	Candidates     []string
	// SiteDirs are the site base directories relative to the docs root.
	SiteDirs []string
}

// IsSubKind reports whether the candidate directory is itself a branch,
// tags or pulls output directory of the docs root.
func IsSubKind(candidate string) bool {
	return subKindNames.Has(path.Base(candidate))
}

// Classify labels a set of candidate directories. All sub-kind candidates
// mean the docs root is the single source; none means every candidate is a
// site of its own; a mixture is Inconsistent and returns a fatal error
// naming both groups. No candidates classifies as MultiSource, which yields
// nothing to process.
func Classify(candidates []string) (Classification, error) {
	flags := sets.New[bool]()
	var with, without []string
	for _, c := range candidates {
		has := IsSubKind(c)
		flags.Add(has)
		if has {
			with = append(with, c)
		} else {
			without = append(without, c)
		}
	}

	switch {
	case flags.Len() > 1:
		return Inconsistent, derrors.TopologyInconsistent(with, without)
	case flags.Has(true):
		return SingleSource, nil
	default:
		return MultiSource, nil
	}
}

// Detect lists the candidate directories directly under root and classifies them.
func Detect(l layout.Lister, root string) (*Result, error) {
	candidates, err := l.ChildDirectories(root)
	if err != nil {
		return nil, derrors.FileSystemError("list docs root", root, err)
	}
	c, err := Classify(candidates)
	if err != nil {
		return &Result{Classification: c, Candidates: candidates}, err
	}
	return &Result{
		Classification: c,
		Candidates:     candidates,
		SiteDirs:       SiteDirs(c, root, candidates),
	}, nil
}

// SiteDirs maps a classification to the site base directories.
func SiteDirs(c Classification, root string, candidates []string) []string {
	switch c {
	case SingleSource:
		return []string{path.Clean(root)}
	case MultiSource:
		out := make([]string, 0, len(candidates))
		for _, cand := range candidates {
			out = append(out, path.Join(root, cand))
		}
		return out
	default:
		return nil
	}
}
