// Package versioning orders release tags and pull-request builds.
package versioning

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"

	derrors "git.home.luguber.info/inful/docnav/internal/errors"
)

// pep440Pre matches PEP 440 pre-releases such as "1.0.0rc1", "2.1b2" and
// "1.0-alpha.3".
var pep440Pre = regexp.MustCompile(`^v?(\d+(?:\.\d+){0,2})[-_.]?(a|alpha|b|beta|c|rc|pre|preview)[-_.]?(\d*)$`)

var pep440Labels = map[string]string{
	"a": "a", "alpha": "a",
	"b": "b", "beta": "b",
	"c": "rc", "rc": "rc", "pre": "rc", "preview": "rc",
}

// Canonical returns the semver form of tag ("1.2" -> "v1.2.0"), or an
// error when tag is not a semantic version. PEP 440 pre-releases map onto
// semver pre-releases ("1.0rc1" -> "v1.0.0-rc.1"), which orders them
// a < b < rc < final.
func Canonical(tag string) (string, error) {
	norm := tag
	if !strings.HasPrefix(norm, "v") {
		norm = "v" + norm
	}
	if semver.IsValid(norm) {
		return semver.Canonical(norm), nil
	}
	if m := pep440Pre.FindStringSubmatch(tag); m != nil {
		release := m[1]
		for strings.Count(release, ".") < 2 {
			release += ".0"
		}
		n := 0
		if m[3] != "" {
			n, _ = strconv.Atoi(m[3])
		}
		pre := "v" + release + "-" + pep440Labels[m[2]] + "." + strconv.Itoa(n)
		if semver.IsValid(pre) {
			return semver.Canonical(pre), nil
		}
	}
	return "", derrors.MalformedVersion(tag)
}

// SortReleases returns tags newest first by semantic version. Tags that
// compare equal ("v1.0" and "1.0.0") fall back to descending string order so
// the result does not depend on input order. The original tag text is kept.
func SortReleases(tags []string) ([]string, error) {
	type release struct {
		tag, canonical string
	}
	releases := make([]release, 0, len(tags))
	for _, tag := range tags {
		c, err := Canonical(tag)
		if err != nil {
			return nil, err
		}
		releases = append(releases, release{tag: tag, canonical: c})
	}
	slices.SortFunc(releases, func(a, b release) int {
		if n := semver.Compare(b.canonical, a.canonical); n != 0 {
			return n
		}
		return cmp.Compare(b.tag, a.tag)
	})
	out := make([]string, len(releases))
	for i, r := range releases {
		out[i] = r.tag
	}
	return out, nil
}

// SortPullRequests returns ids in descending string order. Ids are not
// compared numerically: "9" sorts before "10".
func SortPullRequests(ids []string) []string {
	out := slices.Clone(ids)
	slices.SortFunc(out, func(a, b string) int { return cmp.Compare(b, a) })
	return out
}
