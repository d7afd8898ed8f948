// Package redirect picks the canonical default view of a site and derives
// the paths redirect pages point at.
package redirect

import (
	"path"
	"slices"
	"strings"

	"git.home.luguber.info/inful/docnav/internal/site"
	"git.home.luguber.info/inful/docnav/internal/topology"
)

// Resolve returns the default view of a site, first match wins:
// the newest release, the main branch, the first pull request, the first
// branch. ok is false when all three collections are empty.
//
// releases and pulls must already be in their published order.
func Resolve(branches, releases, pulls []string) (target string, ok bool) {
	switch {
	case len(releases) > 0:
		return string(topology.SubKindTags) + "/" + releases[0], true
	case slices.Contains(branches, site.MainBranch):
		return string(topology.SubKindBranch) + "/" + site.MainBranch + "/", true
	case len(pulls) > 0:
		return string(topology.SubKindPulls) + "/" + pulls[0], true
	case len(branches) > 0:
		return string(topology.SubKindBranch) + "/" + branches[0], true
	default:
		return "", false
	}
}

// ForSite resolves the default view of s.
func ForSite(s *site.Site) (string, bool) {
	return Resolve(s.Branches, s.Releases, s.PullRequests)
}

// Relative returns target as seen from depth directories below the site root.
func Relative(target string, depth int) string {
	return strings.Repeat("../", depth) + target
}

// FromRoot returns target prefixed with the site base path, for redirects
// emitted above the docs tree.
func FromRoot(s *site.Site, target string) string {
	joined := path.Join(s.BasePath, target)
	if strings.HasSuffix(target, "/") {
		joined += "/"
	}
	return joined
}
