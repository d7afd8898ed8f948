package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"git.home.luguber.info/inful/docnav/internal/generator"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/pages"
	"git.home.luguber.info/inful/docnav/internal/site"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	LayoutFlags `embed:""`
}

// Collection page states shown by discover.
const (
	collectionMissing    = "missing"
	collectionCurrent    = "current"
	collectionStale      = "stale"
	collectionUnreadable = "unreadable"
)

func (d *DiscoverCmd) Run(g *Global, _ *CLI) error {
	cfg := d.LayoutFlags.config()
	if err := cfg.Validate(); err != nil {
		return err
	}
	plan, err := generator.NewGenerator(cfg, generator.WithLogger(g.logger())).Plan()
	if err != nil {
		return err
	}
	return printPlan(g.stdout(), plan, func(s *site.Site) string {
		return collectionState(cfg.SiteDir, s, g.logger())
	})
}

// collectionState compares the collection page already in siteDir with the
// one a build would write.
func collectionState(siteDir string, s *site.Site, logger *slog.Logger) string {
	page, err := pages.CollectionPage(s)
	if err != nil {
		return collectionUnreadable
	}
	existing, err := os.ReadFile(filepath.Join(siteDir, filepath.FromSlash(page.Path)))
	if errors.Is(err, fs.ErrNotExist) {
		return collectionMissing
	}
	if err != nil {
		logger.Warn("Failed to read collection page", logfields.Site(s.ID), logfields.Error(err))
		return collectionUnreadable
	}
	current, err := pages.CollectionCurrent(existing, s)
	switch {
	case err != nil:
		logger.Warn("Failed to parse collection page", logfields.Site(s.ID), logfields.Error(err))
		return collectionUnreadable
	case current:
		return collectionCurrent
	default:
		return collectionStale
	}
}

func printPlan(w io.Writer, plan *generator.Plan, state func(*site.Site) string) error {
	if _, err := fmt.Fprintf(w, "Topology: %s\n", plan.Topology); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SITE\tPATH\tREPOSITORY\tBRANCHES\tRELEASES\tPULLS\tTARGET\tCOLLECTION")
	for _, sp := range plan.Sites {
		target := sp.Target
		if !sp.HasTarget {
			target = "-"
		}
		s := sp.Site
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			s.ID, s.BasePath, s.RepositoryURL, len(s.Branches), len(s.Releases), len(s.PullRequests), target, state(s))
	}
	return tw.Flush()
}
