// Package generator turns a docs tree into navigation pages: it classifies
// the tree, builds every site, resolves redirect targets and writes pages.
//
// A run is planned completely before anything is written, so a fatal error
// in any site leaves every output untouched.
package generator

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/docnav/internal/config"
	derrors "git.home.luguber.info/inful/docnav/internal/errors"
	"git.home.luguber.info/inful/docnav/internal/layout"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/pages"
	"git.home.luguber.info/inful/docnav/internal/redirect"
	"git.home.luguber.info/inful/docnav/internal/site"
	"git.home.luguber.info/inful/docnav/internal/topology"
)

// SitePlan is one site with its resolved default view.
type SitePlan struct {
	Site *site.Site
	// Target is empty when HasTarget is false.
	Target    string
	HasTarget bool
}

// Plan is everything a run will write.
type Plan struct {
	Topology topology.Classification
	Sites    []SitePlan
	Pages    []pages.Page
}

// Summary reports what Apply did.
type Summary struct {
	Written   int
	Unchanged int
}

// Generator runs page generation for one configuration.
type Generator struct {
	cfg      *config.Config
	lister   layout.Lister
	writer   Writer
	recorder metrics.Recorder
	logger   *slog.Logger
	rootName string
}

// Option customizes a Generator.
type Option func(*Generator)

// WithLister replaces the docs tree reader, for in-memory fixtures.
func WithLister(l layout.Lister) Option { return func(g *Generator) { g.lister = l } }

// WithWriter replaces the page writer.
func WithWriter(w Writer) Option { return func(g *Generator) { g.writer = w } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(g *Generator) { g.recorder = r } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(g *Generator) { g.logger = l } }

// NewGenerator returns a Generator reading cfg.DocsDir and writing into
// cfg.DocsDir and cfg.SiteDir unless overridden by opts.
func NewGenerator(cfg *config.Config, opts ...Option) *Generator {
	g := &Generator{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.lister == nil {
		g.lister = layout.New(os.DirFS(cfg.DocsDir))
	}
	if g.writer == nil {
		g.writer = NewDirWriter(cfg.DocsDir, cfg.SiteDir)
	}
	g.rootName = rootName(cfg.DocsDir)
	return g
}

// rootName is the final segment of the absolute docs directory. It names a
// single-source site given as "." and keys the browse page tree.
func rootName(docsDir string) string {
	name := filepath.Base(docsDir)
	if abs, err := filepath.Abs(docsDir); err == nil {
		name = filepath.Base(abs)
	}
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return config.DefaultDocsDir
	}
	return name
}

// Plan inspects the docs tree and renders every page without writing.
func (g *Generator) Plan() (*Plan, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}
	res, err := topology.Detect(g.lister, ".")
	if err != nil {
		return nil, err
	}
	plan := &Plan{Topology: res.Classification}
	g.logger.Info("Site structure classified",
		logfields.Topology(res.Classification.String()),
		logfields.Count(len(res.SiteDirs)))

	opts := site.Options{
		DocsPath:          g.cfg.DocsPath(),
		RootName:          g.rootName,
		RepositoryBaseURL: g.cfg.RepositoryBaseURL,
	}
	for _, dir := range res.SiteDirs {
		s, err := site.Build(g.lister, dir, opts)
		if err != nil {
			return nil, err
		}
		sp, sitePages, err := g.planSite(s)
		if err != nil {
			return nil, err
		}
		plan.Sites = append(plan.Sites, sp)
		plan.Pages = append(plan.Pages, sitePages...)
	}

	docsIndex, err := g.planDocsIndex(plan)
	if err != nil {
		return nil, err
	}
	plan.Pages = append(plan.Pages, docsIndex...)

	if g.cfg.RootIndexRedirect {
		if len(plan.Sites) == 0 {
			return nil, derrors.MissingRoot(g.cfg.DocsPath())
		}
		last := plan.Sites[len(plan.Sites)-1]
		if !last.HasTarget {
			return nil, derrors.NoRedirectTarget(last.Site.BasePath)
		}
		plan.Pages = append(plan.Pages, pages.RootRedirect(last.Site, last.Target))
	}
	return plan, nil
}

func (g *Generator) planSite(s *site.Site) (SitePlan, []pages.Page, error) {
	sp := SitePlan{Site: s}
	sp.Target, sp.HasTarget = redirect.ForSite(s)

	collection, err := pages.CollectionPage(s)
	if err != nil {
		return sp, nil, derrors.InternalError("render collection page", err).WithContext("site", s.ID)
	}
	out := []pages.Page{collection}

	switch g.cfg.SubdirIndexMode {
	case config.SubdirIndexRedirect:
		if !sp.HasTarget {
			g.logger.Warn("Site has no builds; skipping redirect pages", logfields.Site(s.ID), logfields.Path(s.BasePath))
			g.recorder.IncSiteWithoutTarget()
			break
		}
		out = append(out, pages.RedirectPages(s, sp.Target)...)
	case config.SubdirIndexBrowse:
		browse, err := pages.BrowsePages(s, g.rootName)
		if err != nil {
			return sp, nil, derrors.InternalError("render browse pages", err).WithContext("site", s.ID)
		}
		out = append(out, browse...)
	}

	g.logger.Debug("Planned site",
		logfields.Site(s.ID),
		logfields.Target(sp.Target),
		slog.Int("branches", len(s.Branches)),
		slog.Int("releases", len(s.Releases)),
		slog.Int("pulls", len(s.PullRequests)))
	return sp, out, nil
}

// planDocsIndex renders the docs root index of a multi-source tree. A
// single-source docs root is the site itself and already has its pages.
func (g *Generator) planDocsIndex(plan *Plan) ([]pages.Page, error) {
	if plan.Topology != topology.MultiSource || len(plan.Sites) == 0 {
		return nil, nil
	}
	switch g.cfg.SubdirIndexMode {
	case config.SubdirIndexRedirect:
		return []pages.Page{pages.DocsIndexRedirect()}, nil
	case config.SubdirIndexBrowse:
		p, err := pages.DocsIndexBrowse(g.rootName)
		if err != nil {
			return nil, derrors.InternalError("render docs browse page", err)
		}
		return []pages.Page{p}, nil
	default:
		return nil, nil
	}
}

// Apply writes the pages of plan in order.
func (g *Generator) Apply(ctx context.Context, plan *Plan) (Summary, error) {
	var sum Summary
	for _, p := range plan.Pages {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		changed, err := g.writer.Write(p.Tree, p.Path, p.Content)
		if err != nil {
			return sum, derrors.FileSystemError("write page", p.Tree.String()+":"+p.Path, err)
		}
		if changed {
			sum.Written++
			g.recorder.IncPage(string(p.Kind), metrics.PageWritten)
			g.logger.Debug("Wrote page", logfields.Kind(string(p.Kind)), logfields.Path(p.Path))
		} else {
			sum.Unchanged++
			g.recorder.IncPage(string(p.Kind), metrics.PageUnchanged)
		}
	}
	return sum, nil
}

// Run plans and applies one generation pass.
func (g *Generator) Run(ctx context.Context) (*Plan, Summary, error) {
	start := time.Now()
	plan, sum, err := g.run(ctx)
	g.recorder.ObserveBuildDuration(time.Since(start))
	if err != nil {
		g.recorder.IncBuildOutcome(metrics.OutcomeFailed)
		return plan, sum, err
	}
	g.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	g.logger.Info("Navigation pages generated",
		logfields.Mode(g.cfg.SubdirIndexMode.String()),
		slog.Int("sites", len(plan.Sites)),
		slog.Int("written", sum.Written),
		slog.Int("unchanged", sum.Unchanged),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return plan, sum, nil
}

func (g *Generator) run(ctx context.Context) (*Plan, Summary, error) {
	plan, err := g.Plan()
	if err != nil {
		return nil, Summary{}, err
	}
	g.recorder.SetSites(plan.Topology.String(), len(plan.Sites))
	sum, err := g.Apply(ctx, plan)
	return plan, sum, err
}
