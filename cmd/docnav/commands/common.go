package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/generator"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/site"
)

// Global is shared state passed to every command.
type Global struct {
	Logger *slog.Logger
	// Stdout receives command output meant for the user, as opposed to logs.
	Stdout io.Writer
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags.
type CLI struct {
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" default:"withargs" help:"Generate collection, redirect and browse pages (default)"`
	Discover DiscoverCmd `cmd:"" help:"Show the detected site structure and redirect targets without writing"`
	Watch    WatchCmd    `cmd:"" help:"Regenerate pages whenever the docs tree changes"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// LayoutFlags locate the docs and site trees.
type LayoutFlags struct {
	DocsDir     string `name:"docs-dir" help:"Directory holding the built documentation" default:"docs" env:"DOCNAV_DOCS_DIR"`
	SiteDir     string `name:"site-dir" help:"Static-site generator source directory" default:"site" env:"DOCNAV_SITE_DIR"`
	RepoBaseURL string `name:"repo-base-url" help:"Prefix for .gh_path repository references" default:"${repo_base_url}" env:"DOCNAV_REPO_BASE_URL"`
}

// GenerationFlags select the pages to generate.
type GenerationFlags struct {
	LayoutFlags `embed:""`

	RootIndexRedirect bool   `name:"root_index_redirect" help:"Write a site index.html redirecting to the last site" env:"DOCNAV_ROOT_INDEX_REDIRECT"`
	SubdirIndex       string `name:"subdir_index" help:"Index pages below the docs root (${enum})" enum:"none,redirect,browse" default:"none" env:"DOCNAV_SUBDIR_INDEX"`
	MetricsTextfile   string `name:"metrics-textfile" help:"Write Prometheus metrics in text format to this file after each run" env:"DOCNAV_METRICS_TEXTFILE"`
}

// Vars are the kong interpolation variables the flags refer to.
func Vars() kong.Vars {
	return kong.Vars{"repo_base_url": site.DefaultRepositoryBaseURL}
}

func (f *LayoutFlags) config() *config.Config {
	cfg := config.Default()
	cfg.DocsDir = f.DocsDir
	cfg.SiteDir = f.SiteDir
	cfg.RepositoryBaseURL = f.RepoBaseURL
	return cfg
}

func (f *GenerationFlags) config() (*config.Config, error) {
	cfg := f.LayoutFlags.config()
	mode, err := config.ParseSubdirIndexMode(f.SubdirIndex)
	if err != nil {
		return nil, err
	}
	cfg.RootIndexRedirect = f.RootIndexRedirect
	cfg.SubdirIndexMode = mode
	return cfg, cfg.Validate()
}

// runner builds a generator and exports metrics after each run when asked to.
type runner struct {
	gen      *generator.Generator
	registry *prom.Registry
	textfile string
	logger   *slog.Logger
}

func newRunner(f *GenerationFlags, logger *slog.Logger) (*runner, error) {
	cfg, err := f.config()
	if err != nil {
		return nil, err
	}
	r := &runner{textfile: f.MetricsTextfile, logger: logger}
	opts := []generator.Option{generator.WithLogger(logger)}
	if r.textfile != "" {
		r.registry = prom.NewRegistry()
		opts = append(opts, generator.WithRecorder(metrics.NewPrometheusRecorder(r.registry)))
	}
	r.gen = generator.NewGenerator(cfg, opts...)
	return r, nil
}

func (r *runner) exportMetrics() {
	if r.registry == nil {
		return
	}
	if err := metrics.WriteTextfile(r.textfile, r.registry); err != nil {
		r.logger.Warn("Failed to write metrics textfile", logfields.Path(r.textfile), logfields.Error(err))
	}
}
