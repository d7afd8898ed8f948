package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docnav/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	GenerationFlags `embed:""`

	Debounce time.Duration `help:"Quiet period after the last change before regenerating" default:"300ms" env:"DOCNAV_WATCH_DEBOUNCE"`
}

func (w *WatchCmd) Run(g *Global, _ *CLI) error {
	r, err := newRunner(&w.GenerationFlags, g.logger())
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return w.watcher(r).Run(ctx)
}

func (w *WatchCmd) watcher(r *runner) *watch.Watcher {
	return watch.New(w.DocsDir, func(ctx context.Context) error {
		_, _, err := r.gen.Run(ctx)
		r.exportMetrics()
		return err
	}, watch.WithDebounce(w.Debounce), watch.WithLogger(r.logger))
}
