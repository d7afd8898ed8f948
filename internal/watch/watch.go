// Package watch reruns page generation whenever the docs tree changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/site"
)

// DefaultDebounce is the quiet period after the last event before a rerun.
const DefaultDebounce = 300 * time.Millisecond

// RunFunc performs one generation pass.
type RunFunc func(ctx context.Context) error

// Watcher observes a directory tree and calls a RunFunc on changes.
type Watcher struct {
	root     string
	run      RunFunc
	debounce time.Duration
	logger   *slog.Logger
}

// Option customizes a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option { return func(w *Watcher) { w.debounce = d } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(w *Watcher) { w.logger = l } }

// New returns a Watcher for root.
func New(root string, run RunFunc, opts ...Option) *Watcher {
	w := &Watcher{root: root, run: run, debounce: DefaultDebounce, logger: slog.Default()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run performs an initial pass, then reruns after every burst of changes
// until ctx is done. Failed passes are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()
	if err := w.addDirsRecursive(fw, w.root); err != nil {
		return err
	}

	w.runOnce(ctx)

	rerun, trigger, stop := newDebouncer(w.debounce)
	defer stop()
	w.logger.Info("Watching docs tree for changes", logfields.Path(w.root))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopped watching", logfields.Path(w.root))
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, ev, trigger)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", logfields.Error(err))
		case <-rerun:
			w.logger.Info("Change detected; regenerating pages")
			w.runOnce(ctx)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	if err := w.run(ctx); err != nil {
		w.logger.Warn("generation failed", logfields.Error(err))
	}
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(fw, ev.Name)
		}
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", root)
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := fw.Add(path); err != nil {
				w.logger.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// newDebouncer returns a channel that fires once d after the last trigger.
func newDebouncer(d time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case fire <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return fire, trigger, stop
}

// shouldIgnoreEvent reports events that cannot change the generated pages.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if base == site.RepositoryRefFile {
		return false
	}
	if strings.HasPrefix(base, ".") {
		return true
	}

	// editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db"
}
