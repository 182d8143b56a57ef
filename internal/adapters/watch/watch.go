// Package watch requests a refresh whenever a table in the data directory
// changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/propcast/pkg/logger"
	"github.com/okian/propcast/pkg/metrics"
)

const defaultDebounce = 500 * time.Millisecond

// Trigger is called once per burst of changes.
type Trigger func(ctx context.Context) error

// Option applies a configuration option to the Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the directory must stay quiet before a trigger.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets a custom logger for the watcher.
func WithLogger(l logger.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// Watcher coalesces fsnotify events on *.csv files into triggers.
type Watcher struct {
	dir      string
	trigger  Trigger
	debounce time.Duration
	logger   logger.Logger
}

// New creates a watcher for dir.
func New(dir string, trigger Trigger, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		trigger:  trigger,
		debounce: defaultDebounce,
		logger:   logger.Named("watch"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) (err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info(ctx, "watching data directory", logger.String("dir", w.dir))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			metrics.RecordWatchEvent()
			w.logger.Debug(ctx, "table changed",
				logger.String("file", filepath.Base(event.Name)),
				logger.String("op", event.Op.String()),
			)
			timer.Reset(w.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			metrics.RecordErrorByComponent("watch", "fsnotify")
			w.logger.Warn(ctx, "watcher error", logger.Error(err))
		case <-timer.C:
			if err := w.trigger(ctx); err != nil {
				w.logger.Warn(ctx, "refresh trigger failed", logger.Error(err))
			}
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), ".csv") {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}
