// Package watch re-runs a callback when sample files change on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher calls a function, debounced, whenever one of the watched files is
// written or re-created. Calls never overlap.
type Watcher struct {
	debounce time.Duration
	onChange func(path string)
	logger   *slog.Logger

	fsw  *fsnotify.Watcher
	done chan struct{}

	mu      sync.Mutex // serializes onChange
	stopped bool       // guarded by mu
	timers  map[string]*time.Timer
	tmu     sync.Mutex
}

// New creates a watcher that calls onChange once a file has been quiet for
// the debounce interval.
func New(debounce time.Duration, onChange func(path string)) *Watcher {
	return &Watcher{
		debounce: debounce,
		onChange: onChange,
		logger:   slog.Default().With("component", "watch"),
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
}

// Start begins watching paths and returns once the watches are in place.
// Watching stops when ctx is done; Wait blocks until then. Parent
// directories are watched so files replaced by rename are still seen.
func (w *Watcher) Start(ctx context.Context, paths ...string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return fmt.Errorf("bad path %q: %w", p, err)
		}
		watched[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return fmt.Errorf("watching %q: %w", dir, err)
		}
		dirs[dir] = true
	}
	w.fsw = fsw

	go w.loop(ctx, watched)
	w.logger.Info("watching for changes", "files", len(watched))
	return nil
}

// Wait blocks until the watcher has stopped and any onChange call in
// progress has returned.
func (w *Watcher) Wait() {
	<-w.done
}

func (w *Watcher) loop(ctx context.Context, watched map[string]bool) {
	defer w.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, _ := filepath.Abs(event.Name)
			if !watched[abs] {
				continue
			}
			w.schedule(abs)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) schedule(path string) {
	w.tmu.Lock()
	defer w.tmu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.stopped {
			return
		}
		w.logger.Debug("file changed", "path", path)
		w.onChange(path)
	})
}

// shutdown stops pending timers and waits out a running onChange before
// releasing Wait. Timers that already fired but have not taken mu yet see
// stopped and return.
func (w *Watcher) shutdown() {
	w.stopTimers()
	w.fsw.Close()

	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()

	close(w.done)
}

func (w *Watcher) stopTimers() {
	w.tmu.Lock()
	defer w.tmu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}
