// Package watcher turns filesystem events in the upload directories into
// library scans. Events for one library are coalesced over a short settle
// window so a batch copy triggers one scan, not one per file. Scans go
// through the same per-domain guard as the API, so a watcher-triggered run
// never overlaps a user-triggered one.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"media-streamer/internal/guard"
	"media-streamer/internal/library"
	"media-streamer/internal/logging"
	"media-streamer/internal/logsink"
	"media-streamer/internal/metrics"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is the quiet period after the last event before a scan fires.
const DefaultSettle = 2 * time.Second

type Watcher struct {
	registry *library.Registry
	guards   *guard.Registry
	scanner  *library.Scanner
	settle   time.Duration
}

// New creates a Watcher. A settle of zero or less selects DefaultSettle.
func New(registry *library.Registry, guards *guard.Registry, scanner *library.Scanner, settle time.Duration) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{
		registry: registry,
		guards:   guards,
		scanner:  scanner,
		settle:   settle,
	}
}

// Run watches the upload trees until ctx is cancelled. It returns an error
// only when the watcher itself cannot be created.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		metrics.WatcherErrors.Inc()
		return err
	}
	defer func() {
		if err := fsw.Close(); err != nil {
			logging.Error("failed to close upload watcher: %v", err)
		}
	}()

	watched := 0
	for _, d := range w.registry.All() {
		watched += w.addTree(fsw, d.UploadDir)
	}
	logging.Info("upload watcher running, %d directories watched", watched)

	// One settle timer per domain; a firing timer delivers the domain name
	// to the main loop, which owns all state.
	due := make(chan string, 2*len(w.registry.All())+1)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, event, timers, due)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logging.Error("upload watcher error: %v", err)
			metrics.WatcherErrors.Inc()

		case name := <-due:
			w.triggerScan(ctx, name, timers, due)
		}
	}
}

// addTree registers dir and every subdirectory with the watcher and returns
// how many directories were added. A missing upload directory is fine; it
// just watches nothing.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) int {
	count := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && !strings.HasPrefix(info.Name(), ".") {
			if addErr := fsw.Add(path); addErr != nil {
				logging.Warn("failed to watch %s: %v", path, addErr)
				metrics.WatcherErrors.Inc()
			} else {
				count++
			}
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		logging.Warn("failed to walk %s for watching: %v", dir, err)
		metrics.WatcherErrors.Inc()
	}
	return count
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event, timers map[string]*time.Timer, due chan<- string) {
	if strings.Contains(event.Name, string(filepath.Separator)+".") {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	d := w.domainFor(event.Name)
	if d == nil {
		return
	}
	metrics.WatcherEventsTotal.WithLabelValues(d.Name).Inc()

	// New directories join the watch so files landing inside them are seen.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if addErr := fsw.Add(event.Name); addErr != nil {
				logging.Warn("failed to watch new directory %s: %v", event.Name, addErr)
				metrics.WatcherErrors.Inc()
			}
		}
	}

	w.schedule(d.Name, w.settle, timers, due)
}

// schedule arms or rearms the settle timer for a domain.
func (w *Watcher) schedule(name string, delay time.Duration, timers map[string]*time.Timer, due chan<- string) {
	if t, ok := timers[name]; ok {
		t.Reset(delay)
		return
	}
	timers[name] = time.AfterFunc(delay, func() {
		due <- name
	})
}

// triggerScan attempts a guarded scan of the named domain. A guard rejection
// reschedules instead of dropping the work: the uploads that caused the
// events still need indexing.
func (w *Watcher) triggerScan(ctx context.Context, name string, timers map[string]*time.Timer, due chan<- string) {
	d := w.registry.Get(name)
	if d == nil {
		return
	}

	release, err := w.guards.Get(name).TryAcquire()
	if err != nil {
		var debounced *guard.DebounceError
		retry := w.settle
		if errors.As(err, &debounced) {
			retry = debounced.Remaining
		}
		logging.Debug("watched scan of %s deferred: %v", name, err)
		w.schedule(name, retry, timers, due)
		return
	}

	logging.Info("[WATCH] change detected in %s uploads, scanning", name)
	go func() {
		defer release()
		if _, err := w.scanner.Scan(ctx, d, logsink.Logger()); err != nil {
			logging.Error("watched scan of %s failed: %v", name, err)
		}
	}()
}

// domainFor maps an event path to the library whose upload tree contains it.
func (w *Watcher) domainFor(path string) *library.Domain {
	for _, d := range w.registry.All() {
		if path == d.UploadDir || strings.HasPrefix(path, d.UploadDir+string(filepath.Separator)) {
			return d
		}
	}
	return nil
}
