// Package watch re-runs an action whenever one of a set of files changes.
// It backs the merge --watch flag: every changelog source is watched through
// its parent directory, so editors that save by rename-and-replace are still
// caught. Bursts of events are debounced into a single callback.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period applied when none is configured.
const DefaultDebounce = 300 * time.Millisecond

// Watcher observes a fixed set of files and reports coalesced changes.
type Watcher struct {
	paths    map[string]bool // absolute paths being watched
	watcher  *fsnotify.Watcher
	debounce time.Duration
	mu       sync.Mutex
	closed   bool
}

// New creates a Watcher over the given file paths. The files must exist at
// call time; their parent directories are registered with fsnotify so
// replace-on-save editors don't silently detach the watch.
func New(paths []string, debounce time.Duration) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("nothing to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		paths:    make(map[string]bool, len(paths)),
		watcher:  fsw,
		debounce: debounce,
	}

	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolving %s: %w", path, err)
		}
		w.paths[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	return w, nil
}

// Run blocks, invoking onChange after each debounced burst of changes to the
// watched files. It returns when the context is cancelled (with ctx.Err())
// or when the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-fire:
			timer = nil
			fire = nil
			onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// relevant reports whether the event touches one of the watched files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	return w.paths[filepath.Clean(event.Name)]
}

// Paths returns the absolute paths being watched, for status output.
func (w *Watcher) Paths() []string {
	paths := make([]string, 0, len(w.paths))
	for path := range w.paths {
		paths = append(paths, path)
	}
	return paths
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
