// Package dumpwatch watches a directory for new or rewritten dump files so
// a running viewer can pick up output from a profiler that's still
// appending parts, debouncing bursts of writes the way a profiler often
// produces them (one file per part, written in quick succession).
package dumpwatch

import (
	"context"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Watcher monitors one directory for dump files matching any of its
// patterns, reporting debounced changes through the onChanged callback
// set by SetCallbacks.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	patterns []string
	debounce time.Duration

	onChanged func(path string)
	onRemoved func(path string)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
}

// New creates a Watcher over dir, reporting files whose base name matches
// any of patterns (doublestar glob syntax, e.g. "callgrind.out.*").
// debounce controls how long to wait after the last matching event (on
// any path) before reporting every pending path at once, coalescing the
// write-then-rename sequence most profilers use when finishing a dump.
func New(dir string, patterns []string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		watcher:  fw,
		dir:      dir,
		patterns: patterns,
		debounce: debounce,
		pending:  make(map[string]bool),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// SetCallbacks wires the functions invoked when a watched dump file is
// created/written (onChanged) or removed (onRemoved). Either may be nil.
func (w *Watcher) SetCallbacks(onChanged, onRemoved func(path string)) {
	w.onChanged = onChanged
	w.onRemoved = onRemoved
}

// Start begins processing filesystem events in a background goroutine.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.run()
}

// Stop halts the watcher and blocks until its goroutine exits.
func (w *Watcher) Stop() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) matches(path string) bool {
	base := path
	if idx := lastSlash(path); idx >= 0 {
		base = path[idx+1:]
	}
	for _, pat := range w.patterns {
		if ok, err := doublestar.Match(pat, base); err == nil && ok {
			return true
		}
	}
	return len(w.patterns) == 0
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !w.matches(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Remove != 0 {
		if w.onRemoved != nil {
			w.onRemoved(ev.Name)
		}
		return
	}
	if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	w.mu.Lock()
	w.pending[ev.Name] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
	w.mu.Unlock()
}

func (w *Watcher) flush() {
	w.mu.Lock()
	paths := w.pending
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	if w.onChanged == nil {
		return
	}
	for path := range paths {
		w.onChanged(path)
	}
}
