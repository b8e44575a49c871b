// Package fsnotify invalidates document caches when files under the content
// directory change.
package fsnotify

import (
	"context"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/fwojciec/denote"
)

// Watcher observes a content directory recursively and forwards changes of
// markdown files to an Invalidator. It is best-effort: when the OS watch
// facility is unavailable it logs once and does nothing.
type Watcher struct {
	root   string
	inv    denote.Invalidator
	logger *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	// dirs is owned by the watch goroutine.
	dirs map[string]struct{}
}

// NewWatcher creates a new Watcher for root.
func NewWatcher(root string, inv denote.Invalidator, logger *slog.Logger) *Watcher {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{root: root, inv: inv, logger: logger}
}

// Start begins watching in a background goroutine. Calling Start on a
// running watcher is a no-op. The watcher stops when ctx is done or Stop is
// called; a watcher that stopped on its own can be started again.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done != nil {
		select {
		case <-w.done:
			w.cancel()
			w.cancel = nil
			w.done = nil
		default:
			return
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("file watching unavailable, live reload disabled", "err", err)
		return
	}
	w.dirs = make(map[string]struct{})
	if err := w.addTree(fw, w.root); err != nil {
		_ = fw.Close()
		w.logger.Warn("file watching unavailable, live reload disabled", "dir", w.root, "err", err)
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.run(ctx, fw, w.done)
	w.logger.Debug("watching content directory", "dir", w.root)
}

// Stop ends watching and releases the OS watch handle. It is safe to call
// on a watcher that was never started or is already stopped.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done == nil {
		return
	}
	w.cancel()
	<-w.done
	w.cancel = nil
	w.done = nil
}

// Running reports whether the watch goroutine is active.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done == nil {
		return false
	}
	select {
	case <-w.done:
		return false
	default:
		return true
	}
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	defer fw.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			w.handleEvent(fw, event)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watch error", "err", err)
		}
	}
}

// handleEvent translates one fsnotify event into invalidation calls.
func (w *Watcher) handleEvent(fw *fsnotify.Watcher, event fsnotify.Event) {
	name := filepath.Clean(event.Name)

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		if _, ok := w.dirs[name]; ok {
			w.forgetTree(name)
			w.inv.InvalidateAll()
			return
		}
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			if err := w.addTree(fw, name); err != nil {
				w.logger.Warn("failed to watch directory", "dir", name, "err", err)
			}
			// Files may have landed before the watch was added.
			w.invalidateTree(name)
			return
		}
	}

	if !isDocument(name) {
		return
	}
	if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.inv.Invalidate(name)
	}
}

// addTree watches dir and every directory below it.
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fw.Add(p); err != nil {
			return err
		}
		w.dirs[filepath.Clean(p)] = struct{}{}
		return nil
	})
}

func (w *Watcher) forgetTree(dir string) {
	prefix := dir + string(filepath.Separator)
	for d := range w.dirs {
		if d == dir || strings.HasPrefix(d, prefix) {
			delete(w.dirs, d)
		}
	}
}

func (w *Watcher) invalidateTree(dir string) {
	_ = filepath.WalkDir(dir, func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && isDocument(p) {
			w.inv.Invalidate(p)
		}
		return nil
	})
}

func isDocument(p string) bool {
	return filepath.Ext(p) == denote.DocumentExt
}
