package menu

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatchDebounce sets how long a change must settle before the file is re-read.
func WithWatchDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithWatchLogger sets the logger for the watcher.
func WithWatchLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// Watcher re-reads a menus file when it changes and hands the new tree to onChange.
// It watches the containing directory so editors that save via rename are picked up.
// A file that fails to parse is logged and the previous tree stays in effect.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	onChange func(*FileTree)

	fsw      *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu        sync.Mutex
	pendingAt time.Time
	last      []byte
}

func NewWatcher(path string, onChange func(*FileTree), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     path,
		debounce: 300 * time.Millisecond,
		logger:   slog.Default(),
		onChange: onChange,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Watcher) Start() error {
	b, err := os.ReadFile(w.path)
	if err != nil {
		return fmt.Errorf("menu watcher: initial read: %w", err)
	}
	w.last = b

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("menu watcher: create fsnotify: %w", err)
	}
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("menu watcher: watch %s: %w", dir, err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop terminates the watcher. It is safe to call Stop multiple times.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() { close(w.done) })
	w.wg.Wait()
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	target := filepath.Clean(w.path)
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.mu.Lock()
				w.pendingAt = time.Now()
				w.mu.Unlock()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("menu watcher error", "err", err)

		case <-ticker.C:
			w.processPending()
		}
	}
}

func (w *Watcher) processPending() {
	w.mu.Lock()
	ready := !w.pendingAt.IsZero() && time.Since(w.pendingAt) >= w.debounce
	if ready {
		w.pendingAt = time.Time{}
	}
	w.mu.Unlock()
	if ready {
		w.reload()
	}
}

func (w *Watcher) reload() {
	b, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Warn("menu watcher: read failed", "path", w.path, "err", err)
		return
	}
	if bytes.Equal(b, w.last) {
		return
	}
	t, err := Parse(b, formatForPath(w.path))
	if err != nil {
		w.logger.Warn("menu watcher: parse failed; keeping previous tree", "path", w.path, "err", err)
		return
	}
	w.last = b
	t.path = w.path
	w.logger.Info("menus reloaded", "path", w.path, "nodes", t.Len())
	if w.onChange != nil {
		w.onChange(t)
	}
}
