package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups bursts of editor writes into one re-audit.
const DefaultDebounce = 200 * time.Millisecond

// ErrStopped is returned by Start once the watcher has been stopped.
var ErrStopped = errors.New("watcher already stopped")

// ChangeFunc is called with the sorted set of tracked files that changed
// during one debounce window.
type ChangeFunc func(changed []string)

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
}

// Watcher re-runs a callback when any tracked file is written, created,
// renamed or removed.
//
// fsnotify watches directories, so the parent of every tracked file is
// added and events for untracked siblings are dropped. Editors that save
// through rename-and-replace still trigger a change.
//
//	w, err := watch.New([]string{doc, lib}, onChange, watch.Options{}, logger)
//	if err != nil {
//	    return err
//	}
//	defer w.Stop()
//	err = w.Start(ctx)
type Watcher struct {
	watcher  *fsnotify.Watcher
	tracked  map[string]bool
	dirs     []string
	onChange ChangeFunc
	logger   *slog.Logger
	options  Options

	// Debouncing
	pending map[string]bool
	timer   *time.Timer
	fires   int
	pendMu  sync.Mutex

	// Lifecycle
	stopChan chan struct{}
	done     chan struct{}
	started  bool
	stopped  bool
	mu       sync.Mutex
}

// New creates a watcher for files. Paths are made absolute.
func New(files []string, onChange ChangeFunc, options Options, logger *slog.Logger) (*Watcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if onChange == nil {
		return nil, fmt.Errorf("change callback is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if options.Debounce <= 0 {
		options.Debounce = DefaultDebounce
	}

	tracked := make(map[string]bool, len(files))
	dirSet := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		tracked[abs] = true
		dirSet[filepath.Dir(abs)] = true
	}
	dirs := make([]string, 0, len(dirSet))
	for d := range dirSet {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		watcher:  fsw,
		tracked:  tracked,
		dirs:     dirs,
		onChange: onChange,
		logger:   logger,
		options:  options,
		pending:  make(map[string]bool),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start adds the watches and runs the event loop in the background. The
// watcher stops on its own when ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrStopped
	}
	if w.started {
		w.mu.Unlock()
		return fmt.Errorf("watcher already started")
	}
	w.started = true
	w.mu.Unlock()

	for _, dir := range w.dirs {
		if err := w.watcher.Add(dir); err != nil {
			w.mu.Lock()
			w.started = false
			w.mu.Unlock()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	w.logger.Info("file watcher started", "files", len(w.tracked), "dirs", len(w.dirs))

	go w.eventLoop(ctx)
	return nil
}

// Stop cancels pending callbacks and closes the underlying watcher.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	started := w.started
	close(w.stopChan)
	w.mu.Unlock()

	w.pendMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.pending = make(map[string]bool)
	w.pendMu.Unlock()

	err := w.watcher.Close()
	if started {
		<-w.done
	}
	w.logger.Info("file watcher stopped")
	return err
}

// Done is closed when the event loop exits.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) eventLoop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-w.stopChan:
			return

		case <-ctx.Done():
			go w.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path, err := filepath.Abs(event.Name)
	if err != nil || !w.tracked[path] {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.logger.Debug("file event", "op", event.Op.String(), "file", path)
	w.schedule(path)
}

// schedule restarts the debounce window; every path seen inside one window
// is delivered in a single callback.
func (w *Watcher) schedule(path string) {
	w.pendMu.Lock()
	defer w.pendMu.Unlock()

	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.options.Debounce, w.fire)
}

func (w *Watcher) fire() {
	w.pendMu.Lock()
	if len(w.pending) == 0 {
		w.pendMu.Unlock()
		return
	}
	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	w.pending = make(map[string]bool)
	w.timer = nil
	w.fires++
	w.pendMu.Unlock()

	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}

	sort.Strings(changed)
	w.logger.Debug("tracked files changed", "files", changed)
	w.onChange(changed)
}

// Stats reports watcher state.
func (w *Watcher) Stats() Stats {
	w.pendMu.Lock()
	pending := len(w.pending)
	fires := w.fires
	w.pendMu.Unlock()

	w.mu.Lock()
	running := w.started && !w.stopped
	w.mu.Unlock()

	return Stats{
		Pending:   pending,
		Callbacks: fires,
		IsRunning: running,
	}
}

// Stats contains watcher statistics.
type Stats struct {
	Pending   int
	Callbacks int
	IsRunning bool
}
