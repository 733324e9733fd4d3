// Package watcher reports new video files in a directory once they have
// finished being written.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/killallgit/autocut/internal/logging"
)

// Event is a settled file ready for processing.
type Event struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Watcher debounces fsnotify events until size and mtime stop changing.
type Watcher struct {
	logger *slog.Logger
	opts   Options
	fs     *fsnotify.Watcher

	pending map[string]*pendingFile
	mu      sync.Mutex

	events   chan Event
	errors   chan error
	done     chan struct{}
	stopped  bool
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type pendingFile struct {
	size    int64
	modTime time.Time
	timer   *time.Timer
}

// New creates a watcher. Call Watch, then Start.
func New(logger *slog.Logger, opts Options) (*Watcher, error) {
	opts.setDefaults()
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		logger:  logging.NewComponent(logger, "watcher"),
		opts:    opts,
		fs:      fs,
		pending: make(map[string]*pendingFile),
		events:  make(chan Event, 100),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}, nil
}

// Watch adds dir to the watch list. Subdirectories are not followed.
func (w *Watcher) Watch(dir string) error {
	dir = filepath.Clean(dir)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	if err := w.fs.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.logger.Info("watching directory", slog.String("dir", dir), slog.Any("extensions", w.opts.Extensions))
	return nil
}

// Start processes events until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.wg.Add(1)
	w.mu.Unlock()
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.done:
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			select {
			case w.errors <- err:
			default:
				w.logger.Warn("dropping watcher error", logging.Error(err))
			}
		}
	}
}

// Events returns settled files.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns fsnotify errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Stop cancels pending timers and releases the fsnotify watcher. Safe to call
// more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.stopped = true
		close(w.done)
		for _, p := range w.pending {
			p.timer.Stop()
		}
		clear(w.pending)
		w.mu.Unlock()

		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) handle(event fsnotify.Event) {
	path := event.Name
	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.cancel(path)
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		if w.opts.accepts(path) {
			w.settle(path)
		}
	}
}

// settle (re)starts the settle timer for path.
func (w *Watcher) settle(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if p, ok := w.pending[path]; ok {
		p.timer.Stop()
	}
	p := &pendingFile{size: info.Size(), modTime: info.ModTime()}
	p.timer = time.AfterFunc(w.opts.SettleDelay, func() { w.check(path) })
	w.pending[path] = p
}

func (w *Watcher) check(path string) {
	info, err := os.Stat(path)

	w.mu.Lock()
	p, ok := w.pending[path]
	if !ok {
		w.mu.Unlock()
		return
	}
	if err != nil {
		delete(w.pending, path)
		w.mu.Unlock()
		return
	}
	if info.Size() != p.size || !info.ModTime().Equal(p.modTime) {
		p.size = info.Size()
		p.modTime = info.ModTime()
		p.timer = time.AfterFunc(w.opts.SettleDelay, func() { w.check(path) })
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	w.mu.Unlock()

	w.logger.Debug("file settled", slog.String("path", path), slog.Int64("size", info.Size()))
	select {
	case w.events <- Event{Path: path, Size: info.Size(), ModTime: info.ModTime()}:
	case <-w.done:
	}
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if p, ok := w.pending[path]; ok {
		p.timer.Stop()
		delete(w.pending, path)
	}
}
