package ingest

import (
	"errors"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Change reports that the watched file was modified, replaced or removed.
type Change struct {
	Path    string
	Removed bool
}

// Watcher follows a single loaded file. It watches the parent directory so
// that editors which save by rename are still noticed.
type Watcher struct {
	watcher *fsnotify.Watcher
	events  chan Change

	mu      sync.Mutex
	target  string
	dir     string
	closed  bool
	done    chan struct{}
	closeWg sync.WaitGroup
}

// NewWatcher creates a watcher with no target.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		events:  make(chan Change, 16),
		done:    make(chan struct{}),
	}
	w.closeWg.Add(1)
	go w.loop()
	return w, nil
}

// Events delivers change notices for the current target.
func (w *Watcher) Events() <-chan Change {
	return w.events
}

// Watch replaces the current target with path.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("watcher closed")
	}

	if w.dir != "" && w.dir != dir {
		_ = w.watcher.Remove(w.dir)
	}
	if w.dir != dir {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
	}
	w.dir = dir
	w.target = abs
	slog.Debug("ingest_watch", "path", abs)
	return nil
}

// Close stops watching and closes the events channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	err := w.watcher.Close()
	w.closeWg.Wait()
	close(w.events)
	return err
}

func (w *Watcher) loop() {
	defer w.closeWg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.mu.Lock()
			target := w.target
			w.mu.Unlock()

			if filepath.Clean(event.Name) != target {
				continue
			}

			var change Change
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
				change = Change{Path: target}
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				change = Change{Path: target, Removed: true}
			default:
				continue
			}

			select {
			case w.events <- change:
			case <-w.done:
				return
			default:
				// a notice is already pending
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("ingest_watch_error", "error", err)
		}
	}
}
