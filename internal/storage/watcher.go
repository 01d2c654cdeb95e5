package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultWatchDebounce = 250 * time.Millisecond

// Watcher reports changes to the state file made by other processes, such
// as the CLI updating a task while the widget is open.
type Watcher struct {
	path     string
	debounce time.Duration
	updates  chan struct{}

	mu       sync.Mutex
	timer    *time.Timer
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewWatcher constructs a watcher for the state file at path. A debounce of
// zero or less selects the default window.
func NewWatcher(path string, debounce time.Duration) *Watcher {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		updates:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}
}

// Start begins watching the directory containing the state file. The
// directory is watched rather than the file because saves replace it.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watcher != nil {
		w.mu.Unlock()
		return nil
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return fmt.Errorf("starting state watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		_ = fsWatcher.Close()
		w.mu.Unlock()
		return fmt.Errorf("starting state watcher: %w", err)
	}
	w.watcher = fsWatcher
	w.mu.Unlock()

	go w.watchLoop(fsWatcher)
	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				w.Stop()
			case <-w.stopCh:
			}
		}()
	}
	return nil
}

// Stop terminates the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
			w.timer = nil
		}
		if w.watcher != nil {
			_ = w.watcher.Close()
			w.watcher = nil
		}
		w.mu.Unlock()
	})
}

// Updates delivers one signal per debounced burst of changes. Signals are
// coalesced when the consumer is slow.
func (w *Watcher) Updates() <-chan struct{} {
	return w.updates
}

func (w *Watcher) watchLoop(fsWatcher *fsnotify.Watcher) {
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case _, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if filepath.Clean(event.Name) != w.path {
		return
	}
	w.scheduleNotify()
}

func (w *Watcher) scheduleNotify() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.stopCh:
			return
		default:
		}
		select {
		case w.updates <- struct{}{}:
		default:
		}
	})
}
