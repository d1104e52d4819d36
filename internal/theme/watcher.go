package theme

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches theme directories and invalidates the manager's cache
// when a theme file changes. Changes are debounced because editors tend
// to emit bursts of write events.
type Watcher struct {
	watcher  *fsnotify.Watcher
	manager  *Manager
	debounce time.Duration
	onChange func(name string)

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewWatcher creates a watcher over the manager's search directories.
func NewWatcher(manager *Manager, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		watcher:  fw,
		manager:  manager,
		debounce: debounce,
		done:     make(chan struct{}),
	}, nil
}

// SetChangeCallback registers a callback invoked with the changed theme
// name after the debounce window closes.
func (w *Watcher) SetChangeCallback(fn func(name string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start begins watching. Directories that don't exist yet are skipped.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	watched := 0
	for _, dir := range w.manager.Loader().dirs {
		if err := w.watcher.Add(dir); err != nil {
			slog.Debug("not watching theme dir", "dir", dir, "error", err)
			continue
		}
		watched++
	}
	slog.Debug("theme watcher started", "dirs", watched)

	go w.watch()
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.done)
	_ = w.watcher.Close()
}

func (w *Watcher) watch() {
	var (
		timer   *time.Timer
		pending string
	)
	fire := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name := themeNameFromPath(event.Name)
			if name == "" {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}

			pending = name
			if timer == nil {
				timer = time.AfterFunc(w.debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(w.debounce)
			}

		case <-fire:
			timer = nil
			w.manager.Invalidate()
			slog.Info("theme files changed", "theme", pending)

			w.mu.Lock()
			cb := w.onChange
			w.mu.Unlock()
			if cb != nil {
				cb(pending)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("theme watcher error", "error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// themeNameFromPath maps a changed file path to a theme name, or "" when
// the file is not a theme file.
func themeNameFromPath(path string) string {
	base := filepath.Base(path)
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	for _, known := range themeExts {
		if ext == known {
			name := strings.TrimSuffix(base, "."+ext)
			if name == "theme" {
				return filepath.Base(filepath.Dir(path))
			}
			return name
		}
	}
	return ""
}
