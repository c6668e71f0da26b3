// Package watcher reruns a task when any of a set of local files changes.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"pksnap/internal/ctxlog"
)

// Watcher watches files for changes
type Watcher struct {
	paths    []string
	onChange func(ctx context.Context, path string)
	debounce time.Duration
}

// New creates a new file watcher
func New(paths []string, onChange func(ctx context.Context, path string)) *Watcher {
	return &Watcher{
		paths:    paths,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Watch blocks until the context is cancelled. The containing directories are
// watched so that files replaced by editors are still seen. Rapid changes to
// one file collapse into a single onChange call.
func (w *Watcher) Watch(ctx context.Context) error {
	log := ctxlog.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	watchedDirs := make(map[string]bool)
	fileSet := make(map[string]bool)
	for _, path := range w.paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		dir := filepath.Dir(absPath)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch directory %s: %w", dir, err)
			}
			watchedDirs[dir] = true
		}
		fileSet[absPath] = true
		log.Info("watching for changes", "path", absPath)
	}

	var mu sync.Mutex
	debounceTimers := make(map[string]*time.Timer)
	stopAll := func() {
		mu.Lock()
		defer mu.Unlock()
		for _, timer := range debounceTimers {
			timer.Stop()
		}
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			absPath, err := filepath.Abs(event.Name)
			if err != nil || !fileSet[absPath] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			mu.Lock()
			if timer, exists := debounceTimers[absPath]; exists {
				timer.Stop()
			}
			debounceTimers[absPath] = time.AfterFunc(w.debounce, func() {
				log.Info("file changed", "path", absPath)
				w.onChange(ctx, absPath)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)

		case <-ctx.Done():
			stopAll()
			return ctx.Err()
		}
	}
}
