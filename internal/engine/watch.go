package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/daryltucker/tree-trial/internal/output"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups bursts of writes into one refresh.
const DefaultDebounce = 250 * time.Millisecond

// WatchResults calls onChange whenever one of paths is written, created or
// renamed into place, until ctx is done. The parent directories are watched
// so editors that replace files atomically are still seen.
func WatchResults(ctx context.Context, paths []string, debounce time.Duration, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer watcher.Close()

	wanted := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		wanted[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !wanted[abs] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			output.Logger.Warn("File watcher error", "error", err)
		case <-timer.C:
			onChange()
		}
	}
}
