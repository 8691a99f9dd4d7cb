package httpapi

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/nklarmann/replyagent/internal/core/ports/driven"
	"github.com/nklarmann/replyagent/internal/logger"
)

// WatchIndex invalidates the store whenever its backing file changes
// on disk, so a rebuild by another process is picked up without
// waiting for the next mtime comparison.
//
// The parent directory is watched rather than the file itself: the
// builder replaces the index via rename, which would otherwise drop
// the watch. WatchIndex blocks until ctx is cancelled.
func WatchIndex(ctx context.Context, store driven.IndexStore) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(store.Path())
	if err := watcher.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(store.Path())

	logger.Debug("Watching %s for index changes", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logger.Info("Index file changed (%s), reloading on next query", event.Op)
			store.Invalidate()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Index watcher error: %v", err)
		}
	}
}
