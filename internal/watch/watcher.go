// Package watch reports changes to the document made by any process.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called for every change to the watched file.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, name string)

// Watch observes name inside root until ctx is cancelled and calls cb for
// each change. Only the root directory itself is watched; atomic replaces
// (write to a temp file, then rename over name) surface as "created".
func Watch(ctx context.Context, root, name string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}

	target := filepath.Join(root, name)
	logger.Info("watcher: started", slog.String("path", target))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			kind := classify(ev.Op)
			if kind == "" {
				continue
			}
			logger.Debug("watcher: change", slog.String("path", name), slog.String("op", kind))
			if cb != nil {
				cb(kind, name)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func classify(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "created"
	case op.Has(fsnotify.Write):
		return "updated"
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return "deleted"
	}
	return ""
}
