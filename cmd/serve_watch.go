package cmd

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"firewatch/internal/bootstrap/logging"
	"firewatch/internal/domain/actionplan"
	"firewatch/internal/errs"
)

type tableReloader interface {
	Replace(overrides []actionplan.Table) error
}

// watchActionPlanTables reloads the tables file into catalog whenever it changes. The parent directory is
// watched so that editors which replace the file on save are picked up too.
func watchActionPlanTables(ctx context.Context, path string, catalog tableReloader) (*fsnotify.Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errs.Wrapf(err, "resolve %s", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errs.Wrap(err, "create watcher")
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		_ = watcher.Close()
		return nil, errs.Wrapf(err, "watch %s", filepath.Dir(absPath))
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "actionplan.watch"), slog.String("file", absPath))
	logging.Info(logCtx, "watching action plan tables")

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != absPath || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				reloadActionPlanTables(logCtx, absPath, catalog)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Warn(logCtx, "action plan watcher error", slog.Any("err", errs.Loggable(err)))
			}
		}
	}()

	return watcher, nil
}

// reloadActionPlanTables keeps the active tables when the file is unreadable or invalid.
func reloadActionPlanTables(ctx context.Context, path string, catalog tableReloader) bool {
	tables, err := actionplan.LoadFile(path)
	if err != nil {
		logging.Warn(ctx, "action plan reload failed, keeping active tables", slog.Any("err", errs.Loggable(err)))
		return false
	}
	if err := catalog.Replace(tables); err != nil {
		logging.Warn(ctx, "action plan tables rejected, keeping active tables", slog.Any("err", errs.Loggable(err)))
		return false
	}
	logging.Info(ctx, "action plan tables reloaded", slog.Int("tables", len(tables)))
	return true
}
