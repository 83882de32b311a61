package config

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the file at path whenever it is written or replaced and
// passes the result to onChange. The parent directory is watched so editors
// that save via rename are picked up. Watching stops when ctx is done.
func Watch(ctx context.Context, path string, logger *slog.Logger, onChange func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		w.Close()
		return err
	}
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := Load(target)
				if err != nil {
					// partial writes decode as errors; the next event carries the full file
					if logger != nil {
						logger.Debug("config reload skipped", "path", target, "error", err)
					}
					continue
				}
				if logger != nil {
					logger.Info("config reloaded", "path", target)
				}
				onChange(cfg)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				if logger != nil {
					logger.Warn("config watch", "error", err)
				}
			}
		}
	}()
	return nil
}
