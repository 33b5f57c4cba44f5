package config

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teslashibe/go-chasecam/internal/log"
)

const reloadDebounce = 100 * time.Millisecond

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Watch reloads s whenever its file changes, until ctx is cancelled. The
// directory is watched rather than the file so that editors that replace
// the file on save keep working.
func Watch(ctx context.Context, s *Store) error {
	if s.path == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		w.Close()
		return err
	}

	go func() {
		defer w.Close()
		target := filepath.Clean(s.path)
		timer := time.NewTimer(time.Hour)
		timer.Stop()
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				// Reload once the burst of events from one save settles.
				timer.Reset(reloadDebounce)
			case <-timer.C:
				changed, err := s.Reload()
				switch {
				case err != nil && !isNotExist(err):
					log.Warn("presets reload failed", "path", s.path, "error", err)
				case changed:
					log.Info("presets reloaded", "path", s.path)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("presets watcher error", "error", err)
			}
		}
	}()
	return nil
}
