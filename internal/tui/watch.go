package tui

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 300 * time.Millisecond

// watchDatabase calls onChange when the database file or its WAL is written
// by another process, and onError for watcher errors. It blocks until ctx is
// cancelled.
func watchDatabase(ctx context.Context, dbPath string, debounce time.Duration, onChange func(), onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory so a replaced file is still seen.
	if err := watcher.Add(filepath.Dir(dbPath)); err != nil {
		return err
	}

	names := map[string]bool{
		filepath.Base(dbPath):          true,
		filepath.Base(dbPath) + "-wal": true,
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !names[filepath.Base(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, onChange)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onError(err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
