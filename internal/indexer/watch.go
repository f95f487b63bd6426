package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Watch sweeps root, then re-sweeps whenever watched files change. Events
// are debounced so a burst of writes coalesces into one sweep, and each
// re-sweep is followed by a prune. Blocks until ctx is done.
func (ix *Indexer) Watch(ctx context.Context, root string, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := ix.addWatchRecursive(watcher, root); err != nil {
		return err
	}

	if _, err := ix.Sweep(ctx, root); err != nil {
		ix.logger.Warn("initial sweep failed", "error", err)
	}

	resweep := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			select {
			case resweep <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				// New directories need their own watches.
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := ix.addWatchRecursive(watcher, event.Name); err != nil {
						ix.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				schedule()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			ix.logger.Warn("watcher error", "error", err)

		case <-resweep:
			if _, err := ix.Sweep(ctx, root); err != nil {
				ix.logger.Warn("sweep failed", "error", err)
			}
			if _, err := ix.Prune(ctx); err != nil {
				ix.logger.Warn("prune failed", "error", err)
			}
		}
	}
}

// addWatchRecursive registers root and every non-hidden subdirectory with
// the watcher.
func (ix *Indexer) addWatchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			ix.logger.Warn("skipping unwatchable path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return fs.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
