package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/arcanaland/decktech/internal/logging"
)

// DefaultDebounce collapses the burst of events an editor produces on save
const DefaultDebounce = 150 * time.Millisecond

// File calls notify with path whenever the file is written or replaced, until
// ctx is cancelled. The parent directory is watched so that editors which save
// by rename are still seen.
func File(ctx context.Context, path string, debounce time.Duration, notify func(path string), log *logging.Logger) error {
	if log == nil {
		log = logging.Nop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("error resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("error watching %s: %w", filepath.Dir(abs), err)
	}
	log.Log("Watching decklist", "path", abs)

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending bool
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Debug("Decklist changed", "op", event.Op.String())

			pending = true
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("Watcher error", "error", err)

		case <-fire:
			fire = nil
			if pending {
				pending = false
				notify(path)
			}
		}
	}
}
