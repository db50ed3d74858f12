package local

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/cartridge/pkg/domain"
	"github.com/fsnotify/fsnotify"
)

// debounce collapses bursts of editor writes into a single reload signal.
const debounce = 150 * time.Millisecond

// Watch implements ports.Watchable. The returned channel receives a value
// whenever a track source under the root is created, written, removed or renamed,
// and is closed when ctx is done.
func (f *Fetcher) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(f.root); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", f.root, err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer watcher.Close()

		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !domain.IsSource(event.Name) {
					continue
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue // Ignore chmod
				}
				f.logger.Debug("Storage change detected", "path", event.Name, "op", event.Op.String())
				if timer == nil {
					timer = time.NewTimer(debounce)
				} else {
					timer.Reset(debounce)
				}
				fire = timer.C
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.logger.Warn("Storage watcher error", "err", err)
			case <-fire:
				fire = nil
				select {
				case out <- struct{}{}:
				default: // A reload is already pending
				}
			}
		}
	}()
	return out, nil
}
