package substrate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is called when a key changes on disk without going through
// this process. kind is "updated" or "deleted".
type ChangeCallback func(kind, key string)

const watchDebounce = 100 * time.Millisecond

// Watch observes the FS root until ctx is cancelled and reports keys written
// by other processes sharing the directory. Writes made through f are
// recognised by checksum and not reported.
//
// Bursts of events on the same key are coalesced into one callback.
func (f *FS) Watch(ctx context.Context, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(f.root); err != nil {
		return err
	}
	logger.Info("substrate watcher: started", slog.String("root", f.root))

	pending := make(map[string]struct{})
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	schedule := func(key string) {
		pending[key] = struct{}{}
		if flushTimer == nil {
			flushTimer = time.NewTimer(watchDebounce)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(watchDebounce)
		}
	}

	flush := func() {
		for key := range pending {
			delete(pending, key)
			data, readErr := f.Get(ctx, key)
			switch {
			case errors.Is(readErr, ErrNotFound):
				logger.Debug("substrate watcher: removed", slog.String("key", key))
				if cb != nil {
					cb("deleted", key)
				}
			case readErr != nil:
				logger.Warn("substrate watcher: read failed", slog.String("key", key), slog.String("error", readErr.Error()))
			case f.ownWrite(key, data):
				// Our own write echoing back.
			default:
				logger.Debug("substrate watcher: external write", slog.String("key", key))
				if cb != nil {
					cb("updated", key)
				}
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			logger.Info("substrate watcher: stopped")
			return nil

		case <-flushCh:
			flush()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			key, isData := keyFromPath(ev.Name)
			if !isData {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				schedule(key)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("substrate watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
