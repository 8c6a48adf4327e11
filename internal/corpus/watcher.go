package corpus

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/davidbz/faqvoice/internal/observability"
)

const defaultReloadDelay = 200 * time.Millisecond

// Watcher reloads a Store when its file changes.
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher
	delay   time.Duration
	reloads chan struct{}
}

// NewWatcher creates a watcher on the store's directory. Editors often replace
// files by rename, so the directory is watched rather than the file.
func NewWatcher(store *Store) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err = w.Add(filepath.Dir(store.Path())); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", store.Path(), err)
	}

	return &Watcher{
		store:   store,
		watcher: w,
		delay:   defaultReloadDelay,
		reloads: make(chan struct{}, 1),
	}, nil
}

// Reloads signals after every successful reload.
func (w *Watcher) Reloads() <-chan struct{} {
	return w.reloads
}

// Run processes file events until ctx is done. Bursts of events are coalesced
// into one reload.
func (w *Watcher) Run(ctx context.Context) {
	logger := observability.FromContext(ctx)
	target := filepath.Clean(w.store.Path())

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.store.Reload(ctx); err != nil {
				logger.Warn("keeping previous corpus", observability.Error(err))
				continue
			}
			select {
			case w.reloads <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("corpus watcher error", observability.Error(err))
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
