package server

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long a watched file must go without writes before it is read.
const settleDelay = 200 * time.Millisecond

// Watch adds audio files that appear in dir until ctx is done.
//
// The directory is scanned once after the watch is registered, so files created before the call
// are picked up too.
func (h *CatalogHandler) Watch(ctx context.Context, dir string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	if _, err := h.LoadDir(dir); err != nil {
		h.logger.Warn("initial scan incomplete", "dir", dir, "error", err)
	}
	h.logger.Info("watching for songs", "dir", dir)

	ready := make(chan string)
	pending := map[string]*time.Timer{}
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !(ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write)) || !isAudioFile(ev.Name) {
				continue
			}
			if t, ok := pending[ev.Name]; ok {
				t.Reset(settleDelay)
				continue
			}
			path := ev.Name
			pending[path] = time.AfterFunc(settleDelay, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case path := <-ready:
			delete(pending, path)
			song, added, err := h.addFile(path)
			if err != nil {
				h.logger.Warn("failed to add watched file", "path", path, "error", err)
				continue
			}
			if added {
				h.logger.Info("song added", "id", song.ID, "name", song.Name)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			h.logger.Warn("watch error", "error", err)
		}
	}
}
