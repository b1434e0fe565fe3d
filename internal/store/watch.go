package store

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// ownSaveWindow is how long after one of our own saves a file event is
// still attributed to that save rather than to an external editor.
const ownSaveWindow = 2 * time.Second

// Watch reports external changes to the data file on the returned
// channel until ctx is cancelled. The containing directory is watched
// and events filtered to the file itself, which survives the atomic
// rename dance editors and this store both use. Events caused by our
// own saves are swallowed.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	log.Debug("watching data directory", "dir", dir)

	ch := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != s.path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if s.recentOwnSave() {
					continue
				}
				log.Debug("data file changed externally", "event", event.Op)
				select {
				case ch <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Debug("watch error", "dir", dir, "error", err)
			}
		}
	}()
	return ch, nil
}

func (s *Store) recentOwnSave() bool {
	last := s.lastSave.Load()
	if last == 0 {
		return false
	}
	return time.Since(time.Unix(0, last)) < ownSaveWindow
}
