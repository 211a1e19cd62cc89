package statestore

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch emits a Report each time an agent report file is created or
// replaced in the status directory, until ctx is cancelled. Temp files from
// in-flight atomic writes are ignored; only the post-rename report is seen.
//
// Every report already in the store is emitted first, so a watcher started
// after some agents have finished still observes them.
func (s *Store) Watch(ctx context.Context) (<-chan *Report, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch status directory: %w", err)
	}

	existing, err := s.All()
	if err != nil {
		watcher.Close()
		return nil, err
	}

	out := make(chan *Report, 16)
	go func() {
		defer close(out)
		defer watcher.Close()

		for _, r := range existing {
			select {
			case out <- r:
			case <-ctx.Done():
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				base := filepath.Base(event.Name)
				if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, ".json") {
					continue
				}
				r, err := s.Get(strings.TrimSuffix(base, ".json"))
				if err != nil {
					// The file may have been replaced mid-read; the next
					// event for it will deliver the settled report.
					continue
				}
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
			case <-watcher.Errors:
				// Keep watching.
			}
		}
	}()

	return out, nil
}
