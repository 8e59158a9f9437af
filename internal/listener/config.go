package listener

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

func (l *Listener) listenForConfigChanges(ctx context.Context, events chan<- Event) error {
	name := filepath.Clean(l.cfgPath)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-l.watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != name {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				h, err := fileHash(l.cfgPath)
				if err != nil {
					continue
				}

				if h == l.lastHash {
					slog.Debug("config watcher: received identical hash for file update, no changes needed")
					continue
				}

				l.lastHash = h

				slog.Debug("fsnotify: file modified", "file", event.Name)
				if !send(ctx, events, Event{Type: ConfigUpdatedEvent, Details: l.cfgPath}) {
					return nil
				}
			}

		case err, ok := <-l.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("config watcher fsnotify error: %w", err)
		}
	}
}

func fileHash(path string) ([32]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(data), nil
}
