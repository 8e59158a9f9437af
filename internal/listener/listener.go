// Package listener watches the config file and the set of connected displays
// and reports changes as events.
package listener

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is how often the connected displays are re-read.
const DefaultPollInterval = 5 * time.Second

// DisplayLister returns the ids of the displays currently connected.
type DisplayLister func() ([]uint32, error)

type Listener struct {
	cfgPath  string
	watcher  *fsnotify.Watcher
	displays DisplayLister
	interval time.Duration
	lastHash [32]byte
}

// New starts watching the config file's directory. displays may be nil, in
// which case only config changes are reported.
func New(cfgPath string, displays DisplayLister, interval time.Duration) (*Listener, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating config file watcher: %w", err)
	}
	slog.Debug("config watcher: fsnotify watcher created")

	if err := w.Add(filepath.Dir(cfgPath)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("adding config directory to watcher: %w", err)
	}
	slog.Debug("config watcher: fsnotify watch list", "list", w.WatchList())

	if interval <= 0 {
		interval = DefaultPollInterval
	}

	// Missing file hashes as zero, so its creation counts as a change.
	h, _ := fileHash(cfgPath)

	return &Listener{
		lastHash: h,
		cfgPath:  cfgPath,
		watcher:  w,
		displays: displays,
		interval: interval,
	}, nil
}

func (l *Listener) Close() error {
	return l.watcher.Close()
}

// Listen sends events until ctx is done or a source fails.
func (l *Listener) Listen(ctx context.Context, events chan<- Event) error {
	errc := make(chan error, 2)

	go func() {
		if err := l.listenForConfigChanges(ctx, events); err != nil {
			errc <- fmt.Errorf("config listener: %w", err)
		}
	}()

	if l.displays != nil {
		go func() {
			if err := l.listenForDisplayChanges(ctx, events); err != nil {
				errc <- fmt.Errorf("display listener: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errc:
		return err
	}
}

func send(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
