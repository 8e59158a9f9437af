package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dsrosen6/nvdisplay/internal/listener"
)

// Watch applies the named profile, then re-applies it whenever the config
// file changes or a display is connected or removed.
func (a *App) Watch(ctx context.Context, name string, poll time.Duration) error {
	if err := a.ApplyProfile(name); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l, err := listener.New(a.Cfg.Path(), a.DisplayIDs, poll)
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Close(); err != nil {
			slog.Error("closing listener", "error", err)
		}
	}()

	events := make(chan listener.Event, 16)
	errc := make(chan error, 1)

	go func() {
		if err := l.Listen(ctx, events); err != nil && ctx.Err() == nil {
			errc <- err
			cancel()
		}
	}()

	for {
		select {
		case ev := <-events:
			slog.Info("received event from listener", "type", ev.Type, "details", ev.Details)
			switch ev.Type {
			case listener.DisplayAddEvent, listener.DisplayRemoveEvent:
				if err := a.ApplyProfile(name); err != nil {
					slog.Error("re-applying profile", "error", err)
				}

			case listener.ConfigUpdatedEvent:
				if err := a.Cfg.Reload(5); err != nil {
					slog.Error("reloading config", "error", err)
				} else if err := a.ApplyProfile(name); err != nil {
					slog.Error("re-applying profile (config change)", "error", err)
				}
			}

		case err := <-errc:
			return fmt.Errorf("listener failed: %w", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
