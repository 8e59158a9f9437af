package listener

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"time"
)

func (l *Listener) listenForDisplayChanges(ctx context.Context, events chan<- Event) error {
	last, err := l.displays()
	if err != nil {
		slog.Warn("display listener: initial read failed", "error", err)
	}

	t := time.NewTicker(l.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			ids, err := l.displays()
			if err != nil {
				// A failed read is usually a transient driver state.
				slog.Warn("display listener: reading displays", "error", err)
				continue
			}

			for _, ev := range diffDisplays(last, ids) {
				if !send(ctx, events, ev) {
					return nil
				}
			}
			last = ids
		}
	}
}

// diffDisplays reports ids present in cur but not prev as added, and the
// reverse as removed.
func diffDisplays(prev, cur []uint32) []Event {
	var out []Event
	for _, id := range cur {
		if !slices.Contains(prev, id) {
			out = append(out, Event{Type: DisplayAddEvent, Details: strconv.FormatUint(uint64(id), 10)})
		}
	}
	for _, id := range prev {
		if !slices.Contains(cur, id) {
			out = append(out, Event{Type: DisplayRemoveEvent, Details: strconv.FormatUint(uint64(id), 10)})
		}
	}
	return out
}
