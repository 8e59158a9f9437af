package app

import (
	"fmt"
	"log/slog"

	"github.com/dsrosen6/nvdisplay/internal/display"
	"github.com/dsrosen6/nvdisplay/internal/output"
)

// TargetInfo describes one connected display for pickers.
type TargetInfo struct {
	DisplayID uint32
	Width     uint32
	Height    uint32
	RefreshHz uint32
	Primary   bool
}

func (t TargetInfo) String() string {
	s := fmt.Sprintf("%d  %dx%d @ %d Hz", t.DisplayID, t.Width, t.Height, t.RefreshHz)
	if t.Primary {
		s += "  (primary)"
	}
	return s
}

// List prints the current configuration.
func (a *App) List(f output.Format) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	paths, err := a.Display.GetDisplayConfig()
	if err != nil {
		return err
	}
	return output.WriteSnapshot(a.Out, paths, f)
}

// Targets lists every connected display in driver order.
func (a *App) Targets() ([]TargetInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	paths, err := a.Display.GetDisplayConfig()
	if err != nil {
		return nil, err
	}

	var out []TargetInfo
	for _, p := range paths {
		for _, t := range p.Targets {
			out = append(out, TargetInfo{
				DisplayID: t.DisplayID,
				Width:     p.Source.Width,
				Height:    p.Source.Height,
				RefreshHz: t.Details.RefreshHz(),
				Primary:   p.Source.Primary,
			})
		}
	}
	return out, nil
}

// DisplayIDs returns the ids of all connected displays.
func (a *App) DisplayIDs() ([]uint32, error) {
	targets, err := a.Targets()
	if err != nil {
		return nil, err
	}
	ids := make([]uint32, len(targets))
	for i, t := range targets {
		ids[i] = t.DisplayID
	}
	return ids, nil
}

// Adjust fetches the configuration, applies adj to the selected entry and
// writes the result back in one call.
func (a *App) Adjust(sel display.Selector, adj display.Adjustment) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	paths, err := a.Display.GetDisplayConfig()
	if err != nil {
		return err
	}

	loc, err := display.Find(paths, sel)
	if err != nil {
		return err
	}

	if err := adj.Apply(paths, loc); err != nil {
		return fmt.Errorf("adjusting %s: %w", sel, err)
	}

	return a.apply(paths, fmt.Sprintf("Updated %s", sel))
}

func (a *App) apply(paths []display.Path, success string) error {
	if err := a.Display.SetDisplayConfig(paths); err != nil {
		a.recordFailure(err)
		return err
	}

	output.Success(a.Out, "%s", success)
	return nil
}

func (a *App) recordFailure(err error) {
	if lerr := a.Events.Record(fmt.Sprintf("Failed to apply display config: %v", err)); lerr != nil {
		slog.Error("writing event log", "error", lerr)
	}
}
