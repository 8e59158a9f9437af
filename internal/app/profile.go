package app

import (
	"fmt"
	"log/slog"

	"github.com/dsrosen6/nvdisplay/internal/profile"
)

// SaveProfile captures the current layout under name.
func (a *App) SaveProfile(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	paths, err := a.Display.GetDisplayConfig()
	if err != nil {
		return err
	}

	p := profile.Capture(paths)
	if err := a.Cfg.SetProfile(name, p); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}

	slog.Info("profile saved", "name", name, "displays", len(p.Displays))
	return nil
}

// ApplyProfile re-applies a saved layout to the displays that are connected.
func (a *App) ApplyProfile(name string) error {
	p, err := a.Cfg.Profile(name)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	paths, err := a.Display.GetDisplayConfig()
	if err != nil {
		return err
	}

	n, err := p.Apply(paths)
	if err != nil {
		return fmt.Errorf("applying profile %q: %w", name, err)
	}

	return a.apply(paths, fmt.Sprintf("Applied profile %q to %d display(s)", name, n))
}
