// Package profile captures display layouts and re-applies them by display id.
package profile

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dsrosen6/nvdisplay/internal/display"
)

var ErrNoDisplaysMatched = errors.New("none of the profile's displays are connected")

type (
	// Profile is a saved layout.
	Profile struct {
		Displays []Settings `json:"displays"`
	}

	// Settings is the saved state of one display and its source. Refresh is
	// kept in milli-Hz so fractional rates like 59.94 Hz survive.
	Settings struct {
		DisplayID  uint32 `json:"display_id"`
		Width      uint32 `json:"width"`
		Height     uint32 `json:"height"`
		X          int32  `json:"x"`
		Y          int32  `json:"y"`
		RefreshMHz uint32 `json:"refresh_mhz"`
		Scaling    string `json:"scaling"`
		Rotation   int    `json:"rotation"`
	}
)

// Capture records every target in paths.
func Capture(paths []display.Path) Profile {
	var p Profile
	for _, path := range paths {
		for _, t := range path.Targets {
			p.Displays = append(p.Displays, Settings{
				DisplayID:  t.DisplayID,
				Width:      path.Source.Width,
				Height:     path.Source.Height,
				X:          path.Source.X,
				Y:          path.Source.Y,
				RefreshMHz: t.Details.RefreshRate1K,
				Scaling:    t.Details.Scaling.String(),
				Rotation:   t.Details.Rotation.Degrees(),
			})
		}
	}
	return p
}

// Adjustment converts the settings into a change for the matching display.
func (s Settings) Adjustment() (display.Adjustment, error) {
	scaling, err := display.ParseScaling(s.Scaling)
	if err != nil {
		return display.Adjustment{}, fmt.Errorf("display %d: %w", s.DisplayID, err)
	}
	rot, err := display.RotationFromDegrees(s.Rotation)
	if err != nil {
		return display.Adjustment{}, fmt.Errorf("display %d: %w", s.DisplayID, err)
	}

	return display.Adjustment{
		Width:         &s.Width,
		Height:        &s.Height,
		X:             &s.X,
		Y:             &s.Y,
		RefreshRate1K: &s.RefreshMHz,
		Scaling:       &scaling,
		Rotation:      &rot,
	}, nil
}

// Apply writes the profile into paths. Displays that are not connected are
// skipped. It returns how many displays were updated.
func (p Profile) Apply(paths []display.Path) (int, error) {
	applied := 0
	for _, s := range p.Displays {
		adj, err := s.Adjustment()
		if err != nil {
			return applied, err
		}

		loc, ok := display.FindPathAndTarget(paths, display.ByDisplayID(s.DisplayID))
		if !ok {
			slog.Info("profile display not connected; skipping", "display_id", s.DisplayID)
			continue
		}

		if err := adj.Apply(paths, loc); err != nil {
			return applied, fmt.Errorf("display %d: %w", s.DisplayID, err)
		}
		applied++
	}

	if applied == 0 && len(p.Displays) > 0 {
		return 0, ErrNoDisplaysMatched
	}
	return applied, nil
}
