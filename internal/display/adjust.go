package display

import (
	"fmt"
	"log/slog"
)

// Adjustment is a set of optional changes to one selected entry. Nil fields
// are left alone.
type Adjustment struct {
	Width     *uint32
	Height    *uint32
	X         *int32
	Y         *int32
	RefreshHz *uint32
	Scaling   *Scaling
	Rotation  *Rotation

	// RefreshRate1K sets the refresh rate in milli-Hz and wins over RefreshHz.
	RefreshRate1K *uint32
}

// Empty reports whether the adjustment changes nothing.
func (a Adjustment) Empty() bool {
	return !a.touchesSource() && !a.touchesTarget()
}

func (a Adjustment) touchesSource() bool {
	return a.Width != nil || a.Height != nil || a.X != nil || a.Y != nil
}

func (a Adjustment) touchesTarget() bool {
	return a.RefreshHz != nil || a.RefreshRate1K != nil || a.Scaling != nil || a.Rotation != nil
}

// Apply writes the adjustment into paths at loc. Resolution and position go
// to the source; refresh, scaling and rotation go to the target.
func (a Adjustment) Apply(paths []Path, loc Location) error {
	if loc.Path < 0 || loc.Path >= len(paths) {
		return fmt.Errorf("%w: path index %d", ErrSelectionNotFound, loc.Path)
	}

	if a.RefreshHz != nil && *a.RefreshHz > MaxRefreshHz {
		return fmt.Errorf("%w: %d Hz", ErrInvalidRefresh, *a.RefreshHz)
	}

	var t *Target
	if a.touchesTarget() {
		if t = loc.TargetIn(paths); t == nil {
			return fmt.Errorf("%w: path %d", ErrNoTarget, loc.Path)
		}
	}

	src := loc.Source(paths)
	if a.Width != nil {
		src.Width = *a.Width
	}
	if a.Height != nil {
		src.Height = *a.Height
	}
	if a.X != nil {
		src.X = *a.X
	}
	if a.Y != nil {
		src.Y = *a.Y
	}

	if t != nil {
		if a.RefreshHz != nil {
			t.Details.SetRefreshHz(*a.RefreshHz)
		}
		if a.RefreshRate1K != nil {
			t.Details.RefreshRate1K = *a.RefreshRate1K
		}
		if a.Scaling != nil {
			t.Details.Scaling = *a.Scaling
		}
		if a.Rotation != nil {
			t.Details.Rotation = *a.Rotation
		}
	}

	slog.Debug("adjustment applied to snapshot",
		"path", loc.Path, "target", loc.Target,
		"width", src.Width, "height", src.Height, "x", src.X, "y", src.Y)
	return nil
}
