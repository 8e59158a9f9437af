// Package display holds the in-process model of the driver's display
// configuration, the codec between that model and the driver's raw records,
// and the service that queries and applies it.
package display

import (
	"errors"
	"math"

	"github.com/dsrosen6/nvdisplay/internal/nvapi"
)

var (
	ErrSelectionNotFound = errors.New("display not found")
	ErrInvalidScaling    = errors.New("invalid scaling mode")
	ErrInvalidRotation   = errors.New("invalid rotation")
	ErrCountChanged      = errors.New("driver changed the record count between queries")
	ErrNoTarget          = errors.New("selected source has no target")
	ErrMissingBlock      = errors.New("raw record is missing a nested block")
	ErrInvalidRefresh    = errors.New("refresh rate out of range")
)

type (
	// Path is one output source and the displays attached to it. Targets are
	// kept in driver order.
	Path struct {
		SourceID         uint32
		Source           SourceMode
		Targets          []Target
		NonNVIDIAAdapter bool

		osAdapterID uintptr
	}

	// SourceMode is the source's desktop mode. Fields the model does not
	// expose are carried in extra and written back unchanged.
	SourceMode struct {
		Width   uint32
		Height  uint32
		X       int32
		Y       int32
		Primary bool

		extra nvapi.SourceModeInfo
	}

	// Target is one physical display on a path.
	Target struct {
		DisplayID uint32
		TargetID  uint32
		Details   TargetDetails
	}

	// TargetDetails is held by value so that each Target owns its own copy.
	TargetDetails struct {
		RefreshRate1K uint32
		Scaling       Scaling
		Rotation      Rotation

		extra nvapi.AdvancedTargetInfo
	}
)

// MaxRefreshHz is the highest rate whose milli-Hz value fits the driver field.
const MaxRefreshHz = math.MaxUint32 / 1000

// HzToMilliHz converts a refresh rate to the driver's unit. hz must not
// exceed MaxRefreshHz.
func HzToMilliHz(hz uint32) uint32 {
	return hz * 1000
}

// MilliHzToHz converts a driver refresh rate to whole Hz, truncating.
func MilliHzToHz(mhz uint32) uint32 {
	return mhz / 1000
}

// RefreshHz returns the refresh rate in whole Hz.
func (d TargetDetails) RefreshHz() uint32 {
	return MilliHzToHz(d.RefreshRate1K)
}

// SetRefreshHz sets the refresh rate from whole Hz.
func (d *TargetDetails) SetRefreshHz(hz uint32) {
	d.RefreshRate1K = HzToMilliHz(hz)
}

// Connector returns the driver's connector type for the display.
func (d TargetDetails) Connector() uint32 {
	return d.extra.Connector
}

// Clone returns a deep copy of the snapshot.
func Clone(paths []Path) []Path {
	if paths == nil {
		return nil
	}
	out := make([]Path, len(paths))
	for i, p := range paths {
		out[i] = p
		out[i].Targets = append([]Target(nil), p.Targets...)
	}
	return out
}
