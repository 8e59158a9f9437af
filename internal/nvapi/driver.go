package nvapi

import "errors"

// ErrNotSupported is returned by Open on platforms without the NVIDIA driver API.
var ErrNotSupported = errors.New("nvapi: not supported on this platform")

// Driver is the set of native calls nvdisplay depends on. Every method returns
// the raw driver status; translating it is left to the caller.
type Driver interface {
	// GetDisplayConfig queries the active configuration. With a nil paths slice
	// only *count is written. Otherwise the driver fills up to *count records,
	// following whatever nested pointers the caller placed in them.
	GetDisplayConfig(count *uint32, paths []PathInfo) Status

	// SetDisplayConfig applies the configuration described by paths.
	SetDisplayConfig(paths []PathInfo, flags uint32) Status

	// GetTiming computes a timing descriptor for the requested mode.
	GetTiming(displayID uint32, in *TimingInput, out *Timing) Status

	// TryCustomDisplay forces displays[i] onto displayIDs[i].
	TryCustomDisplay(displayIDs []uint32, displays []CustomDisplay) Status
}
