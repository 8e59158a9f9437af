// Package nvapitest provides an in-memory nvapi.Driver for tests.
package nvapitest

import (
	"sync"
	"unsafe"

	"github.com/dsrosen6/nvdisplay/internal/nvapi"
)

type (
	// Target is one display the fake driver reports on a path.
	Target struct {
		DisplayID uint32
		TargetID  uint32
		Details   nvapi.AdvancedTargetInfo
	}

	// Path is one source the fake driver reports.
	Path struct {
		SourceID uint32
		Flags    uint32
		Source   nvapi.SourceModeInfo
		Targets  []Target
	}

	// Driver serves Paths through the three-phase query protocol and records
	// every call it receives. Methods are safe for concurrent use; read the
	// recorded fields directly only once no calls are in flight.
	Driver struct {
		mu sync.Mutex

		Paths []Path

		// GetStatus[i] is returned by the i-th GetDisplayConfig call; calls past
		// the end of the slice succeed.
		GetStatus []nvapi.Status
		// CountOverride[i] replaces the path count written by the i-th call.
		CountOverride map[int]uint32

		SetStatus    nvapi.Status
		TimingStatus []nvapi.Status
		CustomStatus []nvapi.Status
		Timing       nvapi.Timing

		Calls          []string
		Applied        [][]Path
		TimingInputs   []nvapi.TimingInput
		CustomDisplays []nvapi.CustomDisplay
		CustomIDs      [][]uint32

		getCalls    int
		timingCalls int
		customCalls int
	}
)

var _ nvapi.Driver = (*Driver)(nil)

func statusAt(sts []nvapi.Status, i int) nvapi.Status {
	if i < len(sts) {
		return sts[i]
	}
	return nvapi.OK
}

func (d *Driver) GetDisplayConfig(count *uint32, paths []nvapi.PathInfo) nvapi.Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	call := d.getCalls
	d.getCalls++

	switch {
	case paths == nil:
		d.Calls = append(d.Calls, "get:count")
	case paths[0].TargetInfo == nil:
		d.Calls = append(d.Calls, "get:paths")
	default:
		d.Calls = append(d.Calls, "get:targets")
	}

	if st := statusAt(d.GetStatus, call); st != nvapi.OK {
		return st
	}

	if paths != nil {
		if int(*count) < len(d.Paths) || len(paths) < len(d.Paths) {
			return nvapi.InvalidArgument
		}
		if st := d.fill(paths); st != nvapi.OK {
			return st
		}
	}

	*count = uint32(len(d.Paths))
	if n, ok := d.CountOverride[call]; ok {
		*count = n
	}
	return nvapi.OK
}

func (d *Driver) fill(paths []nvapi.PathInfo) nvapi.Status {
	for i, src := range d.Paths {
		p := &paths[i]
		p.SourceID = src.SourceID
		p.Flags = src.Flags
		if p.SourceModeInfo == nil {
			return nvapi.InvalidPointer
		}
		*p.SourceModeInfo = src.Source

		if p.TargetInfo == nil {
			p.TargetInfoCount = uint32(len(src.Targets))
			continue
		}

		if int(p.TargetInfoCount) < len(src.Targets) {
			return nvapi.InvalidArgument
		}
		targets := unsafe.Slice(p.TargetInfo, p.TargetInfoCount)
		for j, t := range src.Targets {
			if targets[j].Details == nil {
				return nvapi.InvalidPointer
			}
			targets[j].DisplayID = t.DisplayID
			targets[j].TargetID = t.TargetID
			version := targets[j].Details.Version
			*targets[j].Details = t.Details
			targets[j].Details.Version = version
		}
		p.TargetInfoCount = uint32(len(src.Targets))
	}
	return nvapi.OK
}

func (d *Driver) SetDisplayConfig(paths []nvapi.PathInfo, _ uint32) nvapi.Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.Calls = append(d.Calls, "set")
	d.Applied = append(d.Applied, ReadPaths(paths))
	return d.SetStatus
}

func (d *Driver) GetTiming(_ uint32, in *nvapi.TimingInput, out *nvapi.Timing) nvapi.Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	call := d.timingCalls
	d.timingCalls++
	d.Calls = append(d.Calls, "timing")
	d.TimingInputs = append(d.TimingInputs, *in)

	if st := statusAt(d.TimingStatus, call); st != nvapi.OK {
		return st
	}
	*out = d.Timing
	return nvapi.OK
}

func (d *Driver) TryCustomDisplay(displayIDs []uint32, displays []nvapi.CustomDisplay) nvapi.Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	call := d.customCalls
	d.customCalls++
	d.Calls = append(d.Calls, "custom")
	d.CustomIDs = append(d.CustomIDs, append([]uint32(nil), displayIDs...))
	d.CustomDisplays = append(d.CustomDisplays, displays...)

	return statusAt(d.CustomStatus, call)
}

// SetPaths replaces the reported layout.
func (d *Driver) SetPaths(paths []Path) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Paths = paths
}

// AppliedCount returns how many SetDisplayConfig calls were made.
func (d *Driver) AppliedCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Applied)
}

// ReadPaths copies raw records into fake-driver form by following their
// nested pointers, the way the real driver reads an apply request.
func ReadPaths(paths []nvapi.PathInfo) []Path {
	out := make([]Path, 0, len(paths))
	for _, p := range paths {
		fp := Path{SourceID: p.SourceID, Flags: p.Flags}
		if p.SourceModeInfo != nil {
			fp.Source = *p.SourceModeInfo
		}
		if p.TargetInfo != nil {
			for _, t := range unsafe.Slice(p.TargetInfo, p.TargetInfoCount) {
				ft := Target{DisplayID: t.DisplayID, TargetID: t.TargetID}
				if t.Details != nil {
					ft.Details = *t.Details
				}
				fp.Targets = append(fp.Targets, ft)
			}
		}
		out = append(out, fp)
	}
	return out
}

// SamplePaths returns a two-source layout: a primary 2560x1440@144 display
// and a portrait 1080x1920@59.94 display rotated 90 degrees to its right.
func SamplePaths() []Path {
	return []Path{
		{
			SourceID: 0,
			Source: nvapi.SourceModeInfo{
				Resolution:  nvapi.Resolution{Width: 2560, Height: 1440, ColorDepth: 32},
				ColorFormat: 21,
				Flags:       nvapi.SourceFlagGDIPrimary,
			},
			Targets: []Target{{
				DisplayID: 0x80061086,
				TargetID:  1,
				Details: nvapi.AdvancedTargetInfo{
					RefreshRate1K:  144000,
					Scaling:        0,
					Rotation:       0,
					Connector:      7,
					TimingOverride: nvapi.TimingOverrideEDID,
					Timing:         nvapi.Timing{HVisible: 2560, VVisible: 1440, HTotal: 2720, VTotal: 1481, Pclk: 58000},
				},
			}},
		},
		{
			SourceID: 1,
			Source: nvapi.SourceModeInfo{
				Resolution:  nvapi.Resolution{Width: 1080, Height: 1920, ColorDepth: 32},
				ColorFormat: 21,
				Position:    nvapi.Position{X: 2560, Y: -240},
			},
			Targets: []Target{{
				DisplayID: 0x80061087,
				TargetID:  2,
				Details: nvapi.AdvancedTargetInfo{
					RefreshRate1K: 59940,
					Scaling:       5,
					Rotation:      1,
					Flags:         nvapi.TargetFlagPreferredUnscaledTarget,
				},
			}},
		},
	}
}
