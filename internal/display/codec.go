package display

import (
	"fmt"
	"runtime"

	"github.com/dsrosen6/nvdisplay/internal/nvapi"
)

func encodeSource(s SourceMode) nvapi.SourceModeInfo {
	r := s.extra
	r.Resolution.Width = s.Width
	r.Resolution.Height = s.Height
	r.Position = nvapi.Position{X: s.X, Y: s.Y}
	r.Flags &^= nvapi.SourceFlagGDIPrimary
	if s.Primary {
		r.Flags |= nvapi.SourceFlagGDIPrimary
	}
	return r
}

func decodeSource(r nvapi.SourceModeInfo) SourceMode {
	return SourceMode{
		Width:   r.Resolution.Width,
		Height:  r.Resolution.Height,
		X:       r.Position.X,
		Y:       r.Position.Y,
		Primary: r.Flags&nvapi.SourceFlagGDIPrimary != 0,
		extra:   r,
	}
}

func encodeDetails(d TargetDetails) nvapi.AdvancedTargetInfo {
	r := d.extra
	if r.Version == 0 {
		r.Version = nvapi.AdvancedTargetInfoVersion
	}
	r.RefreshRate1K = d.RefreshRate1K
	r.Scaling = d.Scaling.Raw()
	r.Rotation = d.Rotation.Raw()
	return r
}

func decodeDetails(r nvapi.AdvancedTargetInfo) (TargetDetails, error) {
	rot, err := RotationFromRaw(r.Rotation)
	if err != nil {
		return TargetDetails{}, err
	}
	return TargetDetails{
		RefreshRate1K: r.RefreshRate1K,
		Scaling:       ScalingFromRaw(r.Scaling),
		Rotation:      rot,
		extra:         r,
	}, nil
}

// rawConfig is the arena behind one driver call. It owns every nested block
// the raw path records point at and keeps them pinned while the driver may
// hold those pointers. Blocks leave the arena only through decode, which also
// releases it.
type rawConfig struct {
	paths   []nvapi.PathInfo
	sources []nvapi.SourceModeInfo
	targets [][]nvapi.PathTargetInfo
	details [][]nvapi.AdvancedTargetInfo

	pinner   runtime.Pinner
	released bool
}

// newPathArena allocates count path records, each pointing at its own zeroed
// source block, ready for the path-level query.
func newPathArena(count uint32) *rawConfig {
	rc := &rawConfig{
		paths:   make([]nvapi.PathInfo, count),
		sources: make([]nvapi.SourceModeInfo, count),
		targets: make([][]nvapi.PathTargetInfo, count),
		details: make([][]nvapi.AdvancedTargetInfo, count),
	}
	if count > 0 {
		rc.pinner.Pin(&rc.sources[0])
	}
	for i := range rc.paths {
		rc.paths[i] = nvapi.PathInfo{
			Version:        nvapi.PathInfoVersion,
			SourceModeInfo: &rc.sources[i],
		}
	}
	return rc
}

// allocTargets sizes each path's target array from the count the driver
// reported and points every element at its own versioned details block.
func (rc *rawConfig) allocTargets() {
	for i := range rc.paths {
		n := rc.paths[i].TargetInfoCount
		rc.attachTargets(i, make([]nvapi.PathTargetInfo, n), make([]nvapi.AdvancedTargetInfo, n))
		for j := range rc.details[i] {
			rc.details[i][j].Version = nvapi.AdvancedTargetInfoVersion
		}
	}
}

func (rc *rawConfig) attachTargets(i int, targets []nvapi.PathTargetInfo, details []nvapi.AdvancedTargetInfo) {
	rc.targets[i] = targets
	rc.details[i] = details
	rc.paths[i].TargetInfoCount = uint32(len(targets))
	rc.paths[i].TargetInfo = nil
	if len(targets) == 0 {
		return
	}

	rc.pinner.Pin(&targets[0])
	rc.pinner.Pin(&details[0])
	for j := range targets {
		targets[j].Details = &details[j]
	}
	rc.paths[i].TargetInfo = &targets[0]
}

// encodeSnapshot moves the snapshot into a new arena. The caller must not
// read the arena's blocks through the snapshot afterwards; decode hands back
// a fresh snapshot.
func encodeSnapshot(paths []Path) *rawConfig {
	rc := newPathArena(uint32(len(paths)))
	for i, p := range paths {
		rc.sources[i] = encodeSource(p.Source)
		rc.paths[i].SourceID = p.SourceID
		rc.paths[i].OSAdapterID = p.osAdapterID
		if p.NonNVIDIAAdapter {
			rc.paths[i].Flags |= nvapi.PathFlagNonNVIDIAAdapter
		}

		targets := make([]nvapi.PathTargetInfo, len(p.Targets))
		details := make([]nvapi.AdvancedTargetInfo, len(p.Targets))
		for j, t := range p.Targets {
			targets[j] = nvapi.PathTargetInfo{DisplayID: t.DisplayID, TargetID: t.TargetID}
			details[j] = encodeDetails(t.Details)
		}
		rc.attachTargets(i, targets, details)
	}
	return rc
}

// checkCounts verifies the driver left every count at the size the arena
// allocated for it.
func (rc *rawConfig) checkCounts() error {
	for i, p := range rc.paths {
		if int(p.TargetInfoCount) != len(rc.targets[i]) {
			return fmt.Errorf("%w: path %d reported %d targets, %d allocated",
				ErrCountChanged, i, p.TargetInfoCount, len(rc.targets[i]))
		}
	}
	return nil
}

// decode converts the arena back into the in-process model and releases it.
// It reads the blocks the arena owns rather than trusting pointers the driver
// may have rewritten. A released arena decodes to nil.
func (rc *rawConfig) decode() ([]Path, error) {
	if rc == nil || rc.released {
		return nil, nil
	}
	defer rc.release()

	if err := rc.checkCounts(); err != nil {
		return nil, err
	}

	paths := make([]Path, len(rc.paths))
	for i, p := range rc.paths {
		if p.SourceModeInfo == nil {
			return nil, fmt.Errorf("%w: path %d source mode", ErrMissingBlock, i)
		}

		path := Path{
			SourceID:         p.SourceID,
			Source:           decodeSource(rc.sources[i]),
			NonNVIDIAAdapter: p.Flags&nvapi.PathFlagNonNVIDIAAdapter != 0,
			osAdapterID:      p.OSAdapterID,
			Targets:          make([]Target, len(rc.targets[i])),
		}
		for j, t := range rc.targets[i] {
			if t.Details == nil {
				return nil, fmt.Errorf("%w: path %d target %d details", ErrMissingBlock, i, j)
			}
			det, err := decodeDetails(rc.details[i][j])
			if err != nil {
				return nil, fmt.Errorf("path %d target %d: %w", i, j, err)
			}
			path.Targets[j] = Target{
				DisplayID: t.DisplayID,
				TargetID:  t.TargetID,
				Details:   det,
			}
		}
		paths[i] = path
	}
	return paths, nil
}

// release unpins the arena and drops its blocks. Safe to call more than once.
func (rc *rawConfig) release() {
	if rc == nil || rc.released {
		return
	}
	rc.pinner.Unpin()
	rc.paths = nil
	rc.sources = nil
	rc.targets = nil
	rc.details = nil
	rc.released = true
}
