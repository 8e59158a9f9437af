package display

import "fmt"

// Selector picks the entry of a snapshot a change is aimed at.
type Selector struct {
	displayID uint32
	primary   bool
}

// ByDisplayID selects the first target carrying id.
func ByDisplayID(id uint32) Selector {
	return Selector{displayID: id}
}

// Primary selects the first source flagged as the primary desktop.
func Primary() Selector {
	return Selector{primary: true}
}

func (s Selector) String() string {
	if s.primary {
		return "primary"
	}
	return fmt.Sprintf("display %d", s.displayID)
}

// Location is a path index and a target index within that path.
type Location struct {
	Path   int
	Target int
}

// FindPathAndTarget resolves sel against paths. Display ids are matched by
// scanning paths in order and targets in order within each path. A primary
// selection addresses the source, so its target index is always 0.
func FindPathAndTarget(paths []Path, sel Selector) (Location, bool) {
	for i, p := range paths {
		if sel.primary {
			if p.Source.Primary {
				return Location{Path: i, Target: 0}, true
			}
			continue
		}

		for j, t := range p.Targets {
			if t.DisplayID == sel.displayID {
				return Location{Path: i, Target: j}, true
			}
		}
	}
	return Location{}, false
}

// Find is FindPathAndTarget returning ErrSelectionNotFound on a miss.
func Find(paths []Path, sel Selector) (Location, error) {
	loc, ok := FindPathAndTarget(paths, sel)
	if !ok {
		return Location{}, fmt.Errorf("%w: %s", ErrSelectionNotFound, sel)
	}
	return loc, nil
}

// Source returns the selected source mode for mutation.
func (l Location) Source(paths []Path) *SourceMode {
	return &paths[l.Path].Source
}

// TargetIn returns the selected target for mutation, or nil when the path
// has no target at that index.
func (l Location) TargetIn(paths []Path) *Target {
	targets := paths[l.Path].Targets
	if l.Target >= len(targets) {
		return nil
	}
	return &targets[l.Target]
}
