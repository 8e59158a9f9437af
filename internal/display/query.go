package display

import (
	"fmt"
	"log/slog"

	"github.com/dsrosen6/nvdisplay/internal/nvapi"
)

// queryPhase tracks how far a configuration query has progressed. The driver
// sizes nothing itself: each phase allocates from the counts reported by the
// previous one before asking the driver to fill the new blocks.
type queryPhase int

const (
	phaseStart queryPhase = iota
	phaseCountKnown
	phasePathsAllocated
	phaseTargetsAllocated
	phasePopulated
)

func (p queryPhase) String() string {
	switch p {
	case phaseStart:
		return "start"
	case phaseCountKnown:
		return "count_known"
	case phasePathsAllocated:
		return "paths_allocated"
	case phaseTargetsAllocated:
		return "targets_allocated"
	case phasePopulated:
		return "populated"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

type configQuery struct {
	drv   nvapi.Driver
	phase queryPhase
	count uint32
	arena *rawConfig
	paths []Path
}

func newConfigQuery(drv nvapi.Driver) *configQuery {
	return &configQuery{drv: drv}
}

// step advances the query by one phase.
func (q *configQuery) step() error {
	switch q.phase {
	case phaseStart:
		if st := q.drv.GetDisplayConfig(&q.count, nil); st != nvapi.OK {
			return nvapi.NewDriverError("querying path count", st)
		}
		q.phase = phaseCountKnown
		if q.count == 0 {
			q.phase = phasePopulated
		}

	case phaseCountKnown:
		q.arena = newPathArena(q.count)
		if err := q.query("querying paths"); err != nil {
			return err
		}
		q.phase = phasePathsAllocated

	case phasePathsAllocated:
		q.arena.allocTargets()
		if err := q.query("querying targets"); err != nil {
			return err
		}
		q.phase = phaseTargetsAllocated

	case phaseTargetsAllocated:
		paths, err := q.arena.decode()
		if err != nil {
			return fmt.Errorf("converting driver records: %w", err)
		}
		q.paths = paths
		q.phase = phasePopulated

	default:
		return fmt.Errorf("query already %s", q.phase)
	}

	slog.Debug("display config query advanced", "phase", q.phase.String(), "paths", q.count)
	return nil
}

func (q *configQuery) query(op string) error {
	n := q.count
	if st := q.drv.GetDisplayConfig(&n, q.arena.paths); st != nvapi.OK {
		return nvapi.NewDriverError(op, st)
	}
	if n != q.count {
		return fmt.Errorf("%s: %w: %d paths, expected %d", op, ErrCountChanged, n, q.count)
	}
	return nil
}

// run drives the query to completion. Any failure discards the partially
// filled records.
func (q *configQuery) run() ([]Path, error) {
	defer func() { q.arena.release() }()

	for q.phase != phasePopulated {
		if err := q.step(); err != nil {
			return nil, err
		}
	}
	if q.paths == nil {
		return []Path{}, nil
	}
	return q.paths, nil
}

func fetchSnapshot(drv nvapi.Driver) ([]Path, error) {
	return newConfigQuery(drv).run()
}

// applySnapshot hands the snapshot to the driver. The arena is decoded back
// after the call whatever its outcome, and only the apply status is reported.
func applySnapshot(drv nvapi.Driver, paths []Path) error {
	rc := encodeSnapshot(paths)
	st := drv.SetDisplayConfig(rc.paths, 0)

	if _, err := rc.decode(); err != nil {
		slog.Debug("discarding cleanup conversion error", "error", err)
	}

	if st != nvapi.OK {
		return nvapi.NewDriverError("applying display config", st)
	}
	return nil
}
