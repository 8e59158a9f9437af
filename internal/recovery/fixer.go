// Package recovery implements the "fix" routine: a blind, bounded retry of a
// forced custom display timing used to pull a display out of a bad state.
package recovery

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dsrosen6/nvdisplay/internal/display"
	"github.com/dsrosen6/nvdisplay/internal/nvapi"
	"github.com/dsrosen6/nvdisplay/internal/output"
)

// The routine always targets the same legacy display id and modes.
const (
	LegacyDisplayID uint32 = 2147881090

	Attempts = 3
	Backoff  = 10 * time.Second

	probeWidth   = 640
	probeHeight  = 480
	probeRefresh = 60

	targetWidth       = 5120
	targetHeight      = 1440
	targetDepth       = 32
	targetColorFormat = 21
)

var errNoPaths = errors.New("driver reported no display paths")

type (
	// ConfigFetcher re-reads the display configuration after each attempt.
	ConfigFetcher interface {
		GetDisplayConfig() ([]display.Path, error)
	}

	// Recorder receives one line per event.
	Recorder interface {
		Record(msg string) error
	}

	// Attempt is the outcome of one try.
	Attempt struct {
		N          int
		Err        error
		Resolution string
		FetchErr   error
	}

	Fixer struct {
		drv     nvapi.Driver
		configs ConfigFetcher
		rec     Recorder

		// Out receives the console status line for each attempt.
		Out io.Writer
		// Sleep waits between attempts.
		Sleep func(time.Duration)
	}
)

func NewFixer(drv nvapi.Driver, configs ConfigFetcher, rec Recorder) *Fixer {
	return &Fixer{
		drv:     drv,
		configs: configs,
		rec:     rec,
		Out:     io.Discard,
		Sleep:   time.Sleep,
	}
}

// Run performs every attempt, even after one succeeds. Failures are recorded,
// never returned.
func (f *Fixer) Run() []Attempt {
	attempts := make([]Attempt, 0, Attempts)
	for i := range Attempts {
		a := Attempt{N: i + 1}

		if a.Err = f.tryCustomDisplay(); a.Err != nil {
			output.Failure(f.Out, "Failed to fix the display: %v", a.Err)
			f.record("Failed to fix the display: %v, attempt %d", a.Err, a.N)
		} else {
			output.Success(f.Out, "Successfully fixed the display")
			f.record("Successfully fixed the display, attempt %d", a.N)
		}

		if i != Attempts-1 {
			slog.Debug("waiting before next fix attempt", "attempt", a.N, "backoff", Backoff)
			f.Sleep(Backoff)
		}

		a.Resolution, a.FetchErr = f.currentResolution()
		if a.FetchErr != nil {
			f.record("Failed to get current display config: %v", a.FetchErr)
		} else {
			f.record("Retrieved resolution: %s, attempt %d", a.Resolution, a.N)
		}

		attempts = append(attempts, a)
	}
	return attempts
}

func (f *Fixer) tryCustomDisplay() error {
	in := nvapi.TimingInput{
		Version: nvapi.TimingInputVersion,
		Width:   probeWidth,
		Height:  probeHeight,
		RR:      probeRefresh,
		Type:    nvapi.TimingOverrideAuto,
	}

	var timing nvapi.Timing
	if st := f.drv.GetTiming(LegacyDisplayID, &in, &timing); st != nvapi.OK {
		return nvapi.NewDriverError("retrieving timing", st)
	}

	custom := nvapi.CustomDisplay{
		Version:      nvapi.CustomDisplayVersion,
		Width:        targetWidth,
		Height:       targetHeight,
		Depth:        targetDepth,
		ColorFormat:  targetColorFormat,
		SrcPartition: nvapi.ViewportF{X: 0, Y: 0, W: 1, H: 1},
		XRatio:       1,
		YRatio:       1,
		Timing:       timing,
	}

	ids := []uint32{LegacyDisplayID}
	if st := f.drv.TryCustomDisplay(ids, []nvapi.CustomDisplay{custom}); st != nvapi.OK {
		return nvapi.NewDriverError("applying resolution", st)
	}
	return nil
}

func (f *Fixer) currentResolution() (string, error) {
	paths, err := f.configs.GetDisplayConfig()
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", errNoPaths
	}
	src := paths[0].Source
	return fmt.Sprintf("%dx%d", src.Width, src.Height), nil
}

func (f *Fixer) record(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	slog.Info(msg)
	if err := f.rec.Record(msg); err != nil {
		slog.Error("writing event log", "error", err)
	}
}
