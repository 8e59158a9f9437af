package recovery

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsrosen6/nvdisplay/internal/display"
	"github.com/dsrosen6/nvdisplay/internal/nvapi"
	"github.com/dsrosen6/nvdisplay/internal/nvapi/nvapitest"
)

type memRecorder struct {
	lines []string
}

func (m *memRecorder) Record(msg string) error {
	m.lines = append(m.lines, msg)
	return nil
}

type failingFetcher struct{}

func (failingFetcher) GetDisplayConfig() ([]display.Path, error) {
	return nil, errors.New("driver unavailable")
}

func newTestFixer(t *testing.T, drv *nvapitest.Driver, configs ConfigFetcher) (*Fixer, *memRecorder, *[]time.Duration) {
	t.Helper()
	rec := &memRecorder{}
	var slept []time.Duration

	f := NewFixer(drv, configs, rec)
	f.Sleep = func(d time.Duration) { slept = append(slept, d) }
	return f, rec, &slept
}

func TestFixer_RunsEveryAttempt(t *testing.T) {
	drv := &nvapitest.Driver{
		Paths:        nvapitest.SamplePaths(),
		CustomStatus: []nvapi.Status{nvapi.Error, nvapi.DeviceBusy, nvapi.OK},
		Timing:       nvapi.Timing{HVisible: 640, VVisible: 480, Pclk: 2517},
	}
	f, rec, slept := newTestFixer(t, drv, display.NewService(drv))
	var out bytes.Buffer
	f.Out = &out

	attempts := f.Run()

	require.Len(t, attempts, Attempts)
	assert.Error(t, attempts[0].Err)
	assert.ErrorIs(t, attempts[1].Err, &nvapi.DriverError{Status: nvapi.DeviceBusy})
	assert.NoError(t, attempts[2].Err)
	for i, a := range attempts {
		assert.Equal(t, i+1, a.N)
		assert.NoError(t, a.FetchErr)
		assert.Equal(t, "2560x1440", a.Resolution)
	}

	assert.Equal(t, []time.Duration{Backoff, Backoff}, *slept)
	assert.Equal(t, []string{
		"Failed to fix the display: applying resolution: generic driver error, attempt 1",
		"Retrieved resolution: 2560x1440, attempt 1",
		"Failed to fix the display: applying resolution: device is busy, attempt 2",
		"Retrieved resolution: 2560x1440, attempt 2",
		"Successfully fixed the display, attempt 3",
		"Retrieved resolution: 2560x1440, attempt 3",
	}, rec.lines)
	assert.Equal(t, 2, strings.Count(out.String(), "Failed to fix the display"))
	assert.Equal(t, 1, strings.Count(out.String(), "Successfully fixed the display"))
}

func TestFixer_NoEarlyExitOnSuccess(t *testing.T) {
	drv := &nvapitest.Driver{Paths: nvapitest.SamplePaths()}
	f, rec, _ := newTestFixer(t, drv, display.NewService(drv))

	attempts := f.Run()

	require.Len(t, attempts, 3)
	assert.Len(t, drv.CustomDisplays, 3)
	assert.Len(t, rec.lines, 6)
}

func TestFixer_CustomDisplayRequest(t *testing.T) {
	timing := nvapi.Timing{HVisible: 640, HTotal: 800, VVisible: 480, VTotal: 525, Pclk: 2517}
	drv := &nvapitest.Driver{Paths: nvapitest.SamplePaths(), Timing: timing}
	f, _, _ := newTestFixer(t, drv, display.NewService(drv))

	f.Run()

	require.NotEmpty(t, drv.TimingInputs)
	in := drv.TimingInputs[0]
	assert.Equal(t, uint32(640), in.Width)
	assert.Equal(t, uint32(480), in.Height)
	assert.Equal(t, float32(60), in.RR)
	assert.Equal(t, nvapi.TimingOverrideAuto, in.Type)
	assert.Equal(t, nvapi.TimingInputVersion, in.Version)

	require.NotEmpty(t, drv.CustomDisplays)
	cd := drv.CustomDisplays[0]
	assert.Equal(t, []uint32{LegacyDisplayID}, drv.CustomIDs[0])
	assert.Equal(t, uint32(5120), cd.Width)
	assert.Equal(t, uint32(1440), cd.Height)
	assert.Equal(t, uint32(32), cd.Depth)
	assert.Equal(t, nvapi.ViewportF{W: 1, H: 1}, cd.SrcPartition)
	assert.Equal(t, float32(1), cd.XRatio)
	assert.Equal(t, float32(1), cd.YRatio)
	assert.Equal(t, timing, cd.Timing)
}

func TestFixer_TimingFailureSkipsCustomDisplay(t *testing.T) {
	drv := &nvapitest.Driver{
		Paths:        nvapitest.SamplePaths(),
		TimingStatus: []nvapi.Status{nvapi.NotSupported},
	}
	f, rec, _ := newTestFixer(t, drv, display.NewService(drv))

	attempts := f.Run()

	assert.EqualError(t, attempts[0].Err, "retrieving timing: requested feature is not supported")
	assert.Len(t, drv.CustomDisplays, 2)
	assert.Equal(t, "Failed to fix the display: retrieving timing: requested feature is not supported, attempt 1", rec.lines[0])
}

func TestFixer_FetchFailureDoesNotAbort(t *testing.T) {
	drv := &nvapitest.Driver{}
	f, rec, _ := newTestFixer(t, drv, failingFetcher{})

	attempts := f.Run()

	require.Len(t, attempts, 3)
	for _, a := range attempts {
		assert.NoError(t, a.Err)
		assert.Error(t, a.FetchErr)
	}
	assert.Contains(t, rec.lines, "Failed to get current display config: driver unavailable")
}

func TestFixer_NoPaths(t *testing.T) {
	drv := &nvapitest.Driver{}
	f, _, _ := newTestFixer(t, drv, display.NewService(drv))

	attempts := f.Run()
	assert.ErrorIs(t, attempts[0].FetchErr, errNoPaths)
}
