package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsrosen6/nvdisplay/internal/nvapi"
	"github.com/dsrosen6/nvdisplay/internal/nvapi/nvapitest"
)

func TestFetchSnapshot(t *testing.T) {
	drv := &nvapitest.Driver{Paths: nvapitest.SamplePaths()}

	paths, err := fetchSnapshot(drv)
	require.NoError(t, err)
	assert.Equal(t, []string{"get:count", "get:paths", "get:targets"}, drv.Calls)
	require.Len(t, paths, 2)

	primary := paths[0]
	assert.True(t, primary.Source.Primary)
	assert.Equal(t, uint32(2560), primary.Source.Width)
	assert.Equal(t, uint32(1440), primary.Source.Height)
	require.Len(t, primary.Targets, 1)
	assert.Equal(t, uint32(0x80061086), primary.Targets[0].DisplayID)
	assert.Equal(t, uint32(144), primary.Targets[0].Details.RefreshHz())
	assert.Equal(t, ScalingDefault, primary.Targets[0].Details.Scaling)
	assert.Equal(t, uint32(7), primary.Targets[0].Details.Connector())

	side := paths[1]
	assert.False(t, side.Source.Primary)
	assert.Equal(t, int32(2560), side.Source.X)
	assert.Equal(t, int32(-240), side.Source.Y)
	assert.Equal(t, uint32(59940), side.Targets[0].Details.RefreshRate1K)
	assert.Equal(t, ScalingAspect, side.Targets[0].Details.Scaling)
	assert.Equal(t, Rotate90, side.Targets[0].Details.Rotation)
}

func TestConfigQuery_Phases(t *testing.T) {
	drv := &nvapitest.Driver{Paths: nvapitest.SamplePaths()}
	q := newConfigQuery(drv)

	require.NoError(t, q.step())
	assert.Equal(t, phaseCountKnown, q.phase)
	assert.Equal(t, uint32(2), q.count)
	assert.Nil(t, q.arena)

	require.NoError(t, q.step())
	assert.Equal(t, phasePathsAllocated, q.phase)
	require.Len(t, q.arena.paths, 2)
	assert.Equal(t, uint32(1), q.arena.paths[0].TargetInfoCount)
	assert.Nil(t, q.arena.paths[0].TargetInfo)
	assert.Equal(t, uint32(2560), q.arena.sources[0].Resolution.Width)

	require.NoError(t, q.step())
	assert.Equal(t, phaseTargetsAllocated, q.phase)
	require.Len(t, q.arena.targets[1], 1)
	assert.Equal(t, uint32(0x80061087), q.arena.targets[1][0].DisplayID)
	assert.Equal(t, nvapi.AdvancedTargetInfoVersion, q.arena.details[1][0].Version)

	require.NoError(t, q.step())
	assert.Equal(t, phasePopulated, q.phase)
	assert.Len(t, q.paths, 2)
	assert.True(t, q.arena.released)

	assert.Error(t, q.step())
}

func TestFetchSnapshot_ZeroPaths(t *testing.T) {
	drv := &nvapitest.Driver{}

	paths, err := fetchSnapshot(drv)
	require.NoError(t, err)
	assert.NotNil(t, paths)
	assert.Empty(t, paths)
	assert.Equal(t, []string{"get:count"}, drv.Calls)
}

func TestFetchSnapshot_PathWithoutTargets(t *testing.T) {
	drv := &nvapitest.Driver{Paths: []nvapitest.Path{{
		Source: nvapi.SourceModeInfo{Resolution: nvapi.Resolution{Width: 640, Height: 480}},
	}}}

	paths, err := fetchSnapshot(drv)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Empty(t, paths[0].Targets)
}

func TestFetchSnapshot_CountFailureAllocatesNothing(t *testing.T) {
	drv := &nvapitest.Driver{
		Paths:     nvapitest.SamplePaths(),
		GetStatus: []nvapi.Status{nvapi.NvidiaDeviceNotFound},
	}
	q := newConfigQuery(drv)

	paths, err := q.run()
	require.Error(t, err)
	assert.Nil(t, paths)
	assert.Nil(t, q.arena)
	assert.Equal(t, phaseStart, q.phase)
	assert.Equal(t, []string{"get:count"}, drv.Calls)

	st, ok := nvapi.StatusOf(err)
	require.True(t, ok)
	assert.Equal(t, nvapi.NvidiaDeviceNotFound, st)
	assert.Contains(t, err.Error(), "no NVIDIA display driver")
}

func TestFetchSnapshot_LaterPhaseFailures(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []nvapi.Status
		wantCalls []string
		wantPhase queryPhase
	}{
		{
			name:      "paths",
			statuses:  []nvapi.Status{nvapi.OK, nvapi.DeviceBusy},
			wantCalls: []string{"get:count", "get:paths"},
			wantPhase: phaseCountKnown,
		},
		{
			name:      "targets",
			statuses:  []nvapi.Status{nvapi.OK, nvapi.OK, nvapi.DeviceBusy},
			wantCalls: []string{"get:count", "get:paths", "get:targets"},
			wantPhase: phasePathsAllocated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drv := &nvapitest.Driver{Paths: nvapitest.SamplePaths(), GetStatus: tt.statuses}
			q := newConfigQuery(drv)

			paths, err := q.run()
			assert.Nil(t, paths)
			assert.ErrorIs(t, err, &nvapi.DriverError{Status: nvapi.DeviceBusy})
			assert.Equal(t, tt.wantCalls, drv.Calls)
			assert.Equal(t, tt.wantPhase, q.phase)
			assert.True(t, q.arena.released)
		})
	}
}

func TestFetchSnapshot_CountChanged(t *testing.T) {
	drv := &nvapitest.Driver{
		Paths:         nvapitest.SamplePaths(),
		CountOverride: map[int]uint32{1: 3},
	}

	_, err := fetchSnapshot(drv)
	assert.ErrorIs(t, err, ErrCountChanged)
}

func TestFetchSnapshot_InvalidRotation(t *testing.T) {
	sample := nvapitest.SamplePaths()
	sample[1].Targets[0].Details.Rotation = 7
	drv := &nvapitest.Driver{Paths: sample}

	_, err := fetchSnapshot(drv)
	assert.ErrorIs(t, err, ErrInvalidRotation)
}
