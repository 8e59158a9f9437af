package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsrosen6/nvdisplay/internal/display"
	"github.com/dsrosen6/nvdisplay/internal/nvapi"
	"github.com/dsrosen6/nvdisplay/internal/nvapi/nvapitest"
	"github.com/dsrosen6/nvdisplay/internal/output"
)

func fakeDriver(t *testing.T) *nvapitest.Driver {
	t.Helper()
	drv := &nvapitest.Driver{Paths: nvapitest.SamplePaths()}

	prev := openDriver
	openDriver = func() (nvapi.Driver, func() error, error) {
		return drv, func() error { return nil }, nil
	}
	t.Cleanup(func() { openDriver = prev })
	return drv
}

func TestParseFlags_ModeFlagsShortCircuit(t *testing.T) {
	opts, err := parseFlags([]string{"-list", "-scaling", "zoom", "-format", "json"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, opts.list)
	assert.Equal(t, output.FormatJSON, opts.format)
	assert.True(t, opts.adj.Empty())

	opts, err = parseFlags([]string{"-fix", "-rotation", "45"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, opts.fix)
}

func TestParseFlags_Adjustment(t *testing.T) {
	opts, err := parseFlags([]string{
		"-display", "2147881095", "-width", "1920", "-x", "-1920", "-refresh", "75",
		"-scaling", "Aspect", "-rotation", "180",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, display.ByDisplayID(2147881095), opts.selector)
	require.NotNil(t, opts.adj.Width)
	assert.Equal(t, uint32(1920), *opts.adj.Width)
	assert.Nil(t, opts.adj.Height)
	require.NotNil(t, opts.adj.X)
	assert.Equal(t, int32(-1920), *opts.adj.X)
	assert.Equal(t, uint32(75), *opts.adj.RefreshHz)
	assert.Equal(t, display.ScalingAspect, *opts.adj.Scaling)
	assert.Equal(t, display.Rotate180, *opts.adj.Rotation)
}

func TestParseFlags_ZeroValueStillCounts(t *testing.T) {
	opts, err := parseFlags([]string{"-x", "0"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, display.Primary(), opts.selector)
	require.NotNil(t, opts.adj.X)
	assert.Zero(t, *opts.adj.X)
}

func TestParseFlags_RangeLimits(t *testing.T) {
	opts, err := parseFlags([]string{
		"-width", "4294967295", "-x", "-2147483648", "-y", "2147483647", "-refresh", "4294967",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, uint32(4294967295), *opts.adj.Width)
	assert.Equal(t, int32(-2147483648), *opts.adj.X)
	assert.Equal(t, int32(2147483647), *opts.adj.Y)
	assert.Equal(t, uint32(4294967), *opts.adj.RefreshHz)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"no flags", nil, ErrUsage},
		{"selector only", []string{"-display", "5"}, ErrUsage},
		{"unknown flag", []string{"-bogus"}, ErrUsage},
		{"stray argument", []string{"-width", "5", "extra"}, ErrUsage},
		{"bad format", []string{"-list", "-format", "xml"}, ErrUsage},
		{"display out of range", []string{"-display", "4294967296", "-width", "5"}, ErrUsage},
		{"width out of range", []string{"-width", "4294967297"}, ErrUsage},
		{"height out of range", []string{"-height", "4294967296"}, ErrUsage},
		{"x above range", []string{"-x", "4294967296"}, ErrUsage},
		{"x below range", []string{"-x", "-2147483649"}, ErrUsage},
		{"y above range", []string{"-y", "2147483648"}, ErrUsage},
		{"refresh out of range", []string{"-refresh", "4294968"}, ErrUsage},
		{"bad scaling", []string{"-scaling", "zoom"}, display.ErrInvalidScaling},
		{"bad rotation", []string{"-rotation", "45"}, display.ErrInvalidRotation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args, &bytes.Buffer{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"version"}, &out, &bytes.Buffer{}))
	assert.Equal(t, version+"\n", out.String())
}

func TestRun_UnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"frobnicate"}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUsage)
}

func TestRun_List(t *testing.T) {
	fakeDriver(t)
	cfg := filepath.Join(t.TempDir(), "config.json")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-c", cfg, "-list", "-format", "yaml"}, &out, &bytes.Buffer{}))
	assert.Contains(t, out.String(), "display_id: 2147881094")
}

func TestRun_Adjust(t *testing.T) {
	drv := fakeDriver(t)
	cfg := filepath.Join(t.TempDir(), "config.json")

	err := run(context.Background(), []string{"-c", cfg, "-width", "1280", "-height", "720"}, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, drv.Applied, 1)
	assert.Equal(t, uint32(1280), drv.Applied[0][0].Source.Resolution.Width)
}

func TestRun_AdjustFailure(t *testing.T) {
	drv := fakeDriver(t)
	drv.SetStatus = nvapi.InvalidCombination
	cfg := filepath.Join(t.TempDir(), "config.json")

	err := run(context.Background(), []string{"-c", cfg, "-refresh", "240"}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, &nvapi.DriverError{Status: nvapi.InvalidCombination})
}

func TestRun_PickUsesConfigFlag(t *testing.T) {
	fakeDriver(t)
	cfg := filepath.Join(t.TempDir(), "pick", "config.json")

	// Tests run without a terminal, so pick stops after loading the config.
	err := run(context.Background(), []string{"pick", "-c", cfg}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, errNotTerminal)
	assert.FileExists(t, cfg)

	err = run(context.Background(), []string{"pick", "extra"}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUsage)
}

func TestRun_Profiles(t *testing.T) {
	drv := fakeDriver(t)
	cfg := filepath.Join(t.TempDir(), "config.json")
	ctx := context.Background()

	require.NoError(t, run(ctx, []string{"save-profile", "-c", cfg, "-name", "desk"}, &bytes.Buffer{}, &bytes.Buffer{}))
	require.NoError(t, run(ctx, []string{"apply-profile", "-c", cfg, "-name", "desk"}, &bytes.Buffer{}, &bytes.Buffer{}))
	assert.Len(t, drv.Applied, 1)

	err := run(ctx, []string{"apply-profile", "-c", cfg}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUsage)
}
