package nvapi

import (
	"errors"
	"fmt"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Message(t *testing.T) {
	for st := range statusMessages {
		assert.NotEmpty(t, st.Message(), "status %d", st)
	}

	assert.Equal(t, "invalid argument", InvalidArgument.Message())
	assert.Equal(t, "unknown status -9999", Status(-9999).Message())
	assert.Equal(t, "unknown status 42", Status(42).Message())
}

func TestDriverError(t *testing.T) {
	err := fmt.Errorf("fetching display config: %w", NewDriverError("querying path count", DeviceBusy))

	assert.Equal(t, "fetching display config: querying path count: device is busy", err.Error())
	assert.True(t, errors.Is(err, &DriverError{Status: DeviceBusy}))
	assert.False(t, errors.Is(err, &DriverError{Status: Error}))

	st, ok := StatusOf(err)
	require.True(t, ok)
	assert.Equal(t, DeviceBusy, st)

	_, ok = StatusOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestMakeVersion(t *testing.T) {
	assert.Equal(t, uint32(2), PathInfoVersion>>16)
	assert.Equal(t, uint32(unsafe.Sizeof(PathInfo{})), PathInfoVersion&0xFFFF)
	assert.Equal(t, uint32(1), AdvancedTargetInfoVersion>>16)
	assert.Equal(t, uint32(0x10020), MakeVersion(0x20, 1))
}
