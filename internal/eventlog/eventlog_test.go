package eventlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_RecordAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "log.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("existing line\n"), 0o644))

	l := New(path)
	require.NoError(t, l.Record("first"))
	require.NoError(t, l.Record("second\nwrapped"))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing line\nfirst\nsecond wrapped\n", string(b))
}

func TestLog_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "log.txt")

	require.NoError(t, New(path).Record("hello"))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(b))
}
