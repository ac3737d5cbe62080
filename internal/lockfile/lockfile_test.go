package lockfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireCreatesDirAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo", "demo.lock")

	h, err := Acquire(path)
	require.NoError(t, err)
	defer func() { _ = h.Release() }()

	assert.Equal(t, path, h.Path())
	assert.FileExists(t, path)
}

func TestSecondAcquireFailsFast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.lock")

	h, err := Acquire(path)
	require.NoError(t, err)
	defer func() { _ = h.Release() }()

	// flock is held per open file description, so a second handle contends
	// even within one process.
	h2, err := Acquire(path)
	require.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Nil(t, h2)
}

func TestReleaseAllowsReacquire(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.lock")

	h, err := Acquire(path)
	require.NoError(t, err)
	require.NoError(t, h.Release())

	h2, err := Acquire(path)
	require.NoError(t, err)
	require.NoError(t, h2.Release())
}

func TestReleaseNilHandle(t *testing.T) {
	var h *Handle
	assert.NoError(t, h.Release())
}
