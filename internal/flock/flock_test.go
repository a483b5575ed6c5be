package flock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openLockFile(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) //nolint:gosec // test fixture
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestExclusive_AcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keystore.lock")
	f := openLockFile(t, path)

	require.NoError(t, Exclusive(f.Fd()))
	require.NoError(t, Unlock(f.Fd()))
}

func TestExclusive_SecondHolderFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keystore.lock")

	first := openLockFile(t, path)
	require.NoError(t, Exclusive(first.Fd()))

	second := openLockFile(t, path)
	err := Exclusive(second.Fd())
	assert.Error(t, err, "second exclusive lock on held file should fail immediately")

	require.NoError(t, Unlock(first.Fd()))

	// Released lock is acquirable again.
	assert.NoError(t, Exclusive(second.Fd()))
	assert.NoError(t, Unlock(second.Fd()))
}

func TestExclusive_Reentrant(t *testing.T) {
	// Locks are per file description, so the same descriptor may re-lock.
	path := filepath.Join(t.TempDir(), "keystore.lock")
	f := openLockFile(t, path)

	require.NoError(t, Exclusive(f.Fd()))
	assert.NoError(t, Exclusive(f.Fd()))
	require.NoError(t, Unlock(f.Fd()))
}
