package lock

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAcquireAndRelease(t *testing.T) {
	tmpDir := t.TempDir()

	l, err := Acquire(tmpDir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(tmpDir, "LOCK"))
	require.NoError(t, err)
	require.NotEmpty(t, data)

	require.NoError(t, l.Release())
}

func TestDoubleAcquireFails(t *testing.T) {
	tmpDir := t.TempDir()

	l1, err := Acquire(tmpDir)
	require.NoError(t, err)
	defer func() { _ = l1.Release() }()

	_, err = Acquire(tmpDir)
	require.Error(t, err)

	var heldErr *HeldError
	require.True(t, errors.As(err, &heldErr), "expected HeldError, got %T: %v", err, err)
}

func TestReleaseNil(t *testing.T) {
	var l *Lock
	require.NoError(t, l.Release())
}

func TestReleaseIdempotent(t *testing.T) {
	l, err := Acquire(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, l.Release())
	require.NoError(t, l.Release())
}
