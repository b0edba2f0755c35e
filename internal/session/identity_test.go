package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentityRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	want := &Identity{UserID: 7, AccessToken: "at", RefreshToken: "rt"}

	require.NoError(t, SaveIdentity(path, want))

	got, err := LoadIdentity(path)
	require.NoError(t, err)
	require.Equal(t, want, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadIdentityMissing(t *testing.T) {
	got, err := LoadIdentity(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestLoadIdentityCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	got, err := LoadIdentity(path)
	require.NoError(t, err, "a corrupt marker reads as absent")
	require.Nil(t, got)
}

func TestClearIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	require.NoError(t, SaveIdentity(path, &Identity{UserID: 1, AccessToken: "at"}))
	require.NoError(t, ClearIdentity(path))
	require.NoError(t, ClearIdentity(path), "clearing twice must not fail")

	got, err := LoadIdentity(path)
	require.NoError(t, err)
	require.Nil(t, got)
}
