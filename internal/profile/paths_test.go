package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDir(t *testing.T) {
	home, _ := os.UserHomeDir()
	require.Equal(t, filepath.Join(home, ".htly", "profiles", "main"), Dir("main"))
}

func TestIdentityPath(t *testing.T) {
	got := IdentityPath("test")
	require.True(t, strings.HasSuffix(got, filepath.Join("profiles", "test", "identity.json")), got)
}

func TestLockPath(t *testing.T) {
	got := LockPath("test")
	require.True(t, strings.HasSuffix(got, filepath.Join("profiles", "test", "LOCK")), got)
}

func TestLogPath(t *testing.T) {
	got := LogPath("test")
	require.True(t, strings.HasSuffix(got, filepath.Join("test", "logs", "htly.log")), got)
}
