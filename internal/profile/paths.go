// Package profile names the on-disk layout of a client profile. A profile
// holds the cached identity marker, logs and the single-instance lock; no
// backend-owned data is ever written here.
package profile

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.htly.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".htly")
}

// Dir returns the profile-specific directory.
func Dir(name string) string {
	return filepath.Join(BaseDir(), "profiles", name)
}

// IdentityPath returns the cached identity marker path for a profile.
func IdentityPath(name string) string {
	return filepath.Join(Dir(name), "identity.json")
}

// LockPath returns the lock file path for a profile.
func LockPath(name string) string {
	return filepath.Join(Dir(name), "LOCK")
}

// LogDir returns the log directory for a profile.
func LogDir(name string) string {
	return filepath.Join(Dir(name), "logs")
}

// LogPath returns the client log file path.
func LogPath(name string) string {
	return filepath.Join(LogDir(name), "htly.log")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// EnsureDir creates the profile directory tree with proper permissions.
func EnsureDir(name string) error {
	dirs := []string{
		Dir(name),
		LogDir(name),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
