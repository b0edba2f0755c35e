package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Identity is the cached session marker, the only state the client persists.
// It avoids a provider round-trip on every startup.
type Identity struct {
	UserID       int64  `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoadIdentity reads the identity marker from path. A missing file returns
// (nil, nil): no cached session is not an error.
func LoadIdentity(path string) (*Identity, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ident Identity
	if err := json.Unmarshal(data, &ident); err != nil {
		// A corrupt marker is treated as absent; the user re-authenticates.
		return nil, nil
	}
	if ident.AccessToken == "" {
		return nil, nil
	}
	return &ident, nil
}

// SaveIdentity writes the identity marker to path with owner-only perms.
func SaveIdentity(path string, ident *Identity) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.Marshal(ident)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// ClearIdentity removes the identity marker. A missing file is fine.
func ClearIdentity(path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
