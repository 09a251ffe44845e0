package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const tokenFileName = "token"

// TokenStore persists the bearer token between invocations. The filesystem
// is abstracted so tests run against an in-memory fs.
type TokenStore struct {
	fs  afero.Fs
	dir string
}

// NewTokenStore creates a token store rooted at dir.
func NewTokenStore(fs afero.Fs, dir string) *TokenStore {
	return &TokenStore{fs: fs, dir: dir}
}

// GetGlobalConfigDir returns the directory holding global taskdeck state
// (~/.taskdeck). A variable so tests can redirect it.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultRootDir), nil
}

// Save writes the token, creating the directory if needed. The file is
// user-readable only.
func (s *TokenStore) Save(token string) error {
	if err := s.fs.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	path := filepath.Join(s.dir, tokenFileName)
	if err := afero.WriteFile(s.fs, path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Load returns the stored token, or "" when no token has been saved.
func (s *TokenStore) Load() (string, error) {
	path := filepath.Join(s.dir, tokenFileName)
	raw, err := afero.ReadFile(s.fs, path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// Clear removes the stored token. Clearing an absent token is a no-op.
func (s *TokenStore) Clear() error {
	path := filepath.Join(s.dir, tokenFileName)
	err := s.fs.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
