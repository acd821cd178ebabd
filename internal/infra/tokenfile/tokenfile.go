package infra_tokenfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/burningsawals/core/internal/model"
)

// Store persists the session token (and the last known user) across
// restarts. The token is an opaque bearer string; no expiry is tracked
// client-side.
type Store struct {
	path string
}

type sessionFile struct {
	AuthToken string      `json:"auth_token"`
	User      *model.User `json:"user,omitempty"`
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load returns the persisted token and user, or zero values when nothing
// has been saved yet.
func (s *Store) Load() (string, *model.User, error) {
	blob, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var f sessionFile
	if err := json.Unmarshal(blob, &f); err != nil {
		return "", nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return f.AuthToken, f.User, nil
}

func (s *Store) Save(token string, user *model.User) error {
	blob, err := json.MarshalIndent(sessionFile{AuthToken: token, User: user}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(s.path, blob, 0600)
}

func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
