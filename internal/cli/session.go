package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/corvusmed/painmap/internal/backend"
)

type savedSession struct {
	AccessToken string `json:"access_token"`
}

// saveSession persists the access token between CLI invocations. The file is
// owner-readable only since it grants account access.
func saveSession(path string, session backend.Session) error {
	content, err := json.Marshal(savedSession{AccessToken: session.AccessToken})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// loadSession restores the session from disk. A missing file means nobody is
// logged in; a corrupt or expired token is reported as an error.
func loadSession(path string) (backend.Session, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return backend.Session{}, backend.ErrNoSession
		}
		return backend.Session{}, fmt.Errorf("read session file: %w", err)
	}

	var saved savedSession
	if err := json.Unmarshal(content, &saved); err != nil {
		return backend.Session{}, fmt.Errorf("decode session file: %w", err)
	}
	if saved.AccessToken == "" {
		return backend.Session{}, backend.ErrNoSession
	}
	return backend.SessionFromToken(saved.AccessToken)
}

func clearSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
