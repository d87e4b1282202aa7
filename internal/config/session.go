package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/smartgrow/internal/constants"
)

// CurrentUser returns the logged in user id, or "" when nobody is logged
// in. SMARTGROW_USER takes precedence over the session file.
func CurrentUser(dir string) (string, error) {
	if user := strings.TrimSpace(os.Getenv("SMARTGROW_USER")); user != "" {
		return user, nil
	}
	data, err := os.ReadFile(filepath.Join(dir, constants.SessionFileName))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SetCurrentUser records the logged in user.
func SetCurrentUser(dir, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errors.New("user id cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, constants.SessionFileName), []byte(userID+"\n"), 0o600)
}

// ClearCurrentUser logs out. Stored data is left in place.
func ClearCurrentUser(dir string) error {
	err := os.Remove(filepath.Join(dir, constants.SessionFileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
