// Package keyring stores SmartGrow secrets (provider API keys and the
// postgres connection string) in the OS keyring.
package keyring

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/zalando/go-keyring"
)

var (
	// ErrNotFound is returned when no secret is stored under the entry
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	// ErrUnknownEntry is returned for entry names SmartGrow does not manage
	ErrUnknownEntry = errors.New("unknown keyring entry")
)

// Entries lists the keyring entries SmartGrow reads.
var Entries = []string{
	constants.KeyringGeminiKey,
	constants.KeyringOpenAIKey,
	constants.DefaultKeyringUser,
}

func checkEntry(entry string) error {
	if !slices.Contains(Entries, entry) {
		return fmt.Errorf("%w %q (expected one of %s)", ErrUnknownEntry, entry, strings.Join(Entries, ", "))
	}
	return nil
}

// Get retrieves a secret. Returns ErrNotFound if nothing is stored.
func Get(entry string) (string, error) {
	if err := checkEntry(entry); err != nil {
		return "", err
	}
	secret, err := keyring.Get(constants.AppName, entry)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores a secret, replacing any previous value.
func Set(entry, secret string) error {
	if err := checkEntry(entry); err != nil {
		return err
	}
	if strings.TrimSpace(secret) == "" {
		return fmt.Errorf("%s cannot be empty", entry)
	}
	if err := keyring.Set(constants.AppName, entry, secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", entry, err)
	}
	return nil
}

// Delete removes a secret.
func Delete(entry string) error {
	if err := checkEntry(entry); err != nil {
		return err
	}
	if err := keyring.Delete(constants.AppName, entry); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", entry, err)
	}
	return nil
}

// GetConnectionString retrieves the postgres connection string.
func GetConnectionString() (string, error) {
	return Get(constants.DefaultKeyringUser)
}

// SetConnectionString stores the postgres connection string.
func SetConnectionString(connStr string) error {
	return Set(constants.DefaultKeyringUser, connStr)
}

// Lookup returns the stored secret or "" when it is missing or the keyring
// cannot be reached.
func Lookup(entry string) string {
	secret, err := Get(entry)
	if err != nil {
		return ""
	}
	return secret
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
