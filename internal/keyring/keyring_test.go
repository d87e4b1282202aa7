package keyring

import (
	"errors"
	"testing"

	"github.com/julianstephens/smartgrow/internal/constants"
	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGet(t *testing.T) {
	gokeyring.MockInit()

	for _, entry := range Entries {
		t.Run(entry, func(t *testing.T) {
			secret := "secret-for-" + entry
			if err := Set(entry, secret); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			got, err := Get(entry)
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if got != secret {
				t.Errorf("expected %q, got %q", secret, got)
			}
		})
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(constants.KeyringGeminiKey, "  "); err == nil {
		t.Error("Set() with blank secret should return an error")
	}
}

func TestUnknownEntry(t *testing.T) {
	gokeyring.MockInit()

	if _, err := Get("aws-key"); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("expected ErrUnknownEntry, got %v", err)
	}
	if err := Set("aws-key", "x"); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("expected ErrUnknownEntry, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	gokeyring.MockInit()
	_ = Delete(constants.KeyringOpenAIKey)

	if _, err := Get(constants.KeyringOpenAIKey); err != ErrNotFound {
		t.Errorf("expected %v, got %v", ErrNotFound, err)
	}
	if got := Lookup(constants.KeyringOpenAIKey); got != "" {
		t.Errorf("expected empty lookup, got %q", got)
	}
}

func TestDelete(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("postgres://localhost:5432/smartgrow"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	if err := Delete(constants.DefaultKeyringUser); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := GetConnectionString(); err != ErrNotFound {
		t.Errorf("expected %v after delete, got %v", ErrNotFound, err)
	}
	if err := Delete(constants.DefaultKeyringUser); err != ErrNotFound {
		t.Errorf("expected %v deleting twice, got %v", ErrNotFound, err)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false, want true in mock mode")
	}
}
