package jsonfile

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/smartgrow/internal/storage/kv"
)

func setupTestStore(t *testing.T) (*Store, string) {
	path := filepath.Join(t.TempDir(), "smartgrow.json")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return store, path
}

func TestStore_PutGetPersists(t *testing.T) {
	store, path := setupTestStore(t)

	if err := store.Put("smartgrow_scans", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	got, err := reopened.Get("smartgrow_scans")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != `[{"id":"a"}]` {
		t.Errorf("expected %q, got %q", `[{"id":"a"}]`, string(got))
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store, path := setupTestStore(t)
	if err := store.Put("smartgrow_alerts", []byte(`[ {"id": "x"} ]`)); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, _ := store.Get("smartgrow_alerts")
	if string(got) != `[{"id":"x"}]` {
		t.Errorf("expected %q, got %q", `[{"id":"x"}]`, string(got))
	}
	got[2] = 'X'

	again, _ := store.Get("smartgrow_alerts")
	if string(again) != `[{"id":"x"}]` {
		t.Errorf("mutating a returned value changed the store: %q", string(again))
	}

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if fromDisk, _ := reopened.Get("smartgrow_alerts"); string(fromDisk) != string(again) {
		t.Errorf("expected %q after reload, got %q", string(again), string(fromDisk))
	}
}

func TestStore_RejectsInvalidJSON(t *testing.T) {
	store, _ := setupTestStore(t)
	if err := store.Put("k", []byte("{nope")); err == nil {
		t.Error("expected error for invalid JSON value")
	}
}

func TestStore_MissingAndDelete(t *testing.T) {
	store, _ := setupTestStore(t)

	if _, err := store.Get("absent"); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.Delete("absent"); err != nil {
		t.Errorf("deleting a missing key should be a no-op, got %v", err)
	}

	_ = store.Put("smartgrow_alerts_u1", []byte(`[]`))
	_ = store.Put("smartgrow_alerts", []byte(`[]`))
	keys, err := store.Keys("smartgrow_alerts")
	if err != nil {
		t.Fatalf("keys failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "smartgrow_alerts" {
		t.Errorf("unexpected keys %v", keys)
	}
}

func TestStore_LoadWithoutInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.json"))
	if err := store.Load(); err == nil {
		t.Error("expected error loading uninitialized storage")
	}
	if _, err := store.Get("k"); !errors.Is(err, kv.ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}
