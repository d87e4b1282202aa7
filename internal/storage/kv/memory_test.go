package kv

import (
	"errors"
	"testing"
)

func TestMemoryGetPut(t *testing.T) {
	m := NewMemory()

	if _, err := m.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	value := []byte(`{"xp":5}`)
	if err := m.Put("stats", value); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	// Mutating the caller's slice must not change the stored value
	value[0] = 'X'

	got, err := m.Get("stats")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != `{"xp":5}` {
		t.Errorf("expected %q, got %q", `{"xp":5}`, string(got))
	}
}

func TestMemoryKeysAndDelete(t *testing.T) {
	m := NewMemory()
	for _, k := range []string{"b_2", "a_1", "b_1"} {
		_ = m.Put(k, []byte("[]"))
	}

	keys, _ := m.Keys("b_")
	if len(keys) != 2 || keys[0] != "b_1" || keys[1] != "b_2" {
		t.Errorf("unexpected keys %v", keys)
	}

	if err := m.Delete("b_1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := m.Delete("never"); err != nil {
		t.Errorf("deleting a missing key should succeed, got %v", err)
	}
	keys, _ = m.Keys("")
	if len(keys) != 2 {
		t.Errorf("expected 2 keys, got %v", keys)
	}
}
