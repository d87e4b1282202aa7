package notifier

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/models"
)

// Mock Process
type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int {
	return m.pid
}

func (m *mockProcess) PPid() int {
	return 0
}

func (m *mockProcess) Executable() string {
	return m.executable
}

func setupConfigDir(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()

	oldUserConfigDirFunc := userConfigDirFunc
	oldFindProcessFunc := findProcessFunc
	oldGetpidFunc := getpidFunc
	t.Cleanup(func() {
		userConfigDirFunc = oldUserConfigDirFunc
		findProcessFunc = oldFindProcessFunc
		getpidFunc = oldGetpidFunc
	})
	userConfigDirFunc = func() (string, error) {
		return tempDir, nil
	}
	getpidFunc = func() int { return 4242 }
	return tempDir
}

func TestLockfilePath(t *testing.T) {
	tempDir := setupConfigDir(t)

	path, err := LockfilePath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := filepath.Join(tempDir, constants.AppName, constants.LockfileName)
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}

func TestParseLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), constants.LockfileName)

	if _, err := parseLock(path); !errors.Is(err, ErrNotRunning) {
		t.Errorf("expected ErrNotRunning for missing lockfile, got %v", err)
	}

	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"two part format", "8080|12345", "malformed"},
		{"invalid format", "invalid", "malformed"},
		{"empty secret", "8080|12345|", "secret"},
		{"empty port", "|12345|s3cret", "port"},
		{"port out of range", "99999|12345|s3cret", "range"},
		{"bad pid", "8080|abc|s3cret", "process ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			_, err := parseLock(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("expected error about %q, got: %v", tt.errPart, err)
			}
		})
	}

	if err := os.WriteFile(path, []byte("8080|12345|s3cret\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	lock, err := parseLock(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lock.Port != 8080 || lock.PID != 12345 || lock.Secret != "s3cret" {
		t.Errorf("unexpected lock %+v", lock)
	}
}

func TestReadLock_Process(t *testing.T) {
	setupConfigDir(t)
	path, _ := LockfilePath()
	_ = os.MkdirAll(filepath.Dir(path), 0o700)
	if err := os.WriteFile(path, []byte("8080|12345|s3cret"), 0o600); err != nil {
		t.Fatal(err)
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return nil, nil
	}
	if _, err := Discover(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("expected ErrNotRunning for missing process, got %v", err)
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "other-app"}, nil
	}
	if _, err := Discover(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("expected ErrNotRunning for wrong executable, got %v", err)
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "smartgrow"}, nil
	}
	lock, err := Discover()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lock.Port != 8080 {
		t.Errorf("expected port 8080, got %d", lock.Port)
	}
}

func TestAcquire(t *testing.T) {
	setupConfigDir(t)
	findProcessFunc = func(pid int) (ps.Process, error) {
		return nil, nil
	}

	t.Run("writes and releases", func(t *testing.T) {
		lock, release, err := Acquire(9090)
		if err != nil {
			t.Fatalf("Acquire failed: %v", err)
		}
		if lock.PID != 4242 || lock.Port != 9090 || lock.Secret == "" {
			t.Errorf("unexpected lock %+v", lock)
		}
		path, _ := LockfilePath()
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("lockfile missing: %v", err)
		}
		if string(content) != lock.String() {
			t.Errorf("expected %q, got %q", lock.String(), string(content))
		}
		if err := release(); err != nil {
			t.Fatalf("release failed: %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("expected lockfile removed")
		}
	})

	t.Run("replaces stale lock", func(t *testing.T) {
		path, _ := LockfilePath()
		_ = os.WriteFile(path, []byte("8080|1|old"), 0o600)
		lock, release, err := Acquire(9090)
		if err != nil {
			t.Fatalf("Acquire failed: %v", err)
		}
		defer release()
		if lock.Secret == "old" {
			t.Error("expected a fresh secret")
		}
	})

	t.Run("refuses live lock", func(t *testing.T) {
		path, _ := LockfilePath()
		_ = os.WriteFile(path, []byte("8080|777|live"), 0o600)
		findProcessFunc = func(pid int) (ps.Process, error) {
			return &mockProcess{pid: pid, executable: "smartgrow"}, nil
		}
		if _, _, err := Acquire(9090); !errors.Is(err, ErrAlreadyRunning) {
			t.Errorf("expected ErrAlreadyRunning, got %v", err)
		}
	})
}

func TestSend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != constants.NotifyPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get(constants.SecretHeader) != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}

		var payload AlertPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if payload.Title == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	n := New()
	payload := AlertPayload{UserID: "u1", Title: "Frost", Message: "Cover seedlings", Severity: models.AlertWarning}

	if err := n.send(server.URL, "test-secret", payload); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := n.send(server.URL, "", payload); err == nil {
		t.Error("expected error for missing secret")
	}
	if err := n.send(server.URL, "wrong-secret", payload); err == nil {
		t.Error("expected error for wrong secret")
	}
	payload.Title = "fail"
	if err := n.send(server.URL, "test-secret", payload); err == nil {
		t.Error("expected error for server failure")
	}
}
