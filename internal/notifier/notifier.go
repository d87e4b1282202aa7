// Package notifier finds a running `smartgrow serve` through its lockfile
// and pushes alerts to it, so the server's feed picks them up immediately.
package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/models"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
	getpidFunc        = os.Getpid
)

var (
	// ErrNotRunning is returned when no live server owns the lockfile
	ErrNotRunning = errors.New("smartgrow server is not running")
	// ErrAlreadyRunning is returned by Acquire when another server holds the lock
	ErrAlreadyRunning = errors.New("another smartgrow server is already running")
)

// Lock is the content of the server lockfile: "port|pid|secret".
type Lock struct {
	Port   int
	PID    int
	Secret string
}

func (l Lock) String() string {
	return fmt.Sprintf("%d|%d|%s", l.Port, l.PID, l.Secret)
}

// AlertPayload is the body POSTed to a running server.
type AlertPayload struct {
	UserID   string               `json:"userId"`
	Title    string               `json:"title"`
	Message  string               `json:"message"`
	Severity models.AlertSeverity `json:"severity"`
}

// LockfileDir returns the directory holding the server lockfile.
func LockfileDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(configDir, constants.AppName), nil
}

// LockfilePath returns the full lockfile path.
func LockfilePath() (string, error) {
	dir, err := LockfileDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.LockfileName), nil
}

// Acquire writes a lockfile for a server listening on port. A lockfile left by
// a dead process is replaced. The returned function removes the lockfile.
func Acquire(port int) (Lock, func() error, error) {
	path, err := LockfilePath()
	if err != nil {
		return Lock{}, nil, err
	}

	if existing, err := readLock(path); err == nil && existing.PID != getpidFunc() {
		return Lock{}, nil, fmt.Errorf("%w (pid %d, port %d)", ErrAlreadyRunning, existing.PID, existing.Port)
	}

	lock := Lock{Port: port, PID: getpidFunc(), Secret: uuid.NewString()}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return Lock{}, nil, fmt.Errorf("failed to create lockfile dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(lock.String()), 0o600); err != nil {
		return Lock{}, nil, fmt.Errorf("failed to write lockfile: %w", err)
	}

	release := func() error {
		current, err := parseLock(path)
		if err != nil || current.PID != lock.PID {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove lockfile: %w", err)
		}
		return nil
	}
	return lock, release, nil
}

// Discover returns the lock of the running server.
func Discover() (Lock, error) {
	path, err := LockfilePath()
	if err != nil {
		return Lock{}, err
	}
	return readLock(path)
}

// readLock parses the lockfile and checks that its process is a live
// smartgrow binary.
func readLock(path string) (Lock, error) {
	lock, err := parseLock(path)
	if err != nil {
		return Lock{}, err
	}

	process, err := findProcessFunc(lock.PID)
	if err != nil || process == nil {
		return Lock{}, fmt.Errorf("%w: process %d not found", ErrNotRunning, lock.PID)
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return Lock{}, fmt.Errorf("%w: process with PID %d is %s", ErrNotRunning, lock.PID, process.Executable())
	}
	return lock, nil
}

func parseLock(path string) (Lock, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Lock{}, ErrNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return Lock{}, errors.New("lockfile is malformed")
	}

	if strings.TrimSpace(parts[0]) == "" {
		return Lock{}, errors.New("port in lockfile is empty")
	}
	port, err := strconv.Atoi(parts[0])
	if err != nil {
		return Lock{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return Lock{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return Lock{}, errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return Lock{}, errors.New("secret in lockfile is empty")
	}

	return Lock{Port: port, PID: pid, Secret: secret}, nil
}

type Notifier struct {
	client *http.Client
}

func New() *Notifier {
	return &Notifier{client: &http.Client{Timeout: constants.NotifyTimeout}}
}

// Notify raises an alert through the running server.
func (n *Notifier) Notify(payload AlertPayload) error {
	lock, err := Discover()
	if err != nil {
		return err
	}
	return n.send(fmt.Sprintf("http://127.0.0.1:%d", lock.Port), lock.Secret, payload)
}

func (n *Notifier) send(baseURL, secret string, payload AlertPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+constants.NotifyPath, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.SecretHeader, secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK || res.StatusCode == http.StatusCreated {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
}
