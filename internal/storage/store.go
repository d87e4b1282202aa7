// Package storage is the per-user persistence layer. Each collection is one
// JSON document in a kv.Backend, keyed by its base name and the user id.
package storage

import (
	"encoding/json"
	"errors"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/logger"
	"github.com/julianstephens/smartgrow/internal/models"
	"github.com/julianstephens/smartgrow/internal/storage/kv"
)

// Store reads and writes the four collections of a single user namespace.
// Writes are full read-modify-write cycles of one collection and are not
// synchronised; callers own ordering.
// BackupSuffix is appended to a collection key to keep a malformed document
// that a write replaced.
const BackupSuffix = ".bak"

type Store struct {
	backend kv.Backend
	user    UserContext
}

func NewStore(backend kv.Backend, user UserContext) *Store {
	return &Store{backend: backend, user: user}
}

// WithUser returns a Store sharing the backend under another namespace.
// Switching to Anonymous is how logout is expressed; no data is removed.
func (s *Store) WithUser(user UserContext) *Store {
	return &Store{backend: s.backend, user: user}
}

func (s *Store) User() UserContext {
	return s.user
}

func (s *Store) Backend() kv.Backend {
	return s.backend
}

func (s *Store) key(base string) string {
	return s.user.namespacedKey(base)
}

// read returns nil when the key is absent or the backend fails. Read
// failures are logged and treated as missing data.
func (s *Store) read(key string) []byte {
	raw, err := s.backend.Get(key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		logger.Error("Failed to read collection", "key", key, "error", err)
		return nil
	}
	return raw
}

func (s *Store) write(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return storageErr("encode", key, err)
	}
	return storageErr("put", key, s.backend.Put(key, raw))
}

// readList loads one collection of the current user.
func readList[T any](s *Store, base string, check func(*T) error) (string, list[T]) {
	key := s.key(base)
	raw := s.read(key)
	if raw == nil {
		return key, list[T]{items: []T{}}
	}
	return key, decodeList(key, raw, check)
}

// writeList stores items followed by the hidden elements of the list they
// were read from. A malformed document is copied to key+BackupSuffix before
// it is replaced.
func writeList[T any](s *Store, key string, from list[T], items []T) error {
	if from.malformed != nil {
		if err := s.backend.Put(key+BackupSuffix, from.malformed); err != nil {
			return storageErr("backup", key, err)
		}
		logger.Warn("Backed up malformed collection", "key", key, "backup", key+BackupSuffix)
	}
	out := make([]json.RawMessage, 0, len(items)+len(from.hidden))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return storageErr("encode", key, err)
		}
		out = append(out, raw)
	}
	return s.write(key, append(out, from.hidden...))
}

// Scans

// GetScans returns scan history, newest first.
func (s *Store) GetScans() []models.DiagnosisRecord {
	_, scans := readList(s, constants.KeyScans, checkScan)
	return scans.items
}

func (s *Store) GetScan(id string) (models.DiagnosisRecord, bool) {
	for _, scan := range s.GetScans() {
		if scan.ID == id {
			return scan, true
		}
	}
	return models.DiagnosisRecord{}, false
}

// UpsertScan replaces a scan with the same id in place, otherwise inserts it
// at the front.
func (s *Store) UpsertScan(scan models.DiagnosisRecord) error {
	key, stored := readList(s, constants.KeyScans, checkScan)
	scans := stored.items
	replaced := false
	for i := range scans {
		if scans[i].ID == scan.ID {
			scans[i] = scan
			replaced = true
			break
		}
	}
	if !replaced {
		scans = append([]models.DiagnosisRecord{scan}, scans...)
	}
	return writeList(s, key, stored, scans)
}

// ToggleArchive flips the archived flag of a scan. It reports false without
// writing when the id is unknown.
func (s *Store) ToggleArchive(id string) (bool, error) {
	key, stored := readList(s, constants.KeyScans, checkScan)
	for i := range stored.items {
		if stored.items[i].ID == id {
			stored.items[i].Archived = !stored.items[i].Archived
			return true, writeList(s, key, stored, stored.items)
		}
	}
	return false, nil
}

func (s *Store) DeleteScan(id string) (bool, error) {
	key, stored := readList(s, constants.KeyScans, checkScan)
	kept, removed := removeByID(stored.items, id, func(d models.DiagnosisRecord) string { return d.ID })
	if !removed {
		return false, nil
	}
	return true, writeList(s, key, stored, kept)
}

// Monitoring sessions

// GetSessions returns sessions in creation order.
func (s *Store) GetSessions() []models.MonitoringSession {
	_, sessions := readList(s, constants.KeyMonitoring, checkSession)
	return sessions.items
}

func (s *Store) GetSession(id string) (models.MonitoringSession, bool) {
	for _, session := range s.GetSessions() {
		if session.ID == id {
			return session, true
		}
	}
	return models.MonitoringSession{}, false
}

// UpsertSession replaces a session with the same id in place, otherwise
// appends it.
func (s *Store) UpsertSession(session models.MonitoringSession) error {
	if session.DailyRecords == nil {
		session.DailyRecords = []models.DailyRecord{}
	}
	key, stored := readList(s, constants.KeyMonitoring, checkSession)
	sessions := stored.items
	replaced := false
	for i := range sessions {
		if sessions[i].ID == session.ID {
			sessions[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append(sessions, session)
	}
	return writeList(s, key, stored, sessions)
}

func (s *Store) DeleteSession(id string) (bool, error) {
	key, stored := readList(s, constants.KeyMonitoring, checkSession)
	kept, removed := removeByID(stored.items, id, func(m models.MonitoringSession) string { return m.ID })
	if !removed {
		return false, nil
	}
	return true, writeList(s, key, stored, kept)
}

// Alerts

// GetAlerts returns alerts newest first.
func (s *Store) GetAlerts() []models.AppAlert {
	_, alerts := readList(s, constants.KeyAlerts, checkAlert)
	return alerts.items
}

// SaveAlerts replaces the visible alerts. Stored alerts that failed read
// validation are kept.
func (s *Store) SaveAlerts(alerts []models.AppAlert) error {
	key, stored := readList(s, constants.KeyAlerts, checkAlert)
	return writeList(s, key, stored, alerts)
}

// AddAlert prepends without enforcing any cap.
func (s *Store) AddAlert(alert models.AppAlert) error {
	key, stored := readList(s, constants.KeyAlerts, checkAlert)
	return writeList(s, key, stored, append([]models.AppAlert{alert}, stored.items...))
}

// ClearAlerts empties the collection, hidden alerts included.
func (s *Store) ClearAlerts() error {
	return s.write(s.key(constants.KeyAlerts), []models.AppAlert{})
}

// User stats

// GetStats returns stored stats, or the defaults for a new user.
func (s *Store) GetStats() models.UserStats {
	key := s.key(constants.KeyUserStats)
	raw := s.read(key)
	if raw == nil {
		return models.DefaultUserStats()
	}
	return decodeStats(key, raw)
}

func (s *Store) SaveStats(stats models.UserStats) error {
	return s.write(s.key(constants.KeyUserStats), stats)
}

// Dropped reports, per collection base key, how many stored records are
// hidden by read validation. A collection that is not a JSON array counts
// as -1.
func (s *Store) Dropped() map[string]int {
	out := map[string]int{}
	count := func(base string, hidden int, malformed bool) {
		switch {
		case malformed:
			out[base] = -1
		case hidden > 0:
			out[base] = hidden
		}
	}
	_, scans := readList(s, constants.KeyScans, checkScan)
	count(constants.KeyScans, len(scans.hidden), scans.malformed != nil)
	_, sessions := readList(s, constants.KeyMonitoring, checkSession)
	count(constants.KeyMonitoring, len(sessions.hidden), sessions.malformed != nil)
	_, alerts := readList(s, constants.KeyAlerts, checkAlert)
	count(constants.KeyAlerts, len(alerts.hidden), alerts.malformed != nil)
	return out
}

func removeByID[T any](items []T, id string, idOf func(T) string) ([]T, bool) {
	out := make([]T, 0, len(items))
	removed := false
	for _, item := range items {
		if idOf(item) == id {
			removed = true
			continue
		}
		out = append(out, item)
	}
	return out, removed
}
