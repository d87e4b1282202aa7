package storage

import (
	"encoding/json"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/logger"
	"github.com/julianstephens/smartgrow/internal/models"
)

// list is a decoded collection. Hidden holds the stored elements that could
// not be decoded or repaired; they are written back untouched so a write to
// the collection never erases them. Malformed holds a document that was not a
// JSON array at all.
type list[T any] struct {
	items     []T
	hidden    []json.RawMessage
	malformed []byte
}

// decodeList decodes a stored collection one element at a time. Elements that
// fail to decode or fail check are kept aside as hidden.
func decodeList[T any](key string, raw []byte, check func(*T) error) list[T] {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		logger.Warn("Ignoring malformed collection", "key", key, "error", err)
		return list[T]{items: []T{}, malformed: raw}
	}

	out := list[T]{items: make([]T, 0, len(elems))}
	for i, elem := range elems {
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			logger.Warn("Hiding undecodable record", "key", key, "index", i, "error", err)
			out.hidden = append(out.hidden, elem)
			continue
		}
		if err := check(&v); err != nil {
			logger.Warn("Hiding invalid record", "key", key, "index", i, "error", err)
			out.hidden = append(out.hidden, elem)
			continue
		}
		out.items = append(out.items, v)
	}
	return out
}

func checkScan(d *models.DiagnosisRecord) error {
	d.Sanitize()
	return d.Validate()
}

// checkSession repairs what it can before validating: the day is clamped into
// the session length and an unknown status falls back to Active.
func checkSession(s *models.MonitoringSession) error {
	if s.DailyRecords == nil {
		s.DailyRecords = []models.DailyRecord{}
	}
	s.CurrentDay = clampDay(s.CurrentDay)
	if !s.Status.Valid() {
		s.Status = models.SessionActive
	}
	s.StartDate = max(0, s.StartDate)
	for i := range s.DailyRecords {
		rec := &s.DailyRecords[i]
		rec.Day = clampDay(rec.Day)
		rec.Timestamp = max(0, rec.Timestamp)
		switch rec.Status {
		case models.DailyImproving, models.DailyStable, models.DailyWorsening, models.DailyRecovered:
		default:
			rec.Status = models.DailyStable
		}
		if rec.Result != nil {
			rec.Result.Sanitize()
		}
	}
	return s.Validate()
}

func clampDay(day int) int {
	return min(constants.MonitoringDays, max(1, day))
}

func checkAlert(a *models.AppAlert) error {
	if _, err := models.ParseAlertSeverity(string(a.Severity)); err != nil {
		a.Severity = models.AlertInfo
	}
	a.Timestamp = max(0, a.Timestamp)
	return a.Validate()
}

// decodeStats starts from the defaults so missing fields keep their default
// values, then repairs out of range fields.
func decodeStats(key string, raw []byte) models.UserStats {
	stats := models.DefaultUserStats()
	if err := json.Unmarshal(raw, &stats); err != nil {
		logger.Warn("Discarding malformed user stats", "key", key, "error", err)
		return models.DefaultUserStats()
	}

	if stats.Level < 1 {
		stats.Level = 1
	}
	if stats.XP < 0 {
		stats.XP = 0
	}
	if stats.ScansCount < 0 {
		stats.ScansCount = 0
	}
	if stats.SessionsCount < 0 {
		stats.SessionsCount = 0
	}
	if stats.Username == "" {
		stats.Username = models.DefaultUserStats().Username
	}
	if !stats.ProfileIcon.Valid() {
		logger.Warn("Unknown persona in stored stats", "key", key, "persona", stats.ProfileIcon)
		stats.ProfileIcon = models.DefaultPersona()
	}
	if stats.ThemeColor != "" && !stats.ThemeColor.Valid() {
		logger.Warn("Unknown theme in stored stats", "key", key, "theme", stats.ThemeColor)
		stats.ThemeColor = ""
	}
	if stats.Language != "" && !stats.Language.Valid() {
		stats.Language = ""
	}
	return stats
}
