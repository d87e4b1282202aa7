package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/models"
	"github.com/julianstephens/smartgrow/internal/storage"
)

// IssueType represents the kind of integrity problem found
type IssueType string

const (
	IssueDuplicateScanID    IssueType = "duplicate_scan_id"
	IssueDuplicateSessionID IssueType = "duplicate_session_id"
	IssueCurrentDayRange    IssueType = "current_day_out_of_range"
	IssueRecordDayRange     IssueType = "record_day_out_of_range"
	IssueRecordDaysDecrease IssueType = "record_days_decrease"
	IssueCurrentDayBehind   IssueType = "current_day_behind_records"
	IssueRecoveredNoHealthy IssueType = "recovered_without_healthy_record"
	IssueXPNotNormalized    IssueType = "xp_not_normalized"
	IssueCountBehindHistory IssueType = "scans_count_behind_history"
	IssueTooManyAlerts      IssueType = "too_many_alerts"
	IssueDroppedRecords     IssueType = "dropped_records"
	IssueInvalidSeverity    IssueType = "invalid_severity"
	IssueInvalidStatus      IssueType = "invalid_status"
)

// Issue represents a detected problem in stored data
type Issue struct {
	Type        IssueType
	Description string
	IDs         []string
}

// ValidationResult contains all detected issues
type ValidationResult struct {
	Issues []Issue
}

// HasIssues returns true if there are any issues
func (vr *ValidationResult) HasIssues() bool {
	return len(vr.Issues) > 0
}

// FormatReport returns a human-readable report of all issues
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasIssues() {
		return "No integrity issues detected."
	}

	var b strings.Builder
	b.WriteString("Integrity issues detected:\n")
	for _, issue := range vr.Issues {
		fmt.Fprintf(&b, "- %s\n", issue.Description)
	}
	return b.String()
}

func (vr *ValidationResult) add(t IssueType, desc string, ids ...string) {
	vr.Issues = append(vr.Issues, Issue{Type: t, Description: desc, IDs: ids})
}

// Snapshot is everything stored for one user namespace
type Snapshot struct {
	Scans    []models.DiagnosisRecord
	Sessions []models.MonitoringSession
	Alerts   []models.AppAlert
	Stats    models.UserStats
	// Dropped counts records per collection that failed read validation
	Dropped map[string]int
}

// Collect reads a snapshot of the store's current user namespace
func Collect(store *storage.Store) Snapshot {
	return Snapshot{
		Scans:    store.GetScans(),
		Sessions: store.GetSessions(),
		Alerts:   store.GetAlerts(),
		Stats:    store.GetStats(),
		Dropped:  store.Dropped(),
	}
}

// Validator checks stored collections against the tracker's invariants
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// Validate runs every check over a snapshot
func (v *Validator) Validate(s Snapshot) ValidationResult {
	result := ValidationResult{Issues: []Issue{}}
	v.checkScans(&result, s.Scans)
	v.checkSessions(&result, s.Sessions)
	v.checkStats(&result, s.Stats, s.Scans)

	if len(s.Alerts) > constants.MaxRetainedAlerts {
		result.add(IssueTooManyAlerts,
			fmt.Sprintf("Alert list holds %d alerts, more than the %d retained", len(s.Alerts), constants.MaxRetainedAlerts))
	}

	collections := make([]string, 0, len(s.Dropped))
	for name := range s.Dropped {
		collections = append(collections, name)
	}
	sort.Strings(collections)
	for _, name := range collections {
		switch n := s.Dropped[name]; {
		case n < 0:
			result.add(IssueDroppedRecords, fmt.Sprintf("Collection %s is malformed and reads as empty", name))
		case n > 0:
			result.add(IssueDroppedRecords, fmt.Sprintf("%d stored record(s) in %s failed validation and are hidden", n, name))
		}
	}
	return result
}

func (v *Validator) checkScans(result *ValidationResult, scans []models.DiagnosisRecord) {
	for _, id := range duplicates(scans, func(d models.DiagnosisRecord) string { return d.ID }) {
		result.add(IssueDuplicateScanID, fmt.Sprintf("Duplicate scan id: %s", id), id)
	}
	for _, scan := range scans {
		if !scan.Severity.Valid() {
			result.add(IssueInvalidSeverity,
				fmt.Sprintf("Scan %s has invalid severity %q", scan.ID, scan.Severity), scan.ID)
		}
	}
}

func (v *Validator) checkSessions(result *ValidationResult, sessions []models.MonitoringSession) {
	for _, id := range duplicates(sessions, func(m models.MonitoringSession) string { return m.ID }) {
		result.add(IssueDuplicateSessionID, fmt.Sprintf("Duplicate session id: %s", id), id)
	}

	for _, s := range sessions {
		if !s.Status.Valid() {
			result.add(IssueInvalidStatus, fmt.Sprintf("Session %s has invalid status %q", s.ID, s.Status), s.ID)
		}
		if s.CurrentDay < 1 || s.CurrentDay > constants.MonitoringDays {
			result.add(IssueCurrentDayRange,
				fmt.Sprintf("Session %s (%s) is on day %d, outside 1-%d", s.ID, s.PlantName, s.CurrentDay, constants.MonitoringDays), s.ID)
		}

		prev := 0
		healthy := false
		for _, r := range s.DailyRecords {
			if r.Day < 1 || r.Day > constants.MonitoringDays {
				result.add(IssueRecordDayRange,
					fmt.Sprintf("Session %s has a record for day %d", s.ID, r.Day), s.ID)
			}
			if r.Day < prev {
				result.add(IssueRecordDaysDecrease,
					fmt.Sprintf("Session %s logs day %d after day %d", s.ID, r.Day, prev), s.ID)
			}
			prev = r.Day
			if r.Status == models.DailyRecovered {
				healthy = true
			}
		}

		// A session still collecting records should be one day ahead of its
		// last record, except on the final day
		if s.Status == models.SessionActive && prev > 0 && s.CurrentDay <= prev && prev < constants.MonitoringDays {
			result.add(IssueCurrentDayBehind,
				fmt.Sprintf("Session %s is on day %d but already logged day %d", s.ID, s.CurrentDay, prev), s.ID)
		}
		if s.Status == models.SessionRecovered && !healthy {
			result.add(IssueRecoveredNoHealthy,
				fmt.Sprintf("Session %s is Recovered without a healthy check-in", s.ID), s.ID)
		}
	}
}

func (v *Validator) checkStats(result *ValidationResult, stats models.UserStats, scans []models.DiagnosisRecord) {
	if stats.XP >= stats.XPTarget() {
		result.add(IssueXPNotNormalized,
			fmt.Sprintf("XP %d has reached the level %d target of %d", stats.XP, stats.Level, stats.XPTarget()))
	}
	if stats.ScansCount < len(scans) {
		result.add(IssueCountBehindHistory,
			fmt.Sprintf("scansCount %d is lower than the %d scans in history", stats.ScansCount, len(scans)))
	}
}

func duplicates[T any](items []T, idOf func(T) string) []string {
	seen := make(map[string]int)
	var dups []string
	for _, item := range items {
		id := idOf(item)
		seen[id]++
		if seen[id] == 2 {
			dups = append(dups, id)
		}
	}
	return dups
}
