// Package tracker owns the monitoring session lifecycle and the XP, level
// and alert side effects of every user action.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/environment"
	"github.com/julianstephens/smartgrow/internal/logger"
	"github.com/julianstephens/smartgrow/internal/metrics"
	"github.com/julianstephens/smartgrow/internal/models"
	"github.com/julianstephens/smartgrow/internal/provider"
	"github.com/julianstephens/smartgrow/internal/storage"
)

// FollowUp points a scan at an active session and the day it is logged for.
type FollowUp struct {
	SessionID string
	Day       int
}

// SaveResult describes everything SaveDiagnosis changed.
type SaveResult struct {
	Scan      *models.DiagnosisRecord   `json:"scan,omitempty"`
	Session   *models.MonitoringSession `json:"session,omitempty"`
	Stats     models.UserStats          `json:"stats"`
	XPAwarded int                       `json:"xpAwarded"`
	LeveledUp bool                      `json:"leveledUp"`
	NewLevel  int                       `json:"newLevel,omitempty"`
	Alerts    []models.AppAlert         `json:"alerts,omitempty"`
	// Skipped is set when a follow-up targeted a session that is missing or
	// no longer active, or a day that is already logged. Nothing was written.
	Skipped bool `json:"skipped,omitempty"`
}

type Option func(*Tracker)

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func WithIDFunc(fn func() string) Option {
	return func(t *Tracker) { t.newID = fn }
}

func WithProvider(p provider.Provider) Option {
	return func(t *Tracker) { t.provider = p }
}

type Tracker struct {
	store    *storage.Store
	provider provider.Provider
	now      func() time.Time
	newID    func() string

	mu      sync.Mutex
	pending *FollowUp
}

func New(store *storage.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Store() *storage.Store {
	return t.store
}

func (t *Tracker) Now() time.Time {
	return t.now()
}

// Finalize stamps a raw provider result with a fresh id and the current time.
func (t *Tracker) Finalize(raw models.DiagnosisRecord) (models.DiagnosisRecord, error) {
	return provider.Finalize(raw, t.now(), t.newID())
}

// BeginFollowUp remembers which session the next saved diagnosis belongs to.
func (t *Tracker) BeginFollowUp(sessionID string, day int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = &FollowUp{SessionID: sessionID, Day: day}
}

func (t *Tracker) PendingFollowUp() (FollowUp, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending == nil {
		return FollowUp{}, false
	}
	return *t.pending, true
}

func (t *Tracker) clearPending() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = nil
}

// Analyze sends the photo to the provider and saves the result. A provider
// failure changes nothing, so a pending follow-up stays in place for a retry.
func (t *Tracker) Analyze(ctx context.Context, img provider.Image, lang models.Language, startMonitoring bool) (SaveResult, error) {
	if t.provider == nil {
		return SaveResult{}, provider.Failure("analyze", provider.ErrNoProviders)
	}

	raw, err := t.provider.Diagnose(ctx, img, lang)
	if err != nil {
		return SaveResult{}, err
	}
	diag, err := t.Finalize(raw)
	if err != nil {
		return SaveResult{}, err
	}

	var followUp *FollowUp
	if f, ok := t.PendingFollowUp(); ok {
		followUp = &f
	}
	return t.SaveDiagnosis(diag, startMonitoring, followUp)
}

// SaveDiagnosis persists a finished diagnosis. With a follow-up it logs the
// next day of that session; otherwise it records a new scan and, when asked,
// opens a monitoring session for it. Any pending follow-up is consumed.
func (t *Tracker) SaveDiagnosis(diag models.DiagnosisRecord, startMonitoring bool, followUp *FollowUp) (SaveResult, error) {
	defer t.clearPending()

	diag.Sanitize()
	if diag.ID == "" {
		diag.ID = t.newID()
	}
	if diag.Timestamp == 0 {
		diag.Timestamp = t.now().UnixMilli()
	}

	if followUp != nil {
		return t.logFollowUp(diag, *followUp)
	}
	return t.saveScan(diag, startMonitoring)
}

func (t *Tracker) saveScan(diag models.DiagnosisRecord, startMonitoring bool) (SaveResult, error) {
	now := t.now()
	if err := t.store.UpsertScan(diag); err != nil {
		return SaveResult{}, err
	}
	metrics.ScansSaved.Inc()
	result := SaveResult{Scan: &diag, XPAwarded: constants.XPPerScan}

	stats := t.store.GetStats()
	stats.ScansCount++
	stats.LastAction = fmt.Sprintf("Just scanned %s", diag.PlantName)

	if startMonitoring {
		session := models.MonitoringSession{
			ID:         t.newID(),
			PlantName:  diag.PlantName,
			StartDate:  now.UnixMilli(),
			CurrentDay: constants.FirstFollowUpDay,
			Status:     models.SessionActive,
			DailyRecords: []models.DailyRecord{{
				Day:       1,
				Timestamp: now.UnixMilli(),
				Status:    models.DailyStatusFor(diag.Severity),
				Notes:     constants.InitialScanNote,
				Result:    &diag,
			}},
		}
		if err := t.store.UpsertSession(session); err != nil {
			return SaveResult{}, err
		}
		metrics.SessionsStarted.Inc()
		stats.SessionsCount++
		result.Session = &session
	}

	result.LeveledUp = awardXP(&stats, constants.XPPerScan)
	if err := t.store.SaveStats(stats); err != nil {
		return SaveResult{}, err
	}
	t.finishStats(&result, stats)

	logger.Info("Saved scan", "id", diag.ID, "plant", diag.PlantName, "severity", diag.Severity, "monitoring", startMonitoring)
	return result, nil
}

func (t *Tracker) logFollowUp(diag models.DiagnosisRecord, followUp FollowUp) (SaveResult, error) {
	session, ok := t.store.GetSession(followUp.SessionID)
	if !ok {
		logger.Warn("Follow-up session not found", "session", followUp.SessionID)
		return SaveResult{Skipped: true, Stats: t.store.GetStats()}, nil
	}
	if session.Status.Terminal() {
		logger.Warn("Follow-up on closed session ignored", "session", session.ID, "status", session.Status)
		return SaveResult{Skipped: true, Stats: t.store.GetStats()}, nil
	}

	day, ok := followUpDay(session, followUp.Day)
	if !ok {
		logger.Warn("Stale follow-up ignored", "session", session.ID, "day", followUp.Day, "currentDay", session.CurrentDay)
		return SaveResult{Skipped: true, Stats: t.store.GetStats()}, nil
	}

	now := t.now()
	session.DailyRecords = append(session.DailyRecords, models.DailyRecord{
		Day:       day,
		Timestamp: now.UnixMilli(),
		Status:    models.DailyStatusFor(diag.Severity),
		Notes:     fmt.Sprintf(constants.FollowUpNoteTemplate, day),
		Result:    &diag,
	})
	if next := min(constants.MonitoringDays, day+1); next > session.CurrentDay {
		session.CurrentDay = next
	}
	if diag.Severity == models.SeverityHealthy {
		session.Status = models.SessionRecovered
		metrics.SessionTransitions.WithLabelValues(string(models.SessionRecovered)).Inc()
	}

	if err := t.store.UpsertSession(session); err != nil {
		return SaveResult{}, err
	}
	metrics.FollowUpsLogged.Inc()
	result := SaveResult{Session: &session, XPAwarded: constants.XPPerFollowUp}

	switch diag.Severity {
	case models.SeverityHealthy:
		alert, err := t.RaiseAlert("Recovery Success!", fmt.Sprintf("Great news! %s has fully recovered.", diag.PlantName), models.AlertInfo)
		if err != nil {
			return SaveResult{}, err
		}
		result.Alerts = append(result.Alerts, alert)
	case models.SeverityMild:
		alert, err := t.RaiseAlert("Getting Better", fmt.Sprintf("Keep it up! %s is showing signs of recovery.", diag.PlantName), models.AlertInfo)
		if err != nil {
			return SaveResult{}, err
		}
		result.Alerts = append(result.Alerts, alert)
	}

	stats := t.store.GetStats()
	stats.LastAction = fmt.Sprintf("Logged recovery for %s", diag.PlantName)
	result.LeveledUp = awardXP(&stats, constants.XPPerFollowUp)
	if err := t.store.SaveStats(stats); err != nil {
		return SaveResult{}, err
	}
	t.finishStats(&result, stats)

	logger.Info("Logged follow-up", "session", session.ID, "day", day, "severity", diag.Severity, "status", session.Status)
	return result, nil
}

// followUpDay resolves the day a follow-up is logged for, capped at 7. A
// context behind the session's current day, or for a day that already has a
// record, is stale and reported as false so each day is logged once.
func followUpDay(session models.MonitoringSession, requested int) (int, bool) {
	day := requested
	if day < 1 {
		day = session.CurrentDay
	}
	day = min(constants.MonitoringDays, day)
	if day < session.CurrentDay {
		return 0, false
	}
	if last, ok := session.LastRecord(); ok && day <= last.Day {
		return 0, false
	}
	return day, true
}

func (t *Tracker) finishStats(result *SaveResult, stats models.UserStats) {
	result.Stats = stats
	result.NewLevel = stats.Level
	if result.LeveledUp {
		metrics.LevelUps.Inc()
		logger.Info("Level up", "level", stats.Level)
	}
}

// awardXP adds xp and applies a single level-up when the target for the
// level held before the award is reached. Awards larger than one level's
// worth are not carried into a second level-up.
func awardXP(stats *models.UserStats, xp int) bool {
	target := stats.XPTarget()
	stats.XP += xp
	if stats.XP >= target {
		stats.Level++
		stats.XP -= target
		return true
	}
	return false
}

// ArchiveSession closes an active session. Closed or unknown sessions are
// left untouched and false is returned.
func (t *Tracker) ArchiveSession(id string) (bool, error) {
	session, ok := t.store.GetSession(id)
	if !ok || session.Status != models.SessionActive {
		return false, nil
	}

	session.Status = models.SessionArchived
	if err := t.store.UpsertSession(session); err != nil {
		return false, err
	}
	metrics.SessionTransitions.WithLabelValues(string(models.SessionArchived)).Inc()

	if err := t.touch(fmt.Sprintf("Archived session for %s", session.PlantName)); err != nil {
		return true, err
	}
	return true, nil
}

// ArchiveScan and RestoreScan both toggle the archived flag; they only
// differ in which state they expect to find.
func (t *Tracker) ArchiveScan(id string) (bool, error) {
	return t.setScanArchived(id, true)
}

func (t *Tracker) RestoreScan(id string) (bool, error) {
	return t.setScanArchived(id, false)
}

func (t *Tracker) setScanArchived(id string, archived bool) (bool, error) {
	scan, ok := t.store.GetScan(id)
	if !ok || scan.Archived == archived {
		return false, nil
	}
	return t.store.ToggleArchive(id)
}

// DeleteScan and DeleteSession remove records permanently. Callers confirm
// with the user first.
func (t *Tracker) DeleteScan(id string) (bool, error) {
	return t.store.DeleteScan(id)
}

func (t *Tracker) DeleteSession(id string) (bool, error) {
	return t.store.DeleteSession(id)
}

// RaiseAlert prepends a new alert and keeps only the most recent ones.
func (t *Tracker) RaiseAlert(title, message string, severity models.AlertSeverity) (models.AppAlert, error) {
	alert := models.AppAlert{
		ID:        t.newID(),
		Title:     title,
		Message:   message,
		Severity:  severity,
		Timestamp: t.now().UnixMilli(),
	}

	alerts := append([]models.AppAlert{alert}, t.store.GetAlerts()...)
	if len(alerts) > constants.MaxRetainedAlerts {
		alerts = alerts[:constants.MaxRetainedAlerts]
	}
	if err := t.store.SaveAlerts(alerts); err != nil {
		return models.AppAlert{}, err
	}
	metrics.AlertsRaised.WithLabelValues(string(severity)).Inc()
	return alert, nil
}

func (t *Tracker) raiseDraft(d models.AlertDraft) (models.AppAlert, error) {
	return t.RaiseAlert(d.Title, d.Message, d.Severity)
}

// EvaluateEnvironment raises the alerts for any threshold crossed between
// two consecutive readings.
func (t *Tracker) EvaluateEnvironment(prev, cur environment.Reading) ([]models.AppAlert, error) {
	var raised []models.AppAlert
	for _, draft := range environment.Crossings(prev, cur) {
		alert, err := t.raiseDraft(draft)
		if err != nil {
			return raised, err
		}
		raised = append(raised, alert)
	}
	return raised, nil
}

func (t *Tracker) ClearAlerts() error {
	return t.store.ClearAlerts()
}

// Welcome greets a user after login.
func (t *Tracker) Welcome(name string) (models.AppAlert, error) {
	if name == "" {
		name = t.store.GetStats().DisplayName()
	}
	return t.RaiseAlert("Welcome aboard!", fmt.Sprintf("Hey %s, we're ready to grow!", name), models.AlertInfo)
}

func (t *Tracker) SetLanguage(lang models.Language) (models.UserStats, error) {
	if !lang.Valid() {
		return models.UserStats{}, fmt.Errorf("unknown language %q", lang)
	}
	stats := t.store.GetStats()
	stats.Language = lang
	stats.LastAction = fmt.Sprintf("Changed language to %s", lang.Name())
	if err := t.store.SaveStats(stats); err != nil {
		return models.UserStats{}, err
	}
	return stats, nil
}

// ProfileUpdate carries the editable profile fields. Nil fields are kept.
type ProfileUpdate struct {
	Username *string
	FullName *string
	Persona  *string
	Theme    *string
}

// UpdateProfile validates persona and theme keys before anything is written.
func (t *Tracker) UpdateProfile(update ProfileUpdate) (models.UserStats, error) {
	stats := t.store.GetStats()

	if update.Persona != nil {
		p, err := models.ParsePersona(*update.Persona)
		if err != nil {
			return models.UserStats{}, err
		}
		stats.ProfileIcon = p
	}
	if update.Theme != nil {
		th, err := models.ParseTheme(*update.Theme)
		if err != nil {
			return models.UserStats{}, err
		}
		stats.ThemeColor = th
	}
	if update.Username != nil {
		if *update.Username == "" {
			return models.UserStats{}, fmt.Errorf("username cannot be empty")
		}
		stats.Username = *update.Username
	}
	if update.FullName != nil {
		stats.FullName = *update.FullName
	}

	stats.LastAction = "Updated profile"
	if err := t.store.SaveStats(stats); err != nil {
		return models.UserStats{}, err
	}
	return stats, nil
}

func (t *Tracker) touch(action string) error {
	stats := t.store.GetStats()
	stats.LastAction = action
	return t.store.SaveStats(stats)
}
