// Package analytics derives dashboard figures from stored scans, sessions
// and stats. Every function is pure.
package analytics

import (
	"math"
	"time"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/models"
	"github.com/julianstephens/smartgrow/internal/utils"
)

// SeverityCount is one slice of the health distribution chart.
type SeverityCount struct {
	Severity models.Severity `json:"name"`
	Count    int             `json:"value"`
}

// DayCount is one bar of the scan trend chart.
type DayCount struct {
	Date  time.Time `json:"date"`
	Label string    `json:"name"`
	Scans int       `json:"scans"`
}

// Summary bundles the figures shown on the analytics screen.
type Summary struct {
	HealthScore    int             `json:"healthScore"`
	TotalScans     int             `json:"totalScans"`
	ActiveSessions int             `json:"activeSessions"`
	Distribution   []SeverityCount `json:"distribution"`
	Trend          []DayCount      `json:"trend"`
	LevelProgress  float64         `json:"levelProgress"`
}

// HealthScore is the rounded percentage of healthy scans, or 0 with no scans.
func HealthScore(scans []models.DiagnosisRecord) int {
	if len(scans) == 0 {
		return 0
	}
	healthy := 0
	for _, s := range scans {
		if s.Severity == models.SeverityHealthy {
			healthy++
		}
	}
	return int(math.Round(float64(healthy) / float64(len(scans)) * 100))
}

// SeverityDistribution counts scans per severity, omitting empty buckets.
func SeverityDistribution(scans []models.DiagnosisRecord) []SeverityCount {
	counts := make(map[models.Severity]int, len(models.Severities))
	for _, s := range scans {
		counts[s.Severity]++
	}
	var out []SeverityCount
	for _, sev := range models.Severities {
		if counts[sev] > 0 {
			out = append(out, SeverityCount{Severity: sev, Count: counts[sev]})
		}
	}
	return out
}

// ScanTrend buckets scans into the last seven calendar days in loc, oldest
// first and ending with the day containing now.
func ScanTrend(scans []models.DiagnosisRecord, now time.Time, loc *time.Location) []DayCount {
	if loc == nil {
		loc = time.Local
	}
	today := utils.StartOfDay(now, loc)
	days := make([]DayCount, constants.TrendDays)
	for i := range days {
		d := today.AddDate(0, 0, i-(constants.TrendDays-1))
		days[i] = DayCount{Date: d, Label: d.Format("Mon")}
	}

	first := days[0].Date
	for _, s := range scans {
		day := utils.StartOfDay(s.CreatedAt(), loc)
		if day.Before(first) || day.After(today) {
			continue
		}
		for i := range days {
			if days[i].Date.Equal(day) {
				days[i].Scans++
				break
			}
		}
	}
	return days
}

// VisibleScans drops archived scans.
func VisibleScans(scans []models.DiagnosisRecord) []models.DiagnosisRecord {
	out := []models.DiagnosisRecord{}
	for _, s := range scans {
		if !s.Archived {
			out = append(out, s)
		}
	}
	return out
}

func ActiveSessions(sessions []models.MonitoringSession) []models.MonitoringSession {
	return sessionsWithStatus(sessions, models.SessionActive)
}

// Archived returns archived scans and sessions.
func Archived(scans []models.DiagnosisRecord, sessions []models.MonitoringSession) ([]models.DiagnosisRecord, []models.MonitoringSession) {
	archivedScans := []models.DiagnosisRecord{}
	for _, s := range scans {
		if s.Archived {
			archivedScans = append(archivedScans, s)
		}
	}
	return archivedScans, sessionsWithStatus(sessions, models.SessionArchived)
}

func sessionsWithStatus(sessions []models.MonitoringSession, status models.SessionStatus) []models.MonitoringSession {
	out := []models.MonitoringSession{}
	for _, s := range sessions {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out
}

// LevelProgress is the percentage of the current level's target reached,
// capped at 100.
func LevelProgress(stats models.UserStats) float64 {
	target := stats.XPTarget()
	if target <= 0 {
		return 0
	}
	return math.Min(100, float64(stats.XP)/float64(target)*100)
}

func Summarize(scans []models.DiagnosisRecord, sessions []models.MonitoringSession, stats models.UserStats, now time.Time, loc *time.Location) Summary {
	return Summary{
		HealthScore:    HealthScore(scans),
		TotalScans:     len(scans),
		ActiveSessions: len(ActiveSessions(sessions)),
		Distribution:   SeverityDistribution(scans),
		Trend:          ScanTrend(scans, now, loc),
		LevelProgress:  LevelProgress(stats),
	}
}
