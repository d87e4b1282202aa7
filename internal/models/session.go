package models

import "time"

type SessionStatus string

const (
	SessionActive    SessionStatus = "Active"
	SessionRecovered SessionStatus = "Recovered"
	SessionArchived  SessionStatus = "Archived"
)

func (s SessionStatus) Valid() bool {
	return s == SessionActive || s == SessionRecovered || s == SessionArchived
}

// Terminal reports whether no further transition (other than deletion) is allowed.
func (s SessionStatus) Terminal() bool {
	return s == SessionRecovered || s == SessionArchived
}

type DailyStatus string

const (
	DailyImproving DailyStatus = "Improving"
	DailyStable    DailyStatus = "Stable"
	DailyWorsening DailyStatus = "Worsening"
	DailyRecovered DailyStatus = "Recovered"
)

// DailyStatusFor maps a diagnosis severity onto the status logged for that day.
func DailyStatusFor(severity Severity) DailyStatus {
	if severity == SeverityHealthy {
		return DailyRecovered
	}
	return DailyStable
}

type DailyRecord struct {
	Day       int              `json:"day" validate:"min=1,max=7"`
	Timestamp int64            `json:"timestamp" validate:"gte=0"`
	Status    DailyStatus      `json:"status" validate:"oneof=Improving Stable Worsening Recovered"`
	Notes     string           `json:"notes"`
	Result    *DiagnosisRecord `json:"result,omitempty"`
}

// MonitoringSession is a seven day recovery plan for one plant.
type MonitoringSession struct {
	ID           string        `json:"id" validate:"required"`
	PlantName    string        `json:"plantName"`
	StartDate    int64         `json:"startDate" validate:"gte=0"`
	CurrentDay   int           `json:"currentDay" validate:"min=1,max=7"`
	Status       SessionStatus `json:"status" validate:"oneof=Active Recovered Archived"`
	DailyRecords []DailyRecord `json:"dailyRecords" validate:"dive"`
}

func (s *MonitoringSession) Validate() error {
	return validate.Struct(s)
}

func (s MonitoringSession) Started() time.Time {
	return time.UnixMilli(s.StartDate)
}

// LastRecord returns the most recently appended daily record.
func (s MonitoringSession) LastRecord() (DailyRecord, bool) {
	if len(s.DailyRecords) == 0 {
		return DailyRecord{}, false
	}
	return s.DailyRecords[len(s.DailyRecords)-1], true
}
