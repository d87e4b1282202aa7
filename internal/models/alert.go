package models

import "fmt"

type AlertSeverity string

const (
	AlertInfo    AlertSeverity = "info"
	AlertWarning AlertSeverity = "warning"
	AlertError   AlertSeverity = "error"
)

func ParseAlertSeverity(s string) (AlertSeverity, error) {
	switch AlertSeverity(s) {
	case AlertInfo, AlertWarning, AlertError:
		return AlertSeverity(s), nil
	}
	return "", fmt.Errorf("unknown alert severity %q", s)
}

type AppAlert struct {
	ID        string        `json:"id" validate:"required"`
	Title     string        `json:"title" validate:"required"`
	Message   string        `json:"message"`
	Severity  AlertSeverity `json:"severity" validate:"oneof=info warning error"`
	Timestamp int64         `json:"timestamp" validate:"gte=0"`
}

func (a *AppAlert) Validate() error {
	return validate.Struct(a)
}

// AlertDraft is an alert that has not been assigned an id or timestamp yet.
type AlertDraft struct {
	Title    string
	Message  string
	Severity AlertSeverity
}
