package models

import "strings"

type Severity string

const (
	SeverityHealthy  Severity = "Healthy"
	SeverityMild     Severity = "Mild"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
)

// Severities lists every severity from least to most serious.
var Severities = []Severity{SeverityHealthy, SeverityMild, SeverityModerate, SeveritySevere}

func (s Severity) Valid() bool {
	switch s {
	case SeverityHealthy, SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// NormalizeSeverity returns raw when it is a known severity. Otherwise it
// falls back to Healthy when the diagnosis text mentions health and Mild in
// every other case.
func NormalizeSeverity(raw Severity, diagnosis string) Severity {
	if raw.Valid() {
		return raw
	}
	if strings.Contains(strings.ToLower(diagnosis), "healthy") {
		return SeverityHealthy
	}
	return SeverityMild
}
