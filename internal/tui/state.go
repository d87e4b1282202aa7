package tui

type SessionState int

// The first five states are the tabs, in display order.
const (
	StateDashboard SessionState = iota
	StateHistory
	StateMonitoring
	StateAlerts
	StateProfile
	StateConfirmDelete
)

const tabCount = 5

var tabTitles = []string{"Dashboard", "History", "Monitoring", "Alerts", "Profile"}
