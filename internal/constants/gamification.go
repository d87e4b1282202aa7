package constants

const (
	// XP awards
	XPPerScan     = 80
	XPPerFollowUp = 150

	// XPPerLevel is multiplied by the current level to get the level-up target
	XPPerLevel = 1000

	// Monitoring
	MonitoringDays       = 7
	FirstFollowUpDay     = 2
	MaxRetainedAlerts    = 15
	VisibleAlerts        = 8
	InitialScanNote      = "Initial scan"
	FollowUpNoteTemplate = "Check day %d"
)
