package constants

import "time"

const (
	// DateTimeFormat is used when printing record timestamps
	DateTimeFormat = "2006-01-02 15:04"

	// SampleInterval is the environmental sampler period
	SampleInterval = 5 * time.Second

	// TipInterval is how long the dashboard shows each grower tip
	TipInterval = 6 * time.Second

	// TrendDays is the window of the scan trend chart
	TrendDays = 7
)
