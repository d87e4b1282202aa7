package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/models"
	"github.com/julianstephens/smartgrow/internal/tracker"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	healthyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	mildStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308"))
	moderateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f97316"))
	severeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
)

// SeverityLabel colours a severity for terminal output.
func SeverityLabel(s models.Severity) string {
	switch s {
	case models.SeverityHealthy:
		return healthyStyle.Render(string(s))
	case models.SeverityMild:
		return mildStyle.Render(string(s))
	case models.SeverityModerate:
		return moderateStyle.Render(string(s))
	case models.SeveritySevere:
		return severeStyle.Render(string(s))
	}
	return string(s)
}

// AlertIcon is the line prefix for an alert severity.
func AlertIcon(s models.AlertSeverity) string {
	switch s {
	case models.AlertWarning:
		return "⚠"
	case models.AlertError:
		return "❌"
	}
	return "ℹ"
}

// PrintDiagnosis prints the full record of one scan.
func (c *Context) PrintDiagnosis(d models.DiagnosisRecord) {
	fmt.Println(titleStyle.Render(d.PlantName))
	fmt.Printf("  ID:         %s\n", d.ID)
	fmt.Printf("  Scanned:    %s\n", c.FormatTime(d.Timestamp))
	fmt.Printf("  Diagnosis:  %s\n", d.Diagnosis)
	fmt.Printf("  Severity:   %s\n", SeverityLabel(d.Severity))
	fmt.Printf("  Confidence: %.0f%%\n", d.Confidence*100)
	if d.Archived {
		fmt.Println("  Archived:   yes")
	}
	if d.StressFactor != "" {
		fmt.Printf("  Stress:     %s\n", d.StressFactor)
	}
	if env := d.Environment; env != nil {
		fmt.Printf("  Conditions: %.1f°C, %.0f%% humidity, %.0f%% soil, %.0f lux\n",
			env.Temperature, env.Humidity, env.SoilMoisture, env.Light)
	}

	printSection("Organic treatment", d.OrganicTreatment)
	printSection("Chemical treatment", d.ChemicalTreatment)
	printSection("Prevention", d.Prevention)
	if len(d.PowerTips) > 0 {
		fmt.Println()
		fmt.Println(titleStyle.Render("Power tips"))
		for _, tip := range d.PowerTips {
			fmt.Printf("  • %s\n", tip)
		}
	}
}

func printSection(title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	fmt.Println()
	fmt.Println(titleStyle.Render(title))
	fmt.Printf("  %s\n", body)
}

// PrintSaveResult summarises what a saved diagnosis changed.
func (c *Context) PrintSaveResult(res tracker.SaveResult) {
	if res.Scan != nil {
		fmt.Printf("✓ %s: %s (%s, %.0f%% confidence)\n",
			res.Scan.PlantName, res.Scan.Diagnosis, SeverityLabel(res.Scan.Severity), res.Scan.Confidence*100)
		fmt.Println(mutedStyle.Render("  scan " + res.Scan.ID))
	}
	if res.XPAwarded > 0 {
		fmt.Printf("  +%d XP (level %d, %d/%d)\n", res.XPAwarded, res.Stats.Level, res.Stats.XP, res.Stats.XPTarget())
	}
	if res.LeveledUp {
		fmt.Printf("★ Level up! You reached level %d\n", res.NewLevel)
	}
	if s := res.Session; s != nil {
		switch s.Status {
		case models.SessionRecovered:
			fmt.Printf("✓ %s has recovered. Monitoring complete.\n", s.PlantName)
		case models.SessionActive:
			fmt.Printf("  Monitoring %s: day %d of %d (session %s)\n", s.PlantName, s.CurrentDay, constants.MonitoringDays, s.ID)
		}
	}
	for _, a := range res.Alerts {
		fmt.Printf("%s %s: %s\n", AlertIcon(a.Severity), a.Title, a.Message)
	}
}
