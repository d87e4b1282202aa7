package insights

import (
	"fmt"
	"strings"

	"github.com/julianstephens/smartgrow/internal/analytics"
	"github.com/julianstephens/smartgrow/internal/cli"
	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/guide"
)

const barWidth = 30

func bar(n, total int) string {
	if total <= 0 || n <= 0 {
		return ""
	}
	return strings.Repeat("█", max(1, n*barWidth/total))
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	stats := ctx.Store.GetStats()
	fmt.Printf("%s (%s)\n", stats.DisplayName(), stats.ProfileIcon.Label())
	fmt.Printf("  Level:        %d\n", stats.Level)
	fmt.Printf("  XP:           %d/%d (%.0f%%)\n", stats.XP, stats.XPTarget(), analytics.LevelProgress(stats))
	fmt.Printf("  Scans:        %d\n", stats.ScansCount)
	fmt.Printf("  Sessions:     %d\n", stats.SessionsCount)
	fmt.Printf("  Last action:  %s\n", stats.LastAction)
	return nil
}

type AnalyticsCmd struct{}

func (c *AnalyticsCmd) Run(ctx *cli.Context) error {
	scans := ctx.Store.GetScans()
	summary := analytics.Summarize(scans, ctx.Store.GetSessions(), ctx.Store.GetStats(), ctx.Clock(), ctx.Location())

	fmt.Printf("Health score:    %d%%\n", summary.HealthScore)
	fmt.Printf("Total scans:     %d\n", summary.TotalScans)
	fmt.Printf("Active sessions: %d\n", summary.ActiveSessions)
	fmt.Printf("Level progress:  %.0f%%\n", summary.LevelProgress)

	if len(summary.Distribution) > 0 {
		fmt.Println()
		fmt.Println("Severity")
		for _, d := range summary.Distribution {
			fmt.Printf("  %-9s %3d %s\n", d.Severity, d.Count, bar(d.Count, summary.TotalScans))
		}
	}

	peak := 0
	for _, d := range summary.Trend {
		peak = max(peak, d.Scans)
	}
	fmt.Println()
	fmt.Printf("Scans, last %d days\n", constants.TrendDays)
	for _, d := range summary.Trend {
		fmt.Printf("  %-3s %3d %s\n", d.Label, d.Scans, bar(d.Scans, peak))
	}
	return nil
}

type ArchiveCmd struct{}

func (c *ArchiveCmd) Run(ctx *cli.Context) error {
	scans, sessions := analytics.Archived(ctx.Store.GetScans(), ctx.Store.GetSessions())
	if len(scans) == 0 && len(sessions) == 0 {
		fmt.Println("The archive is empty.")
		return nil
	}

	if len(scans) > 0 {
		fmt.Printf("Archived scans (%d)\n", len(scans))
		fmt.Printf("%-36s %-16s %-20s %-9s\n", "ID", "Scanned", "Plant", "Severity")
		cli.Rule(84)
		for _, s := range scans {
			fmt.Printf("%-36s %-16s %-20s %-9s\n", s.ID, ctx.FormatTime(s.Timestamp), cli.Truncate(s.PlantName, 20), s.Severity)
		}
	}
	if len(sessions) > 0 {
		if len(scans) > 0 {
			fmt.Println()
		}
		fmt.Printf("Archived sessions (%d)\n", len(sessions))
		fmt.Printf("%-36s %-16s %-20s %-8s\n", "ID", "Started", "Plant", "Day")
		cli.Rule(83)
		for _, s := range sessions {
			fmt.Printf("%-36s %-16s %-20s %-8s\n", s.ID, ctx.FormatTime(s.StartDate), cli.Truncate(s.PlantName, 20),
				fmt.Sprintf("%d/%d", s.CurrentDay, constants.MonitoringDays))
		}
	}
	return nil
}

type GuideCmd struct {
	Query string `arg:"" optional:"" help:"Plant name or category to look up."`
}

func (c *GuideCmd) Run(ctx *cli.Context) error {
	plants := guide.Search(c.Query)
	if p, ok := guide.Lookup(c.Query); ok {
		plants = []guide.Plant{p}
	}
	if len(plants) == 0 {
		fmt.Printf("No plants match %q.\n", c.Query)
		return nil
	}

	for i, p := range plants {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s (%s)\n", p.Name, p.Category)
		fmt.Printf("  Companions: %s\n", strings.Join(p.Companions, ", "))
		fmt.Printf("  Avoid:      %s\n", strings.Join(p.Avoid, ", "))
		fmt.Printf("  Tip:        %s\n", p.Tips)
		if p.HybridInfo != "" {
			fmt.Printf("  Hybrids:    %s\n", p.HybridInfo)
		}
	}
	return nil
}
