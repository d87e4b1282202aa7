package sessions

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/smartgrow/internal/cli"
	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/models"
	"github.com/julianstephens/smartgrow/internal/provider"
)

type SessionCmd struct {
	List    SessionListCmd    `cmd:"" default:"1" help:"List monitoring sessions."`
	Show    SessionShowCmd    `cmd:"" help:"Show a session and its daily records."`
	Checkin SessionCheckinCmd `cmd:"" help:"Log today's follow-up photo for a session."`
	Archive SessionArchiveCmd `cmd:"" help:"Stop monitoring a plant."`
	Delete  SessionDeleteCmd  `cmd:"" help:"Permanently delete a session."`
}

type SessionListCmd struct {
	Status string `help:"Only show sessions with this status (active|recovered|archived)."`
}

func (c *SessionListCmd) Run(ctx *cli.Context) error {
	var sessions []models.MonitoringSession
	for _, s := range ctx.Store.GetSessions() {
		if c.Status == "" || strings.EqualFold(string(s.Status), c.Status) {
			sessions = append(sessions, s)
		}
	}

	if len(sessions) == 0 {
		fmt.Println("No monitoring sessions.")
		return nil
	}

	fmt.Printf("%-36s %-20s %-10s %-8s %-16s\n", "ID", "Plant", "Status", "Day", "Started")
	cli.Rule(94)
	for _, s := range sessions {
		fmt.Printf("%-36s %-20s %-10s %-8s %-16s\n",
			s.ID, cli.Truncate(s.PlantName, 20), s.Status,
			fmt.Sprintf("%d/%d", s.CurrentDay, constants.MonitoringDays), ctx.FormatTime(s.StartDate))
	}
	return nil
}

type SessionShowCmd struct {
	ID string `arg:"" help:"Session ID."`
}

func (c *SessionShowCmd) Run(ctx *cli.Context) error {
	s, ok := ctx.Store.GetSession(c.ID)
	if !ok {
		return fmt.Errorf("session not found: %s", c.ID)
	}

	fmt.Printf("%s (%s)\n", s.PlantName, s.Status)
	fmt.Printf("  ID:      %s\n", s.ID)
	fmt.Printf("  Started: %s\n", ctx.FormatTime(s.StartDate))
	fmt.Printf("  Day:     %d of %d\n", s.CurrentDay, constants.MonitoringDays)
	fmt.Println()

	fmt.Printf("%-5s %-16s %-10s %-9s %s\n", "Day", "Logged", "Status", "Severity", "Notes")
	cli.Rule(70)
	for _, r := range s.DailyRecords {
		severity := ""
		if r.Result != nil {
			severity = string(r.Result.Severity)
		}
		fmt.Printf("%-5d %-16s %-10s %-9s %s\n", r.Day, ctx.FormatTime(r.Timestamp), r.Status, severity, r.Notes)
	}
	return nil
}

type SessionCheckinCmd struct {
	ID    string `arg:"" help:"Session ID."`
	Image string `arg:"" type:"existingfile" help:"Follow-up photo of the plant."`
	Lang  string `help:"Response language (en|tl). Defaults to the profile language."`
}

func (c *SessionCheckinCmd) Run(ctx *cli.Context) error {
	s, ok := ctx.Store.GetSession(c.ID)
	if !ok {
		return fmt.Errorf("session not found: %s", c.ID)
	}
	if s.Status.Terminal() {
		return fmt.Errorf("session for %s is %s", s.PlantName, strings.ToLower(string(s.Status)))
	}

	lang := ctx.Language()
	if c.Lang != "" {
		parsed, err := models.ParseLanguage(c.Lang)
		if err != nil {
			return err
		}
		lang = parsed
	}

	img, err := provider.LoadImage(c.Image)
	if err != nil {
		return err
	}

	t := ctx.Tracker()
	t.BeginFollowUp(s.ID, s.CurrentDay)
	fmt.Printf("Analyzing day %d for %s...\n", s.CurrentDay, s.PlantName)
	res, err := t.Analyze(context.Background(), img, lang, false)
	if err != nil {
		return cli.DiagnosisError(err)
	}
	if res.Skipped {
		return fmt.Errorf("day %d for %s is already logged or the session is closed", s.CurrentDay, s.PlantName)
	}
	ctx.PrintSaveResult(res)
	return nil
}

type SessionArchiveCmd struct {
	ID string `arg:"" help:"Session ID."`
}

func (c *SessionArchiveCmd) Run(ctx *cli.Context) error {
	s, ok := ctx.Store.GetSession(c.ID)
	if !ok {
		return fmt.Errorf("session not found: %s", c.ID)
	}
	archived, err := ctx.Tracker().ArchiveSession(c.ID)
	if err != nil {
		return fmt.Errorf("failed to archive session: %w", err)
	}
	if !archived {
		return fmt.Errorf("session for %s is already %s", s.PlantName, strings.ToLower(string(s.Status)))
	}
	fmt.Printf("✓ Stopped monitoring %s\n", s.PlantName)
	return nil
}

type SessionDeleteCmd struct {
	ID  string `arg:"" help:"Session ID."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *SessionDeleteCmd) Run(ctx *cli.Context) error {
	s, ok := ctx.Store.GetSession(c.ID)
	if !ok {
		return fmt.Errorf("session not found: %s", c.ID)
	}

	confirmed, err := ctx.ConfirmDelete(fmt.Sprintf("Delete %q monitoring session?", s.PlantName), c.Yes)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println("Cancelled.")
		return nil
	}

	if _, err := ctx.Tracker().DeleteSession(c.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	fmt.Printf("✓ Session deleted: %s\n", s.PlantName)
	return nil
}
