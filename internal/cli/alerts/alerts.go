package alerts

import (
	"fmt"
	"strings"

	"github.com/julianstephens/smartgrow/internal/cli"
	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/logger"
	"github.com/julianstephens/smartgrow/internal/models"
	"github.com/julianstephens/smartgrow/internal/notifier"
)

// notify is swapped in tests.
var notify = func(payload notifier.AlertPayload) error {
	return notifier.New().Notify(payload)
}

type AlertsCmd struct {
	List  AlertListCmd  `cmd:"" default:"1" help:"Show recent alerts."`
	Clear AlertClearCmd `cmd:"" help:"Dismiss all alerts."`
	Raise AlertRaiseCmd `cmd:"" help:"Raise an alert, through the running server when there is one."`
}

type AlertListCmd struct {
	All bool `help:"Show every retained alert instead of the latest few."`
}

func (c *AlertListCmd) Run(ctx *cli.Context) error {
	alerts := ctx.Store.GetAlerts()
	if len(alerts) == 0 {
		fmt.Println("No alerts.")
		return nil
	}

	shown := alerts
	if !c.All {
		shown = alerts[:min(len(alerts), constants.VisibleAlerts)]
	}
	for _, a := range shown {
		fmt.Printf("%s %-16s %s\n", cli.AlertIcon(a.Severity), ctx.FormatTime(a.Timestamp), a.Title)
		if a.Message != "" {
			fmt.Printf("  %s\n", a.Message)
		}
	}
	if hidden := len(alerts) - len(shown); hidden > 0 {
		fmt.Printf("\n%d older alert(s) hidden. Use --all to see them.\n", hidden)
	}
	return nil
}

type AlertClearCmd struct{}

func (c *AlertClearCmd) Run(ctx *cli.Context) error {
	if err := ctx.Tracker().ClearAlerts(); err != nil {
		return fmt.Errorf("failed to clear alerts: %w", err)
	}
	fmt.Println("✓ Alerts cleared")
	return nil
}

type AlertRaiseCmd struct {
	Title    string `help:"Alert title." required:""`
	Message  string `help:"Alert message."`
	Severity string `help:"Alert severity (info|warning|error)." default:"info"`
}

func (c *AlertRaiseCmd) Run(ctx *cli.Context) error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	severity, err := models.ParseAlertSeverity(c.Severity)
	if err != nil {
		return err
	}

	payload := notifier.AlertPayload{
		UserID:   ctx.Store.User().UserID,
		Title:    c.Title,
		Message:  c.Message,
		Severity: severity,
	}
	err = notify(payload)
	if err == nil {
		fmt.Printf("✓ Alert sent to running server: %s\n", c.Title)
		return nil
	}
	logger.Debug("Notify failed, writing alert directly", "error", err)

	if _, err := ctx.Tracker().RaiseAlert(c.Title, c.Message, severity); err != nil {
		return fmt.Errorf("failed to raise alert: %w", err)
	}
	fmt.Printf("✓ Alert raised: %s\n", c.Title)
	return nil
}
