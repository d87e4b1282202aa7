package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/smartgrow/internal/cli"
	"github.com/julianstephens/smartgrow/internal/tui"
)

// WatchCmd opens the live greenhouse dashboard.
type WatchCmd struct {
	Static bool `help:"Do not start the environment sampler."`
}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	opts := tui.Options{
		Tracker:  ctx.Tracker(),
		Location: ctx.Location(),
	}

	samples := tui.NewSamples()
	sampler := ctx.Sampler(samples.Hook)
	opts.Reading = sampler.Current()
	if !c.Static {
		opts.Samples = samples
		sampler.Start(context.Background())
	}
	defer func() {
		samples.Close()
		sampler.Stop()
	}()

	p := tea.NewProgram(tui.NewModel(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard exited with error: %w", err)
	}
	return nil
}
