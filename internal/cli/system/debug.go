package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/smartgrow/internal/cli"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show storage location."`
	DumpScans    *DebugDumpScansCmd    `cmd:"" help:"Dump scan data as JSON."`
	DumpSessions *DebugDumpSessionsCmd `cmd:"" help:"Dump monitoring session data as JSON."`
	DumpAlerts   *DebugDumpAlertsCmd   `cmd:"" help:"Dump alert data as JSON."`
	DumpStats    *DebugDumpStatsCmd    `cmd:"" help:"Dump user stats as JSON."`
	Keys         *DebugKeysCmd         `cmd:"" help:"List every stored key across users."`
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{
		"path": ctx.Backend.GetConfigPath(),
		"user": ctx.Store.User().String(),
	})
}

type DebugDumpScansCmd struct{}

func (cmd *DebugDumpScansCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx.Store.GetScans())
}

type DebugDumpSessionsCmd struct {
	ID string `arg:"" optional:"" help:"Only dump this session."`
}

func (cmd *DebugDumpSessionsCmd) Run(ctx *cli.Context) error {
	if cmd.ID == "" {
		return printJSON(ctx.Store.GetSessions())
	}
	session, ok := ctx.Store.GetSession(cmd.ID)
	if !ok {
		return fmt.Errorf("no session found with ID: %s", cmd.ID)
	}
	return printJSON(session)
}

type DebugDumpAlertsCmd struct{}

func (cmd *DebugDumpAlertsCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx.Store.GetAlerts())
}

type DebugDumpStatsCmd struct{}

func (cmd *DebugDumpStatsCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx.Store.GetStats())
}

type DebugKeysCmd struct{}

func (cmd *DebugKeysCmd) Run(ctx *cli.Context) error {
	keys, err := ctx.Backend.Keys(keyPrefix)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	return printJSON(keys)
}
