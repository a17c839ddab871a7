package main

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/allisson/vaultops/cmd/app/commands"
	"github.com/allisson/vaultops/internal/app"
	"github.com/allisson/vaultops/internal/config"
)

func getCommands(version string) []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getSystemCommands(version)...)
	cmds = append(cmds, getTransitCommands())
	cmds = append(cmds, getKVCommands())
	return cmds
}

// newContainer loads and validates configuration and builds the DI container.
func newContainer() (*app.Container, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return app.NewContainer(cfg), nil
}

// formatFlag is shared by every command that prints a result.
func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

// contextFlag carries the base64 derivation context for derived keys.
func contextFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "context",
		Aliases: []string{"c"},
		Usage:   "Base64 derivation context (required for derived keys)",
	}
}

// invocation carries the per-invocation logger and IO into command actions.
type invocation struct {
	logger *slog.Logger
	io     commands.IOTuple
}
