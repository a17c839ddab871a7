package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/vaultops/cmd/app/commands"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "dev-server",
			Usage: "Start an in-memory development server (state is lost on exit)",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunDevServer(ctx, version)
			},
		},
		{
			Name:      "seal",
			Usage:     "Encrypt a value with a portable keeper URL (vaultops://, hashivault://, base64key://)",
			ArgsUsage: "<plaintext>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "keeper",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Keeper URL (e.g., vaultops://orders)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer func() { _ = container.Shutdown(ctx) }()

				mux, err := container.KeeperURLMux()
				if err != nil {
					return err
				}

				return commands.RunSeal(
					ctx,
					mux,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("keeper"),
					cmd.Args().First(),
					cmd.String("format"),
				)
			},
		},
		{
			Name:      "unseal",
			Usage:     "Decrypt a value produced by seal",
			ArgsUsage: "<sealed>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "keeper",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Keeper URL (e.g., vaultops://orders)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer func() { _ = container.Shutdown(ctx) }()

				mux, err := container.KeeperURLMux()
				if err != nil {
					return err
				}

				return commands.RunUnseal(
					ctx,
					mux,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("keeper"),
					cmd.Args().First(),
					cmd.String("format"),
				)
			},
		},
	}
}
