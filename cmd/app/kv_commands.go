package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/vaultops/cmd/app/commands"
	secretsUseCase "github.com/allisson/vaultops/internal/secrets/usecase"
)

// kvAction resolves the versioned key-value use case and hands it to run.
func kvAction(
	run func(ctx context.Context, cmd *cli.Command, uc secretsUseCase.VersionedKVUseCase, c invocation) error,
) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		container, err := newContainer()
		if err != nil {
			return err
		}
		defer func() { _ = container.Shutdown(ctx) }()

		uc, err := container.VersionedKVUseCase()
		if err != nil {
			return err
		}

		return run(ctx, cmd, uc, invocation{logger: container.Logger(), io: commands.DefaultIO()})
	}
}

func pathFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "path",
		Aliases:  []string{"p"},
		Required: true,
		Usage:    "Secret path relative to the mount (e.g., app/db)",
	}
}

func versionsFlag(required bool) cli.Flag {
	return &cli.StringSliceFlag{
		Name:     "versions",
		Aliases:  []string{"v"},
		Required: required,
		Usage:    "Versions to act on, repeated or comma separated",
	}
}

func getKVCommands() *cli.Command {
	return &cli.Command{
		Name:  "kv",
		Usage: "Read and write versioned secrets",
		Commands: []*cli.Command{
			{
				Name:      "put",
				Usage:     "Write a new secret version",
				ArgsUsage: "[key=value...]",
				Flags: []cli.Flag{
					pathFlag(),
					&cli.StringFlag{Name: "json", Usage: "Secret data as a JSON object"},
					&cli.IntFlag{
						Name:  "cas",
						Value: -1,
						Usage: "Check-and-set version: -1 disables, 0 requires a new secret",
					},
					formatFlag(),
				},
				Action: kvAction(func(ctx context.Context, cmd *cli.Command, uc secretsUseCase.VersionedKVUseCase, c invocation) error {
					data, err := commands.ParseData(cmd.Args().Slice(), cmd.String("json"))
					if err != nil {
						return err
					}
					return commands.RunKVPut(
						ctx, uc, c.logger, c.io.Writer,
						cmd.String("path"), data, int64(cmd.Int("cas")), cmd.String("format"),
					)
				}),
			},
			{
				Name:  "get",
				Usage: "Read the current or a specific secret version",
				Flags: []cli.Flag{
					pathFlag(),
					&cli.IntFlag{Name: "version", Value: 0, Usage: "Version to read; 0 reads the current version"},
					formatFlag(),
				},
				Action: kvAction(func(ctx context.Context, cmd *cli.Command, uc secretsUseCase.VersionedKVUseCase, c invocation) error {
					version := cmd.Int("version")
					if version < 0 {
						version = 0
					}
					return commands.RunKVGet(
						ctx, uc, c.logger, c.io.Writer, cmd.String("path"), uint(version), cmd.String("format"),
					)
				}),
			},
			{
				Name:  "delete",
				Usage: "Soft-delete the current version, or the given versions",
				Flags: []cli.Flag{pathFlag(), versionsFlag(false), formatFlag()},
				Action: kvAction(func(ctx context.Context, cmd *cli.Command, uc secretsUseCase.VersionedKVUseCase, c invocation) error {
					versions, err := commands.ParseVersions(cmd.StringSlice("versions"))
					if err != nil {
						return err
					}
					return commands.RunKVDelete(
						ctx, uc, c.logger, c.io.Writer, cmd.String("path"), versions, cmd.String("format"),
					)
				}),
			},
			{
				Name:  "undelete",
				Usage: "Restore soft-deleted versions",
				Flags: []cli.Flag{pathFlag(), versionsFlag(true), formatFlag()},
				Action: kvAction(func(ctx context.Context, cmd *cli.Command, uc secretsUseCase.VersionedKVUseCase, c invocation) error {
					versions, err := commands.ParseVersions(cmd.StringSlice("versions"))
					if err != nil {
						return err
					}
					return commands.RunKVUndelete(
						ctx, uc, c.logger, c.io.Writer, cmd.String("path"), versions, cmd.String("format"),
					)
				}),
			},
			{
				Name:  "destroy",
				Usage: "Permanently remove the data of the given versions",
				Flags: []cli.Flag{pathFlag(), versionsFlag(true), formatFlag()},
				Action: kvAction(func(ctx context.Context, cmd *cli.Command, uc secretsUseCase.VersionedKVUseCase, c invocation) error {
					versions, err := commands.ParseVersions(cmd.StringSlice("versions"))
					if err != nil {
						return err
					}
					return commands.RunKVDestroy(
						ctx, uc, c.logger, c.io.Writer, cmd.String("path"), versions, cmd.String("format"),
					)
				}),
			},
			{
				Name:      "list",
				Usage:     "List the children of a prefix",
				ArgsUsage: "[prefix]",
				Flags:     []cli.Flag{formatFlag()},
				Action: kvAction(func(ctx context.Context, cmd *cli.Command, uc secretsUseCase.VersionedKVUseCase, c invocation) error {
					return commands.RunKVList(ctx, uc, c.logger, c.io.Writer, cmd.Args().First(), cmd.String("format"))
				}),
			},
			{
				Name:  "metadata",
				Usage: "Show the state of every version of a secret",
				Flags: []cli.Flag{pathFlag(), formatFlag()},
				Action: kvAction(func(ctx context.Context, cmd *cli.Command, uc secretsUseCase.VersionedKVUseCase, c invocation) error {
					return commands.RunKVMetadata(ctx, uc, c.logger, c.io.Writer, cmd.String("path"), cmd.String("format"))
				}),
			},
		},
	}
}
