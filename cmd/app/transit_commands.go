package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/vaultops/cmd/app/commands"
	transitDomain "github.com/allisson/vaultops/internal/transit/domain"
	transitUseCase "github.com/allisson/vaultops/internal/transit/usecase"
)

// transitAction resolves the transit use case and hands it to run.
func transitAction(
	run func(ctx context.Context, cmd *cli.Command, uc transitUseCase.TransitUseCase, c invocation) error,
) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		container, err := newContainer()
		if err != nil {
			return err
		}
		defer func() { _ = container.Shutdown(ctx) }()

		uc, err := container.TransitUseCase()
		if err != nil {
			return err
		}

		return run(ctx, cmd, uc, invocation{logger: container.Logger(), io: commands.DefaultIO()})
	}
}

func nameFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "name",
		Aliases:  []string{"n"},
		Required: true,
		Usage:    "Transit key name",
	}
}

func algorithmFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "algorithm",
		Aliases: []string{"alg"},
		Usage:   "Hash algorithm (sha2-224, sha2-256, sha2-384, sha2-512); empty uses the service default",
	}
}

func keyVersionFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "key-version",
		Value: 0,
		Usage: "Key version to use; 0 selects the latest version",
	}
}

func getTransitCommands() *cli.Command {
	return &cli.Command{
		Name:  "transit",
		Usage: "Manage transit keys and run cryptographic operations",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a named transit key",
				Flags: []cli.Flag{
					nameFlag(),
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Value:   string(transitDomain.DefaultKeyType),
						Usage:   "Key type (aes128-gcm96, aes256-gcm96, chacha20-poly1305, ecdsa-p256, ecdsa-p384, ed25519, rsa-2048, rsa-4096)",
					},
					&cli.BoolFlag{Name: "derived", Usage: "Derive a key per context"},
					&cli.BoolFlag{Name: "convergent", Usage: "Enable convergent encryption (requires --derived)"},
					&cli.BoolFlag{Name: "exportable", Usage: "Allow key material export (cannot be revoked)"},
					&cli.BoolFlag{Name: "allow-plaintext-backup", Usage: "Allow plaintext backups of the key"},
					formatFlag(),
				},
				Action: transitAction(func(ctx context.Context, cmd *cli.Command, uc transitUseCase.TransitUseCase, c invocation) error {
					keyType, err := commands.ParseKeyType(cmd.String("type"))
					if err != nil {
						return err
					}
					req := transitDomain.KeyCreationRequest{
						Type:                 keyType,
						Derived:              cmd.Bool("derived"),
						ConvergentEncryption: cmd.Bool("convergent"),
						Exportable:           cmd.Bool("exportable"),
						AllowPlaintextBackup: cmd.Bool("allow-plaintext-backup"),
					}
					return commands.RunCreateTransitKey(
						ctx, uc, c.logger, c.io.Writer, cmd.String("name"), req, cmd.String("format"),
					)
				}),
			},
			{
				Name:  "get",
				Usage: "Describe a transit key",
				Flags: []cli.Flag{nameFlag(), formatFlag()},
				Action: transitAction(func(ctx context.Context, cmd *cli.Command, uc transitUseCase.TransitUseCase, c invocation) error {
					return commands.RunGetTransitKey(
						ctx, uc, c.logger, c.io.Writer, cmd.String("name"), cmd.String("format"),
					)
				}),
			},
			{
				Name:  "list",
				Usage: "List transit key names",
				Flags: []cli.Flag{formatFlag()},
				Action: transitAction(func(ctx context.Context, cmd *cli.Command, uc transitUseCase.TransitUseCase, c invocation) error {
					return commands.RunListTransitKeys(ctx, uc, c.logger, c.io.Writer, cmd.String("format"))
				}),
			},
			{
				Name:  "rotate",
				Usage: "Add a new version to a transit key",
				Flags: []cli.Flag{nameFlag(), formatFlag()},
				Action: transitAction(func(ctx context.Context, cmd *cli.Command, uc transitUseCase.TransitUseCase, c invocation) error {
					return commands.RunRotateTransitKey(
						ctx, uc, c.logger, c.io.Writer, cmd.String("name"), cmd.String("format"),
					)
				}),
			},
			{
				Name:  "config",
				Usage: "Update the configuration of a transit key; only given options change",
				Flags: []cli.Flag{
					nameFlag(),
					&cli.IntFlag{Name: "min-decryption-version", Usage: "Oldest version allowed to decrypt"},
					&cli.IntFlag{Name: "min-encryption-version", Usage: "Version used to encrypt; 0 means latest"},
					&cli.BoolFlag{Name: "deletion-allowed", Usage: "Allow the key to be deleted"},
					&cli.BoolFlag{Name: "exportable", Usage: "Allow key material export (cannot be revoked)"},
					&cli.BoolFlag{Name: "allow-plaintext-backup", Usage: "Allow plaintext backups of the key"},
					formatFlag(),
				},
				Action: transitAction(func(ctx context.Context, cmd *cli.Command, uc transitUseCase.TransitUseCase, c invocation) error {
					return commands.RunConfigureTransitKey(
						ctx, uc, c.logger, c.io.Writer, cmd.String("name"), keyConfiguration(cmd), cmd.String("format"),
					)
				}),
			},
			{
				Name:  "delete",
				Usage: "Delete a transit key (requires deletion-allowed)",
				Flags: []cli.Flag{nameFlag(), formatFlag()},
				Action: transitAction(func(ctx context.Context, cmd *cli.Command, uc transitUseCase.TransitUseCase, c invocation) error {
					return commands.RunDeleteTransitKey(
						ctx, uc, c.logger, c.io.Writer, cmd.String("name"), cmd.String("format"),
					)
				}),
			},
			{
				Name:  "export",
				Usage: "Export the raw material of an exportable key",
				Flags: []cli.Flag{
					nameFlag(),
					&cli.StringFlag{
						Name:  "type",
						Value: string(transitDomain.ExportEncryptionKey),
						Usage: "Export type (encryption-key, signing-key, hmac-key)",
					},
					formatFlag(),
				},
				Action: transitAction(func(ctx context.Context, cmd *cli.Command, uc transitUseCase.TransitUseCase, c invocation) error {
					return commands.RunExportTransitKey(
						ctx, uc, c.logger, c.io.Writer, cmd.String("name"), cmd.String("type"), cmd.String("format"),
					)
				}),
			},
			{
				Name:      "encrypt",
				Usage:     "Encrypt a plaintext",
				ArgsUsage: "<plaintext>",
				Flags:     []cli.Flag{nameFlag(), contextFlag(), formatFlag()},
				Action: transitAction(func(ctx context.Context, cmd *cli.Command, uc transitUseCase.TransitUseCase, c invocation) error {
					return commands.RunEncrypt(
						ctx, uc, c.logger, c.io.Writer,
						cmd.String("name"), cmd.Args().First(), cmd.String("context"), cmd.String("format"),
					)
				}),
			},
			{
				Name:      "decrypt",
				Usage:     "Decrypt a ciphertext envelope",
				ArgsUsage: "<ciphertext>",
				Flags:     []cli.Flag{nameFlag(), contextFlag(), formatFlag()},
				Action: transitAction(func(ctx context.Context, cmd *cli.Command, uc transitUseCase.TransitUseCase, c invocation) error {
					return commands.RunDecrypt(
						ctx, uc, c.logger, c.io.Writer,
						cmd.String("name"), cmd.Args().First(), cmd.String("context"), cmd.String("format"),
					)
				}),
			},
			{
				Name:      "rewrap",
				Usage:     "Re-encrypt a ciphertext under the latest key version",
				ArgsUsage: "<ciphertext>",
				Flags:     []cli.Flag{nameFlag(), contextFlag(), formatFlag()},
				Action: transitAction(func(ctx context.Context, cmd *cli.Command, uc transitUseCase.TransitUseCase, c invocation) error {
					return commands.RunRewrap(
						ctx, uc, c.logger, c.io.Writer,
						cmd.String("name"), cmd.Args().First(), cmd.String("context"), cmd.String("format"),
					)
				}),
			},
			{
				Name:      "sign",
				Usage:     "Sign an input with an asymmetric key",
				ArgsUsage: "<input>",
				Flags:     []cli.Flag{nameFlag(), algorithmFlag(), keyVersionFlag(), formatFlag()},
				Action: transitAction(func(ctx context.Context, cmd *cli.Command, uc transitUseCase.TransitUseCase, c invocation) error {
					return commands.RunSign(
						ctx, uc, c.logger, c.io.Writer,
						cmd.String("name"), cmd.Args().First(), cmd.String("algorithm"),
						uint(cmd.Int("key-version")), cmd.String("format"),
					)
				}),
			},
			{
				Name:      "hmac",
				Usage:     "Compute an HMAC of an input",
				ArgsUsage: "<input>",
				Flags:     []cli.Flag{nameFlag(), algorithmFlag(), keyVersionFlag(), formatFlag()},
				Action: transitAction(func(ctx context.Context, cmd *cli.Command, uc transitUseCase.TransitUseCase, c invocation) error {
					return commands.RunHmac(
						ctx, uc, c.logger, c.io.Writer,
						cmd.String("name"), cmd.Args().First(), cmd.String("algorithm"),
						uint(cmd.Int("key-version")), cmd.String("format"),
					)
				}),
			},
			{
				Name:      "verify",
				Usage:     "Verify a signature or an HMAC over an input",
				ArgsUsage: "<input>",
				Flags: []cli.Flag{
					nameFlag(),
					&cli.StringFlag{Name: "signature", Aliases: []string{"s"}, Usage: "Signature envelope"},
					&cli.StringFlag{Name: "hmac", Usage: "HMAC envelope"},
					algorithmFlag(),
					formatFlag(),
				},
				Action: transitAction(func(ctx context.Context, cmd *cli.Command, uc transitUseCase.TransitUseCase, c invocation) error {
					return commands.RunVerify(
						ctx, uc, c.logger, c.io.Writer,
						cmd.String("name"), cmd.Args().First(), cmd.String("signature"), cmd.String("hmac"),
						cmd.String("algorithm"), cmd.String("format"),
					)
				}),
			},
		},
	}
}

// keyConfiguration builds a partial update from the flags that were set.
func keyConfiguration(cmd *cli.Command) transitDomain.KeyConfiguration {
	var cfg transitDomain.KeyConfiguration
	if cmd.IsSet("min-decryption-version") {
		v := uint(cmd.Int("min-decryption-version"))
		cfg.MinDecryptionVersion = &v
	}
	if cmd.IsSet("min-encryption-version") {
		v := uint(cmd.Int("min-encryption-version"))
		cfg.MinEncryptionVersion = &v
	}
	if cmd.IsSet("deletion-allowed") {
		v := cmd.Bool("deletion-allowed")
		cfg.DeletionAllowed = &v
	}
	if cmd.IsSet("exportable") {
		v := cmd.Bool("exportable")
		cfg.Exportable = &v
	}
	if cmd.IsSet("allow-plaintext-backup") {
		v := cmd.Bool("allow-plaintext-backup")
		cfg.AllowPlaintextBackup = &v
	}
	return cfg
}
