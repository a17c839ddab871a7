package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	transitDomain "github.com/allisson/vaultops/internal/transit/domain"
	transitUseCase "github.com/allisson/vaultops/internal/transit/usecase"
)

// transitKeyOutput is the printable view of a transit key.
type transitKeyOutput struct {
	Name                 string `json:"name"`
	Type                 string `json:"type"`
	LatestVersion        uint   `json:"latest_version"`
	MinDecryptionVersion uint   `json:"min_decryption_version"`
	MinEncryptionVersion uint   `json:"min_encryption_version"`
	Versions             []uint `json:"versions"`
	Derived              bool   `json:"derived"`
	ConvergentEncryption bool   `json:"convergent_encryption"`
	DeletionAllowed      bool   `json:"deletion_allowed"`
	Exportable           bool   `json:"exportable"`
	SupportsEncryption   bool   `json:"supports_encryption"`
	SupportsSigning      bool   `json:"supports_signing"`
}

func newTransitKeyOutput(key *transitDomain.TransitKey) transitKeyOutput {
	return transitKeyOutput{
		Name:                 key.Name,
		Type:                 string(key.Type),
		LatestVersion:        key.LatestVersion,
		MinDecryptionVersion: key.MinDecryptionVersion,
		MinEncryptionVersion: key.MinEncryptionVersion,
		Versions:             key.SortedVersions(),
		Derived:              key.Derived,
		ConvergentEncryption: key.ConvergentEncryption,
		DeletionAllowed:      key.DeletionAllowed,
		Exportable:           key.Exportable,
		SupportsEncryption:   key.SupportsEncryption,
		SupportsSigning:      key.SupportsSigning,
	}
}

func writeTransitKeyText(w io.Writer, key transitKeyOutput) {
	_, _ = fmt.Fprintf(w, "Name:                   %s\n", key.Name)
	_, _ = fmt.Fprintf(w, "Type:                   %s\n", key.Type)
	_, _ = fmt.Fprintf(w, "Latest Version:         %d\n", key.LatestVersion)
	_, _ = fmt.Fprintf(w, "Min Decryption Version: %d\n", key.MinDecryptionVersion)
	_, _ = fmt.Fprintf(w, "Min Encryption Version: %d\n", key.MinEncryptionVersion)
	_, _ = fmt.Fprintf(w, "Derived:                %t\n", key.Derived)
	_, _ = fmt.Fprintf(w, "Deletion Allowed:       %t\n", key.DeletionAllowed)
	_, _ = fmt.Fprintf(w, "Exportable:             %t\n", key.Exportable)
}

// fetchKey reads a key that must exist.
func fetchKey(ctx context.Context, uc transitUseCase.TransitUseCase, name string) (*transitDomain.TransitKey, error) {
	key, err := uc.GetKey(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read transit key: %w", err)
	}
	if key == nil {
		return nil, fmt.Errorf("%w: %s", transitDomain.ErrTransitKeyNotFound, name)
	}
	return key, nil
}

// RunCreateTransitKey creates a named transit key and prints the resulting key.
func RunCreateTransitKey(
	ctx context.Context,
	uc transitUseCase.TransitUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	req transitDomain.KeyCreationRequest,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	logger.Info("creating transit key",
		slog.String("name", name),
		slog.String("type", string(req.EffectiveType())),
		slog.Bool("derived", req.Derived),
	)

	if err := uc.CreateKey(ctx, name, req); err != nil {
		return fmt.Errorf("failed to create transit key: %w", err)
	}

	key, err := fetchKey(ctx, uc, name)
	if err != nil {
		return err
	}

	logger.Info("transit key created successfully", slog.String("name", key.Name))

	out := newTransitKeyOutput(key)
	return writeOutput(writer, format, out, func(w io.Writer) {
		_, _ = fmt.Fprintf(w, "Transit key %q created\n", key.Name)
		writeTransitKeyText(w, out)
	})
}

// RunGetTransitKey prints the description of a transit key.
func RunGetTransitKey(
	ctx context.Context,
	uc transitUseCase.TransitUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	logger.Debug("reading transit key", slog.String("name", name))

	key, err := fetchKey(ctx, uc, name)
	if err != nil {
		return err
	}

	out := newTransitKeyOutput(key)
	return writeOutput(writer, format, out, func(w io.Writer) {
		writeTransitKeyText(w, out)
	})
}

// RunListTransitKeys prints the names of all transit keys.
func RunListTransitKeys(
	ctx context.Context,
	uc transitUseCase.TransitUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	names, err := uc.ListKeys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list transit keys: %w", err)
	}
	slices.Sort(names)

	logger.Debug("transit keys listed", slog.Int("count", len(names)))

	return writeOutput(writer, format, map[string]any{"keys": names}, func(w io.Writer) {
		if len(names) == 0 {
			_, _ = fmt.Fprintln(w, "No transit keys found")
			return
		}
		_, _ = fmt.Fprintln(w, strings.Join(names, "\n"))
	})
}

// RunRotateTransitKey adds a new version to a transit key and prints the new latest version.
func RunRotateTransitKey(
	ctx context.Context,
	uc transitUseCase.TransitUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	logger.Info("rotating transit key", slog.String("name", name))

	if err := uc.Rotate(ctx, name); err != nil {
		return fmt.Errorf("failed to rotate transit key: %w", err)
	}

	key, err := fetchKey(ctx, uc, name)
	if err != nil {
		return err
	}

	logger.Info("transit key rotated successfully",
		slog.String("name", key.Name),
		slog.Uint64("latest_version", uint64(key.LatestVersion)),
	)

	return writeOutput(writer, format, newTransitKeyOutput(key), func(w io.Writer) {
		_, _ = fmt.Fprintf(w, "Transit key %q rotated to version %d\n", key.Name, key.LatestVersion)
	})
}

// RunConfigureTransitKey applies a partial configuration update to a transit key.
func RunConfigureTransitKey(
	ctx context.Context,
	uc transitUseCase.TransitUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	cfg transitDomain.KeyConfiguration,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if cfg.IsEmpty() {
		return fmt.Errorf("%w: no configuration option given", transitDomain.ErrInvalidKeyRequest)
	}
	logger.Info("configuring transit key", slog.String("name", name))

	if err := uc.ConfigureKey(ctx, name, cfg); err != nil {
		return fmt.Errorf("failed to configure transit key: %w", err)
	}

	key, err := fetchKey(ctx, uc, name)
	if err != nil {
		return err
	}

	out := newTransitKeyOutput(key)
	return writeOutput(writer, format, out, func(w io.Writer) {
		_, _ = fmt.Fprintf(w, "Transit key %q configured\n", key.Name)
		writeTransitKeyText(w, out)
	})
}

// RunDeleteTransitKey deletes a transit key. The key must allow deletion.
func RunDeleteTransitKey(
	ctx context.Context,
	uc transitUseCase.TransitUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	logger.Info("deleting transit key", slog.String("name", name))

	if err := uc.DeleteKey(ctx, name); err != nil {
		return fmt.Errorf("failed to delete transit key: %w", err)
	}

	logger.Info("transit key deleted successfully", slog.String("name", name))

	return writeOutput(writer, format, map[string]any{"name": name, "deleted": true}, func(w io.Writer) {
		_, _ = fmt.Fprintf(w, "Transit key %q deleted\n", name)
	})
}

// RunExportTransitKey prints the raw material of an exportable key, one entry per version.
//
// Security Note: the output holds raw key material.
func RunExportTransitKey(
	ctx context.Context,
	uc transitUseCase.TransitUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	exportType string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	parsedType, err := parseExportType(exportType)
	if err != nil {
		return err
	}
	logger.Warn("exporting transit key material",
		slog.String("name", name),
		slog.String("export_type", exportType),
	)

	raw, err := uc.ExportKey(ctx, name, parsedType)
	if err != nil {
		return fmt.Errorf("failed to export transit key: %w", err)
	}

	versions := make([]uint, 0, len(raw.Keys))
	for version := range raw.Keys {
		versions = append(versions, version)
	}
	slices.Sort(versions)

	keys := make(map[string]string, len(raw.Keys))
	for _, version := range versions {
		keys[fmt.Sprint(version)] = raw.Keys[version]
	}

	out := map[string]any{"name": raw.Name, "type": string(raw.Type), "keys": keys}
	return writeOutput(writer, format, out, func(w io.Writer) {
		for _, version := range versions {
			_, _ = fmt.Fprintf(w, "%d: %s\n", version, raw.Keys[version])
		}
	})
}
