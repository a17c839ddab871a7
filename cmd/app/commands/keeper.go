package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"gocloud.dev/secrets"
)

// RunSeal encrypts plaintext with the keeper at keeperURL and prints the base64 result.
// Supported schemes are vaultops://, hashivault:// and base64key://.
func RunSeal(
	ctx context.Context,
	mux *secrets.URLMux,
	logger *slog.Logger,
	writer io.Writer,
	keeperURL string,
	plaintext string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	keeper, err := mux.OpenKeeper(ctx, keeperURL)
	if err != nil {
		return fmt.Errorf("failed to open keeper: %w", err)
	}
	defer func() {
		if err := keeper.Close(); err != nil {
			logger.Error("failed to close keeper", slog.Any("error", err))
		}
	}()

	sealed, err := keeper.Encrypt(ctx, []byte(plaintext))
	if err != nil {
		return fmt.Errorf("failed to seal: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(sealed)
	return writeOutput(writer, format, map[string]any{"sealed": encoded}, func(w io.Writer) {
		_, _ = fmt.Fprintln(w, encoded)
	})
}

// RunUnseal decrypts a base64 value produced by RunSeal.
func RunUnseal(
	ctx context.Context,
	mux *secrets.URLMux,
	logger *slog.Logger,
	writer io.Writer,
	keeperURL string,
	sealed string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	decoded, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return fmt.Errorf("sealed value is not base64: %w", err)
	}

	keeper, err := mux.OpenKeeper(ctx, keeperURL)
	if err != nil {
		return fmt.Errorf("failed to open keeper: %w", err)
	}
	defer func() {
		if err := keeper.Close(); err != nil {
			logger.Error("failed to close keeper", slog.Any("error", err))
		}
	}()

	plaintext, err := keeper.Decrypt(ctx, decoded)
	if err != nil {
		return fmt.Errorf("failed to unseal: %w", err)
	}

	return writeOutput(writer, format, map[string]any{"plaintext": string(plaintext)}, func(w io.Writer) {
		_, _ = fmt.Fprintln(w, string(plaintext))
	})
}
