// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/jellydator/validation"

	"github.com/allisson/vaultops/internal/app"
	apperrors "github.com/allisson/vaultops/internal/errors"
	secretsDomain "github.com/allisson/vaultops/internal/secrets/domain"
	transitDomain "github.com/allisson/vaultops/internal/transit/domain"
	customValidation "github.com/allisson/vaultops/internal/validation"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// validateFormat accepts the two output formats.
func validateFormat(format string) error {
	if err := validation.Validate(format, validation.Required, validation.In("text", "json")); err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid output format %q (valid options: text, json)", format)
	}
	return nil
}

// writeOutput writes value as indented JSON, or calls text for the human-readable format.
func writeOutput(w io.Writer, format string, value any, text func(w io.Writer)) error {
	if format != "json" {
		text(w)
		return nil
	}

	jsonBytes, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}

// ParseKeyType converts a key type string to transitDomain.KeyType.
// An empty string selects the default type.
func ParseKeyType(keyType string) (transitDomain.KeyType, error) {
	if keyType == "" {
		return transitDomain.DefaultKeyType, nil
	}
	parsed := transitDomain.KeyType(keyType)
	if !parsed.Valid() {
		return "", apperrors.Wrapf(
			apperrors.ErrInvalidInput,
			"invalid key type: %s (valid options: aes128-gcm96, aes256-gcm96, chacha20-poly1305, "+
				"ecdsa-p256, ecdsa-p384, ed25519, rsa-2048, rsa-4096)",
			keyType,
		)
	}
	return parsed, nil
}

// parseHashAlgorithm converts an algorithm string to transitDomain.HashAlgorithm.
func parseHashAlgorithm(algorithm string) (transitDomain.HashAlgorithm, error) {
	parsed := transitDomain.HashAlgorithm(algorithm)
	if !parsed.Valid() {
		return "", apperrors.Wrapf(
			apperrors.ErrInvalidInput,
			"invalid hash algorithm: %s (valid options: sha2-224, sha2-256, sha2-384, sha2-512)",
			algorithm,
		)
	}
	return parsed, nil
}

// parseExportType converts an export type string to transitDomain.ExportKeyType.
func parseExportType(exportType string) (transitDomain.ExportKeyType, error) {
	parsed := transitDomain.ExportKeyType(exportType)
	if !parsed.Valid() {
		return "", apperrors.Wrapf(
			apperrors.ErrInvalidInput,
			"invalid export type: %s (valid options: encryption-key, signing-key, hmac-key)",
			exportType,
		)
	}
	return parsed, nil
}

// parseContext decodes a base64 derivation context. An empty string means no context.
func parseContext(encoded string) (transitDomain.Context, bool, error) {
	if encoded == "" {
		return transitDomain.EmptyContext(), false, nil
	}
	if err := validation.Validate(encoded, customValidation.Base64); err != nil {
		return transitDomain.EmptyContext(), false, apperrors.Wrap(apperrors.ErrInvalidInput, "context must be base64")
	}
	decoded, _ := base64.StdEncoding.DecodeString(encoded)
	return transitDomain.FromContext(decoded), true, nil
}

// ParseVersions converts flag values to secret versions. Values may be comma separated
// and every value must be a decimal of at least 1.
func ParseVersions(values []string) ([]secretsDomain.Version, error) {
	versions := make([]secretsDomain.Version, 0, len(values))
	for _, value := range values {
		for raw := range strings.SplitSeq(value, ",") {
			raw = strings.TrimSpace(raw)
			number, err := strconv.ParseUint(raw, 10, 0)
			if err != nil || number == 0 {
				return nil, apperrors.Wrapf(secretsDomain.ErrInvalidVersion, "version %q", raw)
			}
			versions = append(versions, secretsDomain.VersionOf(uint(number)))
		}
	}
	return versions, nil
}

// ParseData builds secret data from key=value pairs, or from a JSON object when
// jsonData is set. The two forms are mutually exclusive.
func ParseData(pairs []string, jsonData string) (map[string]any, error) {
	if jsonData != "" {
		if len(pairs) > 0 {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "use either key=value pairs or --json, not both")
		}
		data := map[string]any{}
		if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid JSON data: %v", err)
		}
		return data, nil
	}

	data := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid key=value pair: %q", pair)
		}
		err := validation.Validate(key, validation.Required, customValidation.NotBlank, customValidation.NoWhitespace)
		if err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid key in pair %q: %v", pair, err)
		}
		data[key] = value
	}
	return data, nil
}
