package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	transitDomain "github.com/allisson/vaultops/internal/transit/domain"
	transitUseCase "github.com/allisson/vaultops/internal/transit/usecase"
)

// RunEncrypt encrypts plaintext with a named key and prints the ciphertext envelope.
// contextB64 is the base64 derivation context for derived keys.
func RunEncrypt(
	ctx context.Context,
	uc transitUseCase.TransitUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	plaintext string,
	contextB64 string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	derivation, hasContext, err := parseContext(contextB64)
	if err != nil {
		return err
	}

	input := transitDomain.PlaintextOf(plaintext)
	if hasContext {
		input = input.With(derivation)
	}

	ciphertext, err := uc.Encrypt(ctx, name, input)
	if err != nil {
		return fmt.Errorf("failed to encrypt: %w", err)
	}

	logger.Debug("plaintext encrypted", slog.String("name", name))

	return writeOutput(writer, format, map[string]any{"ciphertext": ciphertext.String()}, func(w io.Writer) {
		_, _ = fmt.Fprintln(w, ciphertext.String())
	})
}

// RunDecrypt decrypts a ciphertext envelope and prints the plaintext.
func RunDecrypt(
	ctx context.Context,
	uc transitUseCase.TransitUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	ciphertext string,
	contextB64 string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	derivation, hasContext, err := parseContext(contextB64)
	if err != nil {
		return err
	}

	input := transitDomain.CiphertextOf(ciphertext)
	if hasContext {
		input = input.With(derivation)
	}

	plaintext, err := uc.Decrypt(ctx, name, input)
	if err != nil {
		return fmt.Errorf("failed to decrypt: %w", err)
	}

	logger.Debug("ciphertext decrypted", slog.String("name", name))

	out := map[string]any{
		"plaintext":        plaintext.String(),
		"plaintext_base64": base64.StdEncoding.EncodeToString(plaintext.Bytes()),
	}
	return writeOutput(writer, format, out, func(w io.Writer) {
		_, _ = fmt.Fprintln(w, plaintext.String())
	})
}

// RunRewrap re-encrypts a ciphertext under the latest key version without revealing the plaintext.
func RunRewrap(
	ctx context.Context,
	uc transitUseCase.TransitUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	ciphertext string,
	contextB64 string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	derivation, hasContext, err := parseContext(contextB64)
	if err != nil {
		return err
	}

	input := transitDomain.CiphertextOf(ciphertext)
	if hasContext {
		input = input.With(derivation)
	}

	rewrapped, err := uc.Rewrap(ctx, name, input)
	if err != nil {
		return fmt.Errorf("failed to rewrap: %w", err)
	}

	logger.Debug("ciphertext rewrapped", slog.String("name", name))

	return writeOutput(writer, format, map[string]any{"ciphertext": rewrapped.String()}, func(w io.Writer) {
		_, _ = fmt.Fprintln(w, rewrapped.String())
	})
}

// RunSign signs input with an asymmetric key and prints the signature envelope.
func RunSign(
	ctx context.Context,
	uc transitUseCase.TransitUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	input string,
	algorithm string,
	keyVersion uint,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	alg, err := parseHashAlgorithm(algorithm)
	if err != nil {
		return err
	}

	signature, err := uc.Sign(ctx, name, transitDomain.SignRequest{
		Input:      transitDomain.PlaintextOf(input),
		Algorithm:  alg,
		KeyVersion: keyVersion,
	})
	if err != nil {
		return fmt.Errorf("failed to sign: %w", err)
	}

	logger.Debug("input signed", slog.String("name", name))

	return writeOutput(writer, format, map[string]any{"signature": signature.String()}, func(w io.Writer) {
		_, _ = fmt.Fprintln(w, signature.String())
	})
}

// RunHmac computes an HMAC of input with a named key and prints it.
func RunHmac(
	ctx context.Context,
	uc transitUseCase.TransitUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	input string,
	algorithm string,
	keyVersion uint,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	alg, err := parseHashAlgorithm(algorithm)
	if err != nil {
		return err
	}

	hmac, err := uc.GetHmac(ctx, name, transitDomain.HmacRequest{
		Input:      transitDomain.PlaintextOf(input),
		Algorithm:  alg,
		KeyVersion: keyVersion,
	})
	if err != nil {
		return fmt.Errorf("failed to compute hmac: %w", err)
	}

	logger.Debug("hmac computed", slog.String("name", name))

	return writeOutput(writer, format, map[string]any{"hmac": hmac.String()}, func(w io.Writer) {
		_, _ = fmt.Fprintln(w, hmac.String())
	})
}

// RunVerify checks a signature or an HMAC over input. An invalid result is not an error;
// it is printed like a valid one.
func RunVerify(
	ctx context.Context,
	uc transitUseCase.TransitUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	input string,
	signature string,
	hmac string,
	algorithm string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	alg, err := parseHashAlgorithm(algorithm)
	if err != nil {
		return err
	}

	result, err := uc.VerifySignature(ctx, name, transitDomain.VerificationRequest{
		Input:     transitDomain.PlaintextOf(input),
		Signature: transitDomain.Signature(signature),
		Hmac:      transitDomain.Hmac(hmac),
		Algorithm: alg,
	})
	if err != nil {
		return fmt.Errorf("failed to verify: %w", err)
	}

	logger.Debug("verification completed",
		slog.String("name", name),
		slog.Bool("valid", result.IsValid()),
	)

	return writeOutput(writer, format, map[string]any{"valid": result.IsValid()}, func(w io.Writer) {
		_, _ = fmt.Fprintln(w, result.String())
	})
}
