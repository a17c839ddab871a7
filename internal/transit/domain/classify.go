package domain

import (
	"strings"

	apperrors "github.com/allisson/vaultops/internal/errors"
)

// remoteClassifications maps message fragments reported by the transit engine to domain errors.
// Order matters: the first matching fragment wins.
var remoteClassifications = []struct {
	fragment string
	target   error
}{
	{"message authentication failed", ErrDecryptionFailed},
	{"cipher: message authentication", ErrDecryptionFailed},
	{"deletion is not allowed", ErrDeletionNotAllowed},
	{"not exportable", ErrExportNotAllowed},
	{"does not support", ErrCapability},
	{"not supported", ErrCapability},
	{"missing 'context'", ErrMissingContext},
	{"context is required", ErrMissingContext},
	{"requested version", ErrInvalidKeyVersion},
	{"cannot be set higher than", ErrInvalidKeyVersion},
	{"min decryption version", ErrInvalidKeyVersion},
	{"ciphertext version is disallowed", ErrInvalidKeyVersion},
	{"invalid ciphertext", ErrMalformedEnvelope},
	{"key not found", ErrTransitKeyNotFound},
	{"encryption key not found", ErrTransitKeyNotFound},
	{"could not delete key; not found", ErrTransitKeyNotFound},
}

// ClassifyRemoteError maps a failure reported by the remote transit engine onto the
// transit error taxonomy. The original error stays in the chain for diagnostics.
// Errors that are not remote failures are returned unchanged.
func ClassifyRemoteError(err error) error {
	if err == nil {
		return nil
	}
	remoteErr, ok := apperrors.AsRemote(err)
	if !ok {
		return err
	}
	if target := classifyMessages(remoteErr.Messages); target != nil {
		return apperrors.Join(target, err)
	}
	return err
}

// ClassifyItemError converts a per-item batch error message into a domain error.
// Unknown messages become a RemoteError so the text is preserved verbatim.
func ClassifyItemError(message string) error {
	cause := apperrors.NewRemoteError(0, message)
	if target := classifyMessages([]string{message}); target != nil {
		return apperrors.Join(target, cause)
	}
	return cause
}

func classifyMessages(messages []string) error {
	for _, rule := range remoteClassifications {
		for _, msg := range messages {
			if strings.Contains(strings.ToLower(msg), rule.fragment) {
				return rule.target
			}
		}
	}
	return nil
}
