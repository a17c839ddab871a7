// Package domain defines transit encryption domain models and errors.
package domain

import (
	"github.com/allisson/vaultops/internal/errors"
)

// Transit encryption error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// so callers can branch on either the precise failure or its category.
var (
	// ErrMalformedEnvelope indicates the ciphertext string does not follow the envelope grammar.
	ErrMalformedEnvelope = errors.Wrap(errors.ErrInvalidInput, "malformed ciphertext envelope")

	// ErrInvalidEnvelopeVersion indicates the envelope version is not a decimal >= 1.
	ErrInvalidEnvelopeVersion = errors.Wrap(ErrMalformedEnvelope, "invalid envelope version")

	// ErrTransitKeyNotFound indicates the transit key was not found.
	ErrTransitKeyNotFound = errors.Wrap(errors.ErrNotFound, "transit key not found")

	// ErrTransitKeyAlreadyExists indicates a transit key with the same name already exists.
	ErrTransitKeyAlreadyExists = errors.Wrap(errors.ErrConflict, "transit key already exists")

	// ErrInvalidKeyRequest indicates a key creation or configuration request failed validation.
	ErrInvalidKeyRequest = errors.Wrap(errors.ErrInvalidInput, "invalid transit key request")

	// ErrCapability indicates the key does not support the requested operation.
	ErrCapability = errors.Wrap(errors.ErrUnsupported, "transit key does not support operation")

	// ErrDecryptionFailed indicates authenticated decryption failed (wrong context/nonce or tampering).
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "authenticated decryption failed")

	// ErrDeletionNotAllowed indicates the key is not configured with deletion_allowed.
	ErrDeletionNotAllowed = errors.Wrap(errors.ErrRejected, "transit key deletion is not allowed")

	// ErrExportNotAllowed indicates the key was not created as exportable.
	ErrExportNotAllowed = errors.Wrap(errors.ErrRejected, "transit key is not exportable")

	// ErrInvalidKeyVersion indicates a version outside the key's usable range.
	ErrInvalidKeyVersion = errors.Wrap(errors.ErrRejected, "invalid transit key version")

	// ErrMissingContext indicates a derived key was used without a derivation context.
	ErrMissingContext = errors.Wrap(errors.ErrInvalidInput, "missing derivation context")
)
