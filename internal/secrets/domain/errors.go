// Package domain defines core domain models and errors for versioned secrets.
package domain

import (
	"github.com/allisson/vaultops/internal/errors"
)

// Secret-specific error definitions.
var (
	// ErrSecretNotFound indicates the secret was not found at the specified path.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrCasConflict indicates the check-and-set version did not match the current version.
	// No version is created when this error is returned.
	ErrCasConflict = errors.Wrap(errors.ErrConflict, "check-and-set parameter did not match the current version")

	// ErrInvalidVersion indicates a version number that cannot address a secret version.
	ErrInvalidVersion = errors.Wrap(errors.ErrInvalidInput, "invalid secret version")

	// ErrInvalidSecretPath indicates a malformed logical secret path.
	ErrInvalidSecretPath = errors.Wrap(errors.ErrInvalidInput, "invalid secret path")
)
