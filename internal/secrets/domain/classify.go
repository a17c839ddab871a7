package domain

import (
	apperrors "github.com/allisson/vaultops/internal/errors"
)

// ClassifyRemoteError maps failures reported by the versioned store onto secret errors.
// The original error stays in the chain; unrelated errors are returned unchanged.
func ClassifyRemoteError(err error) error {
	remoteErr, ok := apperrors.AsRemote(err)
	if !ok {
		return err
	}
	switch {
	case remoteErr.Contains("check-and-set parameter did not match"):
		return apperrors.Join(ErrCasConflict, err)
	case remoteErr.Contains("check-and-set parameter required"):
		return apperrors.Join(ErrCasConflict, err)
	case remoteErr.Contains("invalid version"), remoteErr.Contains("no versions provided"):
		return apperrors.Join(ErrInvalidVersion, err)
	default:
		return err
	}
}
