package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/vaultops/internal/errors"
	"github.com/allisson/vaultops/internal/transit/domain"
)

func TestClassifyRemoteError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{
			name:     "DeletionNotAllowed",
			err:      apperrors.NewRemoteError(400, "deletion is not allowed for this key"),
			expected: domain.ErrDeletionNotAllowed,
		},
		{
			name:     "AuthenticationFailure",
			err:      apperrors.NewRemoteError(400, "cipher: message authentication failed"),
			expected: domain.ErrDecryptionFailed,
		},
		{
			name:     "SigningNotSupported",
			err:      apperrors.NewRemoteError(400, "key type aes256-gcm96 does not support signing"),
			expected: domain.ErrCapability,
		},
		{
			name:     "NotExportable",
			err:      apperrors.NewRemoteError(400, "key is not exportable"),
			expected: domain.ErrExportNotAllowed,
		},
		{
			name:     "MissingContext",
			err:      apperrors.NewRemoteError(400, "missing 'context' for key derivation; the key was created using a derived key"),
			expected: domain.ErrMissingContext,
		},
		{
			name:     "KeyNotFound",
			err:      apperrors.NewRemoteError(400, "encryption key not found"),
			expected: domain.ErrTransitKeyNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := domain.ClassifyRemoteError(tt.err)

			assert.ErrorIs(t, classified, tt.expected)
			assert.ErrorIs(t, classified, apperrors.ErrRemoteService)
		})
	}

	t.Run("UnknownRemoteMessageUnchanged", func(t *testing.T) {
		err := apperrors.NewRemoteError(500, "internal error")

		assert.Same(t, err, domain.ClassifyRemoteError(err))
	})

	t.Run("NonRemoteErrorUnchanged", func(t *testing.T) {
		err := errors.New("dial tcp: connection refused")

		assert.Equal(t, err, domain.ClassifyRemoteError(err))
	})

	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, domain.ClassifyRemoteError(nil))
	})
}
