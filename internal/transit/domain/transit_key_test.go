package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/vaultops/internal/errors"
	"github.com/allisson/vaultops/internal/transit/domain"
)

func uintPtr(v uint) *uint { return &v }

func boolPtr(v bool) *bool { return &v }

func TestNewTransitKey(t *testing.T) {
	t.Run("DefaultType", func(t *testing.T) {
		now := time.Now()

		key := domain.NewTransitKey("payments", domain.KeyCreationRequest{}, now)

		assert.Equal(t, domain.KeyTypeAES256GCM96, key.Type)
		assert.Equal(t, uint(1), key.LatestVersion)
		assert.Equal(t, uint(1), key.MinDecryptionVersion)
		assert.Equal(t, []uint{1}, key.SortedVersions())
		assert.True(t, key.SupportsEncryption)
		assert.True(t, key.SupportsDerivation)
		assert.False(t, key.SupportsSigning)
		assert.False(t, key.DeletionAllowed)
		require.NoError(t, key.Validate())
	})

	t.Run("SigningKey", func(t *testing.T) {
		key := domain.NewTransitKey("signer", domain.KeyCreationRequest{Type: domain.KeyTypeECDSAP256}, time.Now())

		assert.True(t, key.SupportsSigning)
		assert.False(t, key.SupportsEncryption)
		assert.False(t, key.SupportsDerivation)
	})
}

func TestTransitKey_Rotate(t *testing.T) {
	key := domain.NewTransitKey("payments", domain.KeyCreationRequest{}, time.Now())

	for expected := uint(2); expected <= 5; expected++ {
		previous := key.LatestVersion

		got := key.Rotate(time.Now())

		assert.Equal(t, expected, got)
		assert.Greater(t, key.LatestVersion, previous)
		require.NoError(t, key.Validate())
	}
	assert.Equal(t, []uint{1, 2, 3, 4, 5}, key.SortedVersions())
}

func TestTransitKey_Configure(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		key := domain.NewTransitKey("payments", domain.KeyCreationRequest{}, time.Now())
		key.Rotate(time.Now())
		key.Rotate(time.Now())

		// Act
		err := key.Configure(domain.KeyConfiguration{
			MinDecryptionVersion: uintPtr(2),
			MinEncryptionVersion: uintPtr(3),
			DeletionAllowed:      boolPtr(true),
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, uint(2), key.MinDecryptionVersion)
		assert.Equal(t, uint(3), key.MinEncryptionVersion)
		assert.True(t, key.DeletionAllowed)
		require.NoError(t, key.CanDelete())
	})

	t.Run("Error_MinEncryptionAboveLatest", func(t *testing.T) {
		key := domain.NewTransitKey("payments", domain.KeyCreationRequest{}, time.Now())

		err := key.Configure(domain.KeyConfiguration{
			MinEncryptionVersion: uintPtr(2),
			DeletionAllowed:      boolPtr(true),
		})

		assert.ErrorIs(t, err, domain.ErrInvalidKeyVersion)
		assert.ErrorIs(t, err, apperrors.ErrRejected)
		assert.Equal(t, uint(0), key.MinEncryptionVersion)
		assert.False(t, key.DeletionAllowed)
	})

	t.Run("ExportableCannotBeRevoked", func(t *testing.T) {
		key := domain.NewTransitKey("payments", domain.KeyCreationRequest{Exportable: true}, time.Now())

		require.NoError(t, key.Configure(domain.KeyConfiguration{Exportable: boolPtr(false)}))

		assert.True(t, key.Exportable)
	})
}

func TestTransitKey_Guards(t *testing.T) {
	t.Run("CanDelete_NotAllowed", func(t *testing.T) {
		key := domain.NewTransitKey("payments", domain.KeyCreationRequest{}, time.Now())

		err := key.CanDelete()

		assert.ErrorIs(t, err, domain.ErrDeletionNotAllowed)
		assert.NotErrorIs(t, err, domain.ErrTransitKeyNotFound)
	})

	t.Run("CanExport", func(t *testing.T) {
		symmetric := domain.NewTransitKey("sym", domain.KeyCreationRequest{Exportable: true}, time.Now())
		hidden := domain.NewTransitKey("hidden", domain.KeyCreationRequest{}, time.Now())

		assert.NoError(t, symmetric.CanExport(domain.ExportEncryptionKey))
		assert.NoError(t, symmetric.CanExport(domain.ExportHmacKey))
		assert.ErrorIs(t, symmetric.CanExport(domain.ExportSigningKey), domain.ErrCapability)
		assert.ErrorIs(t, hidden.CanExport(domain.ExportEncryptionKey), domain.ErrExportNotAllowed)
	})

	t.Run("EncryptionVersion", func(t *testing.T) {
		key := domain.NewTransitKey("payments", domain.KeyCreationRequest{}, time.Now())
		key.Rotate(time.Now())

		latest, err := key.EncryptionVersion(0)
		require.NoError(t, err)
		assert.Equal(t, uint(2), latest)

		_, err = key.EncryptionVersion(3)
		assert.ErrorIs(t, err, domain.ErrInvalidKeyVersion)
	})

	t.Run("CheckDecryptionVersion", func(t *testing.T) {
		key := domain.NewTransitKey("payments", domain.KeyCreationRequest{}, time.Now())
		key.Rotate(time.Now())
		require.NoError(t, key.Configure(domain.KeyConfiguration{MinDecryptionVersion: uintPtr(2)}))

		assert.ErrorIs(t, key.CheckDecryptionVersion(1), domain.ErrInvalidKeyVersion)
		assert.NoError(t, key.CheckDecryptionVersion(2))
	})
}

func TestTransitKey_Validate(t *testing.T) {
	t.Run("Error_LatestNotInVersions", func(t *testing.T) {
		key := &domain.TransitKey{
			Name:          "broken",
			Versions:      map[uint]time.Time{1: time.Now()},
			LatestVersion: 2,
		}

		assert.ErrorIs(t, key.Validate(), domain.ErrInvalidKeyVersion)
	})

	t.Run("Error_MinDecryptionAboveLatest", func(t *testing.T) {
		key := &domain.TransitKey{
			Name:                 "broken",
			Versions:             map[uint]time.Time{1: time.Now()},
			LatestVersion:        1,
			MinDecryptionVersion: 2,
		}

		assert.ErrorIs(t, key.Validate(), domain.ErrInvalidKeyVersion)
	})

	t.Run("Error_NoVersions", func(t *testing.T) {
		key := &domain.TransitKey{Name: "empty"}

		assert.ErrorIs(t, key.Validate(), domain.ErrInvalidKeyVersion)
	})
}
