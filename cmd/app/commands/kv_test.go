package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/vaultops/internal/errors"
	secretsDomain "github.com/allisson/vaultops/internal/secrets/domain"
	secretsUseCase "github.com/allisson/vaultops/internal/secrets/usecase"
	secretsMocks "github.com/allisson/vaultops/internal/secrets/usecase/mocks"
	"github.com/allisson/vaultops/internal/testutil"
)

func TestRunKVPut(t *testing.T) {
	ctx := context.Background()
	logger := discardLogger()
	data := map[string]any{"user": "admin"}
	meta := &secretsDomain.Metadata{Version: 3, CreatedAt: time.Now().UTC()}

	t.Run("Success_Unconditional", func(t *testing.T) {
		mockUseCase := secretsMocks.NewMockVersionedKVUseCase(t)
		mockUseCase.On("Put", ctx, "app/db", data).Return(meta, nil).Once()

		var out bytes.Buffer
		err := RunKVPut(ctx, mockUseCase, logger, &out, "app/db", data, -1, "text")

		require.NoError(t, err)
		assert.Equal(t, "Secret \"app/db\" written as version 3\n", out.String())
	})

	t.Run("Success_CheckAndSet", func(t *testing.T) {
		mockUseCase := secretsMocks.NewMockVersionedKVUseCase(t)
		mockUseCase.On("PutCAS", ctx, "app/db", data, secretsDomain.VersionOf(2)).Return(meta, nil).Once()

		var out bytes.Buffer
		err := RunKVPut(ctx, mockUseCase, logger, &out, "app/db", data, 2, "json")

		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, float64(3), decoded["version"])
		assert.Equal(t, "active", decoded["state"])
	})

	t.Run("Error_CasConflict", func(t *testing.T) {
		mockUseCase := secretsMocks.NewMockVersionedKVUseCase(t)
		mockUseCase.On("PutCAS", ctx, "app/db", data, secretsDomain.Unversioned()).
			Return(nil, secretsDomain.ErrCasConflict).Once()

		err := RunKVPut(ctx, mockUseCase, logger, &bytes.Buffer{}, "app/db", data, 0, "text")

		assert.ErrorIs(t, err, secretsDomain.ErrCasConflict)
	})

	t.Run("Error_InvalidCas", func(t *testing.T) {
		mockUseCase := secretsMocks.NewMockVersionedKVUseCase(t)

		err := RunKVPut(ctx, mockUseCase, logger, &bytes.Buffer{}, "app/db", data, -2, "text")

		assert.ErrorIs(t, err, secretsDomain.ErrInvalidVersion)
	})
}

func TestRunKVGet(t *testing.T) {
	ctx := context.Background()
	logger := discardLogger()

	t.Run("Success_CurrentSortedKeys", func(t *testing.T) {
		mockUseCase := secretsMocks.NewMockVersionedKVUseCase(t)
		secret := &secretsDomain.Versioned{
			Data:     map[string]any{"user": "admin", "password": "s3cr3t"},
			Metadata: secretsDomain.Metadata{Version: 1},
		}
		mockUseCase.On("Get", ctx, "app/db").Return(secret, nil).Once()

		var out bytes.Buffer
		err := RunKVGet(ctx, mockUseCase, logger, &out, "app/db", 0, "text")

		require.NoError(t, err)
		assert.Equal(t, "Version: 1 (active)\npassword=s3cr3t\nuser=admin\n", out.String())
	})

	t.Run("Success_SpecificVersionDeleted", func(t *testing.T) {
		mockUseCase := secretsMocks.NewMockVersionedKVUseCase(t)
		deletedAt := time.Now().UTC()
		secret := &secretsDomain.Versioned{Metadata: secretsDomain.Metadata{Version: 2, DeletedAt: &deletedAt}}
		mockUseCase.On("GetVersion", ctx, "app/db", secretsDomain.VersionOf(2)).Return(secret, nil).Once()

		var out bytes.Buffer
		err := RunKVGet(ctx, mockUseCase, logger, &out, "app/db", 2, "text")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Version: 2 (soft_deleted)")
		assert.Contains(t, out.String(), "No data")
	})

	t.Run("Error_Absent", func(t *testing.T) {
		mockUseCase := secretsMocks.NewMockVersionedKVUseCase(t)
		mockUseCase.On("Get", ctx, "app/none").Return(nil, nil).Once()

		err := RunKVGet(ctx, mockUseCase, logger, &bytes.Buffer{}, "app/none", 0, "text")

		assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestRunKVDelete(t *testing.T) {
	ctx := context.Background()
	logger := discardLogger()

	t.Run("Success_Current", func(t *testing.T) {
		mockUseCase := secretsMocks.NewMockVersionedKVUseCase(t)
		mockUseCase.On("Delete", ctx, "app/db").Return(nil).Once()

		var out bytes.Buffer
		err := RunKVDelete(ctx, mockUseCase, logger, &out, "app/db", nil, "text")

		require.NoError(t, err)
		assert.Equal(t, "Current version of \"app/db\" deleted\n", out.String())
	})

	t.Run("Success_Versions", func(t *testing.T) {
		mockUseCase := secretsMocks.NewMockVersionedKVUseCase(t)
		versions := []secretsDomain.Version{1, 2}
		mockUseCase.On("DeleteVersions", ctx, "app/db", versions).Return(nil).Once()

		var out bytes.Buffer
		err := RunKVDelete(ctx, mockUseCase, logger, &out, "app/db", versions, "json")

		require.NoError(t, err)
		assert.JSONEq(t, `{"path": "app/db", "action": "deleted", "versions": [1, 2]}`, out.String())
	})
}

func TestRunKVDestroy(t *testing.T) {
	ctx := context.Background()
	logger := discardLogger()

	t.Run("Error_NoVersions", func(t *testing.T) {
		mockUseCase := secretsMocks.NewMockVersionedKVUseCase(t)
		mockUseCase.On("Destroy", ctx, "app/db", []secretsDomain.Version(nil)).
			Return(secretsDomain.ErrInvalidVersion).Once()

		err := RunKVDestroy(ctx, mockUseCase, logger, &bytes.Buffer{}, "app/db", nil, "text")

		assert.ErrorIs(t, err, secretsDomain.ErrInvalidVersion)
	})
}

// TestKVCommands_AgainstSimulator runs the commands end to end over the wire.
func TestKVCommands_AgainstSimulator(t *testing.T) {
	ctx := context.Background()
	logger := discardLogger()
	vault := testutil.StartVault(t)
	uc := secretsUseCase.NewVersionedKVUseCase(vault.Transport, "secret")

	var out bytes.Buffer
	require.NoError(t, RunKVPut(ctx, uc, logger, &out, "app/db", map[string]any{"user": "v1"}, 0, "text"))
	require.NoError(t, RunKVPut(ctx, uc, logger, &out, "app/db", map[string]any{"user": "v2"}, 1, "text"))

	err := RunKVPut(ctx, uc, logger, &out, "app/db", map[string]any{"user": "stale"}, 1, "text")
	require.ErrorIs(t, err, secretsDomain.ErrCasConflict)

	require.NoError(t, RunKVDestroy(ctx, uc, logger, &out, "app/db", []secretsDomain.Version{1}, "text"))
	require.NoError(t, RunKVDelete(ctx, uc, logger, &out, "app/db", nil, "text"))

	out.Reset()
	require.NoError(t, RunKVMetadata(ctx, uc, logger, &out, "app/db", "text"))
	assert.Contains(t, out.String(), "Current Version: 2")
	assert.Contains(t, out.String(), "  1: destroyed")
	assert.Contains(t, out.String(), "  2: soft_deleted")

	require.NoError(t, RunKVUndelete(ctx, uc, logger, &out, "app/db", []secretsDomain.Version{2}, "text"))

	out.Reset()
	require.NoError(t, RunKVGet(ctx, uc, logger, &out, "app/db", 0, "text"))
	assert.Contains(t, out.String(), "user=v2")

	out.Reset()
	require.NoError(t, RunKVList(ctx, uc, logger, &out, "app/", "text"))
	assert.Equal(t, "db\n", out.String())

	err = RunKVMetadata(ctx, uc, logger, &bytes.Buffer{}, "app/none", "text")
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
}
