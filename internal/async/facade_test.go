package async

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	secretsDomain "github.com/allisson/vaultops/internal/secrets/domain"
	secretsUseCase "github.com/allisson/vaultops/internal/secrets/usecase"
	secretsMocks "github.com/allisson/vaultops/internal/secrets/usecase/mocks"
	"github.com/allisson/vaultops/internal/testutil"
	transitDomain "github.com/allisson/vaultops/internal/transit/domain"
	transitUseCase "github.com/allisson/vaultops/internal/transit/usecase"
	transitMocks "github.com/allisson/vaultops/internal/transit/usecase/mocks"
)

func TestTransit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Encrypt", func(t *testing.T) {
		// Arrange
		executor := NewExecutor(4, nil)
		defer executor.Close()
		uc := transitMocks.NewMockTransitUseCase(t)
		plaintext := transitDomain.PlaintextOf("hello")
		ciphertext := transitDomain.CiphertextOf("vault:v1:abc")
		uc.On("Encrypt", mock.Anything, "payments", plaintext).Return(ciphertext, nil).Once()

		// Act
		value, found, err := NewTransit(uc, executor).Encrypt(ctx, "payments", plaintext).Wait(ctx)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "vault:v1:abc", value.String())
	})

	t.Run("Success_GetKeyAbsentCompletesEmpty", func(t *testing.T) {
		executor := NewExecutor(4, nil)
		defer executor.Close()
		uc := transitMocks.NewMockTransitUseCase(t)
		uc.On("GetKey", mock.Anything, "missing").Return(nil, nil).Once()

		key, found, err := NewTransit(uc, executor).GetKey(ctx, "missing").Wait(ctx)

		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, key)
	})

	t.Run("Error_SignCapability", func(t *testing.T) {
		executor := NewExecutor(4, nil)
		defer executor.Close()
		uc := transitMocks.NewMockTransitUseCase(t)
		req := transitDomain.SignRequest{Input: transitDomain.PlaintextOf("x")}
		uc.On("Sign", mock.Anything, "payments", req).Return(transitDomain.Signature(""), transitDomain.ErrCapability).Once()

		_, _, err := NewTransit(uc, executor).Sign(ctx, "payments", req).Wait(ctx)

		assert.ErrorIs(t, err, transitDomain.ErrCapability)
	})
}

func TestKV(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Get", func(t *testing.T) {
		executor := NewExecutor(4, nil)
		defer executor.Close()
		uc := secretsMocks.NewMockVersionedKVUseCase(t)
		secret := &secretsDomain.Versioned{
			Data:     map[string]any{"k": "v"},
			Metadata: secretsDomain.Metadata{Version: 3},
		}
		uc.On("Get", mock.Anything, "app/db").Return(secret, nil).Once()

		value, found, err := NewKV(uc, executor).Get(ctx, "app/db").Wait(ctx)

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, uint(3), value.Metadata.Version)
	})

	t.Run("Success_GetAbsentCompletesEmpty", func(t *testing.T) {
		executor := NewExecutor(4, nil)
		defer executor.Close()
		uc := secretsMocks.NewMockVersionedKVUseCase(t)
		uc.On("Get", mock.Anything, "app/db").Return(nil, nil).Once()

		_, found, err := NewKV(uc, executor).Get(ctx, "app/db").Wait(ctx)

		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Error_PutCASConflictIsNotRetried", func(t *testing.T) {
		executor := NewExecutor(4, nil)
		defer executor.Close()
		uc := secretsMocks.NewMockVersionedKVUseCase(t)
		data := map[string]any{"k": "v"}
		uc.On("PutCAS", mock.Anything, "app/db", data, secretsDomain.Unversioned()).
			Return(nil, secretsDomain.ErrCasConflict).Once()

		_, _, err := NewKV(uc, executor).PutCAS(ctx, "app/db", data, secretsDomain.Unversioned()).Wait(ctx)

		assert.ErrorIs(t, err, secretsDomain.ErrCasConflict)
	})

	t.Run("Success_Delete", func(t *testing.T) {
		executor := NewExecutor(4, nil)
		defer executor.Close()
		uc := secretsMocks.NewMockVersionedKVUseCase(t)
		uc.On("Delete", mock.Anything, "app/db").Return(nil).Once()

		_, found, err := NewKV(uc, executor).Delete(ctx, "app/db").Wait(ctx)

		require.NoError(t, err)
		assert.True(t, found)
	})
}

func TestTransit_MockedOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ListKeys", func(t *testing.T) {
		executor := NewExecutor(4, nil)
		defer executor.Close()
		uc := transitMocks.NewMockTransitUseCase(t)
		uc.On("ListKeys", mock.Anything).Return([]string{"a", "b"}, nil).Once()

		keys, found, err := NewTransit(uc, executor).ListKeys(ctx).Wait(ctx)

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []string{"a", "b"}, keys)
	})

	t.Run("Error_DeleteKeyNotAllowed", func(t *testing.T) {
		executor := NewExecutor(4, nil)
		defer executor.Close()
		uc := transitMocks.NewMockTransitUseCase(t)
		uc.On("DeleteKey", mock.Anything, "payments").Return(transitDomain.ErrDeletionNotAllowed).Once()

		_, _, err := NewTransit(uc, executor).DeleteKey(ctx, "payments").Wait(ctx)

		assert.ErrorIs(t, err, transitDomain.ErrDeletionNotAllowed)
	})

	t.Run("Error_ExportKeyNotAllowed", func(t *testing.T) {
		executor := NewExecutor(4, nil)
		defer executor.Close()
		uc := transitMocks.NewMockTransitUseCase(t)
		uc.On("ExportKey", mock.Anything, "payments", transitDomain.ExportEncryptionKey).
			Return(nil, transitDomain.ErrExportNotAllowed).Once()

		_, _, err := NewTransit(uc, executor).ExportKey(ctx, "payments", transitDomain.ExportEncryptionKey).Wait(ctx)

		assert.ErrorIs(t, err, transitDomain.ErrExportNotAllowed)
	})

	t.Run("Success_VerifyMismatchIsFalse", func(t *testing.T) {
		executor := NewExecutor(4, nil)
		defer executor.Close()
		uc := transitMocks.NewMockTransitUseCase(t)
		input := transitDomain.PlaintextOf("x")
		signature := transitDomain.Signature("vault:v1:sig")
		uc.On("Verify", mock.Anything, "signer", input, signature).Return(false, nil).Once()

		valid, found, err := NewTransit(uc, executor).Verify(ctx, "signer", input, signature).Wait(ctx)

		require.NoError(t, err)
		assert.True(t, found)
		assert.False(t, valid)
	})
}

func TestTransit_LifecycleAndBatches(t *testing.T) {
	// Arrange
	ctx := context.Background()
	vault := testutil.StartVault(t)
	executor := NewExecutor(4, nil)
	defer executor.Close()
	transit := NewTransit(transitUseCase.NewTransitUseCase(vault.Transport, "transit"), executor)

	_, _, err := transit.CreateKey(ctx, "orders", transitDomain.KeyCreationRequest{}).Wait(ctx)
	require.NoError(t, err)

	t.Run("Error_CreateExistingKey", func(t *testing.T) {
		_, _, err := transit.CreateKey(ctx, "orders", transitDomain.KeyCreationRequest{}).Wait(ctx)

		assert.ErrorIs(t, err, transitDomain.ErrTransitKeyAlreadyExists)
	})

	t.Run("Error_EncryptWithUnknownKey", func(t *testing.T) {
		_, _, err := transit.Encrypt(ctx, "never-created", transitDomain.PlaintextOf("x")).Wait(ctx)

		assert.ErrorIs(t, err, transitDomain.ErrTransitKeyNotFound)
	})

	t.Run("Success_RotateAndRewrapBatch", func(t *testing.T) {
		// Act
		encrypted, _, err := transit.EncryptBatch(ctx, "orders", []transitDomain.Plaintext{
			transitDomain.PlaintextOf("one"),
			transitDomain.EmptyPlaintext(),
		}).Wait(ctx)
		require.NoError(t, err)
		_, _, err = transit.Rotate(ctx, "orders").Wait(ctx)
		require.NoError(t, err)

		ciphertexts := make([]transitDomain.Ciphertext, len(encrypted))
		for i, result := range encrypted {
			ciphertexts[i], err = result.Get()
			require.NoError(t, err)
		}
		rewrapped, _, err := transit.RewrapBatch(ctx, "orders", ciphertexts).Wait(ctx)
		require.NoError(t, err)

		// Assert
		require.Len(t, rewrapped, 2)
		for _, result := range rewrapped {
			ciphertext, err := result.Get()
			require.NoError(t, err)
			version, err := ciphertext.KeyVersion()
			require.NoError(t, err)
			assert.Equal(t, uint(2), version)
		}

		decrypted, _, err := transit.DecryptBatch(ctx, "orders", []transitDomain.Ciphertext{
			mustGet(t, rewrapped[0]),
			mustGet(t, rewrapped[1]),
		}).Wait(ctx)
		require.NoError(t, err)
		first, err := decrypted[0].GetAsString()
		require.NoError(t, err)
		assert.Equal(t, "one", first)
		second, err := decrypted[1].GetAsString()
		require.NoError(t, err)
		assert.Empty(t, second)
	})

	t.Run("Success_Hmac", func(t *testing.T) {
		mac, found, err := transit.GetHmac(ctx, "orders", transitDomain.HmacRequest{
			Input:     transitDomain.PlaintextOf("payload"),
			Algorithm: transitDomain.HashSHA2256,
		}).Wait(ctx)

		require.NoError(t, err)
		assert.True(t, found)
		assert.Contains(t, string(mac), "vault:v2:")
	})

	t.Run("Success_ConfigureThenDelete", func(t *testing.T) {
		_, _, err := transit.DeleteKey(ctx, "orders").Wait(ctx)
		require.ErrorIs(t, err, transitDomain.ErrDeletionNotAllowed)

		allowed := true
		_, _, err = transit.ConfigureKey(ctx, "orders", transitDomain.KeyConfiguration{DeletionAllowed: &allowed}).Wait(ctx)
		require.NoError(t, err)
		_, _, err = transit.DeleteKey(ctx, "orders").Wait(ctx)
		require.NoError(t, err)

		_, found, err := transit.GetKey(ctx, "orders").Wait(ctx)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func mustGet(t *testing.T, result transitDomain.EncryptionResult) transitDomain.Ciphertext {
	t.Helper()
	ciphertext, err := result.Get()
	require.NoError(t, err)
	return ciphertext
}

func TestKV_VersionLifecycle(t *testing.T) {
	// Arrange
	ctx := context.Background()
	vault := testutil.StartVault(t)
	executor := NewExecutor(4, nil)
	defer executor.Close()
	kv := NewKV(secretsUseCase.NewVersionedKVUseCase(vault.Transport, "secret"), executor)

	for _, value := range []string{"v1", "v2", "v3"} {
		_, _, err := kv.Put(ctx, "app/db", map[string]any{"password": value}).Wait(ctx)
		require.NoError(t, err)
	}

	state := func(t *testing.T, version uint) secretsDomain.VersionState {
		t.Helper()
		meta, found, err := kv.GetMetadata(ctx, "app/db").Wait(ctx)
		require.NoError(t, err)
		require.True(t, found)
		return meta.Versions[version].State()
	}

	// Act & Assert
	_, _, err := kv.DeleteVersions(ctx, "app/db", secretsDomain.VersionOf(1), secretsDomain.VersionOf(2)).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, secretsDomain.StateSoftDeleted, state(t, 1))
	assert.Equal(t, secretsDomain.StateSoftDeleted, state(t, 2))
	assert.Equal(t, secretsDomain.StateActive, state(t, 3))

	_, _, err = kv.Destroy(ctx, "app/db", secretsDomain.VersionOf(2)).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, secretsDomain.StateDestroyed, state(t, 2))

	_, _, err = kv.Undelete(ctx, "app/db", secretsDomain.VersionOf(1), secretsDomain.VersionOf(2)).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, secretsDomain.StateActive, state(t, 1))
	assert.Equal(t, secretsDomain.StateDestroyed, state(t, 2))

	restored, found, err := kv.GetVersion(ctx, "app/db", secretsDomain.VersionOf(1)).Wait(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "v1", restored.Data["password"])
}

func TestKV_MockedVersionOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("Error_DestroyInvalidVersion", func(t *testing.T) {
		executor := NewExecutor(4, nil)
		defer executor.Close()
		uc := secretsMocks.NewMockVersionedKVUseCase(t)
		versions := []secretsDomain.Version{secretsDomain.Unversioned()}
		uc.On("Destroy", mock.Anything, "app/db", versions).Return(secretsDomain.ErrInvalidVersion).Once()

		_, _, err := NewKV(uc, executor).Destroy(ctx, "app/db", versions...).Wait(ctx)

		assert.ErrorIs(t, err, secretsDomain.ErrInvalidVersion)
	})
}
