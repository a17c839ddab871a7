package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/vaultops/internal/errors"
	transitDomain "github.com/allisson/vaultops/internal/transit/domain"
	"github.com/allisson/vaultops/internal/transit/usecase"
	"github.com/allisson/vaultops/internal/transport"
)

// scriptedTransport answers every request with the response returned by respond and
// records the requests it received.
type scriptedTransport struct {
	respond  func(req transport.Request) (*transport.Response, error)
	requests []transport.Request
}

func (s *scriptedTransport) Invoke(ctx context.Context, req transport.Request) (*transport.Response, error) {
	s.requests = append(s.requests, req)
	return s.respond(req)
}

func (s *scriptedTransport) paths() []string {
	paths := make([]string, len(s.requests))
	for i, req := range s.requests {
		paths[i] = req.Method + " " + req.Path
	}
	return paths
}

func answer(data map[string]any) func(transport.Request) (*transport.Response, error) {
	return func(transport.Request) (*transport.Response, error) {
		if data == nil {
			return nil, nil
		}
		return &transport.Response{Data: data}, nil
	}
}

func TestTransitUseCase_EncryptRequiresExistingKey(t *testing.T) {
	ctx := context.Background()

	t.Run("Error_EncryptWithUnknownKey", func(t *testing.T) {
		// Arrange
		tr := &scriptedTransport{respond: answer(nil)}
		uc := usecase.NewTransitUseCase(tr, "transit")

		// Act
		_, err := uc.Encrypt(ctx, "never-created", transitDomain.PlaintextOf("x"))

		// Assert
		assert.ErrorIs(t, err, transitDomain.ErrTransitKeyNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Equal(t, []string{"GET transit/keys/never-created"}, tr.paths())
	})

	t.Run("Error_EncryptBatchWithUnknownKey", func(t *testing.T) {
		tr := &scriptedTransport{respond: answer(nil)}
		uc := usecase.NewTransitUseCase(tr, "transit")

		_, err := uc.EncryptBatch(ctx, "never-created", []transitDomain.Plaintext{
			transitDomain.PlaintextOf("a"),
		})

		assert.ErrorIs(t, err, transitDomain.ErrTransitKeyNotFound)
		assert.Equal(t, []string{"GET transit/keys/never-created"}, tr.paths())
	})

	t.Run("Error_EncryptLeavesKeyAbsent", func(t *testing.T) {
		uc := newTransitUseCase(t)

		_, err := uc.Encrypt(ctx, "never-created", transitDomain.PlaintextOf("x"))
		require.ErrorIs(t, err, transitDomain.ErrTransitKeyNotFound)

		key, err := uc.GetKey(ctx, "never-created")
		require.NoError(t, err)
		assert.Nil(t, key)
	})
}

func TestTransitUseCase_DecryptResponseShape(t *testing.T) {
	ctx := context.Background()
	ciphertext := transitDomain.CiphertextOf("vault:v1:AAAA")

	t.Run("Error_NoData", func(t *testing.T) {
		uc := usecase.NewTransitUseCase(&scriptedTransport{respond: answer(nil)}, "transit")

		plaintext, err := uc.Decrypt(ctx, "payments", ciphertext)

		assert.ErrorIs(t, err, apperrors.ErrProtocol)
		assert.Equal(t, 0, plaintext.Len())
	})

	t.Run("Error_MissingPlaintextField", func(t *testing.T) {
		uc := usecase.NewTransitUseCase(&scriptedTransport{respond: answer(map[string]any{})}, "transit")

		_, err := uc.Decrypt(ctx, "payments", ciphertext)

		assert.ErrorIs(t, err, apperrors.ErrProtocol)
	})

	t.Run("Success_EmptyPlaintextField", func(t *testing.T) {
		uc := usecase.NewTransitUseCase(
			&scriptedTransport{respond: answer(map[string]any{"plaintext": ""})},
			"transit",
		)

		plaintext, err := uc.Decrypt(ctx, "payments", ciphertext)

		require.NoError(t, err)
		assert.Equal(t, 0, plaintext.Len())
		assert.NotNil(t, plaintext.Bytes())
	})

	t.Run("Success_BatchItemWithoutPlaintextFailsAlone", func(t *testing.T) {
		uc := usecase.NewTransitUseCase(&scriptedTransport{respond: answer(map[string]any{
			"batch_results": []any{
				map[string]any{"plaintext": "aGVsbG8="},
				map[string]any{},
			},
		})}, "transit")

		results, err := uc.DecryptBatch(ctx, "payments", []transitDomain.Ciphertext{ciphertext, ciphertext})

		require.NoError(t, err)
		require.Len(t, results, 2)
		value, err := results[0].GetAsString()
		require.NoError(t, err)
		assert.Equal(t, "hello", value)
		_, err = results[1].Get()
		assert.ErrorIs(t, err, apperrors.ErrProtocol)
	})
}
