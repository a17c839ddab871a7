package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	transitDomain "github.com/allisson/vaultops/internal/transit/domain"
	"github.com/allisson/vaultops/internal/transit/usecase"
	usecaseMocks "github.com/allisson/vaultops/internal/transit/usecase/mocks"
)

// mockBusinessMetrics is a local mock for metrics.BusinessMetrics to avoid dependency issues.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

// mockBatchMetrics also counts batch item outcomes.
type mockBatchMetrics struct {
	mockBusinessMetrics
}

func (m *mockBatchMetrics) RecordBatchItems(ctx context.Context, domain, operation string, succeeded, failed int) {
	m.Called(ctx, domain, operation, succeeded, failed)
}

func expectMetrics(m *mockBusinessMetrics, ctx context.Context, operation, status string) {
	m.On("RecordOperation", ctx, "transit", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "transit", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestTransitUseCaseWithMetrics_CreateKey(t *testing.T) {
	ctx := context.Background()
	req := transitDomain.KeyCreationRequest{Type: transitDomain.KeyTypeED25519}

	t.Run("CreateKey_Success", func(t *testing.T) {
		// Arrange
		mockNext := usecaseMocks.NewMockTransitUseCase(t)
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewTransitUseCaseWithMetrics(mockNext, mockMetrics)

		mockNext.On("CreateKey", ctx, "signer", req).Return(nil).Once()
		expectMetrics(mockMetrics, ctx, "transit_key_create", "success")

		// Act
		err := uc.CreateKey(ctx, "signer", req)

		// Assert
		assert.NoError(t, err)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("CreateKey_Error", func(t *testing.T) {
		// Arrange
		mockNext := usecaseMocks.NewMockTransitUseCase(t)
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewTransitUseCaseWithMetrics(mockNext, mockMetrics)

		mockNext.On("CreateKey", ctx, "signer", req).Return(transitDomain.ErrTransitKeyAlreadyExists).Once()
		expectMetrics(mockMetrics, ctx, "transit_key_create", "error")

		// Act
		err := uc.CreateKey(ctx, "signer", req)

		// Assert
		assert.ErrorIs(t, err, transitDomain.ErrTransitKeyAlreadyExists)
		mockMetrics.AssertExpectations(t)
	})
}

func TestTransitUseCaseWithMetrics_Encrypt(t *testing.T) {
	ctx := context.Background()
	plaintext := transitDomain.PlaintextOf("hello")

	t.Run("Encrypt_Success", func(t *testing.T) {
		mockNext := usecaseMocks.NewMockTransitUseCase(t)
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewTransitUseCaseWithMetrics(mockNext, mockMetrics)
		expected := transitDomain.CiphertextOf("vault:v1:abc")

		mockNext.On("Encrypt", ctx, "payments", plaintext).Return(expected, nil).Once()
		expectMetrics(mockMetrics, ctx, "transit_encrypt", "success")

		result, err := uc.Encrypt(ctx, "payments", plaintext)

		assert.NoError(t, err)
		assert.Equal(t, expected, result)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Encrypt_Error", func(t *testing.T) {
		mockNext := usecaseMocks.NewMockTransitUseCase(t)
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewTransitUseCaseWithMetrics(mockNext, mockMetrics)

		mockNext.On("Encrypt", ctx, "payments", plaintext).
			Return(transitDomain.Ciphertext{}, errors.New("encrypt failed")).
			Once()
		expectMetrics(mockMetrics, ctx, "transit_encrypt", "error")

		_, err := uc.Encrypt(ctx, "payments", plaintext)

		assert.Error(t, err)
		mockMetrics.AssertExpectations(t)
	})
}

func TestTransitUseCaseWithMetrics_DecryptBatch(t *testing.T) {
	ctx := context.Background()
	ciphertexts := []transitDomain.Ciphertext{transitDomain.CiphertextOf("vault:v1:abc")}

	t.Run("DecryptBatch_ItemFailureIsStillSuccess", func(t *testing.T) {
		// Arrange
		mockNext := usecaseMocks.NewMockTransitUseCase(t)
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewTransitUseCaseWithMetrics(mockNext, mockMetrics)
		results := []transitDomain.DecryptionResult{
			{BatchResult: transitDomain.Failure[transitDomain.Plaintext](0, transitDomain.ErrDecryptionFailed)},
		}

		mockNext.On("DecryptBatch", ctx, "payments", ciphertexts).Return(results, nil).Once()
		expectMetrics(mockMetrics, ctx, "transit_decrypt_batch", "success")

		// Act
		got, err := uc.DecryptBatch(ctx, "payments", ciphertexts)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, results, got)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("DecryptBatch_ItemOutcomesRecorded", func(t *testing.T) {
		// Arrange
		mockNext := usecaseMocks.NewMockTransitUseCase(t)
		mockMetrics := &mockBatchMetrics{}
		uc := usecase.NewTransitUseCaseWithMetrics(mockNext, mockMetrics)
		results := []transitDomain.DecryptionResult{
			{BatchResult: transitDomain.Success(0, transitDomain.PlaintextOf("a"))},
			{BatchResult: transitDomain.Failure[transitDomain.Plaintext](1, transitDomain.ErrDecryptionFailed)},
			{BatchResult: transitDomain.Success(2, transitDomain.PlaintextOf("c"))},
		}

		mockNext.On("DecryptBatch", ctx, "payments", ciphertexts).Return(results, nil).Once()
		expectMetrics(&mockMetrics.mockBusinessMetrics, ctx, "transit_decrypt_batch", "success")
		mockMetrics.On("RecordBatchItems", ctx, "transit", "transit_decrypt_batch", 2, 1).Return().Once()

		// Act
		_, err := uc.DecryptBatch(ctx, "payments", ciphertexts)

		// Assert
		assert.NoError(t, err)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("RewrapBatch_CallErrorRecordsNoItems", func(t *testing.T) {
		// Arrange
		mockNext := usecaseMocks.NewMockTransitUseCase(t)
		mockMetrics := &mockBatchMetrics{}
		uc := usecase.NewTransitUseCaseWithMetrics(mockNext, mockMetrics)

		mockNext.On("RewrapBatch", ctx, "payments", ciphertexts).
			Return([]transitDomain.EncryptionResult(nil), transitDomain.ErrTransitKeyNotFound).
			Once()
		expectMetrics(&mockMetrics.mockBusinessMetrics, ctx, "transit_rewrap_batch", "error")

		// Act
		_, err := uc.RewrapBatch(ctx, "payments", ciphertexts)

		// Assert
		assert.ErrorIs(t, err, transitDomain.ErrTransitKeyNotFound)
		mockMetrics.AssertNotCalled(
			t, "RecordBatchItems", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		)
		mockMetrics.AssertExpectations(t)
	})
}

func TestTransitUseCaseWithMetrics_KeyLifecycle(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		operation string
		arrange   func(m *usecaseMocks.MockTransitUseCase)
		act       func(uc usecase.TransitUseCase) error
	}{
		{
			operation: "transit_key_rotate",
			arrange:   func(m *usecaseMocks.MockTransitUseCase) { m.On("Rotate", ctx, "k").Return(nil).Once() },
			act:       func(uc usecase.TransitUseCase) error { return uc.Rotate(ctx, "k") },
		},
		{
			operation: "transit_key_delete",
			arrange:   func(m *usecaseMocks.MockTransitUseCase) { m.On("DeleteKey", ctx, "k").Return(nil).Once() },
			act:       func(uc usecase.TransitUseCase) error { return uc.DeleteKey(ctx, "k") },
		},
		{
			operation: "transit_key_list",
			arrange:   func(m *usecaseMocks.MockTransitUseCase) { m.On("ListKeys", ctx).Return([]string{"k"}, nil).Once() },
			act: func(uc usecase.TransitUseCase) error {
				_, err := uc.ListKeys(ctx)
				return err
			},
		},
		{
			operation: "transit_key_get",
			arrange: func(m *usecaseMocks.MockTransitUseCase) {
				m.On("GetKey", ctx, "k").Return(nil, nil).Once()
			},
			act: func(uc usecase.TransitUseCase) error {
				_, err := uc.GetKey(ctx, "k")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.operation, func(t *testing.T) {
			mockNext := usecaseMocks.NewMockTransitUseCase(t)
			mockMetrics := &mockBusinessMetrics{}
			uc := usecase.NewTransitUseCaseWithMetrics(mockNext, mockMetrics)
			tt.arrange(mockNext)
			expectMetrics(mockMetrics, ctx, tt.operation, "success")

			assert.NoError(t, tt.act(uc))
			mockMetrics.AssertExpectations(t)
		})
	}
}
