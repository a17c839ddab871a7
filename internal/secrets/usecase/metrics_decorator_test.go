package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/vaultops/internal/metrics"
	secretsDomain "github.com/allisson/vaultops/internal/secrets/domain"
	secretsUsecaseMocks "github.com/allisson/vaultops/internal/secrets/usecase/mocks"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
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

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func (m *mockBusinessMetrics) expect(ctx context.Context, operation, status string) {
	m.On("RecordOperation", ctx, "kv", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "kv", operation, mock.AnythingOfType("time.Duration"), status).Return().Once()
}

// TestNewVersionedKVUseCaseWithMetrics tests the metrics decorator constructor.
func TestNewVersionedKVUseCaseWithMetrics(t *testing.T) {
	t.Parallel()

	mockUseCase := secretsUsecaseMocks.NewMockVersionedKVUseCase(t)
	mockMetrics := &mockBusinessMetrics{}

	decorator := NewVersionedKVUseCaseWithMetrics(mockUseCase, mockMetrics)

	assert.NotNil(t, decorator)
	assert.Implements(t, (*VersionedKVUseCase)(nil), decorator)
}

// TestMetricsDecorator_PutCAS tests the PutCAS method with metrics.
func TestMetricsDecorator_PutCAS(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	data := map[string]any{"password": "s3cr3t"}

	t.Run("Success_RecordsSuccessMetrics", func(t *testing.T) {
		t.Parallel()
		// Setup mocks
		mockUseCase := secretsUsecaseMocks.NewMockVersionedKVUseCase(t)
		mockMetrics := &mockBusinessMetrics{}
		expected := &secretsDomain.Metadata{Version: 1, CreatedAt: time.Now().UTC()}

		// Setup expectations
		mockUseCase.On("PutCAS", ctx, "app/db", data, secretsDomain.Unversioned()).Return(expected, nil).Once()
		mockMetrics.expect(ctx, "kv_put_cas", "success")

		// Execute
		decorator := NewVersionedKVUseCaseWithMetrics(mockUseCase, mockMetrics)
		meta, err := decorator.PutCAS(ctx, "app/db", data, secretsDomain.Unversioned())

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, expected, meta)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		t.Parallel()
		// Setup mocks
		mockUseCase := secretsUsecaseMocks.NewMockVersionedKVUseCase(t)
		mockMetrics := &mockBusinessMetrics{}

		// Setup expectations
		mockUseCase.On("PutCAS", ctx, "app/db", data, secretsDomain.VersionOf(3)).
			Return(nil, secretsDomain.ErrCasConflict).
			Once()
		mockMetrics.expect(ctx, "kv_put_cas", "error")

		// Execute
		decorator := NewVersionedKVUseCaseWithMetrics(mockUseCase, mockMetrics)
		meta, err := decorator.PutCAS(ctx, "app/db", data, secretsDomain.VersionOf(3))

		// Assert
		assert.Nil(t, meta)
		assert.ErrorIs(t, err, secretsDomain.ErrCasConflict)
		mockMetrics.AssertExpectations(t)
	})
}

// TestMetricsDecorator_Get tests the Get method with metrics.
func TestMetricsDecorator_Get(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Success_AbsentSecretIsNotAnError", func(t *testing.T) {
		t.Parallel()
		mockUseCase := secretsUsecaseMocks.NewMockVersionedKVUseCase(t)
		mockMetrics := &mockBusinessMetrics{}

		mockUseCase.On("Get", ctx, "missing").Return(nil, nil).Once()
		mockMetrics.expect(ctx, "kv_get", "success")

		decorator := NewVersionedKVUseCaseWithMetrics(mockUseCase, mockMetrics)
		versioned, err := decorator.Get(ctx, "missing")

		assert.NoError(t, err)
		assert.Nil(t, versioned)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		t.Parallel()
		mockUseCase := secretsUsecaseMocks.NewMockVersionedKVUseCase(t)
		mockMetrics := &mockBusinessMetrics{}
		expectedErr := errors.New("connection refused")

		mockUseCase.On("Get", ctx, "app/db").Return(nil, expectedErr).Once()
		mockMetrics.expect(ctx, "kv_get", "error")

		decorator := NewVersionedKVUseCaseWithMetrics(mockUseCase, mockMetrics)
		_, err := decorator.Get(ctx, "app/db")

		assert.Equal(t, expectedErr, err)
		mockMetrics.AssertExpectations(t)
	})
}

// TestMetricsDecorator_VersionOperations covers the remaining operations.
func TestMetricsDecorator_VersionOperations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	v1 := secretsDomain.VersionOf(1)
	v2 := secretsDomain.VersionOf(2)

	tests := []struct {
		name      string
		operation string
		setup     func(m *secretsUsecaseMocks.MockVersionedKVUseCase)
		call      func(uc VersionedKVUseCase) error
	}{
		{
			name:      "Put",
			operation: "kv_put",
			setup: func(m *secretsUsecaseMocks.MockVersionedKVUseCase) {
				m.On("Put", ctx, "a", map[string]any{"k": "v"}).Return(&secretsDomain.Metadata{Version: 4}, nil)
			},
			call: func(uc VersionedKVUseCase) error {
				_, err := uc.Put(ctx, "a", map[string]any{"k": "v"})
				return err
			},
		},
		{
			name:      "GetVersion",
			operation: "kv_get_version",
			setup: func(m *secretsUsecaseMocks.MockVersionedKVUseCase) {
				m.On("GetVersion", ctx, "a", v2).Return(&secretsDomain.Versioned{}, nil)
			},
			call: func(uc VersionedKVUseCase) error {
				_, err := uc.GetVersion(ctx, "a", v2)
				return err
			},
		},
		{
			name:      "Delete",
			operation: "kv_delete",
			setup: func(m *secretsUsecaseMocks.MockVersionedKVUseCase) {
				m.On("Delete", ctx, "a").Return(nil)
			},
			call: func(uc VersionedKVUseCase) error { return uc.Delete(ctx, "a") },
		},
		{
			name:      "DeleteVersions",
			operation: "kv_delete_versions",
			setup: func(m *secretsUsecaseMocks.MockVersionedKVUseCase) {
				m.On("DeleteVersions", ctx, "a", []secretsDomain.Version{v1, v2}).Return(nil)
			},
			call: func(uc VersionedKVUseCase) error { return uc.DeleteVersions(ctx, "a", v1, v2) },
		},
		{
			name:      "Undelete",
			operation: "kv_undelete",
			setup: func(m *secretsUsecaseMocks.MockVersionedKVUseCase) {
				m.On("Undelete", ctx, "a", []secretsDomain.Version{v1}).Return(nil)
			},
			call: func(uc VersionedKVUseCase) error { return uc.Undelete(ctx, "a", v1) },
		},
		{
			name:      "Destroy",
			operation: "kv_destroy",
			setup: func(m *secretsUsecaseMocks.MockVersionedKVUseCase) {
				m.On("Destroy", ctx, "a", []secretsDomain.Version{v2}).Return(nil)
			},
			call: func(uc VersionedKVUseCase) error { return uc.Destroy(ctx, "a", v2) },
		},
		{
			name:      "List",
			operation: "kv_list",
			setup: func(m *secretsUsecaseMocks.MockVersionedKVUseCase) {
				m.On("List", ctx, "app").Return([]string{"db", "cache/"}, nil)
			},
			call: func(uc VersionedKVUseCase) error {
				_, err := uc.List(ctx, "app")
				return err
			},
		},
		{
			name:      "GetMetadata",
			operation: "kv_metadata",
			setup: func(m *secretsUsecaseMocks.MockVersionedKVUseCase) {
				m.On("GetMetadata", ctx, "a").Return(&secretsDomain.SecretMetadata{Path: "a"}, nil)
			},
			call: func(uc VersionedKVUseCase) error {
				_, err := uc.GetMetadata(ctx, "a")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run("Success_"+tt.name, func(t *testing.T) {
			t.Parallel()
			mockUseCase := secretsUsecaseMocks.NewMockVersionedKVUseCase(t)
			mockMetrics := &mockBusinessMetrics{}
			tt.setup(mockUseCase)
			mockMetrics.expect(ctx, tt.operation, "success")

			err := tt.call(NewVersionedKVUseCaseWithMetrics(mockUseCase, mockMetrics))

			assert.NoError(t, err)
			mockMetrics.AssertExpectations(t)
		})
	}
}
