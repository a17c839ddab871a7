// Package mocks provides testify mocks for the versioned secret use case.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	secretsDomain "github.com/allisson/vaultops/internal/secrets/domain"
)

// MockVersionedKVUseCase is a testify mock of usecase.VersionedKVUseCase.
type MockVersionedKVUseCase struct {
	mock.Mock
}

// NewMockVersionedKVUseCase creates a mock that asserts its expectations when the test ends.
func NewMockVersionedKVUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockVersionedKVUseCase {
	m := &MockVersionedKVUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockVersionedKVUseCase) Put(
	ctx context.Context,
	path string,
	data map[string]any,
) (*secretsDomain.Metadata, error) {
	args := m.Called(ctx, path, data)
	meta, _ := args.Get(0).(*secretsDomain.Metadata)
	return meta, args.Error(1)
}

func (m *MockVersionedKVUseCase) PutCAS(
	ctx context.Context,
	path string,
	data map[string]any,
	cas secretsDomain.Version,
) (*secretsDomain.Metadata, error) {
	args := m.Called(ctx, path, data, cas)
	meta, _ := args.Get(0).(*secretsDomain.Metadata)
	return meta, args.Error(1)
}

func (m *MockVersionedKVUseCase) Get(ctx context.Context, path string) (*secretsDomain.Versioned, error) {
	args := m.Called(ctx, path)
	versioned, _ := args.Get(0).(*secretsDomain.Versioned)
	return versioned, args.Error(1)
}

func (m *MockVersionedKVUseCase) GetVersion(
	ctx context.Context,
	path string,
	version secretsDomain.Version,
) (*secretsDomain.Versioned, error) {
	args := m.Called(ctx, path, version)
	versioned, _ := args.Get(0).(*secretsDomain.Versioned)
	return versioned, args.Error(1)
}

func (m *MockVersionedKVUseCase) Delete(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *MockVersionedKVUseCase) DeleteVersions(
	ctx context.Context,
	path string,
	versions ...secretsDomain.Version,
) error {
	return m.Called(ctx, path, versions).Error(0)
}

func (m *MockVersionedKVUseCase) Undelete(ctx context.Context, path string, versions ...secretsDomain.Version) error {
	return m.Called(ctx, path, versions).Error(0)
}

func (m *MockVersionedKVUseCase) Destroy(ctx context.Context, path string, versions ...secretsDomain.Version) error {
	return m.Called(ctx, path, versions).Error(0)
}

func (m *MockVersionedKVUseCase) List(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	keys, _ := args.Get(0).([]string)
	return keys, args.Error(1)
}

func (m *MockVersionedKVUseCase) GetMetadata(
	ctx context.Context,
	path string,
) (*secretsDomain.SecretMetadata, error) {
	args := m.Called(ctx, path)
	meta, _ := args.Get(0).(*secretsDomain.SecretMetadata)
	return meta, args.Error(1)
}
