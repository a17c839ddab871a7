// Package mocks provides testify mocks for the transit use case.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	transitDomain "github.com/allisson/vaultops/internal/transit/domain"
)

// MockTransitUseCase is a testify mock of usecase.TransitUseCase.
type MockTransitUseCase struct {
	mock.Mock
}

// NewMockTransitUseCase creates a mock that asserts its expectations when the test ends.
func NewMockTransitUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTransitUseCase {
	m := &MockTransitUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTransitUseCase) CreateKey(
	ctx context.Context,
	name string,
	req transitDomain.KeyCreationRequest,
) error {
	return m.Called(ctx, name, req).Error(0)
}

func (m *MockTransitUseCase) GetKey(ctx context.Context, name string) (*transitDomain.TransitKey, error) {
	args := m.Called(ctx, name)
	key, _ := args.Get(0).(*transitDomain.TransitKey)
	return key, args.Error(1)
}

func (m *MockTransitUseCase) ListKeys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	keys, _ := args.Get(0).([]string)
	return keys, args.Error(1)
}

func (m *MockTransitUseCase) ConfigureKey(
	ctx context.Context,
	name string,
	cfg transitDomain.KeyConfiguration,
) error {
	return m.Called(ctx, name, cfg).Error(0)
}

func (m *MockTransitUseCase) Rotate(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockTransitUseCase) DeleteKey(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockTransitUseCase) ExportKey(
	ctx context.Context,
	name string,
	exportType transitDomain.ExportKeyType,
) (*transitDomain.RawTransitKey, error) {
	args := m.Called(ctx, name, exportType)
	key, _ := args.Get(0).(*transitDomain.RawTransitKey)
	return key, args.Error(1)
}

func (m *MockTransitUseCase) Encrypt(
	ctx context.Context,
	name string,
	plaintext transitDomain.Plaintext,
) (transitDomain.Ciphertext, error) {
	args := m.Called(ctx, name, plaintext)
	ciphertext, _ := args.Get(0).(transitDomain.Ciphertext)
	return ciphertext, args.Error(1)
}

func (m *MockTransitUseCase) EncryptBatch(
	ctx context.Context,
	name string,
	plaintexts []transitDomain.Plaintext,
) ([]transitDomain.EncryptionResult, error) {
	args := m.Called(ctx, name, plaintexts)
	results, _ := args.Get(0).([]transitDomain.EncryptionResult)
	return results, args.Error(1)
}

func (m *MockTransitUseCase) Decrypt(
	ctx context.Context,
	name string,
	ciphertext transitDomain.Ciphertext,
) (transitDomain.Plaintext, error) {
	args := m.Called(ctx, name, ciphertext)
	plaintext, _ := args.Get(0).(transitDomain.Plaintext)
	return plaintext, args.Error(1)
}

func (m *MockTransitUseCase) DecryptBatch(
	ctx context.Context,
	name string,
	ciphertexts []transitDomain.Ciphertext,
) ([]transitDomain.DecryptionResult, error) {
	args := m.Called(ctx, name, ciphertexts)
	results, _ := args.Get(0).([]transitDomain.DecryptionResult)
	return results, args.Error(1)
}

func (m *MockTransitUseCase) Rewrap(
	ctx context.Context,
	name string,
	ciphertext transitDomain.Ciphertext,
) (transitDomain.Ciphertext, error) {
	args := m.Called(ctx, name, ciphertext)
	rewrapped, _ := args.Get(0).(transitDomain.Ciphertext)
	return rewrapped, args.Error(1)
}

func (m *MockTransitUseCase) RewrapBatch(
	ctx context.Context,
	name string,
	ciphertexts []transitDomain.Ciphertext,
) ([]transitDomain.EncryptionResult, error) {
	args := m.Called(ctx, name, ciphertexts)
	results, _ := args.Get(0).([]transitDomain.EncryptionResult)
	return results, args.Error(1)
}

func (m *MockTransitUseCase) GetHmac(
	ctx context.Context,
	name string,
	req transitDomain.HmacRequest,
) (transitDomain.Hmac, error) {
	args := m.Called(ctx, name, req)
	mac, _ := args.Get(0).(transitDomain.Hmac)
	return mac, args.Error(1)
}

func (m *MockTransitUseCase) Sign(
	ctx context.Context,
	name string,
	req transitDomain.SignRequest,
) (transitDomain.Signature, error) {
	args := m.Called(ctx, name, req)
	signature, _ := args.Get(0).(transitDomain.Signature)
	return signature, args.Error(1)
}

func (m *MockTransitUseCase) Verify(
	ctx context.Context,
	name string,
	input transitDomain.Plaintext,
	signature transitDomain.Signature,
) (bool, error) {
	args := m.Called(ctx, name, input, signature)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransitUseCase) VerifySignature(
	ctx context.Context,
	name string,
	req transitDomain.VerificationRequest,
) (transitDomain.SignatureValidation, error) {
	args := m.Called(ctx, name, req)
	result, _ := args.Get(0).(transitDomain.SignatureValidation)
	return result, args.Error(1)
}
