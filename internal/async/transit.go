package async

import (
	"context"

	transitDomain "github.com/allisson/vaultops/internal/transit/domain"
	transitUseCase "github.com/allisson/vaultops/internal/transit/usecase"
)

// Transit exposes the transit use case through futures.
type Transit struct {
	uc       transitUseCase.TransitUseCase
	executor *Executor
}

// NewTransit creates a non-blocking facade over uc.
func NewTransit(uc transitUseCase.TransitUseCase, executor *Executor) *Transit {
	return &Transit{uc: uc, executor: executor}
}

// GetKey completes empty when the key does not exist.
func (t *Transit) GetKey(ctx context.Context, name string) *Future[*transitDomain.TransitKey] {
	return SubmitOptional(ctx, t.executor, func(ctx context.Context) (*transitDomain.TransitKey, error) {
		return t.uc.GetKey(ctx, name)
	})
}

func (t *Transit) CreateKey(
	ctx context.Context,
	name string,
	req transitDomain.KeyCreationRequest,
) *Future[struct{}] {
	return Submit(ctx, t.executor, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, t.uc.CreateKey(ctx, name, req)
	})
}

func (t *Transit) ListKeys(ctx context.Context) *Future[[]string] {
	return Submit(ctx, t.executor, func(ctx context.Context) ([]string, error) {
		return t.uc.ListKeys(ctx)
	})
}

func (t *Transit) ConfigureKey(
	ctx context.Context,
	name string,
	cfg transitDomain.KeyConfiguration,
) *Future[struct{}] {
	return Submit(ctx, t.executor, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, t.uc.ConfigureKey(ctx, name, cfg)
	})
}

func (t *Transit) Rotate(ctx context.Context, name string) *Future[struct{}] {
	return Submit(ctx, t.executor, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, t.uc.Rotate(ctx, name)
	})
}

// DeleteKey fails with ErrDeletionNotAllowed unless the key was configured for deletion.
func (t *Transit) DeleteKey(ctx context.Context, name string) *Future[struct{}] {
	return Submit(ctx, t.executor, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, t.uc.DeleteKey(ctx, name)
	})
}

func (t *Transit) ExportKey(
	ctx context.Context,
	name string,
	exportType transitDomain.ExportKeyType,
) *Future[*transitDomain.RawTransitKey] {
	return Submit(ctx, t.executor, func(ctx context.Context) (*transitDomain.RawTransitKey, error) {
		return t.uc.ExportKey(ctx, name, exportType)
	})
}

func (t *Transit) Encrypt(
	ctx context.Context,
	name string,
	plaintext transitDomain.Plaintext,
) *Future[transitDomain.Ciphertext] {
	return Submit(ctx, t.executor, func(ctx context.Context) (transitDomain.Ciphertext, error) {
		return t.uc.Encrypt(ctx, name, plaintext)
	})
}

func (t *Transit) EncryptBatch(
	ctx context.Context,
	name string,
	plaintexts []transitDomain.Plaintext,
) *Future[[]transitDomain.EncryptionResult] {
	return Submit(ctx, t.executor, func(ctx context.Context) ([]transitDomain.EncryptionResult, error) {
		return t.uc.EncryptBatch(ctx, name, plaintexts)
	})
}

func (t *Transit) Decrypt(
	ctx context.Context,
	name string,
	ciphertext transitDomain.Ciphertext,
) *Future[transitDomain.Plaintext] {
	return Submit(ctx, t.executor, func(ctx context.Context) (transitDomain.Plaintext, error) {
		return t.uc.Decrypt(ctx, name, ciphertext)
	})
}

func (t *Transit) DecryptBatch(
	ctx context.Context,
	name string,
	ciphertexts []transitDomain.Ciphertext,
) *Future[[]transitDomain.DecryptionResult] {
	return Submit(ctx, t.executor, func(ctx context.Context) ([]transitDomain.DecryptionResult, error) {
		return t.uc.DecryptBatch(ctx, name, ciphertexts)
	})
}

func (t *Transit) Rewrap(
	ctx context.Context,
	name string,
	ciphertext transitDomain.Ciphertext,
) *Future[transitDomain.Ciphertext] {
	return Submit(ctx, t.executor, func(ctx context.Context) (transitDomain.Ciphertext, error) {
		return t.uc.Rewrap(ctx, name, ciphertext)
	})
}

func (t *Transit) RewrapBatch(
	ctx context.Context,
	name string,
	ciphertexts []transitDomain.Ciphertext,
) *Future[[]transitDomain.EncryptionResult] {
	return Submit(ctx, t.executor, func(ctx context.Context) ([]transitDomain.EncryptionResult, error) {
		return t.uc.RewrapBatch(ctx, name, ciphertexts)
	})
}

func (t *Transit) GetHmac(
	ctx context.Context,
	name string,
	req transitDomain.HmacRequest,
) *Future[transitDomain.Hmac] {
	return Submit(ctx, t.executor, func(ctx context.Context) (transitDomain.Hmac, error) {
		return t.uc.GetHmac(ctx, name, req)
	})
}

func (t *Transit) Sign(
	ctx context.Context,
	name string,
	req transitDomain.SignRequest,
) *Future[transitDomain.Signature] {
	return Submit(ctx, t.executor, func(ctx context.Context) (transitDomain.Signature, error) {
		return t.uc.Sign(ctx, name, req)
	})
}

// Verify completes with false for a signature that does not match.
func (t *Transit) Verify(
	ctx context.Context,
	name string,
	input transitDomain.Plaintext,
	signature transitDomain.Signature,
) *Future[bool] {
	return Submit(ctx, t.executor, func(ctx context.Context) (bool, error) {
		return t.uc.Verify(ctx, name, input, signature)
	})
}

func (t *Transit) VerifySignature(
	ctx context.Context,
	name string,
	req transitDomain.VerificationRequest,
) *Future[transitDomain.SignatureValidation] {
	return Submit(ctx, t.executor, func(ctx context.Context) (transitDomain.SignatureValidation, error) {
		return t.uc.VerifySignature(ctx, name, req)
	})
}
