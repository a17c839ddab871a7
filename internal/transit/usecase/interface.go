package usecase

import (
	"context"

	transitDomain "github.com/allisson/vaultops/internal/transit/domain"
)

// TransitUseCase defines the client-side operations of the transit engine.
//
// Lookups that define "absent" as a valid outcome (GetKey) return a nil key and a nil
// error. Batch operations return one result per input, in input order; only whole-call
// failures (transport, ErrProtocol) are returned as errors.
type TransitUseCase interface {
	CreateKey(ctx context.Context, name string, req transitDomain.KeyCreationRequest) error
	GetKey(ctx context.Context, name string) (*transitDomain.TransitKey, error)
	ListKeys(ctx context.Context) ([]string, error)
	ConfigureKey(ctx context.Context, name string, cfg transitDomain.KeyConfiguration) error
	Rotate(ctx context.Context, name string) error
	DeleteKey(ctx context.Context, name string) error
	// ExportKey returns raw key material of an exportable key.
	//
	// Security Note: the result holds raw key material and must not be logged or persisted.
	ExportKey(
		ctx context.Context,
		name string,
		exportType transitDomain.ExportKeyType,
	) (*transitDomain.RawTransitKey, error)

	Encrypt(ctx context.Context, name string, plaintext transitDomain.Plaintext) (transitDomain.Ciphertext, error)
	EncryptBatch(
		ctx context.Context,
		name string,
		plaintexts []transitDomain.Plaintext,
	) ([]transitDomain.EncryptionResult, error)
	Decrypt(ctx context.Context, name string, ciphertext transitDomain.Ciphertext) (transitDomain.Plaintext, error)
	DecryptBatch(
		ctx context.Context,
		name string,
		ciphertexts []transitDomain.Ciphertext,
	) ([]transitDomain.DecryptionResult, error)
	Rewrap(ctx context.Context, name string, ciphertext transitDomain.Ciphertext) (transitDomain.Ciphertext, error)
	RewrapBatch(
		ctx context.Context,
		name string,
		ciphertexts []transitDomain.Ciphertext,
	) ([]transitDomain.EncryptionResult, error)

	GetHmac(ctx context.Context, name string, req transitDomain.HmacRequest) (transitDomain.Hmac, error)
	Sign(ctx context.Context, name string, req transitDomain.SignRequest) (transitDomain.Signature, error)
	Verify(
		ctx context.Context,
		name string,
		input transitDomain.Plaintext,
		signature transitDomain.Signature,
	) (bool, error)
	VerifySignature(
		ctx context.Context,
		name string,
		req transitDomain.VerificationRequest,
	) (transitDomain.SignatureValidation, error)
}
