package usecase

import (
	"context"
	"time"

	"github.com/allisson/vaultops/internal/metrics"
	transitDomain "github.com/allisson/vaultops/internal/transit/domain"
)

// transitUseCaseWithMetrics decorates TransitUseCase with metrics instrumentation.
type transitUseCaseWithMetrics struct {
	next    TransitUseCase
	metrics metrics.BusinessMetrics
}

// NewTransitUseCaseWithMetrics wraps a TransitUseCase with metrics recording.
func NewTransitUseCaseWithMetrics(useCase TransitUseCase, m metrics.BusinessMetrics) TransitUseCase {
	return &transitUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (t *transitUseCaseWithMetrics) observe(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, t.metrics, "transit", operation, start, err)
}

type outcome interface {
	Successful() bool
}

// observeBatch records the call and, when it completed, the outcome of each item.
func observeBatch[R outcome](
	ctx context.Context,
	t *transitUseCaseWithMetrics,
	operation string,
	start time.Time,
	results []R,
	err error,
) {
	t.observe(ctx, operation, start, err)
	if err != nil {
		return
	}
	failed := 0
	for _, result := range results {
		if !result.Successful() {
			failed++
		}
	}
	metrics.ObserveBatchItems(ctx, t.metrics, "transit", operation, len(results)-failed, failed)
}

// CreateKey records metrics for transit key creation operations.
func (t *transitUseCaseWithMetrics) CreateKey(
	ctx context.Context,
	name string,
	req transitDomain.KeyCreationRequest,
) error {
	start := time.Now()
	err := t.next.CreateKey(ctx, name, req)
	t.observe(ctx, "transit_key_create", start, err)
	return err
}

// GetKey records metrics for transit key reads.
func (t *transitUseCaseWithMetrics) GetKey(ctx context.Context, name string) (*transitDomain.TransitKey, error) {
	start := time.Now()
	key, err := t.next.GetKey(ctx, name)
	t.observe(ctx, "transit_key_get", start, err)
	return key, err
}

// ListKeys records metrics for transit key listings.
func (t *transitUseCaseWithMetrics) ListKeys(ctx context.Context) ([]string, error) {
	start := time.Now()
	keys, err := t.next.ListKeys(ctx)
	t.observe(ctx, "transit_key_list", start, err)
	return keys, err
}

// ConfigureKey records metrics for transit key configuration updates.
func (t *transitUseCaseWithMetrics) ConfigureKey(
	ctx context.Context,
	name string,
	cfg transitDomain.KeyConfiguration,
) error {
	start := time.Now()
	err := t.next.ConfigureKey(ctx, name, cfg)
	t.observe(ctx, "transit_key_configure", start, err)
	return err
}

// Rotate records metrics for transit key rotation operations.
func (t *transitUseCaseWithMetrics) Rotate(ctx context.Context, name string) error {
	start := time.Now()
	err := t.next.Rotate(ctx, name)
	t.observe(ctx, "transit_key_rotate", start, err)
	return err
}

// DeleteKey records metrics for transit key deletion operations.
func (t *transitUseCaseWithMetrics) DeleteKey(ctx context.Context, name string) error {
	start := time.Now()
	err := t.next.DeleteKey(ctx, name)
	t.observe(ctx, "transit_key_delete", start, err)
	return err
}

// ExportKey records metrics for transit key exports.
func (t *transitUseCaseWithMetrics) ExportKey(
	ctx context.Context,
	name string,
	exportType transitDomain.ExportKeyType,
) (*transitDomain.RawTransitKey, error) {
	start := time.Now()
	key, err := t.next.ExportKey(ctx, name, exportType)
	t.observe(ctx, "transit_key_export", start, err)
	return key, err
}

// Encrypt records metrics for transit encryption operations.
func (t *transitUseCaseWithMetrics) Encrypt(
	ctx context.Context,
	name string,
	plaintext transitDomain.Plaintext,
) (transitDomain.Ciphertext, error) {
	start := time.Now()
	ciphertext, err := t.next.Encrypt(ctx, name, plaintext)
	t.observe(ctx, "transit_encrypt", start, err)
	return ciphertext, err
}

// EncryptBatch records metrics for batch encryption. Per-item failures count as failed items, not errors.
func (t *transitUseCaseWithMetrics) EncryptBatch(
	ctx context.Context,
	name string,
	plaintexts []transitDomain.Plaintext,
) ([]transitDomain.EncryptionResult, error) {
	start := time.Now()
	results, err := t.next.EncryptBatch(ctx, name, plaintexts)
	observeBatch(ctx, t, "transit_encrypt_batch", start, results, err)
	return results, err
}

// Decrypt records metrics for transit decryption operations.
func (t *transitUseCaseWithMetrics) Decrypt(
	ctx context.Context,
	name string,
	ciphertext transitDomain.Ciphertext,
) (transitDomain.Plaintext, error) {
	start := time.Now()
	plaintext, err := t.next.Decrypt(ctx, name, ciphertext)
	t.observe(ctx, "transit_decrypt", start, err)
	return plaintext, err
}

// DecryptBatch records metrics for batch decryption.
func (t *transitUseCaseWithMetrics) DecryptBatch(
	ctx context.Context,
	name string,
	ciphertexts []transitDomain.Ciphertext,
) ([]transitDomain.DecryptionResult, error) {
	start := time.Now()
	results, err := t.next.DecryptBatch(ctx, name, ciphertexts)
	observeBatch(ctx, t, "transit_decrypt_batch", start, results, err)
	return results, err
}

// Rewrap records metrics for transit rewrap operations.
func (t *transitUseCaseWithMetrics) Rewrap(
	ctx context.Context,
	name string,
	ciphertext transitDomain.Ciphertext,
) (transitDomain.Ciphertext, error) {
	start := time.Now()
	rewrapped, err := t.next.Rewrap(ctx, name, ciphertext)
	t.observe(ctx, "transit_rewrap", start, err)
	return rewrapped, err
}

// RewrapBatch records metrics for batch rewrap.
func (t *transitUseCaseWithMetrics) RewrapBatch(
	ctx context.Context,
	name string,
	ciphertexts []transitDomain.Ciphertext,
) ([]transitDomain.EncryptionResult, error) {
	start := time.Now()
	results, err := t.next.RewrapBatch(ctx, name, ciphertexts)
	observeBatch(ctx, t, "transit_rewrap_batch", start, results, err)
	return results, err
}

// GetHmac records metrics for HMAC computation.
func (t *transitUseCaseWithMetrics) GetHmac(
	ctx context.Context,
	name string,
	req transitDomain.HmacRequest,
) (transitDomain.Hmac, error) {
	start := time.Now()
	mac, err := t.next.GetHmac(ctx, name, req)
	t.observe(ctx, "transit_hmac", start, err)
	return mac, err
}

// Sign records metrics for signing operations.
func (t *transitUseCaseWithMetrics) Sign(
	ctx context.Context,
	name string,
	req transitDomain.SignRequest,
) (transitDomain.Signature, error) {
	start := time.Now()
	signature, err := t.next.Sign(ctx, name, req)
	t.observe(ctx, "transit_sign", start, err)
	return signature, err
}

// Verify records metrics for boolean signature verification.
func (t *transitUseCaseWithMetrics) Verify(
	ctx context.Context,
	name string,
	input transitDomain.Plaintext,
	signature transitDomain.Signature,
) (bool, error) {
	start := time.Now()
	valid, err := t.next.Verify(ctx, name, input, signature)
	t.observe(ctx, "transit_verify", start, err)
	return valid, err
}

// VerifySignature records metrics for structured verification.
func (t *transitUseCaseWithMetrics) VerifySignature(
	ctx context.Context,
	name string,
	req transitDomain.VerificationRequest,
) (transitDomain.SignatureValidation, error) {
	start := time.Now()
	result, err := t.next.VerifySignature(ctx, name, req)
	t.observe(ctx, "transit_verify_signature", start, err)
	return result, err
}
