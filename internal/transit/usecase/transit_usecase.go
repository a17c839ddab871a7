// Package usecase implements client-side orchestration for the transit engine.
//
// The use case shapes requests from the transit domain values, sends them through a
// transport.Transport and maps responses back into typed results. It holds no state
// between calls: every read is a fresh request and no key metadata is cached.
//
// # Error mapping
//
// Failures reported by the remote service arrive as *errors.RemoteError and are
// classified into the transit error taxonomy (ErrCapability, ErrDecryptionFailed,
// ErrDeletionNotAllowed, ...). The original RemoteError stays in the chain.
//
// # Batches
//
// A batch is a single request carrying N items. The response is correlated with the
// inputs by position; per-item failures are captured in the result at that index and
// never fail the call. A response of the wrong length fails the call with ErrProtocol.
//
// # Usage Example
//
//	transitUC := usecase.NewTransitUseCase(tr, "transit")
//
//	err := transitUC.CreateKey(ctx, "payments", transitDomain.KeyCreationRequest{})
//	ciphertext, err := transitUC.Encrypt(ctx, "payments", transitDomain.PlaintextOf("4111 1111 1111 1111"))
//	fmt.Println(ciphertext) // vault:v1:...
//	plaintext, err := transitUC.Decrypt(ctx, "payments", ciphertext)
package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strconv"

	apperrors "github.com/allisson/vaultops/internal/errors"
	transitDomain "github.com/allisson/vaultops/internal/transit/domain"
	"github.com/allisson/vaultops/internal/transport"
	"github.com/allisson/vaultops/internal/validation"
)

// transitUseCase implements TransitUseCase against a transit engine mounted at mount.
type transitUseCase struct {
	transport transport.Transport
	mount     string
}

// NewTransitUseCase creates a TransitUseCase for the transit engine mounted at mount.
func NewTransitUseCase(tr transport.Transport, mount string) TransitUseCase {
	return &transitUseCase{
		transport: tr,
		mount:     mount,
	}
}

func (t *transitUseCase) path(elem ...string) string {
	return path.Join(append([]string{t.mount}, elem...)...)
}

// invoke sends req and classifies remote failures.
func (t *transitUseCase) invoke(ctx context.Context, req transport.Request) (*transport.Response, error) {
	resp, err := t.transport.Invoke(ctx, req)
	if err != nil {
		return nil, transitDomain.ClassifyRemoteError(err)
	}
	return resp, nil
}

func validateKeyName(name string) error {
	if err := validation.KeyName.Validate(name); err != nil || name == "" {
		return apperrors.Wrapf(transitDomain.ErrInvalidKeyRequest, "invalid key name %q", name)
	}
	return nil
}

// requireKey fails with ErrTransitKeyNotFound when name does not exist. The remote
// encrypt endpoint creates missing keys, so encryption checks existence first.
func (t *transitUseCase) requireKey(ctx context.Context, name string) error {
	key, err := t.GetKey(ctx, name)
	if err != nil {
		return err
	}
	if key == nil {
		return apperrors.Wrapf(transitDomain.ErrTransitKeyNotFound, "key %q", name)
	}
	return nil
}

// CreateKey creates a new transit key.
//
// The request is validated before any round trip, so convergent encryption without key
// derivation fails locally. The remote create is an upsert; to report a taken name as
// ErrTransitKeyAlreadyExists the key is read first.
func (t *transitUseCase) CreateKey(
	ctx context.Context,
	name string,
	req transitDomain.KeyCreationRequest,
) error {
	if err := validateKeyName(name); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	existing, err := t.GetKey(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperrors.Wrapf(transitDomain.ErrTransitKeyAlreadyExists, "key %q", name)
	}

	_, err = t.invoke(ctx, transport.Post(t.path("keys", name), req.Body()))
	return err
}

// GetKey returns the key's metadata, or nil when the key does not exist.
func (t *transitUseCase) GetKey(ctx context.Context, name string) (*transitDomain.TransitKey, error) {
	if err := validateKeyName(name); err != nil {
		return nil, err
	}

	resp, err := t.invoke(ctx, transport.Get(t.path("keys", name)))
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Data == nil {
		return nil, nil
	}

	var body keyResponse
	if err := transport.Decode(resp.Data, &body); err != nil {
		return nil, err
	}
	if body.Name == "" {
		body.Name = name
	}
	return body.toDomain()
}

// ListKeys returns the names of all keys. No keys is an empty slice.
func (t *transitUseCase) ListKeys(ctx context.Context) ([]string, error) {
	resp, err := t.invoke(ctx, transport.List(t.path("keys")))
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return listKeys(resp)
}

// ConfigureKey applies a partial configuration update.
func (t *transitUseCase) ConfigureKey(ctx context.Context, name string, cfg transitDomain.KeyConfiguration) error {
	if err := validateKeyName(name); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.IsEmpty() {
		return nil
	}

	_, err := t.invoke(ctx, transport.Post(t.path("keys", name, "config"), cfg.Body()))
	return err
}

// Rotate creates a new key version; subsequent encryptions use it.
func (t *transitUseCase) Rotate(ctx context.Context, name string) error {
	if err := validateKeyName(name); err != nil {
		return err
	}
	_, err := t.invoke(ctx, transport.Post(t.path("keys", name, "rotate"), nil))
	return err
}

// DeleteKey deletes the key. It fails with ErrDeletionNotAllowed unless the key is
// configured with deletion allowed; the key is left untouched in that case.
func (t *transitUseCase) DeleteKey(ctx context.Context, name string) error {
	if err := validateKeyName(name); err != nil {
		return err
	}
	_, err := t.invoke(ctx, transport.Delete(t.path("keys", name)))
	return err
}

// ExportKey returns per-version key material of an exportable key.
func (t *transitUseCase) ExportKey(
	ctx context.Context,
	name string,
	exportType transitDomain.ExportKeyType,
) (*transitDomain.RawTransitKey, error) {
	if err := validateKeyName(name); err != nil {
		return nil, err
	}
	if !exportType.Valid() {
		return nil, apperrors.Wrapf(transitDomain.ErrInvalidKeyRequest, "unknown export type %q", exportType)
	}

	resp, err := t.invoke(ctx, transport.Get(t.path("export", string(exportType), name)))
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, apperrors.Wrapf(transitDomain.ErrTransitKeyNotFound, "key %q", name)
	}

	var body exportResponse
	if err := transport.Decode(resp.Data, &body); err != nil {
		return nil, err
	}
	return body.toDomain()
}

// Encrypt encrypts a single plaintext with the latest key version. Encrypting with a key
// that does not exist fails with ErrTransitKeyNotFound and sends no encrypt request.
func (t *transitUseCase) Encrypt(
	ctx context.Context,
	name string,
	plaintext transitDomain.Plaintext,
) (transitDomain.Ciphertext, error) {
	if err := validateKeyName(name); err != nil {
		return transitDomain.Ciphertext{}, err
	}
	if err := t.requireKey(ctx, name); err != nil {
		return transitDomain.Ciphertext{}, err
	}

	resp, err := t.invoke(ctx, transport.Post(t.path("encrypt", name), plaintextItem(plaintext)))
	if err != nil {
		return transitDomain.Ciphertext{}, err
	}
	data, err := requireData(resp, "encrypt")
	if err != nil {
		return transitDomain.Ciphertext{}, err
	}
	ctxValue, attached := plaintext.Context()
	return toCiphertext(data, ctxValue, attached)
}

// EncryptBatch encrypts every plaintext in one request. Each plaintext may carry its own context.
func (t *transitUseCase) EncryptBatch(
	ctx context.Context,
	name string,
	plaintexts []transitDomain.Plaintext,
) ([]transitDomain.EncryptionResult, error) {
	if err := validateKeyName(name); err != nil {
		return nil, err
	}
	if len(plaintexts) == 0 {
		return []transitDomain.EncryptionResult{}, nil
	}
	if err := t.requireKey(ctx, name); err != nil {
		return nil, err
	}

	batch := make([]any, len(plaintexts))
	for i, p := range plaintexts {
		batch[i] = plaintextItem(p)
	}

	items, err := t.invokeBatch(ctx, t.path("encrypt", name), batch)
	if err != nil {
		return nil, err
	}
	return transitDomain.Aggregate(plaintexts, items,
		func(input transitDomain.Plaintext, item transitDomain.BatchItem) (transitDomain.Ciphertext, error) {
			ctxValue, attached := input.Context()
			return toCiphertext(item.Fields, ctxValue, attached)
		},
	)
}

// Decrypt decrypts a single ciphertext with the key version embedded in it.
//
// Security Note: the returned Plaintext holds decrypted data in memory.
func (t *transitUseCase) Decrypt(
	ctx context.Context,
	name string,
	ciphertext transitDomain.Ciphertext,
) (transitDomain.Plaintext, error) {
	if err := validateKeyName(name); err != nil {
		return transitDomain.Plaintext{}, err
	}
	if _, err := ciphertext.Envelope(); err != nil {
		return transitDomain.Plaintext{}, err
	}

	resp, err := t.invoke(ctx, transport.Post(t.path("decrypt", name), ciphertextItem(ciphertext)))
	if err != nil {
		return transitDomain.Plaintext{}, err
	}
	data, err := requireData(resp, "decrypt")
	if err != nil {
		return transitDomain.Plaintext{}, err
	}
	ctxValue, attached := ciphertext.Context()
	return toPlaintext(data, ctxValue, attached)
}

// DecryptBatch decrypts every ciphertext in one request. Malformed envelopes fail only
// their own item and are not sent.
func (t *transitUseCase) DecryptBatch(
	ctx context.Context,
	name string,
	ciphertexts []transitDomain.Ciphertext,
) ([]transitDomain.DecryptionResult, error) {
	if err := validateKeyName(name); err != nil {
		return nil, err
	}

	results, err := cipherBatch(ctx, t, t.path("decrypt", name), ciphertexts,
		func(input transitDomain.Ciphertext, item transitDomain.BatchItem) (transitDomain.Plaintext, error) {
			ctxValue, attached := input.Context()
			return toPlaintext(item.Fields, ctxValue, attached)
		},
	)
	if err != nil {
		return nil, err
	}

	out := make([]transitDomain.DecryptionResult, len(results))
	for i, r := range results {
		out[i] = transitDomain.DecryptionResult{BatchResult: r}
	}
	return out, nil
}

// Rewrap re-encrypts a ciphertext under the latest key version without exposing the plaintext.
func (t *transitUseCase) Rewrap(
	ctx context.Context,
	name string,
	ciphertext transitDomain.Ciphertext,
) (transitDomain.Ciphertext, error) {
	if err := validateKeyName(name); err != nil {
		return transitDomain.Ciphertext{}, err
	}
	if _, err := ciphertext.Envelope(); err != nil {
		return transitDomain.Ciphertext{}, err
	}

	resp, err := t.invoke(ctx, transport.Post(t.path("rewrap", name), ciphertextItem(ciphertext)))
	if err != nil {
		return transitDomain.Ciphertext{}, err
	}
	data, err := requireData(resp, "rewrap")
	if err != nil {
		return transitDomain.Ciphertext{}, err
	}
	ctxValue, attached := ciphertext.Context()
	return toCiphertext(data, ctxValue, attached)
}

// RewrapBatch rewraps every ciphertext in one request.
func (t *transitUseCase) RewrapBatch(
	ctx context.Context,
	name string,
	ciphertexts []transitDomain.Ciphertext,
) ([]transitDomain.EncryptionResult, error) {
	if err := validateKeyName(name); err != nil {
		return nil, err
	}

	return cipherBatch(ctx, t, t.path("rewrap", name), ciphertexts,
		func(input transitDomain.Ciphertext, item transitDomain.BatchItem) (transitDomain.Ciphertext, error) {
			ctxValue, attached := input.Context()
			return toCiphertext(item.Fields, ctxValue, attached)
		},
	)
}

// cipherBatch sends a batch of ciphertexts. Items with a malformed envelope fail locally;
// only well-formed items are sent and their results are merged back by input position.
func cipherBatch[R any](
	ctx context.Context,
	t *transitUseCase,
	target string,
	ciphertexts []transitDomain.Ciphertext,
	convert func(transitDomain.Ciphertext, transitDomain.BatchItem) (R, error),
) ([]transitDomain.BatchResult[R], error) {
	results := make([]transitDomain.BatchResult[R], len(ciphertexts))
	var (
		sent      []transitDomain.Ciphertext
		positions []int
		batch     []any
	)
	for i, c := range ciphertexts {
		if _, err := c.Envelope(); err != nil {
			results[i] = transitDomain.Failure[R](i, err)
			continue
		}
		sent = append(sent, c)
		positions = append(positions, i)
		batch = append(batch, ciphertextItem(c))
	}
	if len(batch) == 0 {
		return results, nil
	}

	items, err := t.invokeBatch(ctx, target, batch)
	if err != nil {
		return nil, err
	}
	aggregated, err := transitDomain.Aggregate(sent, items, convert)
	if err != nil {
		return nil, err
	}

	for j, r := range aggregated {
		index := positions[j]
		value, itemErr := r.Get()
		if itemErr != nil {
			results[index] = transitDomain.Failure[R](index, itemErr)
		} else {
			results[index] = transitDomain.Success(index, value)
		}
	}
	return results, nil
}

// invokeBatch sends a batch_input request and returns the raw batch_results items.
func (t *transitUseCase) invokeBatch(ctx context.Context, target string, batch []any) ([]transitDomain.BatchItem, error) {
	resp, err := t.invoke(ctx, transport.Post(target, map[string]any{"batch_input": batch}))
	if err != nil {
		return nil, err
	}
	data, err := requireData(resp, "batch")
	if err != nil {
		return nil, err
	}
	return transitDomain.ParseBatchItems(data["batch_results"])
}

// GetHmac computes an HMAC of the input. Every key type carries an HMAC key.
func (t *transitUseCase) GetHmac(
	ctx context.Context,
	name string,
	req transitDomain.HmacRequest,
) (transitDomain.Hmac, error) {
	if err := validateKeyName(name); err != nil {
		return "", err
	}
	if !req.Algorithm.Valid() {
		return "", apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown hash algorithm %q", req.Algorithm)
	}

	body := map[string]any{"input": base64.StdEncoding.EncodeToString(req.Input.Bytes())}
	if req.KeyVersion > 0 {
		body["key_version"] = req.KeyVersion
	}

	resp, err := t.invoke(ctx, transport.Post(t.algorithmPath("hmac", name, req.Algorithm), body))
	if err != nil {
		return "", err
	}
	data, err := requireData(resp, "hmac")
	if err != nil {
		return "", err
	}
	mac, err := stringField(data, "hmac")
	return transitDomain.Hmac(mac), err
}

// Sign signs the input. Keys that cannot sign fail with ErrCapability.
func (t *transitUseCase) Sign(
	ctx context.Context,
	name string,
	req transitDomain.SignRequest,
) (transitDomain.Signature, error) {
	if err := validateKeyName(name); err != nil {
		return "", err
	}
	if !req.Algorithm.Valid() {
		return "", apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown hash algorithm %q", req.Algorithm)
	}

	ctxValue, attached := req.Input.Context()
	body := contextFields(map[string]any{
		"input": base64.StdEncoding.EncodeToString(req.Input.Bytes()),
	}, ctxValue, attached)
	if req.KeyVersion > 0 {
		body["key_version"] = req.KeyVersion
	}

	resp, err := t.invoke(ctx, transport.Post(t.algorithmPath("sign", name, req.Algorithm), body))
	if err != nil {
		return "", err
	}
	data, err := requireData(resp, "sign")
	if err != nil {
		return "", err
	}
	signature, err := stringField(data, "signature")
	return transitDomain.Signature(signature), err
}

// Verify reports whether signature is a valid signature of input.
func (t *transitUseCase) Verify(
	ctx context.Context,
	name string,
	input transitDomain.Plaintext,
	signature transitDomain.Signature,
) (bool, error) {
	result, err := t.VerifySignature(ctx, name, transitDomain.VerificationRequest{
		Input:     input,
		Signature: signature,
	})
	if err != nil {
		return false, err
	}
	return result.IsValid(), nil
}

// VerifySignature verifies a signature or an HMAC and reports a terminal validity outcome.
func (t *transitUseCase) VerifySignature(
	ctx context.Context,
	name string,
	req transitDomain.VerificationRequest,
) (transitDomain.SignatureValidation, error) {
	if err := validateKeyName(name); err != nil {
		return transitDomain.Invalid(), err
	}
	if err := req.Validate(); err != nil {
		return transitDomain.Invalid(), err
	}

	ctxValue, attached := req.Input.Context()
	body := contextFields(map[string]any{
		"input": base64.StdEncoding.EncodeToString(req.Input.Bytes()),
	}, ctxValue, attached)
	if req.Signature != "" {
		body["signature"] = req.Signature.String()
	} else {
		body["hmac"] = req.Hmac.String()
	}

	resp, err := t.invoke(ctx, transport.Post(t.algorithmPath("verify", name, req.Algorithm), body))
	if err != nil {
		return transitDomain.Invalid(), err
	}
	data, err := requireData(resp, "verify")
	if err != nil {
		return transitDomain.Invalid(), err
	}

	valid, err := boolField(data, "valid")
	if err != nil {
		return transitDomain.Invalid(), err
	}
	if valid {
		return transitDomain.Valid(), nil
	}
	return transitDomain.Invalid(), nil
}

func (t *transitUseCase) algorithmPath(operation, name string, alg transitDomain.HashAlgorithm) string {
	if alg == "" {
		return t.path(operation, name)
	}
	return t.path(operation, name, string(alg))
}

func boolField(data map[string]any, field string) (bool, error) {
	switch v := data[field].(type) {
	case bool:
		return v, nil
	case string:
		parsed, err := strconv.ParseBool(v)
		if err == nil {
			return parsed, nil
		}
	}
	return false, fmt.Errorf("%w: response field %q missing or not a boolean", apperrors.ErrProtocol, field)
}

// listKeys reads the keys array of a list response. An empty response is an empty list.
func listKeys(resp *transport.Response) ([]string, error) {
	if resp == nil || resp.Data == nil {
		return []string{}, nil
	}
	raw, ok := resp.Data["keys"].([]any)
	if !ok {
		if resp.Data["keys"] == nil {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: keys is %T, expected an array", apperrors.ErrProtocol, resp.Data["keys"])
	}
	keys := make([]string, 0, len(raw))
	for _, entry := range raw {
		key, ok := entry.(string)
		if !ok {
			return nil, fmt.Errorf("%w: key entry is %T, expected a string", apperrors.ErrProtocol, entry)
		}
		keys = append(keys, key)
	}
	return keys, nil
}
