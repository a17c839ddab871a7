package vaultsim

import (
	"crypto"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"

	validation "github.com/jellydator/validation"

	"github.com/allisson/vaultops/internal/crypto/service"
	apperrors "github.com/allisson/vaultops/internal/errors"
	transitDomain "github.com/allisson/vaultops/internal/transit/domain"
	customValidation "github.com/allisson/vaultops/internal/validation"
)

const missingContextMessage = "missing 'context' for key derivation; the key was created using a derived key, " +
	"which means additional, per-request information must be included in order to perform operations with the key"

type cryptoItem struct {
	Plaintext  string `mapstructure:"plaintext"`
	Ciphertext string `mapstructure:"ciphertext"`
	Context    string `mapstructure:"context"`
	Nonce      string `mapstructure:"nonce"`
	KeyVersion uint   `mapstructure:"key_version"`
}

// Validate checks the base64 encoded fields of an item.
func (i cryptoItem) Validate() error {
	err := validation.ValidateStruct(&i,
		validation.Field(&i.Plaintext, customValidation.Base64),
		validation.Field(&i.Context, customValidation.Base64),
		validation.Field(&i.Nonce, customValidation.Base64),
	)
	return customValidation.WrapValidationError(err)
}

type cryptoBody struct {
	Plaintext  string       `mapstructure:"plaintext"`
	Ciphertext string       `mapstructure:"ciphertext"`
	Context    string       `mapstructure:"context"`
	Nonce      string       `mapstructure:"nonce"`
	KeyVersion uint         `mapstructure:"key_version"`
	BatchInput []cryptoItem `mapstructure:"batch_input"`
}

// items returns the batch items, or the top-level fields as a single item.
func (b cryptoBody) items() ([]cryptoItem, bool) {
	if len(b.BatchInput) > 0 {
		return b.BatchInput, true
	}
	return []cryptoItem{{
		Plaintext:  b.Plaintext,
		Ciphertext: b.Ciphertext,
		Context:    b.Context,
		Nonce:      b.Nonce,
		KeyVersion: b.KeyVersion,
	}}, false
}

type signingBody struct {
	Input      string `mapstructure:"input"`
	Context    string `mapstructure:"context"`
	KeyVersion uint   `mapstructure:"key_version"`
	Algorithm  string `mapstructure:"algorithm"`
	Signature  string `mapstructure:"signature"`
	Hmac       string `mapstructure:"hmac"`
}

// runItems validates and applies fn to every item. A batch collects per-item errors in
// its results; a single item fails the request.
func runItems(body cryptoBody, fn func(cryptoItem) (map[string]any, error)) (*response, error) {
	items, batch := body.items()
	fn = validated(fn)
	if !batch {
		result, err := fn(items[0])
		if err != nil {
			return nil, err
		}
		return &response{data: result}, nil
	}

	results := make([]any, len(items))
	for i, item := range items {
		result, err := fn(item)
		if err != nil {
			results[i] = map[string]any{"error": err.Error()}
			continue
		}
		results[i] = result
	}
	return &response{data: map[string]any{"batch_results": results}}, nil
}

func validated(fn func(cryptoItem) (map[string]any, error)) func(cryptoItem) (map[string]any, error) {
	return func(item cryptoItem) (map[string]any, error) {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		return fn(item)
	}
}

func (e *transitEngine) encrypt(name string, req *request) (*response, error) {
	var body cryptoBody
	if err := decodeBody(req, &body); err != nil {
		return nil, err
	}

	key, err := e.lookup(name)
	if err != nil {
		return nil, err
	}
	if !key.policy.SupportsEncryption {
		return nil, apperrors.Wrapf(apperrors.ErrUnsupported, "key type %s does not support encryption", key.policy.Type)
	}

	return runItems(body, func(item cryptoItem) (map[string]any, error) {
		plaintext, err := base64.StdEncoding.DecodeString(item.Plaintext)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "failed to base64-decode plaintext")
		}
		return e.seal(key, plaintext, item)
	})
}

func (e *transitEngine) decrypt(name string, req *request) (*response, error) {
	var body cryptoBody
	if err := decodeBody(req, &body); err != nil {
		return nil, err
	}
	key, err := e.decryptionKey(name)
	if err != nil {
		return nil, err
	}

	return runItems(body, func(item cryptoItem) (map[string]any, error) {
		plaintext, err := e.open(key, item)
		if err != nil {
			return nil, err
		}
		return map[string]any{"plaintext": base64.StdEncoding.EncodeToString(plaintext)}, nil
	})
}

func (e *transitEngine) rewrap(name string, req *request) (*response, error) {
	var body cryptoBody
	if err := decodeBody(req, &body); err != nil {
		return nil, err
	}
	key, err := e.decryptionKey(name)
	if err != nil {
		return nil, err
	}

	return runItems(body, func(item cryptoItem) (map[string]any, error) {
		plaintext, err := e.open(key, item)
		if err != nil {
			return nil, err
		}
		return e.seal(key, plaintext, item)
	})
}

func (e *transitEngine) decryptionKey(name string) (*transitKey, error) {
	key, err := e.lookup(name)
	if err != nil {
		return nil, err
	}
	if !key.policy.SupportsDecryption {
		return nil, apperrors.Wrapf(apperrors.ErrUnsupported, "key type %s does not support decryption", key.policy.Type)
	}
	return key, nil
}

// derivationContext returns the decoded context for derived keys and nil otherwise.
func derivationContext(key *transitKey, encoded string) ([]byte, error) {
	if !key.policy.RequiresContext() {
		return nil, nil
	}
	if encoded == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, missingContextMessage)
	}
	context, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "failed to base64-decode context")
	}
	return context, nil
}

func (e *transitEngine) aead(key *transitKey, material *keyMaterial, encodedContext string) (service.AEAD, []byte, error) {
	context, err := derivationContext(key, encodedContext)
	if err != nil {
		return nil, nil, err
	}
	encryptionKey := material.encryptionKey
	if context != nil {
		if encryptionKey, err = service.DeriveKey(encryptionKey, context); err != nil {
			return nil, nil, err
		}
	}
	cipher, err := e.ciphers.CreateCipher(encryptionKey, material.algorithm())
	if err != nil {
		return nil, nil, err
	}
	return cipher, encryptionKey, nil
}

func (e *transitEngine) seal(key *transitKey, plaintext []byte, item cryptoItem) (map[string]any, error) {
	version, err := key.policy.EncryptionVersion(item.KeyVersion)
	if err != nil {
		return nil, err
	}
	material := key.material[version]

	var sealed []byte
	if material.rsaKey != nil {
		sealed, err = rsa.EncryptOAEP(sha256.New(), rand.Reader, &material.rsaKey.PublicKey, plaintext, nil)
		if err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "failed to encrypt: %v", err)
		}
	} else {
		cipher, encryptionKey, err := e.aead(key, material, item.Context)
		if err != nil {
			return nil, err
		}
		var nonce, ciphertext []byte
		if key.policy.ConvergentEncryption {
			nonce = service.ConvergentNonce(encryptionKey, plaintext, cipher.NonceSize())
			ciphertext, err = cipher.EncryptWithNonce(plaintext, nonce, nil)
		} else {
			ciphertext, nonce, err = cipher.Encrypt(plaintext, nil)
		}
		if err != nil {
			return nil, err
		}
		sealed = append(nonce, ciphertext...)
	}

	envelope, err := transitDomain.NewEnvelope(version, base64.StdEncoding.EncodeToString(sealed))
	if err != nil {
		return nil, err
	}
	return map[string]any{"ciphertext": envelope.String(), "key_version": version}, nil
}

func (e *transitEngine) open(key *transitKey, item cryptoItem) ([]byte, error) {
	envelope, err := transitDomain.ParseEnvelope(item.Ciphertext)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid ciphertext: %v", err)
	}
	if err := key.policy.CheckDecryptionVersion(envelope.Version); err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(envelope.Payload)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid ciphertext: could not decode payload")
	}
	material := key.material[envelope.Version]

	if material.rsaKey != nil {
		plaintext, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, material.rsaKey, raw, nil)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "cipher: message authentication failed")
		}
		return plaintext, nil
	}

	cipher, _, err := e.aead(key, material, item.Context)
	if err != nil {
		return nil, err
	}
	if len(raw) < cipher.NonceSize() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid ciphertext: too short")
	}
	return cipher.Decrypt(raw[cipher.NonceSize():], raw[:cipher.NonceSize()], nil)
}

func resolveHash(pathAlgorithm transitDomain.HashAlgorithm, bodyAlgorithm string) (transitDomain.HashAlgorithm, crypto.Hash, error) {
	alg := pathAlgorithm
	if alg == "" {
		alg = transitDomain.HashAlgorithm(bodyAlgorithm)
	}
	switch alg {
	case "", transitDomain.HashSHA2256:
		return transitDomain.HashSHA2256, crypto.SHA256, nil
	case transitDomain.HashSHA2224:
		return alg, crypto.SHA224, nil
	case transitDomain.HashSHA2384:
		return alg, crypto.SHA384, nil
	case transitDomain.HashSHA2512:
		return alg, crypto.SHA512, nil
	default:
		return "", 0, apperrors.Wrapf(apperrors.ErrInvalidInput, "unsupported hash algorithm %s", alg)
	}
}

func (e *transitEngine) decodeSigning(
	name string,
	pathAlgorithm transitDomain.HashAlgorithm,
	req *request,
) (*transitKey, signingBody, []byte, crypto.Hash, error) {
	var body signingBody
	if err := decodeBody(req, &body); err != nil {
		return nil, body, nil, 0, err
	}
	key, err := e.lookup(name)
	if err != nil {
		return nil, body, nil, 0, err
	}
	_, hash, err := resolveHash(pathAlgorithm, body.Algorithm)
	if err != nil {
		return nil, body, nil, 0, err
	}
	input, err := base64.StdEncoding.DecodeString(body.Input)
	if err != nil {
		return nil, body, nil, 0, apperrors.Wrap(apperrors.ErrInvalidInput, "unable to decode input as base64")
	}
	return key, body, input, hash, nil
}

func computeHmac(material *keyMaterial, hash crypto.Hash, input []byte) []byte {
	mac := hmac.New(hash.New, material.hmacKey)
	mac.Write(input)
	return mac.Sum(nil)
}

func (e *transitEngine) hmac(name string, alg transitDomain.HashAlgorithm, req *request) (*response, error) {
	key, body, input, hash, err := e.decodeSigning(name, alg, req)
	if err != nil {
		return nil, err
	}
	version, err := key.policy.EncryptionVersion(body.KeyVersion)
	if err != nil {
		return nil, err
	}

	mac := computeHmac(key.material[version], hash, input)
	envelope, err := transitDomain.NewEnvelope(version, base64.StdEncoding.EncodeToString(mac))
	if err != nil {
		return nil, err
	}
	return &response{data: map[string]any{"hmac": envelope.String()}}, nil
}

func (e *transitEngine) sign(name string, alg transitDomain.HashAlgorithm, req *request) (*response, error) {
	key, body, input, hash, err := e.decodeSigning(name, alg, req)
	if err != nil {
		return nil, err
	}
	if !key.policy.SupportsSigning {
		return nil, apperrors.Wrapf(apperrors.ErrUnsupported, "key type %s does not support signing", key.policy.Type)
	}
	version, err := key.policy.EncryptionVersion(body.KeyVersion)
	if err != nil {
		return nil, err
	}
	context, err := derivationContext(key, body.Context)
	if err != nil {
		return nil, err
	}

	signature, err := key.material[version].sign(input, hash, context)
	if err != nil {
		return nil, err
	}
	envelope, err := transitDomain.NewEnvelope(version, base64.StdEncoding.EncodeToString(signature))
	if err != nil {
		return nil, err
	}
	return &response{data: map[string]any{"signature": envelope.String(), "key_version": version}}, nil
}

func (e *transitEngine) verify(name string, alg transitDomain.HashAlgorithm, req *request) (*response, error) {
	key, body, input, hash, err := e.decodeSigning(name, alg, req)
	if err != nil {
		return nil, err
	}

	encoded := body.Signature
	if body.Hmac != "" {
		encoded = body.Hmac
	}
	if encoded == "" || (body.Signature != "" && body.Hmac != "") {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "exactly one of signature or hmac must be provided")
	}
	if body.Hmac == "" && !key.policy.SupportsSigning {
		return nil, apperrors.Wrapf(apperrors.ErrUnsupported, "key type %s does not support verification", key.policy.Type)
	}

	envelope, err := transitDomain.ParseEnvelope(encoded)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid signature: %v", err)
	}
	if err := key.policy.CheckDecryptionVersion(envelope.Version); err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(envelope.Payload)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid signature: could not decode payload")
	}
	material := key.material[envelope.Version]

	var valid bool
	if body.Hmac != "" {
		valid = hmac.Equal(raw, computeHmac(material, hash, input))
	} else {
		context, err := derivationContext(key, body.Context)
		if err != nil {
			return nil, err
		}
		if valid, err = material.verify(input, raw, hash, context); err != nil {
			return nil, err
		}
	}
	return &response{data: map[string]any{"valid": valid}}, nil
}
