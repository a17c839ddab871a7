package vaultsim

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"

	cryptoDomain "github.com/allisson/vaultops/internal/crypto/domain"
	"github.com/allisson/vaultops/internal/crypto/service"
	apperrors "github.com/allisson/vaultops/internal/errors"
	transitDomain "github.com/allisson/vaultops/internal/transit/domain"
)

// keyMaterial is the secret material of one key version. Every version carries an HMAC
// key; exactly one of the remaining fields is set according to the key type.
type keyMaterial struct {
	keyType       transitDomain.KeyType
	encryptionKey []byte
	hmacKey       []byte
	ecdsaKey      *ecdsa.PrivateKey
	ed25519Key    ed25519.PrivateKey
	rsaKey        *rsa.PrivateKey
}

func randomBytes(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate key material: %w", err)
	}
	return b, nil
}

func generateMaterial(keyType transitDomain.KeyType) (*keyMaterial, error) {
	hmacKey, err := randomBytes(cryptoDomain.KeySize256)
	if err != nil {
		return nil, err
	}
	m := &keyMaterial{keyType: keyType, hmacKey: hmacKey}

	switch keyType {
	case transitDomain.KeyTypeAES128GCM96:
		m.encryptionKey, err = randomBytes(cryptoDomain.KeySize128)
	case transitDomain.KeyTypeAES256GCM96, transitDomain.KeyTypeChaCha20Poly1305:
		m.encryptionKey, err = randomBytes(cryptoDomain.KeySize256)
	case transitDomain.KeyTypeECDSAP256:
		m.ecdsaKey, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	case transitDomain.KeyTypeECDSAP384:
		m.ecdsaKey, err = ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	case transitDomain.KeyTypeED25519:
		_, m.ed25519Key, err = ed25519.GenerateKey(rand.Reader)
	case transitDomain.KeyTypeRSA2048:
		m.rsaKey, err = rsa.GenerateKey(rand.Reader, 2048)
	case transitDomain.KeyTypeRSA4096:
		m.rsaKey, err = rsa.GenerateKey(rand.Reader, 4096)
	default:
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown key type %q", keyType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s key: %w", keyType, err)
	}
	return m, nil
}

func (m *keyMaterial) algorithm() cryptoDomain.Algorithm {
	if m.keyType == transitDomain.KeyTypeChaCha20Poly1305 {
		return cryptoDomain.ChaCha20
	}
	return cryptoDomain.AESGCM
}

func (m *keyMaterial) destroy() {
	cryptoDomain.Zero(m.encryptionKey, m.hmacKey)
}

func (m *keyMaterial) publicKey() string {
	switch {
	case m.ed25519Key != nil:
		return base64.StdEncoding.EncodeToString(m.ed25519Key.Public().(ed25519.PublicKey))
	case m.ecdsaKey != nil:
		return encodePublicKey(&m.ecdsaKey.PublicKey)
	case m.rsaKey != nil:
		return encodePublicKey(&m.rsaKey.PublicKey)
	default:
		return ""
	}
}

func encodePublicKey(pub any) string {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return ""
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func (m *keyMaterial) export(exportType transitDomain.ExportKeyType) (string, error) {
	switch {
	case exportType == transitDomain.ExportHmacKey:
		return base64.StdEncoding.EncodeToString(m.hmacKey), nil
	case m.encryptionKey != nil && exportType == transitDomain.ExportEncryptionKey:
		return base64.StdEncoding.EncodeToString(m.encryptionKey), nil
	case m.rsaKey != nil:
		der := x509.MarshalPKCS1PrivateKey(m.rsaKey)
		return string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: der})), nil
	case m.ecdsaKey != nil:
		der, err := x509.MarshalECPrivateKey(m.ecdsaKey)
		if err != nil {
			return "", fmt.Errorf("failed to marshal ecdsa key: %w", err)
		}
		return string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})), nil
	case m.ed25519Key != nil:
		return base64.StdEncoding.EncodeToString(m.ed25519Key), nil
	default:
		return "", apperrors.Wrapf(apperrors.ErrUnsupported, "%s export not supported for %s", exportType, m.keyType)
	}
}

// ed25519For returns the signing key, derived from context for derived keys.
func (m *keyMaterial) ed25519For(context []byte) (ed25519.PrivateKey, error) {
	if context == nil {
		return m.ed25519Key, nil
	}
	seed, err := service.DeriveKey(m.ed25519Key.Seed(), context)
	if err != nil {
		return nil, err
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

func digest(hash crypto.Hash, input []byte) []byte {
	h := hash.New()
	h.Write(input)
	return h.Sum(nil)
}

func (m *keyMaterial) sign(input []byte, hash crypto.Hash, context []byte) ([]byte, error) {
	switch {
	case m.ecdsaKey != nil:
		return ecdsa.SignASN1(rand.Reader, m.ecdsaKey, digest(hash, input))
	case m.ed25519Key != nil:
		priv, err := m.ed25519For(context)
		if err != nil {
			return nil, err
		}
		return ed25519.Sign(priv, input), nil
	case m.rsaKey != nil:
		return rsa.SignPSS(rand.Reader, m.rsaKey, hash, digest(hash, input), nil)
	default:
		return nil, apperrors.Wrapf(apperrors.ErrUnsupported, "key type %s does not support signing", m.keyType)
	}
}

func (m *keyMaterial) verify(input, signature []byte, hash crypto.Hash, context []byte) (bool, error) {
	switch {
	case m.ecdsaKey != nil:
		return ecdsa.VerifyASN1(&m.ecdsaKey.PublicKey, digest(hash, input), signature), nil
	case m.ed25519Key != nil:
		priv, err := m.ed25519For(context)
		if err != nil {
			return false, err
		}
		return ed25519.Verify(priv.Public().(ed25519.PublicKey), input, signature), nil
	case m.rsaKey != nil:
		return rsa.VerifyPSS(&m.rsaKey.PublicKey, hash, digest(hash, input), signature, nil) == nil, nil
	default:
		return false, apperrors.Wrapf(apperrors.ErrUnsupported, "key type %s does not support verification", m.keyType)
	}
}
