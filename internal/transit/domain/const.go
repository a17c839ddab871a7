// Package domain defines core transit encryption domain models.
package domain

const (
	// MaxTransitKeyNameLength is the maximum allowed length for transit key names.
	MaxTransitKeyNameLength = 255

	// EnvelopePrefix is the leading token of every ciphertext envelope.
	EnvelopePrefix = "vault"
)

// KeyType identifies the algorithm family of a transit key.
type KeyType string

// Key types understood by the transit engine.
const (
	KeyTypeAES128GCM96      KeyType = "aes128-gcm96"
	KeyTypeAES256GCM96      KeyType = "aes256-gcm96"
	KeyTypeChaCha20Poly1305 KeyType = "chacha20-poly1305"
	KeyTypeECDSAP256        KeyType = "ecdsa-p256"
	KeyTypeECDSAP384        KeyType = "ecdsa-p384"
	KeyTypeED25519          KeyType = "ed25519"
	KeyTypeRSA2048          KeyType = "rsa-2048"
	KeyTypeRSA4096          KeyType = "rsa-4096"
)

// DefaultKeyType is used when a key is created without an explicit type.
const DefaultKeyType = KeyTypeAES256GCM96

// IsSymmetric reports whether keys of this type encrypt with a symmetric AEAD.
func (k KeyType) IsSymmetric() bool {
	switch k {
	case KeyTypeAES128GCM96, KeyTypeAES256GCM96, KeyTypeChaCha20Poly1305:
		return true
	default:
		return false
	}
}

// SupportsSigning reports whether keys of this type can produce signatures.
func (k KeyType) SupportsSigning() bool {
	switch k {
	case KeyTypeECDSAP256, KeyTypeECDSAP384, KeyTypeED25519, KeyTypeRSA2048, KeyTypeRSA4096:
		return true
	default:
		return false
	}
}

// SupportsEncryption reports whether keys of this type can encrypt and decrypt.
func (k KeyType) SupportsEncryption() bool {
	switch k {
	case KeyTypeRSA2048, KeyTypeRSA4096:
		return true
	default:
		return k.IsSymmetric()
	}
}

// SupportsDerivation reports whether keys of this type can derive per-context keys.
func (k KeyType) SupportsDerivation() bool {
	return k.IsSymmetric() || k == KeyTypeED25519
}

// Valid reports whether k is a known key type.
func (k KeyType) Valid() bool {
	return k.IsSymmetric() || k.SupportsSigning()
}
