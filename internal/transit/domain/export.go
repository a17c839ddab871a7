package domain

// ExportKeyType selects which key material an export returns.
type ExportKeyType string

// Export types understood by the transit engine.
const (
	ExportEncryptionKey ExportKeyType = "encryption-key"
	ExportSigningKey    ExportKeyType = "signing-key"
	ExportHmacKey       ExportKeyType = "hmac-key"
)

// Valid reports whether t is a known export type.
func (t ExportKeyType) Valid() bool {
	switch t {
	case ExportEncryptionKey, ExportSigningKey, ExportHmacKey:
		return true
	default:
		return false
	}
}

// CompatibleWith reports whether material of this export type exists for keys of the given type.
// Every key carries an HMAC key; encryption and signing material follow the key's capabilities.
func (t ExportKeyType) CompatibleWith(keyType KeyType) bool {
	switch t {
	case ExportEncryptionKey:
		return keyType.SupportsEncryption()
	case ExportSigningKey:
		return keyType.SupportsSigning()
	case ExportHmacKey:
		return keyType.Valid()
	default:
		return false
	}
}

// RawTransitKey is exported key material, one entry per key version.
//
// Security Note: Keys holds raw key material. Callers must not log or persist it.
type RawTransitKey struct {
	Name string
	Type KeyType
	Keys map[uint]string
}
