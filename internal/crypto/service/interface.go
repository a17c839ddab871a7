// Package service provides the AEAD ciphers and key derivation used by the transit engine
// of the simulator: AES-GCM and ChaCha20-Poly1305, HKDF context derivation and convergent
// nonces.
package service

import (
	cryptoDomain "github.com/allisson/vaultops/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD under a random nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// EncryptWithNonce encrypts plaintext under a caller-supplied nonce. The caller is
	// responsible for never reusing a nonce with different plaintexts.
	EncryptWithNonce(plaintext, nonce, aad []byte) ([]byte, error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)

	// NonceSize returns the nonce length in bytes.
	NonceSize() int
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}
