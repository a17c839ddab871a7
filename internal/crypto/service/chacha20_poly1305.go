package service

import (
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/allisson/vaultops/internal/crypto/domain"
)

// ChaCha20Poly1305Cipher implements the AEAD interface using ChaCha20-Poly1305.
//
// ChaCha20-Poly1305 combines the ChaCha20 stream cipher with the Poly1305 MAC. It is
// efficient on platforms without hardware AES acceleration.
type ChaCha20Poly1305Cipher struct {
	sealer
}

// NewChaCha20Poly1305 creates a new ChaCha20-Poly1305 cipher for chacha20-poly1305 key material.
//
// Parameters:
//   - key: A 32-byte (256-bit) encryption key
//
// Returns:
//   - A new ChaCha20Poly1305Cipher ready for encryption and decryption
//   - ErrInvalidKeySize if the key is not 32 bytes
//
// Example:
//
//	cipher, err := NewChaCha20Poly1305(key)
//	if err != nil {
//	    return nil, err
//	}
//	ciphertext, nonce, err := cipher.Encrypt(plaintext, aad)
func NewChaCha20Poly1305(key []byte) (*ChaCha20Poly1305Cipher, error) {
	if !cryptoDomain.ChaCha20.ValidKeySize(len(key)) {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &ChaCha20Poly1305Cipher{sealer{aead: aead}}, nil
}
