package service

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	cryptoDomain "github.com/allisson/vaultops/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-GCM.
//
// Security properties:
//   - 128 or 256 bit key (aes128-gcm96 / aes256-gcm96 transit keys)
//   - 12-byte nonce, randomly generated unless supplied for convergent encryption
//   - 16-byte authentication tag appended to the ciphertext
//
// The cipher instance is stateless and safe for concurrent use.
//
// Example usage:
//
//	cipher, err := NewAESGCM(key)
//	ciphertext, nonce, err := cipher.Encrypt(plaintext, nil)
//	plaintext, err := cipher.Decrypt(ciphertext, nonce, nil)
type AESGCMCipher struct {
	sealer
}

// NewAESGCM creates a new AES-GCM cipher for aes128-gcm96 or aes256-gcm96 key material.
//
// Parameters:
//   - key: A 16-byte (AES-128) or 32-byte (AES-256) encryption key
//
// Returns:
//   - A new AESGCMCipher ready for encryption and decryption
//   - ErrInvalidKeySize if the key is neither 16 nor 32 bytes
//
// Example:
//
//	key := make([]byte, 32)
//	if _, err := rand.Read(key); err != nil {
//	    return nil, err
//	}
//	cipher, err := NewAESGCM(key)
//	if err != nil {
//	    return nil, err
//	}
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if !cryptoDomain.AESGCM.ValidKeySize(len(key)) {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{sealer{aead: aead}}, nil
}
