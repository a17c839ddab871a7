package service

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/vaultops/internal/crypto/domain"
)

// sealer holds the shared Seal/Open logic of both cipher implementations.
type sealer struct {
	aead cipher.AEAD
}

func (s sealer) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return s.aead.Seal(nil, nonce, plaintext, aad), nonce, nil
}

func (s sealer) EncryptWithNonce(plaintext, nonce, aad []byte) ([]byte, error) {
	if len(nonce) != s.aead.NonceSize() {
		return nil, cryptoDomain.ErrInvalidNonce
	}
	return s.aead.Seal(nil, nonce, plaintext, aad), nil
}

func (s sealer) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	if len(nonce) != s.aead.NonceSize() {
		return nil, cryptoDomain.ErrInvalidNonce
	}
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

func (s sealer) NonceSize() int {
	return s.aead.NonceSize()
}
