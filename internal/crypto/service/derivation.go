package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveKey derives a per-context key of len(key) bytes from key using HKDF-SHA256 with
// the context as info. Equal contexts always yield equal keys.
func DeriveKey(key, context []byte) ([]byte, error) {
	derived := make([]byte, len(key))
	reader := hkdf.New(sha256.New, key, nil, context)
	if _, err := io.ReadFull(reader, derived); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return derived, nil
}

// ConvergentNonce computes a deterministic nonce for convergent encryption: equal key and
// plaintext give an equal nonce, so equal plaintexts produce equal ciphertexts.
func ConvergentNonce(key, plaintext []byte, size int) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(plaintext)
	return mac.Sum(nil)[:size]
}
