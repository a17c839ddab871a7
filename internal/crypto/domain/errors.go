package domain

import (
	"github.com/allisson/vaultops/internal/errors"
)

// Cryptographic operation error definitions.
var (
	// ErrUnsupportedAlgorithm indicates the requested AEAD algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a key whose length does not match the algorithm.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates the authentication tag did not verify. The specific
	// cause (wrong key, wrong context, tampered data) is not disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "cipher: message authentication failed")

	// ErrInvalidNonce indicates a nonce of the wrong length.
	ErrInvalidNonce = errors.Wrap(errors.ErrInvalidInput, "invalid nonce size")
)
