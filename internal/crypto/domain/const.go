// Package domain defines the algorithms, key sizes and errors of the simulator cipher suite.
package domain

// Algorithm names an AEAD construction.
//
// Both algorithms use a 12-byte nonce and a 16-byte authentication tag; the nonce is
// stored in front of the sealed data by the transit engine.
type Algorithm string

const (
	// AESGCM is AES in Galois/Counter Mode with a 128 or 256 bit key.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305 with a 256 bit key.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// Key sizes in bytes.
const (
	KeySize128 = 16
	KeySize256 = 32
)

// ValidKeySize reports whether size is a valid key length for the algorithm.
func (a Algorithm) ValidKeySize(size int) bool {
	switch a {
	case AESGCM:
		return size == KeySize128 || size == KeySize256
	case ChaCha20:
		return size == KeySize256
	default:
		return false
	}
}
