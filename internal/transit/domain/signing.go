package domain

import (
	"errors"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/vaultops/internal/errors"
)

// HashAlgorithm names the digest used by sign, verify and HMAC operations.
// The empty value lets the remote service apply its default (sha2-256).
type HashAlgorithm string

// Hash algorithms understood by the transit engine.
const (
	HashSHA2224 HashAlgorithm = "sha2-224"
	HashSHA2256 HashAlgorithm = "sha2-256"
	HashSHA2384 HashAlgorithm = "sha2-384"
	HashSHA2512 HashAlgorithm = "sha2-512"
)

// Valid reports whether a is empty or a known hash algorithm.
func (a HashAlgorithm) Valid() bool {
	switch a {
	case "", HashSHA2224, HashSHA2256, HashSHA2384, HashSHA2512:
		return true
	default:
		return false
	}
}

// Hmac is a versioned HMAC digest in envelope form ("vault:v<N>:<digest>").
type Hmac string

// String returns the HMAC envelope.
func (h Hmac) String() string { return string(h) }

// Signature is a versioned signature in envelope form ("vault:v<N>:<signature>").
type Signature string

// String returns the signature envelope.
func (s Signature) String() string { return string(s) }

// HmacRequest describes an HMAC computation. KeyVersion 0 selects the latest version.
type HmacRequest struct {
	Input      Plaintext
	Algorithm  HashAlgorithm
	KeyVersion uint
}

// SignRequest describes a signing operation. KeyVersion 0 selects the latest version.
type SignRequest struct {
	Input      Plaintext
	Algorithm  HashAlgorithm
	KeyVersion uint
}

// VerificationRequest verifies either a signature or an HMAC over Input. Exactly one of
// Signature and Hmac must be set.
type VerificationRequest struct {
	Input     Plaintext
	Signature Signature
	Hmac      Hmac
	Algorithm HashAlgorithm
}

// Validate checks that exactly one of Signature and Hmac is set and the algorithm is known.
func (r VerificationRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Signature,
			validation.When(r.Signature != "" && r.Hmac != "", validation.By(func(interface{}) error {
				return errors.New("signature and hmac are mutually exclusive")
			})),
			validation.When(r.Signature == "" && r.Hmac == "", validation.By(func(interface{}) error {
				return errors.New("one of signature or hmac is required")
			})),
		),
		validation.Field(&r.Algorithm, validation.By(validateHashAlgorithm)),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
	}
	return nil
}

// SignatureValidation is the terminal outcome of a verification: valid or invalid.
type SignatureValidation struct {
	valid bool
}

// Valid returns the successful validation outcome.
func Valid() SignatureValidation { return SignatureValidation{valid: true} }

// Invalid returns the failed validation outcome.
func Invalid() SignatureValidation { return SignatureValidation{valid: false} }

// IsValid reports whether the signature or HMAC matched.
func (v SignatureValidation) IsValid() bool { return v.valid }

// String returns "valid" or "invalid".
func (v SignatureValidation) String() string {
	if v.valid {
		return "valid"
	}
	return "invalid"
}

func validateHashAlgorithm(value interface{}) error {
	alg, _ := value.(HashAlgorithm)
	if alg.Valid() {
		return nil
	}
	return errors.New("unknown hash algorithm " + string(alg))
}
