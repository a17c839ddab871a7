package domain

import (
	"errors"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/vaultops/internal/errors"
)

// KeyCreationRequest holds the options for creating a transit key.
// An empty Type selects DefaultKeyType.
type KeyCreationRequest struct {
	Type                 KeyType
	Derived              bool
	ConvergentEncryption bool
	Exportable           bool
	AllowPlaintextBackup bool
}

// EffectiveType returns the requested key type, or DefaultKeyType when none was given.
func (r KeyCreationRequest) EffectiveType() KeyType {
	if r.Type == "" {
		return DefaultKeyType
	}
	return r.Type
}

// Validate checks the request before anything is sent to the remote service.
func (r KeyCreationRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.By(validateKeyType)),
		validation.Field(&r.ConvergentEncryption,
			validation.When(r.ConvergentEncryption && !r.Derived,
				validation.By(func(interface{}) error {
					return errors.New("convergent encryption requires a derived key")
				}),
			),
		),
		validation.Field(&r.Derived,
			validation.When(r.Derived && !r.EffectiveType().SupportsDerivation(),
				validation.By(func(interface{}) error {
					return errors.New("key type does not support key derivation")
				}),
			),
		),
	)
	if err != nil {
		return apperrors.Wrap(ErrInvalidKeyRequest, err.Error())
	}
	return nil
}

// Body returns the request body understood by the transit engine.
func (r KeyCreationRequest) Body() map[string]any {
	return map[string]any{
		"type":                   string(r.EffectiveType()),
		"derived":                r.Derived,
		"convergent_encryption":  r.ConvergentEncryption,
		"exportable":             r.Exportable,
		"allow_plaintext_backup": r.AllowPlaintextBackup,
	}
}

// KeyConfiguration holds a partial key configuration update. Nil fields are left unchanged.
type KeyConfiguration struct {
	MinDecryptionVersion *uint
	MinEncryptionVersion *uint
	DeletionAllowed      *bool
	Exportable           *bool
	AllowPlaintextBackup *bool
}

// Validate checks internal consistency of the update.
func (c KeyConfiguration) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.MinEncryptionVersion,
			validation.When(
				c.MinEncryptionVersion != nil && c.MinDecryptionVersion != nil &&
					*c.MinEncryptionVersion != 0 && *c.MinEncryptionVersion < *c.MinDecryptionVersion,
				validation.By(func(interface{}) error {
					return errors.New("min encryption version must not be below min decryption version")
				}),
			),
		),
	)
	if err != nil {
		return apperrors.Wrap(ErrInvalidKeyRequest, err.Error())
	}
	return nil
}

// IsEmpty reports whether the update changes nothing.
func (c KeyConfiguration) IsEmpty() bool {
	return c.MinDecryptionVersion == nil && c.MinEncryptionVersion == nil &&
		c.DeletionAllowed == nil && c.Exportable == nil && c.AllowPlaintextBackup == nil
}

// Body returns the request body understood by the transit engine. Only set fields are sent.
func (c KeyConfiguration) Body() map[string]any {
	body := make(map[string]any)
	if c.MinDecryptionVersion != nil {
		body["min_decryption_version"] = *c.MinDecryptionVersion
	}
	if c.MinEncryptionVersion != nil {
		body["min_encryption_version"] = *c.MinEncryptionVersion
	}
	if c.DeletionAllowed != nil {
		body["deletion_allowed"] = *c.DeletionAllowed
	}
	if c.Exportable != nil {
		body["exportable"] = *c.Exportable
	}
	if c.AllowPlaintextBackup != nil {
		body["allow_plaintext_backup"] = *c.AllowPlaintextBackup
	}
	return body
}

func validateKeyType(value interface{}) error {
	keyType, _ := value.(KeyType)
	if keyType == "" || keyType.Valid() {
		return nil
	}
	return errors.New("unknown key type " + string(keyType))
}
