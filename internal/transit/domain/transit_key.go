package domain

import (
	"fmt"
	"slices"
	"time"
)

// TransitKey describes a named, versioned transit key as reported by the remote service.
// Key material is never part of this model.
//
// Invariants: LatestVersion is one of Versions and MinDecryptionVersion <= LatestVersion.
// A MinEncryptionVersion of 0 means "encrypt with the latest version". A key absent from
// the backend is represented by a nil *TransitKey, never by a key with zero versions.
type TransitKey struct {
	Name                 string
	Type                 KeyType
	Versions             map[uint]time.Time
	LatestVersion        uint
	MinEncryptionVersion uint
	MinDecryptionVersion uint
	Derived              bool
	ConvergentEncryption bool
	DeletionAllowed      bool
	Exportable           bool
	AllowPlaintextBackup bool
	SupportsEncryption   bool
	SupportsDecryption   bool
	SupportsDerivation   bool
	SupportsSigning      bool
}

// NewTransitKey creates version 1 of a key from a validated creation request.
func NewTransitKey(name string, req KeyCreationRequest, now time.Time) *TransitKey {
	keyType := req.EffectiveType()
	return &TransitKey{
		Name:                 name,
		Type:                 keyType,
		Versions:             map[uint]time.Time{1: now.UTC()},
		LatestVersion:        1,
		MinDecryptionVersion: 1,
		Derived:              req.Derived,
		ConvergentEncryption: req.ConvergentEncryption,
		Exportable:           req.Exportable,
		AllowPlaintextBackup: req.AllowPlaintextBackup,
		SupportsEncryption:   keyType.SupportsEncryption(),
		SupportsDecryption:   keyType.SupportsEncryption(),
		SupportsDerivation:   keyType.SupportsDerivation(),
		SupportsSigning:      keyType.SupportsSigning(),
	}
}

// Validate checks the structural invariants of a key read from the backend.
func (k *TransitKey) Validate() error {
	if len(k.Versions) == 0 {
		return fmt.Errorf("%w: key %q has no versions", ErrInvalidKeyVersion, k.Name)
	}
	if _, ok := k.Versions[k.LatestVersion]; !ok {
		return fmt.Errorf("%w: latest version %d of key %q is not a known version",
			ErrInvalidKeyVersion, k.LatestVersion, k.Name)
	}
	if k.MinDecryptionVersion > k.LatestVersion {
		return fmt.Errorf("%w: min decryption version %d exceeds latest version %d",
			ErrInvalidKeyVersion, k.MinDecryptionVersion, k.LatestVersion)
	}
	return nil
}

// SortedVersions returns the key versions in ascending order.
func (k *TransitKey) SortedVersions() []uint {
	versions := make([]uint, 0, len(k.Versions))
	for v := range k.Versions {
		versions = append(versions, v)
	}
	slices.Sort(versions)
	return versions
}

// Rotate adds a new version one above the latest and makes it the latest.
func (k *TransitKey) Rotate(now time.Time) uint {
	k.LatestVersion++
	if k.Versions == nil {
		k.Versions = make(map[uint]time.Time)
	}
	k.Versions[k.LatestVersion] = now.UTC()
	return k.LatestVersion
}

// Configure applies a configuration change. Version bounds above the latest version are
// rejected and leave the key untouched.
func (k *TransitKey) Configure(cfg KeyConfiguration) error {
	if cfg.MinEncryptionVersion != nil && *cfg.MinEncryptionVersion > k.LatestVersion {
		return fmt.Errorf("%w: min encryption version %d cannot be set higher than the latest version %d",
			ErrInvalidKeyVersion, *cfg.MinEncryptionVersion, k.LatestVersion)
	}
	if cfg.MinDecryptionVersion != nil && *cfg.MinDecryptionVersion > k.LatestVersion {
		return fmt.Errorf("%w: min decryption version %d cannot be set higher than the latest version %d",
			ErrInvalidKeyVersion, *cfg.MinDecryptionVersion, k.LatestVersion)
	}

	if cfg.MinEncryptionVersion != nil {
		k.MinEncryptionVersion = *cfg.MinEncryptionVersion
	}
	if cfg.MinDecryptionVersion != nil {
		k.MinDecryptionVersion = max(*cfg.MinDecryptionVersion, 1)
	}
	if cfg.DeletionAllowed != nil {
		k.DeletionAllowed = *cfg.DeletionAllowed
	}
	if cfg.Exportable != nil {
		// Exportability can be enabled but never revoked.
		k.Exportable = k.Exportable || *cfg.Exportable
	}
	if cfg.AllowPlaintextBackup != nil {
		k.AllowPlaintextBackup = k.AllowPlaintextBackup || *cfg.AllowPlaintextBackup
	}
	return nil
}

// CanDelete reports whether the key may be deleted.
func (k *TransitKey) CanDelete() error {
	if !k.DeletionAllowed {
		return fmt.Errorf("%w: key %q", ErrDeletionNotAllowed, k.Name)
	}
	return nil
}

// CanExport reports whether key material of the given type may be exported.
func (k *TransitKey) CanExport(exportType ExportKeyType) error {
	if !k.Exportable {
		return fmt.Errorf("%w: key %q", ErrExportNotAllowed, k.Name)
	}
	if !exportType.CompatibleWith(k.Type) {
		return fmt.Errorf("%w: %s export of %s key %q", ErrCapability, exportType, k.Type, k.Name)
	}
	return nil
}

// EncryptionVersion resolves the version to encrypt with. A requested version of 0 selects
// the latest version.
func (k *TransitKey) EncryptionVersion(requested uint) (uint, error) {
	if requested == 0 {
		return k.LatestVersion, nil
	}
	if requested > k.LatestVersion || requested < k.MinEncryptionVersion {
		return 0, fmt.Errorf("%w: requested version %d is outside [%d, %d]",
			ErrInvalidKeyVersion, requested, max(k.MinEncryptionVersion, 1), k.LatestVersion)
	}
	return requested, nil
}

// CheckDecryptionVersion reports whether ciphertext produced under version may be decrypted.
func (k *TransitKey) CheckDecryptionVersion(version uint) error {
	if version < k.MinDecryptionVersion {
		return fmt.Errorf("%w: ciphertext version is disallowed by policy (too old): %d < %d",
			ErrInvalidKeyVersion, version, k.MinDecryptionVersion)
	}
	if version > k.LatestVersion {
		return fmt.Errorf("%w: requested version %d is newer than the latest version %d",
			ErrInvalidKeyVersion, version, k.LatestVersion)
	}
	return nil
}

// RequiresContext reports whether encrypt and decrypt calls must carry a derivation context.
func (k *TransitKey) RequiresContext() bool {
	return k.Derived
}
