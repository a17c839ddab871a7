package usecase

import (
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/allisson/vaultops/internal/errors"
	secretsDomain "github.com/allisson/vaultops/internal/secrets/domain"
)

// versionMetadata is the metadata object of a single version.
type versionMetadata struct {
	Version      uint      `mapstructure:"version"`
	CreatedTime  time.Time `mapstructure:"created_time"`
	DeletionTime time.Time `mapstructure:"deletion_time"`
	Destroyed    bool      `mapstructure:"destroyed"`
}

// versionedResponse is the body of a data read.
type versionedResponse struct {
	Data     map[string]any  `mapstructure:"data"`
	Metadata versionMetadata `mapstructure:"metadata"`
}

// secretMetadataResponse is the body of a metadata read.
type secretMetadataResponse struct {
	CurrentVersion uint                       `mapstructure:"current_version"`
	OldestVersion  uint                       `mapstructure:"oldest_version"`
	CreatedTime    time.Time                  `mapstructure:"created_time"`
	UpdatedTime    time.Time                  `mapstructure:"updated_time"`
	Versions       map[string]versionMetadata `mapstructure:"versions"`
}

func (m versionMetadata) toDomain() secretsDomain.Metadata {
	metadata := secretsDomain.Metadata{
		Version:   m.Version,
		CreatedAt: m.CreatedTime.UTC(),
		Destroyed: m.Destroyed,
	}
	if !m.DeletionTime.IsZero() && !m.Destroyed {
		deletedAt := m.DeletionTime.UTC()
		metadata.DeletedAt = &deletedAt
	}
	return metadata
}

func (r versionedResponse) toDomain() *secretsDomain.Versioned {
	result := &secretsDomain.Versioned{Metadata: r.Metadata.toDomain()}
	if result.Metadata.State() == secretsDomain.StateActive && r.Data != nil {
		result.Data = r.Data
	}
	return result
}

func (r secretMetadataResponse) toDomain(path string) (*secretsDomain.SecretMetadata, error) {
	result := &secretsDomain.SecretMetadata{
		Path:           path,
		CurrentVersion: r.CurrentVersion,
		OldestVersion:  r.OldestVersion,
		CreatedAt:      r.CreatedTime.UTC(),
		UpdatedAt:      r.UpdatedTime.UTC(),
		Versions:       make(map[uint]secretsDomain.Metadata, len(r.Versions)),
	}
	for raw, meta := range r.Versions {
		version, err := strconv.ParseUint(raw, 10, 0)
		if err != nil || version == 0 {
			return nil, fmt.Errorf("%w: invalid version key %q", apperrors.ErrProtocol, raw)
		}
		meta.Version = uint(version)
		result.Versions[uint(version)] = meta.toDomain()
	}
	return result, nil
}

func versionNumbers(versions []secretsDomain.Version) ([]uint, error) {
	if len(versions) == 0 {
		return nil, apperrors.Wrap(secretsDomain.ErrInvalidVersion, "at least one version is required")
	}
	numbers := make([]uint, len(versions))
	for i, v := range versions {
		if !v.IsVersioned() {
			return nil, apperrors.Wrapf(secretsDomain.ErrInvalidVersion, "version %s", v)
		}
		numbers[i] = v.Number()
	}
	return numbers, nil
}
