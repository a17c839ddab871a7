// Package domain defines the core domain models and types for versioned secrets.
// Every write creates a new immutable version; versions are soft-deleted, restored
// or destroyed individually.
package domain

import (
	"time"
)

// VersionState is the lifecycle state of a single secret version.
type VersionState string

// Secret version states. Destroyed is terminal.
const (
	StateActive      VersionState = "active"
	StateSoftDeleted VersionState = "soft_deleted"
	StateDestroyed   VersionState = "destroyed"
)

// Metadata describes one version of a secret.
type Metadata struct {
	// Version is the version number, starting at 1.
	Version uint
	// CreatedAt is the UTC timestamp when this version was written.
	CreatedAt time.Time
	// DeletedAt marks when this version was soft-deleted (nil if active).
	// It carries no meaning once the version is destroyed.
	DeletedAt *time.Time
	// Destroyed marks permanently removed data.
	Destroyed bool
}

// State derives the lifecycle state from the metadata.
func (m Metadata) State() VersionState {
	switch {
	case m.Destroyed:
		return StateDestroyed
	case m.DeletedAt != nil:
		return StateSoftDeleted
	default:
		return StateActive
	}
}

// Versioned is one version of a secret as read from the store. Data is nil when the version
// is soft-deleted or destroyed; Metadata is always populated.
type Versioned struct {
	Data     map[string]any
	Metadata Metadata
}

// HasData reports whether the version's data is readable.
func (v *Versioned) HasData() bool {
	return v != nil && v.Data != nil
}

// SecretMetadata describes every version of a secret.
type SecretMetadata struct {
	Path           string
	CurrentVersion uint
	OldestVersion  uint
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Versions       map[uint]Metadata
}
