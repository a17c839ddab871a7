// Package usecase defines the interfaces and implementations for versioned secret use cases.
// Use cases shape requests against a versioned key-value engine and interpret its responses
// with the version lifecycle model.
package usecase

import (
	"context"

	secretsDomain "github.com/allisson/vaultops/internal/secrets/domain"
)

// VersionedKVUseCase defines the client-side operations of a versioned key-value engine.
type VersionedKVUseCase interface {
	// Put writes a new version without a version precondition.
	Put(ctx context.Context, path string, data map[string]any) (*secretsDomain.Metadata, error)
	// PutCAS writes a new version only if cas equals the current version.
	// secretsDomain.Unversioned() requires that the secret does not exist yet.
	PutCAS(
		ctx context.Context,
		path string,
		data map[string]any,
		cas secretsDomain.Version,
	) (*secretsDomain.Metadata, error)
	// Get reads the current version. It returns nil when the secret never existed and a
	// Versioned with nil Data when the current version is deleted or destroyed.
	Get(ctx context.Context, path string) (*secretsDomain.Versioned, error)
	// GetVersion reads a specific version with the same absent/deleted semantics as Get.
	GetVersion(ctx context.Context, path string, version secretsDomain.Version) (*secretsDomain.Versioned, error)
	// Delete soft-deletes the current version only.
	Delete(ctx context.Context, path string) error
	DeleteVersions(ctx context.Context, path string, versions ...secretsDomain.Version) error
	Undelete(ctx context.Context, path string, versions ...secretsDomain.Version) error
	Destroy(ctx context.Context, path string, versions ...secretsDomain.Version) error
	// List returns the immediate children of prefix; folders end with "/".
	List(ctx context.Context, prefix string) ([]string, error)
	// GetMetadata returns the metadata of every version, or nil when the secret never existed.
	GetMetadata(ctx context.Context, path string) (*secretsDomain.SecretMetadata, error)
}
