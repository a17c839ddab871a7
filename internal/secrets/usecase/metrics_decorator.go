package usecase

import (
	"context"
	"time"

	"github.com/allisson/vaultops/internal/metrics"
	secretsDomain "github.com/allisson/vaultops/internal/secrets/domain"
)

// versionedKVUseCaseWithMetrics decorates VersionedKVUseCase with metrics instrumentation.
type versionedKVUseCaseWithMetrics struct {
	next    VersionedKVUseCase
	metrics metrics.BusinessMetrics
}

// NewVersionedKVUseCaseWithMetrics wraps a VersionedKVUseCase with metrics recording.
func NewVersionedKVUseCaseWithMetrics(useCase VersionedKVUseCase, m metrics.BusinessMetrics) VersionedKVUseCase {
	return &versionedKVUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Put records metrics for unconditional writes.
func (k *versionedKVUseCaseWithMetrics) Put(
	ctx context.Context,
	path string,
	data map[string]any,
) (*secretsDomain.Metadata, error) {
	start := time.Now()
	meta, err := k.next.Put(ctx, path, data)
	metrics.Observe(ctx, k.metrics, "kv", "kv_put", start, err)
	return meta, err
}

// PutCAS records metrics for check-and-set writes.
func (k *versionedKVUseCaseWithMetrics) PutCAS(
	ctx context.Context,
	path string,
	data map[string]any,
	cas secretsDomain.Version,
) (*secretsDomain.Metadata, error) {
	start := time.Now()
	meta, err := k.next.PutCAS(ctx, path, data, cas)
	metrics.Observe(ctx, k.metrics, "kv", "kv_put_cas", start, err)
	return meta, err
}

// Get records metrics for current version reads.
func (k *versionedKVUseCaseWithMetrics) Get(ctx context.Context, path string) (*secretsDomain.Versioned, error) {
	start := time.Now()
	versioned, err := k.next.Get(ctx, path)
	metrics.Observe(ctx, k.metrics, "kv", "kv_get", start, err)
	return versioned, err
}

// GetVersion records metrics for specific version reads.
func (k *versionedKVUseCaseWithMetrics) GetVersion(
	ctx context.Context,
	path string,
	version secretsDomain.Version,
) (*secretsDomain.Versioned, error) {
	start := time.Now()
	versioned, err := k.next.GetVersion(ctx, path, version)
	metrics.Observe(ctx, k.metrics, "kv", "kv_get_version", start, err)
	return versioned, err
}

// Delete records metrics for current version deletion.
func (k *versionedKVUseCaseWithMetrics) Delete(ctx context.Context, path string) error {
	start := time.Now()
	err := k.next.Delete(ctx, path)
	metrics.Observe(ctx, k.metrics, "kv", "kv_delete", start, err)
	return err
}

// DeleteVersions records metrics for version deletion.
func (k *versionedKVUseCaseWithMetrics) DeleteVersions(
	ctx context.Context,
	path string,
	versions ...secretsDomain.Version,
) error {
	start := time.Now()
	err := k.next.DeleteVersions(ctx, path, versions...)
	metrics.Observe(ctx, k.metrics, "kv", "kv_delete_versions", start, err)
	return err
}

// Undelete records metrics for version restoration.
func (k *versionedKVUseCaseWithMetrics) Undelete(
	ctx context.Context,
	path string,
	versions ...secretsDomain.Version,
) error {
	start := time.Now()
	err := k.next.Undelete(ctx, path, versions...)
	metrics.Observe(ctx, k.metrics, "kv", "kv_undelete", start, err)
	return err
}

// Destroy records metrics for version destruction.
func (k *versionedKVUseCaseWithMetrics) Destroy(
	ctx context.Context,
	path string,
	versions ...secretsDomain.Version,
) error {
	start := time.Now()
	err := k.next.Destroy(ctx, path, versions...)
	metrics.Observe(ctx, k.metrics, "kv", "kv_destroy", start, err)
	return err
}

// List records metrics for listing.
func (k *versionedKVUseCaseWithMetrics) List(ctx context.Context, prefix string) ([]string, error) {
	start := time.Now()
	keys, err := k.next.List(ctx, prefix)
	metrics.Observe(ctx, k.metrics, "kv", "kv_list", start, err)
	return keys, err
}

// GetMetadata records metrics for metadata reads.
func (k *versionedKVUseCaseWithMetrics) GetMetadata(
	ctx context.Context,
	path string,
) (*secretsDomain.SecretMetadata, error) {
	start := time.Now()
	meta, err := k.next.GetMetadata(ctx, path)
	metrics.Observe(ctx, k.metrics, "kv", "kv_metadata", start, err)
	return meta, err
}
