package async

import (
	"context"

	secretsDomain "github.com/allisson/vaultops/internal/secrets/domain"
	secretsUseCase "github.com/allisson/vaultops/internal/secrets/usecase"
)

// KV exposes the versioned key-value use case through futures.
type KV struct {
	uc       secretsUseCase.VersionedKVUseCase
	executor *Executor
}

// NewKV creates a non-blocking facade over uc.
func NewKV(uc secretsUseCase.VersionedKVUseCase, executor *Executor) *KV {
	return &KV{uc: uc, executor: executor}
}

func (k *KV) Put(ctx context.Context, path string, data map[string]any) *Future[*secretsDomain.Metadata] {
	return Submit(ctx, k.executor, func(ctx context.Context) (*secretsDomain.Metadata, error) {
		return k.uc.Put(ctx, path, data)
	})
}

// PutCAS fails with ErrCasConflict on a version mismatch; it is never retried.
func (k *KV) PutCAS(
	ctx context.Context,
	path string,
	data map[string]any,
	cas secretsDomain.Version,
) *Future[*secretsDomain.Metadata] {
	return Submit(ctx, k.executor, func(ctx context.Context) (*secretsDomain.Metadata, error) {
		return k.uc.PutCAS(ctx, path, data, cas)
	})
}

// Get completes empty when the secret never existed.
func (k *KV) Get(ctx context.Context, path string) *Future[*secretsDomain.Versioned] {
	return SubmitOptional(ctx, k.executor, func(ctx context.Context) (*secretsDomain.Versioned, error) {
		return k.uc.Get(ctx, path)
	})
}

// GetVersion completes empty when the version never existed.
func (k *KV) GetVersion(
	ctx context.Context,
	path string,
	version secretsDomain.Version,
) *Future[*secretsDomain.Versioned] {
	return SubmitOptional(ctx, k.executor, func(ctx context.Context) (*secretsDomain.Versioned, error) {
		return k.uc.GetVersion(ctx, path, version)
	})
}

func (k *KV) Delete(ctx context.Context, path string) *Future[struct{}] {
	return Submit(ctx, k.executor, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, k.uc.Delete(ctx, path)
	})
}

func (k *KV) DeleteVersions(
	ctx context.Context,
	path string,
	versions ...secretsDomain.Version,
) *Future[struct{}] {
	return Submit(ctx, k.executor, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, k.uc.DeleteVersions(ctx, path, versions...)
	})
}

// Undelete leaves destroyed versions destroyed.
func (k *KV) Undelete(
	ctx context.Context,
	path string,
	versions ...secretsDomain.Version,
) *Future[struct{}] {
	return Submit(ctx, k.executor, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, k.uc.Undelete(ctx, path, versions...)
	})
}

func (k *KV) Destroy(
	ctx context.Context,
	path string,
	versions ...secretsDomain.Version,
) *Future[struct{}] {
	return Submit(ctx, k.executor, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, k.uc.Destroy(ctx, path, versions...)
	})
}

func (k *KV) List(ctx context.Context, prefix string) *Future[[]string] {
	return Submit(ctx, k.executor, func(ctx context.Context) ([]string, error) {
		return k.uc.List(ctx, prefix)
	})
}

// GetMetadata completes empty when the secret never existed.
func (k *KV) GetMetadata(ctx context.Context, path string) *Future[*secretsDomain.SecretMetadata] {
	return SubmitOptional(ctx, k.executor, func(ctx context.Context) (*secretsDomain.SecretMetadata, error) {
		return k.uc.GetMetadata(ctx, path)
	})
}
