// Package usecase implements client-side orchestration for a versioned key-value engine.
//
// Every write creates a new immutable version. Reads address the current version or a
// specific one; versions are soft-deleted, restored or destroyed individually. The use
// case keeps no state: each call is a single request through a transport.Transport.
//
// # Absent versus deleted
//
// A path that never held a secret reads as nil. A version that exists but is soft-deleted
// or destroyed reads as a Versioned with nil Data and populated Metadata, so callers can
// tell the two apart.
//
// # Check-and-set
//
// PutCAS writes only when the supplied version equals the current one. A mismatch fails
// with ErrCasConflict and creates no version.
//
// # Usage Example
//
//	kvUC := usecase.NewVersionedKVUseCase(tr, "secret")
//
//	meta, err := kvUC.PutCAS(ctx, "app/db", map[string]any{"password": "s3cr3t"}, secretsDomain.Unversioned())
//	current, err := kvUC.Get(ctx, "app/db")
//	err = kvUC.Delete(ctx, "app/db")
//	err = kvUC.Undelete(ctx, "app/db", secretsDomain.VersionOf(meta.Version))
package usecase

import (
	"context"
	"fmt"
	"path"
	"strings"

	apperrors "github.com/allisson/vaultops/internal/errors"
	secretsDomain "github.com/allisson/vaultops/internal/secrets/domain"
	"github.com/allisson/vaultops/internal/transport"
	"github.com/allisson/vaultops/internal/validation"
)

// versionedKVUseCase implements VersionedKVUseCase against an engine mounted at mount.
type versionedKVUseCase struct {
	transport transport.Transport
	mount     string
}

// NewVersionedKVUseCase creates a VersionedKVUseCase for the engine mounted at mount.
func NewVersionedKVUseCase(tr transport.Transport, mount string) VersionedKVUseCase {
	return &versionedKVUseCase{
		transport: tr,
		mount:     mount,
	}
}

func (k *versionedKVUseCase) path(section, secretPath string) string {
	return path.Join(k.mount, section, secretPath)
}

func (k *versionedKVUseCase) invoke(ctx context.Context, req transport.Request) (*transport.Response, error) {
	resp, err := k.transport.Invoke(ctx, req)
	if err != nil {
		return nil, secretsDomain.ClassifyRemoteError(err)
	}
	return resp, nil
}

func validatePath(secretPath string) error {
	if secretPath == "" {
		return apperrors.Wrap(secretsDomain.ErrInvalidSecretPath, "path is required")
	}
	if err := validation.SecretPath.Validate(secretPath); err != nil {
		return apperrors.Wrapf(secretsDomain.ErrInvalidSecretPath, "%q: %v", secretPath, err)
	}
	return nil
}

// Put writes a new version unconditionally.
func (k *versionedKVUseCase) Put(
	ctx context.Context,
	secretPath string,
	data map[string]any,
) (*secretsDomain.Metadata, error) {
	return k.put(ctx, secretPath, data, nil)
}

// PutCAS writes a new version only if cas matches the current version.
func (k *versionedKVUseCase) PutCAS(
	ctx context.Context,
	secretPath string,
	data map[string]any,
	cas secretsDomain.Version,
) (*secretsDomain.Metadata, error) {
	return k.put(ctx, secretPath, data, &cas)
}

func (k *versionedKVUseCase) put(
	ctx context.Context,
	secretPath string,
	data map[string]any,
	cas *secretsDomain.Version,
) (*secretsDomain.Metadata, error) {
	if err := validatePath(secretPath); err != nil {
		return nil, err
	}
	if data == nil {
		data = map[string]any{}
	}

	body := map[string]any{"data": data}
	if cas != nil {
		body["options"] = map[string]any{"cas": cas.Number()}
	}

	resp, err := k.invoke(ctx, transport.Post(k.path("data", secretPath), body))
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Data == nil {
		return nil, fmt.Errorf("%w: write response has no metadata", apperrors.ErrProtocol)
	}

	var meta versionMetadata
	if err := transport.Decode(resp.Data, &meta); err != nil {
		return nil, err
	}
	if meta.Version == 0 {
		return nil, fmt.Errorf("%w: write response has no version", apperrors.ErrProtocol)
	}
	result := meta.toDomain()
	return &result, nil
}

// Get reads the current version.
func (k *versionedKVUseCase) Get(ctx context.Context, secretPath string) (*secretsDomain.Versioned, error) {
	return k.read(ctx, secretPath, secretsDomain.Unversioned())
}

// GetVersion reads a specific version. The Unversioned sentinel is rejected.
func (k *versionedKVUseCase) GetVersion(
	ctx context.Context,
	secretPath string,
	version secretsDomain.Version,
) (*secretsDomain.Versioned, error) {
	if !version.IsVersioned() {
		return nil, apperrors.Wrapf(secretsDomain.ErrInvalidVersion, "version %s", version)
	}
	return k.read(ctx, secretPath, version)
}

func (k *versionedKVUseCase) read(
	ctx context.Context,
	secretPath string,
	version secretsDomain.Version,
) (*secretsDomain.Versioned, error) {
	if err := validatePath(secretPath); err != nil {
		return nil, err
	}

	req := transport.Get(k.path("data", secretPath))
	if version.IsVersioned() {
		req = req.WithQuery("version", version.String())
	}

	resp, err := k.invoke(ctx, req)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Data == nil {
		return nil, nil
	}

	var body versionedResponse
	if err := transport.Decode(resp.Data, &body); err != nil {
		return nil, err
	}
	if body.Metadata.Version == 0 {
		// A metadata-less body means the version never existed.
		return nil, nil
	}
	return body.toDomain(), nil
}

// Delete soft-deletes the current version. Older versions are not affected.
func (k *versionedKVUseCase) Delete(ctx context.Context, secretPath string) error {
	if err := validatePath(secretPath); err != nil {
		return err
	}
	_, err := k.invoke(ctx, transport.Delete(k.path("data", secretPath)))
	return err
}

// DeleteVersions soft-deletes the given versions.
func (k *versionedKVUseCase) DeleteVersions(
	ctx context.Context,
	secretPath string,
	versions ...secretsDomain.Version,
) error {
	return k.versionsCall(ctx, "delete", secretPath, versions)
}

// Undelete restores soft-deleted versions. Destroyed versions stay destroyed.
func (k *versionedKVUseCase) Undelete(
	ctx context.Context,
	secretPath string,
	versions ...secretsDomain.Version,
) error {
	return k.versionsCall(ctx, "undelete", secretPath, versions)
}

// Destroy permanently removes the data of the given versions; their metadata remains.
func (k *versionedKVUseCase) Destroy(
	ctx context.Context,
	secretPath string,
	versions ...secretsDomain.Version,
) error {
	return k.versionsCall(ctx, "destroy", secretPath, versions)
}

func (k *versionedKVUseCase) versionsCall(
	ctx context.Context,
	section, secretPath string,
	versions []secretsDomain.Version,
) error {
	if err := validatePath(secretPath); err != nil {
		return err
	}
	numbers, err := versionNumbers(versions)
	if err != nil {
		return err
	}
	_, err = k.invoke(ctx, transport.Post(k.path(section, secretPath), map[string]any{"versions": numbers}))
	return err
}

// List returns the children of prefix. An empty prefix lists the mount root.
func (k *versionedKVUseCase) List(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix != "" {
		if err := validatePath(prefix); err != nil {
			return nil, err
		}
	}

	resp, err := k.invoke(ctx, transport.List(k.path("metadata", prefix)))
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Data == nil {
		return []string{}, nil
	}

	var body struct {
		Keys []string `mapstructure:"keys"`
	}
	if err := transport.Decode(resp.Data, &body); err != nil {
		return nil, err
	}
	if body.Keys == nil {
		return []string{}, nil
	}
	return body.Keys, nil
}

// GetMetadata returns the version metadata of a secret, or nil when it never existed.
func (k *versionedKVUseCase) GetMetadata(
	ctx context.Context,
	secretPath string,
) (*secretsDomain.SecretMetadata, error) {
	if err := validatePath(secretPath); err != nil {
		return nil, err
	}

	resp, err := k.invoke(ctx, transport.Get(k.path("metadata", secretPath)))
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Data == nil {
		return nil, nil
	}

	var body secretMetadataResponse
	if err := transport.Decode(resp.Data, &body); err != nil {
		return nil, err
	}
	return body.toDomain(secretPath)
}
