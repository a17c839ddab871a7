package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	secretsDomain "github.com/allisson/vaultops/internal/secrets/domain"
	secretsUseCase "github.com/allisson/vaultops/internal/secrets/usecase"
)

// versionOutput is the printable view of one secret version.
type versionOutput struct {
	Version   uint       `json:"version"`
	State     string     `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func newVersionOutput(meta secretsDomain.Metadata) versionOutput {
	return versionOutput{
		Version:   meta.Version,
		State:     string(meta.State()),
		CreatedAt: meta.CreatedAt,
		DeletedAt: meta.DeletedAt,
	}
}

// RunKVPut writes a new secret version. A cas of -1 writes unconditionally; 0 requires
// that the secret does not exist yet; any other value must match the current version.
func RunKVPut(
	ctx context.Context,
	uc secretsUseCase.VersionedKVUseCase,
	logger *slog.Logger,
	writer io.Writer,
	path string,
	data map[string]any,
	cas int64,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if cas < -1 {
		return fmt.Errorf("%w: cas must be -1, 0 or a version number", secretsDomain.ErrInvalidVersion)
	}
	logger.Info("writing secret", slog.String("path", path), slog.Int64("cas", cas))

	var (
		meta *secretsDomain.Metadata
		err  error
	)
	if cas < 0 {
		meta, err = uc.Put(ctx, path, data)
	} else {
		meta, err = uc.PutCAS(ctx, path, data, secretsDomain.VersionOf(uint(cas)))
	}
	if err != nil {
		return fmt.Errorf("failed to write secret: %w", err)
	}

	logger.Info("secret written successfully",
		slog.String("path", path),
		slog.Uint64("version", uint64(meta.Version)),
	)

	return writeOutput(writer, format, newVersionOutput(*meta), func(w io.Writer) {
		_, _ = fmt.Fprintf(w, "Secret %q written as version %d\n", path, meta.Version)
	})
}

// RunKVGet prints a secret version. A version of 0 reads the current version.
func RunKVGet(
	ctx context.Context,
	uc secretsUseCase.VersionedKVUseCase,
	logger *slog.Logger,
	writer io.Writer,
	path string,
	version uint,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	logger.Debug("reading secret", slog.String("path", path), slog.Uint64("version", uint64(version)))

	var (
		secret *secretsDomain.Versioned
		err    error
	)
	if version == 0 {
		secret, err = uc.Get(ctx, path)
	} else {
		secret, err = uc.GetVersion(ctx, path, secretsDomain.VersionOf(version))
	}
	if err != nil {
		return fmt.Errorf("failed to read secret: %w", err)
	}
	if secret == nil {
		return fmt.Errorf("%w: %s", secretsDomain.ErrSecretNotFound, path)
	}

	out := map[string]any{
		"data":     secret.Data,
		"metadata": newVersionOutput(secret.Metadata),
	}
	return writeOutput(writer, format, out, func(w io.Writer) {
		_, _ = fmt.Fprintf(w, "Version: %d (%s)\n", secret.Metadata.Version, secret.Metadata.State())
		if !secret.HasData() {
			_, _ = fmt.Fprintln(w, "No data: the version is deleted or destroyed")
			return
		}
		for _, key := range slices.Sorted(maps.Keys(secret.Data)) {
			_, _ = fmt.Fprintf(w, "%s=%v\n", key, secret.Data[key])
		}
	})
}

// RunKVDelete soft-deletes the current version, or the given versions when any are passed.
func RunKVDelete(
	ctx context.Context,
	uc secretsUseCase.VersionedKVUseCase,
	logger *slog.Logger,
	writer io.Writer,
	path string,
	versions []secretsDomain.Version,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	logger.Info("deleting secret", slog.String("path", path), slog.Int("versions", len(versions)))

	var err error
	if len(versions) == 0 {
		err = uc.Delete(ctx, path)
	} else {
		err = uc.DeleteVersions(ctx, path, versions...)
	}
	if err != nil {
		return fmt.Errorf("failed to delete secret: %w", err)
	}

	return writeVersionsResult(writer, format, "deleted", path, versions)
}

// RunKVUndelete restores soft-deleted versions.
func RunKVUndelete(
	ctx context.Context,
	uc secretsUseCase.VersionedKVUseCase,
	logger *slog.Logger,
	writer io.Writer,
	path string,
	versions []secretsDomain.Version,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	logger.Info("undeleting secret versions", slog.String("path", path), slog.Int("versions", len(versions)))

	if err := uc.Undelete(ctx, path, versions...); err != nil {
		return fmt.Errorf("failed to undelete secret: %w", err)
	}

	return writeVersionsResult(writer, format, "undeleted", path, versions)
}

// RunKVDestroy permanently removes the data of the given versions.
func RunKVDestroy(
	ctx context.Context,
	uc secretsUseCase.VersionedKVUseCase,
	logger *slog.Logger,
	writer io.Writer,
	path string,
	versions []secretsDomain.Version,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	logger.Warn("destroying secret versions", slog.String("path", path), slog.Int("versions", len(versions)))

	if err := uc.Destroy(ctx, path, versions...); err != nil {
		return fmt.Errorf("failed to destroy secret: %w", err)
	}

	return writeVersionsResult(writer, format, "destroyed", path, versions)
}

func writeVersionsResult(
	writer io.Writer,
	format string,
	action string,
	path string,
	versions []secretsDomain.Version,
) error {
	numbers := make([]uint, len(versions))
	labels := make([]string, len(versions))
	for i, v := range versions {
		numbers[i] = v.Number()
		labels[i] = v.String()
	}

	out := map[string]any{"path": path, "action": action, "versions": numbers}
	return writeOutput(writer, format, out, func(w io.Writer) {
		if len(versions) == 0 {
			_, _ = fmt.Fprintf(w, "Current version of %q %s\n", path, action)
			return
		}
		_, _ = fmt.Fprintf(w, "Versions %s of %q %s\n", strings.Join(labels, ", "), path, action)
	})
}

// RunKVList prints the children of prefix. Folders end with "/".
func RunKVList(
	ctx context.Context,
	uc secretsUseCase.VersionedKVUseCase,
	logger *slog.Logger,
	writer io.Writer,
	prefix string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	keys, err := uc.List(ctx, prefix)
	if err != nil {
		return fmt.Errorf("failed to list secrets: %w", err)
	}

	logger.Debug("secrets listed", slog.String("prefix", prefix), slog.Int("count", len(keys)))

	return writeOutput(writer, format, map[string]any{"keys": keys}, func(w io.Writer) {
		if len(keys) == 0 {
			_, _ = fmt.Fprintln(w, "No secrets found")
			return
		}
		_, _ = fmt.Fprintln(w, strings.Join(keys, "\n"))
	})
}

// RunKVMetadata prints the state of every version of a secret.
func RunKVMetadata(
	ctx context.Context,
	uc secretsUseCase.VersionedKVUseCase,
	logger *slog.Logger,
	writer io.Writer,
	path string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	logger.Debug("reading secret metadata", slog.String("path", path))

	meta, err := uc.GetMetadata(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to read secret metadata: %w", err)
	}
	if meta == nil {
		return fmt.Errorf("%w: %s", secretsDomain.ErrSecretNotFound, path)
	}

	versions := make([]versionOutput, 0, len(meta.Versions))
	for _, number := range slices.Sorted(maps.Keys(meta.Versions)) {
		versions = append(versions, newVersionOutput(meta.Versions[number]))
	}

	out := map[string]any{
		"path":            meta.Path,
		"current_version": meta.CurrentVersion,
		"oldest_version":  meta.OldestVersion,
		"versions":        versions,
	}
	return writeOutput(writer, format, out, func(w io.Writer) {
		_, _ = fmt.Fprintf(w, "Path:            %s\n", meta.Path)
		_, _ = fmt.Fprintf(w, "Current Version: %d\n", meta.CurrentVersion)
		for _, v := range versions {
			_, _ = fmt.Fprintf(w, "  %d: %s\n", v.Version, v.State)
		}
	})
}
