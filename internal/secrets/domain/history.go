package domain

import (
	"fmt"
	"maps"
	"time"
)

type historyEntry struct {
	data     map[string]any
	metadata Metadata
}

// SecretHistory is the authoritative version history of one logical secret as kept by a
// store. Versions are dense: entry i holds version i+1. SecretHistory is not safe for
// concurrent use; the owning store serializes access.
type SecretHistory struct {
	entries []historyEntry
}

// NewSecretHistory creates an empty history with no versions.
func NewSecretHistory() *SecretHistory {
	return &SecretHistory{}
}

// CurrentVersion returns the latest version number, 0 when nothing was written.
func (h *SecretHistory) CurrentVersion() uint {
	return uint(len(h.entries))
}

// Put appends a new version. When cas is non-nil the write only succeeds if *cas equals
// the current version; 0 requires that no version exists yet.
func (h *SecretHistory) Put(data map[string]any, cas *Version, now time.Time) (Metadata, error) {
	if cas != nil && cas.Number() != h.CurrentVersion() {
		return Metadata{}, fmt.Errorf("%w: expected version %d, current version is %d",
			ErrCasConflict, cas.Number(), h.CurrentVersion())
	}

	metadata := Metadata{
		Version:   h.CurrentVersion() + 1,
		CreatedAt: now.UTC(),
	}
	h.entries = append(h.entries, historyEntry{
		data:     cloneData(data),
		metadata: metadata,
	})
	return metadata, nil
}

// Get returns the given version, or the current one for version 0. The bool result is
// false when the version never existed.
func (h *SecretHistory) Get(version uint) (*Versioned, bool) {
	if version == 0 {
		version = h.CurrentVersion()
	}
	entry, ok := h.entry(version)
	if !ok {
		return nil, false
	}

	result := &Versioned{Metadata: copyMetadata(entry.metadata)}
	if entry.metadata.State() == StateActive {
		result.Data = cloneData(entry.data)
	}
	return result, true
}

// Delete soft-deletes the given versions. Destroyed, already deleted and unknown versions
// are left unchanged.
func (h *SecretHistory) Delete(versions []uint, now time.Time) {
	for _, v := range versions {
		entry, ok := h.entry(v)
		if !ok || entry.metadata.State() != StateActive {
			continue
		}
		deletedAt := now.UTC()
		entry.metadata.DeletedAt = &deletedAt
	}
}

// Undelete restores soft-deleted versions. Destroyed versions cannot be restored and are
// left unchanged.
func (h *SecretHistory) Undelete(versions []uint) {
	for _, v := range versions {
		entry, ok := h.entry(v)
		if !ok || entry.metadata.Destroyed {
			continue
		}
		entry.metadata.DeletedAt = nil
	}
}

// Destroy permanently removes the data of the given versions.
func (h *SecretHistory) Destroy(versions []uint) {
	for _, v := range versions {
		entry, ok := h.entry(v)
		if !ok {
			continue
		}
		entry.data = nil
		entry.metadata.Destroyed = true
		entry.metadata.DeletedAt = nil
	}
}

// Metadata summarizes every version of the secret stored at path.
func (h *SecretHistory) Metadata(path string) SecretMetadata {
	result := SecretMetadata{
		Path:           path,
		CurrentVersion: h.CurrentVersion(),
		Versions:       make(map[uint]Metadata, len(h.entries)),
	}
	if len(h.entries) > 0 {
		result.OldestVersion = 1
		result.CreatedAt = h.entries[0].metadata.CreatedAt
		result.UpdatedAt = h.entries[len(h.entries)-1].metadata.CreatedAt
	}
	for _, entry := range h.entries {
		result.Versions[entry.metadata.Version] = copyMetadata(entry.metadata)
	}
	return result
}

func (h *SecretHistory) entry(version uint) (*historyEntry, bool) {
	if version == 0 || version > h.CurrentVersion() {
		return nil, false
	}
	return &h.entries[version-1], true
}

func copyMetadata(m Metadata) Metadata {
	if m.DeletedAt != nil {
		deletedAt := *m.DeletedAt
		m.DeletedAt = &deletedAt
	}
	return m
}

// cloneData copies the top level of data; nil becomes an empty map.
func cloneData(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	return maps.Clone(data)
}
