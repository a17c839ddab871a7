package vaultsim

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	apperrors "github.com/allisson/vaultops/internal/errors"
	secretsDomain "github.com/allisson/vaultops/internal/secrets/domain"
)

type kvEngine struct {
	mu      sync.Mutex
	secrets map[string]*secretsDomain.SecretHistory
	now     func() time.Time
}

func newKVEngine(now func() time.Time) *kvEngine {
	return &kvEngine{
		secrets: make(map[string]*secretsDomain.SecretHistory),
		now:     now,
	}
}

type putBody struct {
	Data    map[string]any `mapstructure:"data"`
	Options struct {
		CAS *uint `mapstructure:"cas"`
	} `mapstructure:"options"`
}

type versionsBody struct {
	Versions []uint `mapstructure:"versions"`
}

func (k *kvEngine) handle(req *request) (*response, error) {
	if len(req.path) == 0 {
		return nil, unsupportedOperation(req)
	}
	section := req.path[0]
	secretPath := strings.Join(req.path[1:], "/")

	k.mu.Lock()
	defer k.mu.Unlock()

	switch {
	case section == "metadata" && req.op == opList:
		return k.list(secretPath)
	case secretPath == "":
		return nil, unsupportedOperation(req)
	case section == "data" && req.op == opWrite:
		return k.put(secretPath, req)
	case section == "data" && req.op == opRead:
		return k.read(secretPath, req)
	case section == "data" && req.op == opDelete:
		return k.deleteLatest(secretPath)
	case section == "delete" && req.op == opWrite:
		return k.versions(secretPath, req, func(h *secretsDomain.SecretHistory, v []uint) { h.Delete(v, k.now()) })
	case section == "undelete" && req.op == opWrite:
		return k.versions(secretPath, req, (*secretsDomain.SecretHistory).Undelete)
	case section == "destroy" && req.op == opWrite:
		return k.versions(secretPath, req, (*secretsDomain.SecretHistory).Destroy)
	case section == "metadata" && req.op == opRead:
		return k.metadata(secretPath)
	case section == "metadata" && req.op == opDelete:
		delete(k.secrets, secretPath)
		return nil, nil
	}
	return nil, unsupportedOperation(req)
}

func (k *kvEngine) put(secretPath string, req *request) (*response, error) {
	var body putBody
	if err := decodeBody(req, &body); err != nil {
		return nil, err
	}
	if body.Data == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "no data provided")
	}

	history, ok := k.secrets[secretPath]
	if !ok {
		history = secretsDomain.NewSecretHistory()
	}
	var cas *secretsDomain.Version
	if body.Options.CAS != nil {
		v := secretsDomain.VersionOf(*body.Options.CAS)
		cas = &v
	}

	meta, err := history.Put(body.Data, cas, k.now())
	if err != nil {
		return nil, err
	}
	k.secrets[secretPath] = history
	return &response{data: metadataBody(meta)}, nil
}

// read returns a version. Deleted and destroyed versions are reported with a 404 status
// and their metadata, never with data.
func (k *kvEngine) read(secretPath string, req *request) (*response, error) {
	history, ok := k.secrets[secretPath]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "secret not found")
	}

	var version uint
	if raw := req.query["version"]; len(raw) > 0 && raw[0] != "" {
		parsed, err := strconv.ParseUint(raw[0], 10, 0)
		if err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid version %q", raw[0])
		}
		version = uint(parsed)
	}

	versioned, ok := history.Get(version)
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "version not found")
	}

	resp := &response{data: map[string]any{
		"data":     nil,
		"metadata": metadataBody(versioned.Metadata),
	}}
	if versioned.HasData() {
		resp.data["data"] = versioned.Data
	} else {
		resp.status = http.StatusNotFound
	}
	return resp, nil
}

func (k *kvEngine) deleteLatest(secretPath string) (*response, error) {
	if history, ok := k.secrets[secretPath]; ok {
		history.Delete([]uint{history.CurrentVersion()}, k.now())
	}
	return nil, nil
}

func (k *kvEngine) versions(
	secretPath string,
	req *request,
	apply func(*secretsDomain.SecretHistory, []uint),
) (*response, error) {
	var body versionsBody
	if err := decodeBody(req, &body); err != nil {
		return nil, err
	}
	if len(body.Versions) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "no versions provided")
	}
	if history, ok := k.secrets[secretPath]; ok {
		apply(history, body.Versions)
	}
	return nil, nil
}

func (k *kvEngine) metadata(secretPath string) (*response, error) {
	history, ok := k.secrets[secretPath]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "secret not found")
	}
	meta := history.Metadata(secretPath)

	versions := make(map[string]any, len(meta.Versions))
	for v, m := range meta.Versions {
		versions[strconv.FormatUint(uint64(v), 10)] = metadataBody(m)
	}
	return &response{data: map[string]any{
		"current_version": meta.CurrentVersion,
		"oldest_version":  meta.OldestVersion,
		"created_time":    formatTime(meta.CreatedAt),
		"updated_time":    formatTime(meta.UpdatedAt),
		"versions":        versions,
	}}, nil
}

// list returns the direct children of prefix; intermediate folders end with "/".
func (k *kvEngine) list(prefix string) (*response, error) {
	if prefix != "" {
		prefix += "/"
	}

	seen := make(map[string]struct{})
	for secretPath := range k.secrets {
		rest, ok := strings.CutPrefix(secretPath, prefix)
		if !ok || rest == "" {
			continue
		}
		if head, _, nested := strings.Cut(rest, "/"); nested {
			seen[head+"/"] = struct{}{}
		} else {
			seen[rest] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "no entries")
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)

	keys := make([]any, len(names))
	for i, name := range names {
		keys[i] = name
	}
	return &response{data: map[string]any{"keys": keys}}, nil
}

func metadataBody(m secretsDomain.Metadata) map[string]any {
	deletionTime := ""
	if m.DeletedAt != nil {
		deletionTime = formatTime(*m.DeletedAt)
	}
	return map[string]any{
		"version":       m.Version,
		"created_time":  formatTime(m.CreatedAt),
		"deletion_time": deletionTime,
		"destroyed":     m.Destroyed,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
