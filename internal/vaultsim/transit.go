package vaultsim

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/allisson/vaultops/internal/crypto/service"
	apperrors "github.com/allisson/vaultops/internal/errors"
	transitDomain "github.com/allisson/vaultops/internal/transit/domain"
	"github.com/allisson/vaultops/internal/transport"
)

// transitKey pairs the key policy with per-version key material.
type transitKey struct {
	policy   *transitDomain.TransitKey
	material map[uint]*keyMaterial
}

type transitEngine struct {
	mu      sync.Mutex
	keys    map[string]*transitKey
	ciphers service.AEADManager
	now     func() time.Time
}

func newTransitEngine(ciphers service.AEADManager, now func() time.Time) *transitEngine {
	return &transitEngine{
		keys:    make(map[string]*transitKey),
		ciphers: ciphers,
		now:     now,
	}
}

type createKeyBody struct {
	Type                 string `mapstructure:"type"`
	Derived              bool   `mapstructure:"derived"`
	ConvergentEncryption bool   `mapstructure:"convergent_encryption"`
	Exportable           bool   `mapstructure:"exportable"`
	AllowPlaintextBackup bool   `mapstructure:"allow_plaintext_backup"`
}

type configBody struct {
	MinDecryptionVersion *uint `mapstructure:"min_decryption_version"`
	MinEncryptionVersion *uint `mapstructure:"min_encryption_version"`
	DeletionAllowed      *bool `mapstructure:"deletion_allowed"`
	Exportable           *bool `mapstructure:"exportable"`
	AllowPlaintextBackup *bool `mapstructure:"allow_plaintext_backup"`
}

func decodeBody(req *request, out any) error {
	if err := transport.Decode(req.body, out); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
	}
	return nil
}

func (e *transitEngine) handle(req *request) (*response, error) {
	seg := req.path
	if len(seg) == 0 {
		return nil, unsupportedOperation(req)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case seg[0] == "keys" && len(seg) == 1 && req.op == opList:
		return e.listKeys()
	case seg[0] == "keys" && len(seg) == 2:
		switch req.op {
		case opWrite:
			return e.createKey(seg[1], req)
		case opRead:
			return e.readKey(seg[1])
		case opDelete:
			return e.deleteKey(seg[1])
		}
	case seg[0] == "keys" && len(seg) == 3 && req.op == opWrite && seg[2] == "config":
		return e.configureKey(seg[1], req)
	case seg[0] == "keys" && len(seg) == 3 && req.op == opWrite && seg[2] == "rotate":
		return e.rotateKey(seg[1])
	case seg[0] == "encrypt" && len(seg) == 2 && req.op == opWrite:
		return e.encrypt(seg[1], req)
	case seg[0] == "decrypt" && len(seg) == 2 && req.op == opWrite:
		return e.decrypt(seg[1], req)
	case seg[0] == "rewrap" && len(seg) == 2 && req.op == opWrite:
		return e.rewrap(seg[1], req)
	case seg[0] == "hmac" && (len(seg) == 2 || len(seg) == 3) && req.op == opWrite:
		return e.hmac(seg[1], algorithmSegment(seg), req)
	case seg[0] == "sign" && (len(seg) == 2 || len(seg) == 3) && req.op == opWrite:
		return e.sign(seg[1], algorithmSegment(seg), req)
	case seg[0] == "verify" && (len(seg) == 2 || len(seg) == 3) && req.op == opWrite:
		return e.verify(seg[1], algorithmSegment(seg), req)
	case seg[0] == "export" && (len(seg) == 3 || len(seg) == 4) && req.op == opRead:
		return e.export(transitDomain.ExportKeyType(seg[1]), seg[2], seg[3:])
	}
	return nil, unsupportedOperation(req)
}

func algorithmSegment(seg []string) transitDomain.HashAlgorithm {
	if len(seg) == 3 {
		return transitDomain.HashAlgorithm(seg[2])
	}
	return ""
}

func (e *transitEngine) lookup(name string) (*transitKey, error) {
	key, ok := e.keys[name]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "encryption key not found")
	}
	return key, nil
}

func (e *transitEngine) listKeys() (*response, error) {
	if len(e.keys) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "no keys")
	}
	names := make([]any, 0, len(e.keys))
	for name := range e.keys {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i].(string) < names[j].(string) })
	return &response{data: map[string]any{"keys": names}}, nil
}

// createKey creates a key. Creating an existing key is a no-op.
func (e *transitEngine) createKey(name string, req *request) (*response, error) {
	var body createKeyBody
	if err := decodeBody(req, &body); err != nil {
		return nil, err
	}
	if _, exists := e.keys[name]; exists {
		return nil, nil
	}

	creation := transitDomain.KeyCreationRequest{
		Type:                 transitDomain.KeyType(body.Type),
		Derived:              body.Derived,
		ConvergentEncryption: body.ConvergentEncryption,
		Exportable:           body.Exportable,
		AllowPlaintextBackup: body.AllowPlaintextBackup,
	}
	if err := creation.Validate(); err != nil {
		return nil, err
	}
	_, err := e.create(name, creation)
	return nil, err
}

func (e *transitEngine) create(name string, creation transitDomain.KeyCreationRequest) (*transitKey, error) {
	policy := transitDomain.NewTransitKey(name, creation, e.now())
	material, err := generateMaterial(policy.Type)
	if err != nil {
		return nil, err
	}
	key := &transitKey{
		policy:   policy,
		material: map[uint]*keyMaterial{policy.LatestVersion: material},
	}
	e.keys[name] = key
	return key, nil
}

func (e *transitEngine) readKey(name string) (*response, error) {
	key, ok := e.keys[name]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "key not found")
	}
	policy := key.policy

	versions := make(map[string]any, len(policy.Versions))
	for v, created := range policy.Versions {
		if policy.Type.IsSymmetric() {
			versions[strconv.FormatUint(uint64(v), 10)] = created.Unix()
			continue
		}
		versions[strconv.FormatUint(uint64(v), 10)] = map[string]any{
			"creation_time": created.Format(time.RFC3339Nano),
			"name":          string(policy.Type),
			"public_key":    key.material[v].publicKey(),
		}
	}

	return &response{data: map[string]any{
		"name":                   policy.Name,
		"type":                   string(policy.Type),
		"keys":                   versions,
		"latest_version":         policy.LatestVersion,
		"min_encryption_version": policy.MinEncryptionVersion,
		"min_decryption_version": policy.MinDecryptionVersion,
		"derived":                policy.Derived,
		"convergent_encryption":  policy.ConvergentEncryption,
		"deletion_allowed":       policy.DeletionAllowed,
		"exportable":             policy.Exportable,
		"allow_plaintext_backup": policy.AllowPlaintextBackup,
		"supports_encryption":    policy.SupportsEncryption,
		"supports_decryption":    policy.SupportsDecryption,
		"supports_derivation":    policy.SupportsDerivation,
		"supports_signing":       policy.SupportsSigning,
	}}, nil
}

func (e *transitEngine) deleteKey(name string) (*response, error) {
	key, ok := e.keys[name]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "could not delete key; not found")
	}
	if err := key.policy.CanDelete(); err != nil {
		return nil, err
	}
	for _, m := range key.material {
		m.destroy()
	}
	delete(e.keys, name)
	return nil, nil
}

func (e *transitEngine) configureKey(name string, req *request) (*response, error) {
	key, err := e.lookup(name)
	if err != nil {
		return nil, err
	}
	var body configBody
	if err := decodeBody(req, &body); err != nil {
		return nil, err
	}

	cfg := transitDomain.KeyConfiguration(body)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return nil, key.policy.Configure(cfg)
}

func (e *transitEngine) rotateKey(name string) (*response, error) {
	key, err := e.lookup(name)
	if err != nil {
		return nil, err
	}
	material, err := generateMaterial(key.policy.Type)
	if err != nil {
		return nil, err
	}
	version := key.policy.Rotate(e.now())
	key.material[version] = material
	return nil, nil
}

func (e *transitEngine) export(exportType transitDomain.ExportKeyType, name string, version []string) (*response, error) {
	key, ok := e.keys[name]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "key not found")
	}
	if !exportType.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid export type %q", exportType)
	}
	if err := key.policy.CanExport(exportType); err != nil {
		return nil, err
	}

	versions := key.policy.SortedVersions()
	if len(version) == 1 && version[0] != "latest" {
		v, err := strconv.ParseUint(version[0], 10, 0)
		if err != nil || key.material[uint(v)] == nil {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid key version %q", version[0])
		}
		versions = []uint{uint(v)}
	} else if len(version) == 1 {
		versions = []uint{key.policy.LatestVersion}
	}

	keys := make(map[string]any, len(versions))
	for _, v := range versions {
		material, err := key.material[v].export(exportType)
		if err != nil {
			return nil, err
		}
		keys[strconv.FormatUint(uint64(v), 10)] = material
	}
	return &response{data: map[string]any{
		"name": name,
		"type": string(key.policy.Type),
		"keys": keys,
	}}, nil
}
