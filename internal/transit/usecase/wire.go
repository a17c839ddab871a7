package usecase

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/allisson/vaultops/internal/errors"
	transitDomain "github.com/allisson/vaultops/internal/transit/domain"
	"github.com/allisson/vaultops/internal/transport"
)

// keyResponse is the body of a transit key read.
type keyResponse struct {
	Name                 string         `mapstructure:"name"`
	Type                 string         `mapstructure:"type"`
	Keys                 map[string]any `mapstructure:"keys"`
	LatestVersion        uint           `mapstructure:"latest_version"`
	MinEncryptionVersion uint           `mapstructure:"min_encryption_version"`
	MinDecryptionVersion uint           `mapstructure:"min_decryption_version"`
	Derived              bool           `mapstructure:"derived"`
	ConvergentEncryption bool           `mapstructure:"convergent_encryption"`
	DeletionAllowed      bool           `mapstructure:"deletion_allowed"`
	Exportable           bool           `mapstructure:"exportable"`
	AllowPlaintextBackup bool           `mapstructure:"allow_plaintext_backup"`
	SupportsEncryption   bool           `mapstructure:"supports_encryption"`
	SupportsDecryption   bool           `mapstructure:"supports_decryption"`
	SupportsDerivation   bool           `mapstructure:"supports_derivation"`
	SupportsSigning      bool           `mapstructure:"supports_signing"`
}

// exportResponse is the body of a key export.
type exportResponse struct {
	Name string            `mapstructure:"name"`
	Type string            `mapstructure:"type"`
	Keys map[string]string `mapstructure:"keys"`
}

func (r keyResponse) toDomain() (*transitDomain.TransitKey, error) {
	versions := make(map[uint]time.Time, len(r.Keys))
	var latest uint
	for raw, value := range r.Keys {
		version, err := parseVersion(raw)
		if err != nil {
			return nil, err
		}
		versions[version] = creationTime(value)
		latest = max(latest, version)
	}
	if r.LatestVersion == 0 {
		r.LatestVersion = latest
	}

	key := &transitDomain.TransitKey{
		Name:                 r.Name,
		Type:                 transitDomain.KeyType(r.Type),
		Versions:             versions,
		LatestVersion:        r.LatestVersion,
		MinEncryptionVersion: r.MinEncryptionVersion,
		MinDecryptionVersion: r.MinDecryptionVersion,
		Derived:              r.Derived,
		ConvergentEncryption: r.ConvergentEncryption,
		DeletionAllowed:      r.DeletionAllowed,
		Exportable:           r.Exportable,
		AllowPlaintextBackup: r.AllowPlaintextBackup,
		SupportsEncryption:   r.SupportsEncryption,
		SupportsDecryption:   r.SupportsDecryption,
		SupportsDerivation:   r.SupportsDerivation,
		SupportsSigning:      r.SupportsSigning,
	}
	if err := key.Validate(); err != nil {
		return nil, apperrors.Join(apperrors.ErrProtocol, err)
	}
	return key, nil
}

func (r exportResponse) toDomain() (*transitDomain.RawTransitKey, error) {
	keys := make(map[uint]string, len(r.Keys))
	for raw, material := range r.Keys {
		version, err := parseVersion(raw)
		if err != nil {
			return nil, err
		}
		keys[version] = material
	}
	return &transitDomain.RawTransitKey{
		Name: r.Name,
		Type: transitDomain.KeyType(r.Type),
		Keys: keys,
	}, nil
}

func parseVersion(raw string) (uint, error) {
	version, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || version == 0 {
		return 0, fmt.Errorf("%w: invalid key version %q", apperrors.ErrProtocol, raw)
	}
	return uint(version), nil
}

// creationTime reads a key version's creation time: a unix timestamp for symmetric keys,
// an object with creation_time for asymmetric keys.
func creationTime(value any) time.Time {
	switch v := value.(type) {
	case json.Number:
		if seconds, err := v.Int64(); err == nil {
			return time.Unix(seconds, 0).UTC()
		}
	case float64:
		return time.Unix(int64(v), 0).UTC()
	case map[string]any:
		if s, ok := v["creation_time"].(string); ok {
			if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
				return t.UTC()
			}
		}
	}
	return time.Time{}
}

// contextFields adds the base64 context and nonce of an attached context to body.
func contextFields(body map[string]any, ctx transitDomain.Context, attached bool) map[string]any {
	if !attached {
		return body
	}
	if ctx.HasContext() {
		body["context"] = base64.StdEncoding.EncodeToString(ctx.Context())
	}
	if ctx.HasNonce() {
		body["nonce"] = base64.StdEncoding.EncodeToString(ctx.Nonce())
	}
	return body
}

func plaintextItem(p transitDomain.Plaintext) map[string]any {
	ctx, attached := p.Context()
	return contextFields(map[string]any{
		"plaintext": base64.StdEncoding.EncodeToString(p.Bytes()),
	}, ctx, attached)
}

func ciphertextItem(c transitDomain.Ciphertext) map[string]any {
	ctx, attached := c.Context()
	return contextFields(map[string]any{
		"ciphertext": c.String(),
	}, ctx, attached)
}

// stringField reads a required string field from a response body.
func stringField(data map[string]any, field string) (string, error) {
	value, ok := data[field].(string)
	if !ok {
		return "", fmt.Errorf("%w: response field %q missing or not a string", apperrors.ErrProtocol, field)
	}
	return value, nil
}

// requireData returns the response body of a call that must answer with data.
func requireData(resp *transport.Response, operation string) (map[string]any, error) {
	if resp == nil || resp.Data == nil {
		return nil, fmt.Errorf("%w: %s returned no data", apperrors.ErrProtocol, operation)
	}
	return resp.Data, nil
}

// toCiphertext converts a ciphertext field, keeping the context of the originating input.
func toCiphertext(data map[string]any, ctx transitDomain.Context, attached bool) (transitDomain.Ciphertext, error) {
	raw, err := stringField(data, "ciphertext")
	if err != nil {
		return transitDomain.Ciphertext{}, err
	}
	ciphertext := transitDomain.CiphertextOf(raw)
	if _, err := ciphertext.Envelope(); err != nil {
		return transitDomain.Ciphertext{}, apperrors.Join(apperrors.ErrProtocol, err)
	}
	if attached {
		ciphertext = ciphertext.With(ctx)
	}
	return ciphertext, nil
}

// toPlaintext converts a base64 plaintext field. An empty field is the empty plaintext;
// a missing field is a protocol violation.
func toPlaintext(data map[string]any, ctx transitDomain.Context, attached bool) (transitDomain.Plaintext, error) {
	raw, err := stringField(data, "plaintext")
	if err != nil {
		return transitDomain.Plaintext{}, err
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return transitDomain.Plaintext{}, fmt.Errorf("%w: plaintext is not base64: %v", apperrors.ErrProtocol, err)
	}
	plaintext := transitDomain.PlaintextFromBytes(decoded)
	if attached {
		plaintext = plaintext.With(ctx)
	}
	return plaintext, nil
}
