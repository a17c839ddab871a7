package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Envelope is the versioned wire form of a transit ciphertext.
//
// The envelope carries the encryption key version and an opaque payload produced by the
// remote service. It is serialized as: "vault:v<version>:<payload>"
//
// Fields:
//   - Version: The transit key version used for encryption (always >= 1)
//   - Payload: The opaque ciphertext payload; never inspected by the client
type Envelope struct {
	Version uint
	Payload string
}

// NewEnvelope creates an Envelope for the given key version and payload.
//
// Returns ErrInvalidEnvelopeVersion when version is zero; key versions start at 1.
func NewEnvelope(version uint, payload string) (Envelope, error) {
	if version < 1 {
		return Envelope{}, fmt.Errorf("%w: version must be >= 1, got %d", ErrInvalidEnvelopeVersion, version)
	}
	return Envelope{Version: version, Payload: payload}, nil
}

// ParseEnvelope parses an Envelope from its string representation.
//
// The input string must be in the format: "vault:v<version>:<payload>"
// where:
//   - vault: literal prefix
//   - v<version>: the letter 'v' followed by a decimal key version >= 1
//   - payload: opaque remainder (may be empty and may itself contain ':')
//
// Returns:
//   - Envelope instance if parsing succeeds
//   - ErrMalformedEnvelope if the prefix grammar is violated
//   - ErrInvalidEnvelopeVersion if the version is not a decimal >= 1
//
// Example:
//
//	env, err := ParseEnvelope("vault:v2:SGVsbG8gV29ybGQ=")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Version: %d\n", env.Version)
func ParseEnvelope(content string) (Envelope, error) {
	// Split on the first two colons only; the payload is opaque
	parts := strings.SplitN(content, ":", 3)
	if len(parts) != 3 {
		return Envelope{}, fmt.Errorf(
			"%w: expected format 'vault:v<version>:<payload>', got %d parts",
			ErrMalformedEnvelope,
			len(parts),
		)
	}

	if parts[0] != EnvelopePrefix {
		return Envelope{}, fmt.Errorf("%w: unknown prefix %q", ErrMalformedEnvelope, parts[0])
	}

	rawVersion, ok := strings.CutPrefix(parts[1], "v")
	if !ok {
		return Envelope{}, fmt.Errorf("%w: version must start with 'v'", ErrMalformedEnvelope)
	}

	version, err := strconv.ParseUint(rawVersion, 10, 0)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrInvalidEnvelopeVersion, err)
	}

	return NewEnvelope(uint(version), parts[2])
}

// String serializes the Envelope to its wire representation "vault:v<version>:<payload>".
//
// This method provides round-trip serialization with ParseEnvelope for every version >= 1.
func (e Envelope) String() string {
	return EnvelopePrefix + ":v" + strconv.FormatUint(uint64(e.Version), 10) + ":" + e.Payload
}
