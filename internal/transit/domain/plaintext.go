package domain

import "bytes"

// Plaintext is an immutable plaintext value with an optional Context.
//
// Security Note: the bytes are held in memory; callers that own sensitive data should
// zero their own copies once a Plaintext has been built from them.
type Plaintext struct {
	data       []byte
	context    Context
	hasContext bool
}

// PlaintextOf creates a Plaintext from the UTF-8 bytes of s.
func PlaintextOf(s string) Plaintext {
	return Plaintext{data: []byte(s)}
}

// PlaintextFromBytes creates a Plaintext from a copy of b. A nil slice yields the empty plaintext.
func PlaintextFromBytes(b []byte) Plaintext {
	if b == nil {
		return EmptyPlaintext()
	}
	return Plaintext{data: clone(b)}
}

// EmptyPlaintext returns a zero-length plaintext. It is a valid value, not "no plaintext".
func EmptyPlaintext() Plaintext {
	return Plaintext{data: []byte{}}
}

// With returns a copy of p with ctx attached.
func (p Plaintext) With(ctx Context) Plaintext {
	return Plaintext{
		data:       clone(p.data),
		context:    ctx,
		hasContext: true,
	}
}

// Bytes returns a copy of the plaintext bytes. Never nil.
func (p Plaintext) Bytes() []byte {
	if p.data == nil {
		return []byte{}
	}
	return clone(p.data)
}

// String returns the plaintext decoded as UTF-8.
func (p Plaintext) String() string {
	return string(p.data)
}

// Len returns the number of plaintext bytes.
func (p Plaintext) Len() int {
	return len(p.data)
}

// IsEmpty reports whether the plaintext has zero length.
func (p Plaintext) IsEmpty() bool {
	return len(p.data) == 0
}

// Context returns the attached context and whether one is attached.
func (p Plaintext) Context() (Context, bool) {
	return p.context, p.hasContext
}

// EffectiveContext returns the attached context, or the empty context when none is attached.
func (p Plaintext) EffectiveContext() Context {
	return p.context
}

// Equal reports value equality including the attached context.
func (p Plaintext) Equal(other Plaintext) bool {
	return bytes.Equal(p.data, other.data) &&
		p.hasContext == other.hasContext &&
		p.context.Equal(other.context)
}
