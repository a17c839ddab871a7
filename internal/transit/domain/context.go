package domain

import "bytes"

// Context bundles the optional derivation context and nonce used by derived and
// convergent keys. Context values are immutable: accessors return copies.
//
// The zero value is the empty context. Whether a context is attached at all is tracked
// by Plaintext and Ciphertext, so "empty" and "absent" remain distinguishable.
type Context struct {
	context []byte
	nonce   []byte
}

// EmptyContext returns the empty context (no derivation context, no nonce).
func EmptyContext() Context {
	return Context{}
}

// NewContext creates a Context from the given derivation context and nonce. Either may be nil.
func NewContext(context, nonce []byte) Context {
	return Context{
		context: clone(context),
		nonce:   clone(nonce),
	}
}

// FromContext creates a Context carrying only a derivation context.
func FromContext(context []byte) Context {
	return NewContext(context, nil)
}

// Context returns a copy of the derivation context bytes.
func (c Context) Context() []byte {
	return clone(c.context)
}

// Nonce returns a copy of the nonce bytes.
func (c Context) Nonce() []byte {
	return clone(c.nonce)
}

// HasContext reports whether derivation context bytes are present.
func (c Context) HasContext() bool {
	return len(c.context) > 0
}

// HasNonce reports whether nonce bytes are present.
func (c Context) HasNonce() bool {
	return len(c.nonce) > 0
}

// IsEmpty reports whether neither context nor nonce is set.
func (c Context) IsEmpty() bool {
	return !c.HasContext() && !c.HasNonce()
}

// Equal reports value equality.
func (c Context) Equal(other Context) bool {
	return bytes.Equal(c.context, other.context) && bytes.Equal(c.nonce, other.nonce)
}

// clone copies b; nil stays nil.
func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
