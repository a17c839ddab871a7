package domain

// Ciphertext is an immutable ciphertext envelope string with an optional Context.
type Ciphertext struct {
	value      string
	context    Context
	hasContext bool
}

// CiphertextOf creates a Ciphertext from its envelope string. The string is not validated;
// use Envelope to parse it.
func CiphertextOf(value string) Ciphertext {
	return Ciphertext{value: value}
}

// With returns a copy of c bound to ctx. The envelope string is unchanged.
func (c Ciphertext) With(ctx Context) Ciphertext {
	return Ciphertext{
		value:      c.value,
		context:    ctx,
		hasContext: true,
	}
}

// String returns the envelope string.
func (c Ciphertext) String() string {
	return c.value
}

// Envelope parses the envelope string.
func (c Ciphertext) Envelope() (Envelope, error) {
	return ParseEnvelope(c.value)
}

// KeyVersion returns the encryption key version embedded in the envelope.
func (c Ciphertext) KeyVersion() (uint, error) {
	env, err := c.Envelope()
	if err != nil {
		return 0, err
	}
	return env.Version, nil
}

// Context returns the attached context and whether one is attached.
func (c Ciphertext) Context() (Context, bool) {
	return c.context, c.hasContext
}

// EffectiveContext returns the attached context, or the empty context when none is attached.
func (c Ciphertext) EffectiveContext() Context {
	return c.context
}

// Equal reports value equality including the attached context.
func (c Ciphertext) Equal(other Ciphertext) bool {
	return c.value == other.value &&
		c.hasContext == other.hasContext &&
		c.context.Equal(other.context)
}
