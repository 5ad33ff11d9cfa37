package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, e.g. to
// keep server and explorer entries apart in a shared cache.
//
// Example usage:
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "server:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// FieldKey generates a prefixed field key.
func (k *ScopedKeyer) FieldKey(opts FieldKeyOpts) string {
	return k.prefix + k.inner.FieldKey(opts)
}

// ArtifactKey generates a prefixed artifact key. fieldKey is passed through
// unchanged, so it may already carry the prefix.
func (k *ScopedKeyer) ArtifactKey(fieldKey string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(fieldKey, opts)
}
