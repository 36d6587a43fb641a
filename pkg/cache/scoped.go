package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis or MongoDB backend without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

func (k *ScopedKeyer) PostKey(id string) string   { return k.prefix + k.inner.PostKey(id) }
func (k *ScopedKeyer) MediaKey(url string) string { return k.prefix + k.inner.MediaKey(url) }
func (k *ScopedKeyer) CardKey(id string, opts CardKeyOpts) string {
	return k.prefix + k.inner.CardKey(id, opts)
}
