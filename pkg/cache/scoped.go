package cache

// ScopedKeyer wraps a Keyer with a prefix. The offline worker scopes every
// key by its cache version identifier:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "color-splash-v1:")
//	keyer.AssetKey("/index.html") // "color-splash-v1:asset:/index.html"
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

// AssetKey generates a prefixed key for asset caching.
func (k *ScopedKeyer) AssetKey(url string) string {
	return k.prefix + k.inner.AssetKey(url)
}

// Prefix returns the scope prefix.
func (k *ScopedKeyer) Prefix() string {
	return k.prefix
}
