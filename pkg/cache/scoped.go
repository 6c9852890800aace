package cache

// ScopedKeyer prefixes every key of an inner [Keyer], giving each tenant of a
// shared backend its own namespace:
//
//	k := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "team:etl:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey implements [Keyer].
func (k *ScopedKeyer) LayoutKey(pipelineHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(pipelineHash, opts)
}

// SequenceKey implements [Keyer].
func (k *ScopedKeyer) SequenceKey(pipelineHash string) string {
	return k.prefix + k.inner.SequenceKey(pipelineHash)
}
