package cache

// ScopedKeyer wraps a Keyer with a prefix. The CLI and server scope keys by
// program version so an upgraded binary never reads results computed by an
// older algorithm.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1.2.0:")
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

// SmoothKey generates a prefixed key for smoothing results.
func (k *ScopedKeyer) SmoothKey(graphHash string, opts SmoothKeyOpts) string {
	return k.prefix + k.inner.SmoothKey(graphHash, opts)
}

// SweepKey generates a prefixed key for sweeps.
func (k *ScopedKeyer) SweepKey(graphHash string, opts SweepKeyOpts) string {
	return k.prefix + k.inner.SweepKey(graphHash, opts)
}

// RenderKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) RenderKey(resultHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(resultHash, opts)
}
