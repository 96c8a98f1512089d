package cache

// Keyer derives cache keys. Implementations must produce different keys
// whenever any option differs.
type Keyer interface {
	// SmoothKey identifies the smoothing of a graph.
	SmoothKey(graphHash string, opts SmoothKeyOpts) string
	// SweepKey identifies an epsilon sweep over a graph.
	SweepKey(graphHash string, opts SweepKeyOpts) string
	// RenderKey identifies a rendered artifact of a smoothed graph.
	RenderKey(resultHash string, opts RenderKeyOpts) string
}

// SmoothKeyOpts holds the options that affect a smoothing result.
type SmoothKeyOpts struct {
	Epsilon   string `json:"epsilon"`
	Precision int32  `json:"precision"`
	MaxPasses int    `json:"max_passes,omitempty"`
}

// SweepKeyOpts holds the options that affect a sweep.
type SweepKeyOpts struct {
	Steps     int   `json:"steps"`
	Precision int32 `json:"precision"`
}

// RenderKeyOpts holds the options that affect a rendered artifact.
type RenderKeyOpts struct {
	Format string `json:"format"`
	Labels bool   `json:"labels,omitempty"`
	Pinned bool   `json:"pinned,omitempty"`
}

// DefaultKeyer hashes its inputs into fixed-length keys with a readable
// prefix per kind.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SmoothKey returns "smooth:<sha256>".
func (DefaultKeyer) SmoothKey(graphHash string, opts SmoothKeyOpts) string {
	return hashKey("smooth", graphHash, opts)
}

// SweepKey returns "sweep:<sha256>".
func (DefaultKeyer) SweepKey(graphHash string, opts SweepKeyOpts) string {
	return hashKey("sweep", graphHash, opts)
}

// RenderKey returns "render:<sha256>".
func (DefaultKeyer) RenderKey(resultHash string, opts RenderKeyOpts) string {
	return hashKey("render", resultHash, opts)
}
