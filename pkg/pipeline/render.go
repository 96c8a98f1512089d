package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/reebsmooth/pkg/cache"
	"github.com/matzehuels/reebsmooth/pkg/errors"
	pio "github.com/matzehuels/reebsmooth/pkg/io"
	"github.com/matzehuels/reebsmooth/pkg/observability"
	"github.com/matzehuels/reebsmooth/pkg/reeb"
	"github.com/matzehuels/reebsmooth/pkg/render"
	"github.com/matzehuels/reebsmooth/pkg/render/dot"
)

// Render encodes g in opts.Format. Graphviz output is cached by the content
// hash of g; text encodings are cheap and always produced fresh. The bool
// reports a cache hit.
func (r *Runner) Render(ctx context.Context, g *reeb.Graph, opts RenderOptions) ([]byte, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	if !opts.IsGraphviz() || opts.Format == FormatDOT {
		data, err := Encode(ctx, g, opts)
		return data, false, err
	}

	hash := HashGraph(g)
	key := r.Keyer.RenderKey(hash, opts.keyOpts())
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "render")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Format)
	data, err := Encode(ctx, g, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Format, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLRender)); err == nil {
		observability.Cache().OnCacheSet(ctx, "render", len(data))
	}
	r.Logger.Debug("rendered graph", "format", opts.Format, "bytes", len(data), "duration", time.Since(start))
	return data, false, nil
}

// Encode produces g in opts.Format without caching. opts must be validated.
func Encode(ctx context.Context, g *reeb.Graph, opts RenderOptions) ([]byte, error) {
	var buf bytes.Buffer
	dopts := dot.Options{Labels: opts.Labels, Pinned: opts.Pinned}

	var (
		data []byte
		err  error
	)
	switch opts.Format {
	case FormatJSON:
		if opts.Layout {
			err = pio.WriteJSONLayout(g, &buf)
		} else {
			err = pio.WriteJSON(g, &buf)
		}
		data = buf.Bytes()
	case FormatYAML:
		err = pio.WriteYAML(g, &buf)
		data = buf.Bytes()
	case FormatTxt:
		err = pio.WriteLiteral(g, &buf)
		data = buf.Bytes()
	case FormatDOT:
		data = []byte(dot.ToDOT(g, dopts))
	case FormatSVG:
		data, err = dot.RenderSVG(ctx, dot.ToDOT(g, dopts), dopts)
	case FormatPNG:
		data, err = dot.RenderPNG(ctx, dot.ToDOT(g, dopts), dopts, opts.Resolution)
	case FormatPDF:
		data, err = dot.RenderPDF(ctx, dot.ToDOT(g, dopts), dopts)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", opts.Format)
	}
	if stderrors.Is(err, render.ErrNoRasterizer) {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "render %s", opts.Format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", opts.Format)
	}
	return data, nil
}
