package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/matzehuels/reebsmooth/pkg/buildinfo"
	"github.com/matzehuels/reebsmooth/pkg/errors"
	"github.com/matzehuels/reebsmooth/pkg/level"
	"github.com/matzehuels/reebsmooth/pkg/pipeline"
	"github.com/matzehuels/reebsmooth/pkg/reeb"
	"github.com/matzehuels/reebsmooth/pkg/reeb/smooth"
)

// graphInput carries a graph in one of the two accepted encodings.
type graphInput struct {
	Graph   json.RawMessage `json:"graph,omitempty"`
	Literal string          `json:"literal,omitempty"`
}

func (in graphInput) decode(p level.Precision) (*reeb.Graph, error) {
	switch {
	case in.Literal != "" && len(in.Graph) > 0:
		return nil, errors.New(errors.ErrCodeInvalidInput, "send either graph or literal, not both")
	case in.Literal != "":
		return pipeline.Decode(strings.NewReader(in.Literal), pipeline.FormatTxt, p)
	case len(in.Graph) > 0:
		return pipeline.Decode(bytes.NewReader(in.Graph), pipeline.FormatJSON, p)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "graph or literal is required")
}

type smoothRequest struct {
	graphInput
	pipeline.Options
	Layout bool `json:"layout,omitempty"`
}

type statsResponse struct {
	Passes    int         `json:"passes"`
	NodesIn   int         `json:"nodes_in"`
	EdgesIn   int         `json:"edges_in"`
	NodesOut  int         `json:"nodes_out"`
	EdgesOut  int         `json:"edges_out"`
	Absorbed  level.Value `json:"absorbed"`
	Truncated bool        `json:"truncated,omitempty"`
}

type smoothResponse struct {
	RunID     string          `json:"run_id"`
	GraphHash string          `json:"graph_hash"`
	Epsilon   level.Value     `json:"epsilon"`
	CacheHit  bool            `json:"cache_hit"`
	Stats     statsResponse   `json:"stats"`
	Levels    []level.Value   `json:"levels"`
	Graph     json.RawMessage `json:"graph"`
}

// POST /v1/smooth
func (s *Server) smooth(w http.ResponseWriter, r *http.Request) {
	var req smoothRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, ok := s.runSmooth(w, r, req.graphInput, &req.Options)
	if !ok {
		return
	}
	graph, _, err := s.runner.Render(r.Context(), res.Graph, pipeline.RenderOptions{Format: pipeline.FormatJSON, Layout: req.Layout})
	if err != nil {
		fail(w, err)
		return
	}
	st := res.Stats
	writeJSON(w, http.StatusOK, smoothResponse{
		RunID:     res.RunID,
		GraphHash: res.GraphHash,
		Epsilon:   res.Epsilon,
		CacheHit:  res.CacheHit,
		Stats: statsResponse{
			Passes:    st.Passes,
			NodesIn:   st.NodesIn,
			EdgesIn:   st.EdgesIn,
			NodesOut:  st.NodesOut,
			EdgesOut:  st.EdgesOut,
			Absorbed:  st.Absorbed,
			Truncated: st.Truncated,
		},
		Levels: smooth.CriticalValues(res.Graph),
		Graph:  graph,
	})
}

type renderRequest struct {
	graphInput
	pipeline.Options
	Render pipeline.RenderOptions `json:"render"`
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatYAML: "application/yaml",
	pipeline.FormatTxt:  "text/plain; charset=utf-8",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

// POST /v1/render
func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.Render.Validate(); err != nil {
		fail(w, err)
		return
	}
	res, ok := s.runSmooth(w, r, req.graphInput, &req.Options)
	if !ok {
		return
	}
	data, hit, err := s.runner.Render(r.Context(), res.Graph, req.Render)
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[req.Render.Format])
	w.Header().Set("X-Run-Id", res.RunID)
	if hit {
		w.Header().Set("X-Cache", "hit")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type levelsRequest struct {
	graphInput
	Precision int `json:"precision,omitempty"`
}

type levelsResponse struct {
	Values      []level.Value `json:"values"`
	Gaps        []level.Value `json:"gaps"`
	Range       level.Value   `json:"range"`
	Weight      *level.Value  `json:"smallest_weight,omitempty"`
	CritEpsilon *level.Value  `json:"crit_epsilon,omitempty"`
	Nodes       int           `json:"nodes"`
	Edges       int           `json:"edges"`
}

// POST /v1/levels
func (s *Server) levels(w http.ResponseWriter, r *http.Request) {
	var req levelsRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Precision == 0 {
		req.Precision = pipeline.DefaultPrecision
	}
	p, err := errors.ValidatePrecision(req.Precision)
	if err != nil {
		fail(w, err)
		return
	}
	g, err := req.decode(p)
	if err != nil {
		fail(w, err)
		return
	}
	lv := s.runner.Levels(g, p)
	resp := levelsResponse{
		Values: lv.Values,
		Gaps:   lv.Gaps,
		Range:  lv.Range,
		Nodes:  lv.Nodes,
		Edges:  lv.Edges,
	}
	if lv.HasEdges {
		resp.Weight, resp.CritEpsilon = &lv.Weight, &lv.CritEpsilon
	}
	writeJSON(w, http.StatusOK, resp)
}

type sweepRequest struct {
	graphInput
	pipeline.SweepOptions
}

// POST /v1/sweep
func (s *Server) sweep(w http.ResponseWriter, r *http.Request) {
	var req sweepRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.SweepOptions.Validate(); err != nil {
		fail(w, err)
		return
	}
	p, _ := errors.ValidatePrecision(req.SweepOptions.Precision)
	g, err := req.decode(p)
	if err != nil {
		fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()
	res, err := s.runner.Sweep(ctx, g, req.SweepOptions)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /healthz
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": info.Version,
		"commit":  info.Commit,
		"go":      info.Go,
	})
}

// decode reads a JSON request body into v, writing the error response when
// it fails.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		fail(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body"))
		return false
	}
	return true
}

// runSmooth validates opts, decodes the graph and smooths it within the
// request timeout.
func (s *Server) runSmooth(w http.ResponseWriter, r *http.Request, in graphInput, opts *pipeline.Options) (*pipeline.Result, bool) {
	if err := opts.Validate(); err != nil {
		fail(w, err)
		return nil, false
	}
	g, err := in.decode(opts.Prec())
	if err != nil {
		fail(w, err)
		return nil, false
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()
	res, err := s.runner.Smooth(ctx, g, *opts)
	if err != nil {
		fail(w, err)
		return nil, false
	}
	return res, true
}
