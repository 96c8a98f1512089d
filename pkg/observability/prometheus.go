package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks implements every hook interface by updating Prometheus
// collectors. Metric names share the reebsmooth_ prefix.
type PrometheusHooks struct {
	smoothRuns     *prometheus.CounterVec
	smoothPasses   prometheus.Histogram
	smoothDuration prometheus.Histogram
	sweepDuration  prometheus.Histogram
	renderDuration *prometheus.HistogramVec
	cacheLookups   *prometheus.CounterVec
	cacheBytes     *prometheus.CounterVec
	httpInFlight   prometheus.Gauge
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewPrometheusHooks registers the collectors with reg and returns hooks that
// update them. A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &PrometheusHooks{
		smoothRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reebsmooth_smooth_runs_total",
			Help: "Smoothing runs, labelled by outcome.",
		}, []string{"status"}),
		smoothPasses: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "reebsmooth_smooth_passes",
			Help:    "Shrink-extend-prune passes per smoothing run.",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128, 256},
		}),
		smoothDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "reebsmooth_smooth_duration_seconds",
			Help:    "Wall time of a smoothing run.",
			Buckets: prometheus.DefBuckets,
		}),
		sweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "reebsmooth_sweep_duration_seconds",
			Help:    "Wall time of an epsilon sweep.",
			Buckets: prometheus.DefBuckets,
		}),
		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reebsmooth_render_duration_seconds",
			Help:    "Wall time of rendering, labelled by format.",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reebsmooth_cache_lookups_total",
			Help: "Cache lookups, labelled by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reebsmooth_cache_written_bytes_total",
			Help: "Bytes written to the cache, labelled by key type.",
		}, []string{"key_type"}),
		httpInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "reebsmooth_http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reebsmooth_http_requests_total",
			Help: "HTTP requests, labelled by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reebsmooth_http_request_duration_seconds",
			Help:    "HTTP request latency, labelled by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (h *PrometheusHooks) OnSmoothStart(context.Context, string, int) {}
func (h *PrometheusHooks) OnPass(context.Context, string, int, int)   {}

func (h *PrometheusHooks) OnSmoothComplete(_ context.Context, _ string, passes int, d time.Duration, err error) {
	h.smoothRuns.WithLabelValues(status(err)).Inc()
	if err == nil {
		h.smoothPasses.Observe(float64(passes))
	}
	h.smoothDuration.Observe(d.Seconds())
}

func (h *PrometheusHooks) OnSweepStart(context.Context, int) {}

func (h *PrometheusHooks) OnSweepComplete(_ context.Context, _ int, d time.Duration, _ error) {
	h.sweepDuration.Observe(d.Seconds())
}

func (h *PrometheusHooks) OnRenderStart(context.Context, string) {}

func (h *PrometheusHooks) OnRenderComplete(_ context.Context, format string, d time.Duration, _ error) {
	h.renderDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string) {
	h.httpInFlight.Inc()
}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	h.httpInFlight.Dec()
	h.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
