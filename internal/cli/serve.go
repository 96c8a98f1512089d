package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/reebsmooth/pkg/observability"
	"github.com/matzehuels/reebsmooth/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes smoothing over HTTP:

  POST /v1/smooth   smooth a graph and return it as JSON
  POST /v1/render   smooth a graph and return it in any output format
  POST /v1/levels   list critical values
  POST /v1/sweep    smooth at evenly spaced ε
  GET  /healthz     liveness
  GET  /metrics     Prometheus metrics

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			reg := newMetricsRegistry()
			hooks := observability.NewPrometheusHooks(reg)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			cfg := c.Config.ServerConfig()
			cfg.Gatherer = reg
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			return server.New(runner, c.Logger, cfg).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

// newMetricsRegistry returns a registry with the Go runtime and process
// collectors installed.
func newMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
