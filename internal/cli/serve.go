package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ontoviz/internal/server"
	"github.com/matzehuels/ontoviz/pkg/generation"
	"github.com/matzehuels/ontoviz/pkg/pipeline"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		every    int
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Layout, render and hull requests are answered synchronously; frame streams
animate iterative layouts over server-sent events. With --redis, replicas
share generation counters so that a new stream for a view supersedes the
previous one on every replica.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("redis") {
				cfg.RedisURL = redisURL
			}
			if cmd.Flags().Changed("frame-every") {
				cfg.FrameEvery = every
			}
			return c.runServe(cmd.Context(), cfg, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for shared generation counters")
	cmd.Flags().IntVar(&every, "frame-every", 1, "stream every Nth simulation frame")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg ServerConfig, noCache bool) error {
	logger := loggerFromContext(ctx)

	var store generation.Store
	if cfg.RedisURL != "" {
		rs, err := generation.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rs.Close()
		store = rs
		logger.Info("using redis generation store")
	}

	animator := pipeline.NewAnimator(generation.NewTracker(store), logger)
	if cfg.FrameEvery > 0 {
		animator.Every = cfg.FrameEvery
	}

	runner := c.newRunner(noCache)
	defer runner.Close()

	defaults := c.Config.pipelineOptions()
	defaults.Formats = nil

	srv := server.New(server.Config{
		Runner:   runner,
		Animator: animator,
		Logger:   logger,
		Defaults: defaults,
	})
	newReport(c.Out).note("Serving on %s", cfg.addr())
	return srv.ListenAndServe(ctx, cfg.addr(), cfg.shutdownTimeout())
}
