package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/postcard/internal/server"
	"github.com/matzehuels/postcard/pkg/config"
	"github.com/matzehuels/postcard/pkg/publish"
)

// serveOpts holds flags that override the config file.
type serveOpts struct {
	addr    string
	noCache bool
}

// serveCommand creates the serve command that runs the HTTP card service.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve cards over HTTP",
		Long: `Serve rendered cards over HTTP.

  GET  /api/card?tid=<id>&format=png|svg|json&scale=<n>&tz=<zone>
  GET  /api/twitter?tid=<id>
  POST /api/card/publish?tid=<id>   (when publish.bucket is set)
  GET  /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default server.addr, or :$PORT)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the cache backend")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srvOpts := []server.Option{server.WithDefaults(cfg.PipelineOptions(""))}
	pub, err := newPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	if pub != nil {
		srvOpts = append(srvOpts, server.WithPublisher(pub))
	}

	printKeyValue("Address", cfg.Server.Addr)
	printKeyValue("Cache", cacheLabel(cfg, opts.noCache))
	printKeyValue("Publish", strconv.FormatBool(pub != nil))

	return server.New(runner, loggerFromContext(ctx), srvOpts...).ListenAndServe(ctx, cfg.Server.Addr)
}

// newPublisher returns nil when publishing is not configured.
func newPublisher(ctx context.Context, cfg *config.Config) (*publish.Publisher, error) {
	if cfg.Publish.Bucket == "" {
		return nil, nil
	}
	return publish.New(ctx, publish.Options{
		Bucket:    cfg.Publish.Bucket,
		Endpoint:  cfg.Publish.Endpoint,
		Region:    cfg.Publish.Region,
		AccessKey: cfg.Publish.AccessKey,
		SecretKey: cfg.Publish.SecretKey,
		Prefix:    cfg.Publish.Prefix,
	})
}

func cacheLabel(cfg *config.Config, noCache bool) string {
	if noCache {
		return config.BackendNone
	}
	if cfg.Cache.Prefix != "" {
		return cfg.Cache.Backend + " (" + cfg.Cache.Prefix + ")"
	}
	return cfg.Cache.Backend
}
