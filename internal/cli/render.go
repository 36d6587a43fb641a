package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/postcard/pkg/config"
	"github.com/matzehuels/postcard/pkg/pipeline"
	"github.com/matzehuels/postcard/pkg/publish"
)

// renderOpts holds the render flags. Zero values fall back to the config.
type renderOpts struct {
	output   string  // output file, "-" for stdout
	format   string  // png, svg or json
	width    float64 // card width in unscaled pixels
	scale    float64 // output scale factor
	timezone string  // IANA zone for the timestamp
	margin   float64 // white space above and below the card
	refresh  bool    // bypass cached posts and cards
	noCache  bool    // disable the cache backend
	publish  bool    // upload the card after rendering
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <post-id>",
		Short: "Render a post to a card file",
		Example: `  postcard render 1460323737035677698
  postcard render 1460323737035677698 -f svg -o card.svg
  postcard render 1460323737035677698 --scale 2 --tz Europe/Berlin --publish`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <post-id>.<format>, - for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: png, svg, json (default render.format)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "card width in pixels before scaling")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "scale factor, at most 4")
	cmd.Flags().StringVar(&opts.timezone, "tz", "", "timezone for the post timestamp")
	cmd.Flags().Float64Var(&opts.margin, "margin", 0, "vertical margin around the card")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached posts and cards")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the cache backend")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "upload the card to the configured bucket")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, id string, opts renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	return c.renderPost(ctx, cfg, runner, id, opts)
}

// renderPost renders id and writes or publishes the result. It is shared
// with the pick command.
func (c *CLI) renderPost(ctx context.Context, cfg *config.Config, runner *pipeline.Runner, id string, opts renderOpts) error {
	popts := opts.apply(cfg.PipelineOptions(id))
	popts.Logger = c.Logger
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, "Rendering "+id+"...")
	spinner.Start()
	res, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done("Rendered " + id)

	if opts.output == "-" {
		_, err := stdout.Write(res.Artifact)
		return err
	}

	path := opts.output
	if path == "" {
		path = id + "." + res.Format
	}
	if err := os.WriteFile(path, res.Artifact, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printSuccess("Card written")
	printFile(path)
	printCardStats(len(res.Artifact), res.Stats.Images, res.CacheInfo.CardHit)

	if !opts.publish {
		return nil
	}
	pub, err := newPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	if pub == nil {
		printWarning("Publishing skipped: publish.bucket is not set")
		return nil
	}
	obj, err := pub.Publish(ctx, publish.Artifact{
		PostID:      id,
		Format:      res.Format,
		ContentType: res.ContentType,
		Data:        res.Artifact,
	})
	if err != nil {
		return err
	}
	printSuccess("Published to %s", obj.Bucket)
	printLink(obj.URL)
	return nil
}

// apply overlays the flags that were set onto base.
func (o renderOpts) apply(base pipeline.Options) pipeline.Options {
	if o.format != "" {
		base.Format = o.format
	}
	if o.width > 0 {
		base.Width = o.width
	}
	if o.scale > 0 {
		base.Scale = o.scale
	}
	if o.timezone != "" {
		base.Timezone = o.timezone
	}
	if o.margin > 0 {
		base.Margin = o.margin
	}
	base.Refresh = o.refresh
	return base
}
