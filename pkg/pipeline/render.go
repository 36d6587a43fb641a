package pipeline

import (
	"context"
	"image"
	"time"

	perrors "github.com/matzehuels/postcard/pkg/errors"
	"github.com/matzehuels/postcard/pkg/observability"
	"github.com/matzehuels/postcard/pkg/post"
	"github.com/matzehuels/postcard/pkg/render/card"
	"github.com/matzehuels/postcard/pkg/render/card/sink"
)

// Render encodes a laid out card in opts.Format. PNG output downloads the
// referenced images first; images that fail to load become placeholders.
func (r *Runner) Render(ctx context.Context, p post.Post, box card.Box, opts Options) ([]byte, error) {
	format := opts.Format
	if format == "" {
		format = DefaultFormat
	}
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, p.ID, format)
	start := time.Now()

	data, err := r.render(ctx, p, box, format, opts.margin())
	hooks.OnRenderComplete(ctx, p.ID, format, len(data), time.Since(start), err)
	return data, err
}

func (r *Runner) render(ctx context.Context, p post.Post, box card.Box, format string, margin float64) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(box, sink.WithMargin(margin)), nil
	case FormatJSON:
		data, err := sink.RenderJSON(box, sink.WithJSONMargin(margin), sink.WithJSONPost(&p))
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeRender, err, "encode layout")
		}
		return data, nil
	default:
		imgs, err := r.loadImages(ctx, box.ImageURLs())
		if err != nil {
			return nil, err
		}
		data, err := sink.RenderPNG(box, sink.WithPNGMargin(margin), sink.WithImages(imgs))
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeRender, err, "rasterize card")
		}
		return data, nil
	}
}

func (r *Runner) loadImages(ctx context.Context, urls []string) (map[string]image.Image, error) {
	imgs := make(map[string]image.Image, len(urls))
	if r.Media == nil || len(urls) == 0 {
		return imgs, nil
	}
	loaded, err := r.Media.LoadAll(ctx, urls)
	if err != nil {
		return nil, err
	}
	for i, img := range loaded {
		if img != nil {
			imgs[urls[i]] = img
		}
	}
	return imgs, nil
}
