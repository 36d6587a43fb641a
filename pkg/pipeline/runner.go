package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/postcard/pkg/cache"
	perrors "github.com/matzehuels/postcard/pkg/errors"
	"github.com/matzehuels/postcard/pkg/observability"
	"github.com/matzehuels/postcard/pkg/post"
	"github.com/matzehuels/postcard/pkg/render/card"
)

// Fetcher looks up posts by id. [twitter.Client] implements it.
//
// [twitter.Client]: github.com/matzehuels/postcard/pkg/integrations/twitter.Client
type Fetcher interface {
	Lookup(ctx context.Context, ids []string) ([]post.Post, error)
}

// MediaLoader downloads and decodes images. [media.Loader] implements it.
//
// [media.Loader]: github.com/matzehuels/postcard/pkg/media.Loader
type MediaLoader interface {
	LoadAll(ctx context.Context, urls []string) ([]image.Image, error)
}

// Runner executes the pipeline with caching.
//
// A Runner holds no per-run state, so one instance may serve concurrent
// requests with different options.
type Runner struct {
	Fetcher Fetcher
	Media   MediaLoader
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	// TTL overrides the post and card expiry when positive.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses the default key layout, and a nil media loader renders PNG cards with
// image placeholders.
func NewRunner(f Fetcher, m MediaLoader, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Fetcher: f,
		Media:   m,
		Cache:   cache.Observe(c),
		Keyer:   keyer,
		Logger:  logger,
	}
}

// Execute runs fetch → compose → layout → render for one post. A cached
// card is returned without contacting the API unless opts.Refresh is set.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Format: opts.Format, ContentType: ContentType(opts.Format)}
	cardKey := r.Keyer.CardKey(opts.PostID, opts.CardKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cardKey); err == nil && hit {
			result.Artifact = data
			result.CacheInfo.CardHit = true
			opts.Logger.Debug("card from cache", "post", opts.PostID, "format", opts.Format)
			return result, nil
		}
	}

	fetchStart := time.Now()
	p, postHit, err := r.Fetch(ctx, opts.PostID, opts.Refresh)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	result.Post = p
	result.CacheInfo.PostHit = postHit
	result.Stats.FetchTime = time.Since(fetchStart)

	layoutStart := time.Now()
	box := r.Layout(ctx, p, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)

	renderStart := time.Now()
	urls := box.ImageURLs()
	data, err := r.Render(ctx, p, box, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifact = data
	result.Stats.RenderTime = time.Since(renderStart)
	result.Stats.Images = len(urls)

	_ = r.Cache.Set(ctx, cardKey, data, r.ttl(cache.TTLCard))

	opts.Logger.Info("rendered card",
		"post", p.ID,
		"format", opts.Format,
		"bytes", len(data),
		"fetch", result.Stats.FetchTime,
		"render", result.Stats.RenderTime)
	return result, nil
}

// Fetch returns one post, from cache when possible. The boolean reports a
// cache hit. A lookup that yields nothing is a NOT_FOUND error.
func (r *Runner) Fetch(ctx context.Context, id string, refresh bool) (post.Post, bool, error) {
	key := r.Keyer.PostKey(id)
	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var p post.Post
			if err := msgpack.Unmarshal(data, &p); err == nil {
				return p, true, nil
			}
		}
	}

	posts, err := r.FetchAll(ctx, []string{id})
	if err != nil {
		return post.Post{}, false, err
	}
	if len(posts) == 0 {
		return post.Post{}, false, perrors.New(perrors.ErrCodeNotFound, "no posts found for %s", id)
	}
	return posts[0], false, nil
}

// FetchAll looks up ids in one request, bypassing the post cache for
// reads. Every returned post is written to the cache.
func (r *Runner) FetchAll(ctx context.Context, ids []string) ([]post.Post, error) {
	if r.Fetcher == nil {
		return nil, perrors.New(perrors.ErrCodeInvalidConfig, "no post fetcher configured")
	}

	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx, ids)
	start := time.Now()
	posts, err := r.Fetcher.Lookup(ctx, ids)
	hooks.OnFetchComplete(ctx, ids, len(posts), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		if data, err := msgpack.Marshal(&p); err == nil {
			_ = r.Cache.Set(ctx, r.Keyer.PostKey(p.ID), data, r.ttl(cache.TTLPost))
		}
	}
	return posts, nil
}

// Layout composes and lays out the card of p.
func (r *Runner) Layout(ctx context.Context, p post.Post, opts Options) card.Box {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, p.ID)
	start := time.Now()

	root := card.Compose(p, card.Options{
		Width:    opts.Width,
		Scale:    opts.Scale,
		Location: opts.Location(),
		Logger:   r.loggerFor(opts),
	})
	box := card.Layout(root, opts.canvasWidth(), card.FontMeasurer{})

	hooks.OnLayoutComplete(ctx, p.ID, time.Since(start))
	return box
}

// Close releases the cache backend.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (r *Runner) loggerFor(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
