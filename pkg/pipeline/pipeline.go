// Package pipeline renders post cards: fetch → compose → layout → render.
//
// The CLI and the HTTP server share this package so that both produce the
// same bytes for the same options and share one caching scheme.
//
// # Usage
//
//	runner := pipeline.NewRunner(twitterClient, mediaLoader, c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{PostID: "1590044136545427456"})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("card.png", res.Artifact, 0o644)
//
// Stages can also run individually:
//
//	p, _, err := runner.Fetch(ctx, id, false)
//	box := runner.Layout(ctx, p, opts)
//	data, err := runner.Render(ctx, p, box, opts)
package pipeline

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/postcard/pkg/cache"
	perrors "github.com/matzehuels/postcard/pkg/errors"
	"github.com/matzehuels/postcard/pkg/post"
	"github.com/matzehuels/postcard/pkg/render/card"
)

const (
	// DefaultScale renders at the natural card size.
	DefaultScale = 1.0
	// MaxScale bounds the canvas size of a single render.
	MaxScale = 4.0
	// MaxWidth bounds the card width in unscaled pixels.
	MaxWidth = 2048.0
	// DefaultTimezone is used for the displayed creation time.
	DefaultTimezone = "UTC"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// DefaultFormat is the format of the card endpoint.
const DefaultFormat = FormatPNG

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return perrors.New(perrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, svg, json)", format)
	}
	return nil
}

// Options configures a pipeline run.
type Options struct {
	PostID   string  `json:"tid"`
	Format   string  `json:"format,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Timezone string  `json:"timezone,omitempty"`
	// Margin is white space above and below the card, in unscaled pixels.
	Margin  float64 `json:"margin,omitempty"`
	Refresh bool    `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	loc       *time.Location
	validated bool
}

// Result is the outcome of [Runner.Execute].
type Result struct {
	// Post is the rendered post. It is zero when the card came from cache.
	Post post.Post
	// Artifact holds the encoded card in Format.
	Artifact    []byte
	Format      string
	ContentType string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing information for a run.
type Stats struct {
	FetchTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
	Images     int
}

// CacheInfo tracks which stages hit the cache.
type CacheInfo struct {
	PostHit bool
	CardHit bool
}

// ValidateAndSetDefaults checks options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := perrors.ValidatePostID(o.PostID); err != nil {
		return err
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"width", o.Width}, {"scale", o.Scale}, {"margin", o.Margin}} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return perrors.New(perrors.ErrCodeInvalidInput, "%s must be a finite number", f.name)
		}
	}
	if o.Width == 0 {
		o.Width = card.DefaultWidth
	}
	if o.Width < 0 || o.Width > MaxWidth {
		return perrors.New(perrors.ErrCodeInvalidInput, "width must be between 1 and %v", MaxWidth)
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 || o.Scale > MaxScale {
		return perrors.New(perrors.ErrCodeInvalidInput, "scale must be between 0 and %v", MaxScale)
	}
	if o.Margin < 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "margin must not be negative")
	}
	if o.Timezone == "" {
		o.Timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "unknown timezone %q", o.Timezone)
	}
	o.loc = loc
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Location returns the timezone resolved by [Options.ValidateAndSetDefaults],
// or UTC before validation.
func (o *Options) Location() *time.Location {
	if o.loc == nil {
		return time.UTC
	}
	return o.loc
}

// CardKeyOpts returns the cache key options of the rendered card.
func (o *Options) CardKeyOpts() cache.CardKeyOpts {
	return cache.CardKeyOpts{
		Format:   o.Format,
		Width:    o.Width,
		Scale:    o.Scale,
		Timezone: o.Timezone,
		Margin:   o.Margin,
	}
}

// canvasWidth is the scaled card width.
func (o *Options) canvasWidth() float64 {
	w, s := o.Width, o.Scale
	if w <= 0 {
		w = card.DefaultWidth
	}
	if s <= 0 {
		s = DefaultScale
	}
	return w * s
}

// margin is the scaled canvas margin.
func (o *Options) margin() float64 {
	if o.Scale <= 0 {
		return o.Margin
	}
	return o.Margin * o.Scale
}

func (o *Options) String() string {
	return fmt.Sprintf("%s.%s@%vx", o.PostID, o.Format, o.Scale)
}
