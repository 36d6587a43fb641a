package card

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/postcard/pkg/post"
	"github.com/matzehuels/postcard/pkg/render/grid"
)

// Options configures [Compose].
type Options struct {
	Width    float64        // Card width at scale 1 (default [DefaultWidth])
	Scale    float64        // Multiplies every size (default 1)
	Location *time.Location // Zone of the timestamp (default UTC)
	Logger   *log.Logger    // Reports ignored media (default discards)
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Compose builds the node tree of p. The quoted post, if any, is composed
// as a nested card; a nested card never embeds another quote.
func Compose(p post.Post, opts Options) *CardNode {
	opts = opts.withDefaults()
	return compose(p, opts, opts.Width*opts.Scale, false)
}

func compose(p post.Post, opts Options, width float64, nested bool) *CardNode {
	s := opts.Scale
	c := &CardNode{PostID: p.ID, Scale: s, Nested: nested}

	c.Children = append(c.Children, &HeaderNode{
		Name:       p.Author.Name,
		Username:   p.Author.Username,
		Verified:   p.Author.Verified,
		AvatarURL:  p.Author.ProfileImageURL,
		ProfileURL: p.Author.ProfileURL(),
	})

	c.Children = append(c.Children, &TextNode{Text: FormatText(p.Text)})

	content := contentWidth(width, s)
	if len(p.Media) > 0 {
		if len(p.Media) > grid.MaxItems {
			opts.Logger.Debug("ignoring extra media", "post", p.ID, "count", len(p.Media), "max", grid.MaxItems)
		}
		box := grid.Rect{Width: min(PreviewWidth*s, content), Height: PreviewHeight * s}
		c.Children = append(c.Children, &MediaGridNode{Box: box, Columns: grid.Tiles(box, p.Media)})
	}

	if q, ok := p.Quoted(); ok && !nested {
		c.Children = append(c.Children, compose(q, opts, content, true))
	}

	if !p.CreatedAt.IsZero() {
		c.Children = append(c.Children, &TimestampNode{
			Text:     FormatTimestamp(p.CreatedAt, opts.Location),
			Title:    TimestampTitle(p.CreatedAt),
			DateTime: p.CreatedAt.UTC().Format(time.RFC3339),
			Href:     p.URL(),
		})
	}

	c.Children = append(c.Children, metrics(p))
	return c
}

func metrics(p post.Post) *MetricsNode {
	var m post.Metrics
	if p.Metrics != nil {
		m = *p.Metrics
	}
	item := func(name string, n int, icon Icon, href string) Metric {
		return Metric{Name: name, Count: n, Label: FormatCompact(int64(n)), Icon: icon, Href: href}
	}
	return &MetricsNode{Items: []Metric{
		item("reply", m.ReplyCount, IconReply, p.ReplyURL()),
		item("retweet", m.RetweetCount, IconRetweet, p.RetweetURL()),
		item("like", m.LikeCount, IconLike, p.LikeURL()),
	}}
}

// contentWidth is the width inside the border and padding of a card.
func contentWidth(width, scale float64) float64 {
	return max(width-2*(borderWidth+paddingX)*scale, 0)
}
