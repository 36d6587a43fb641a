package card

import (
	"github.com/matzehuels/postcard/pkg/render/grid"
)

// Kind identifies the variant of a [Node].
type Kind int

const (
	KindCard Kind = iota
	KindHeader
	KindText
	KindMediaGrid
	KindTimestamp
	KindMetrics
)

var kindNames = [...]string{
	KindCard:      "card",
	KindHeader:    "header",
	KindText:      "text",
	KindMediaGrid: "media_grid",
	KindTimestamp: "timestamp",
	KindMetrics:   "metrics",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Node is one element of a composed card. The concrete types are
// [*CardNode], [*HeaderNode], [*TextNode], [*MediaGridNode],
// [*TimestampNode] and [*MetricsNode].
type Node interface {
	Kind() Kind
	node()
}

// CardNode is a bordered card holding the other nodes in display order.
type CardNode struct {
	PostID   string
	Scale    float64
	Nested   bool // quoted card inside another card
	Children []Node
}

// HeaderNode is the author row: avatar, name, badge, handle and logo.
type HeaderNode struct {
	Name       string
	Username   string
	Verified   bool
	AvatarURL  string
	ProfileURL string
}

// TextNode is the formatted body text. Text may contain line breaks.
type TextNode struct {
	Text string
}

// MediaGridNode is the tiled media preview.
type MediaGridNode struct {
	Box     grid.Rect
	Columns []grid.Column
}

// TimestampNode is the creation time linking to the post.
type TimestampNode struct {
	Text     string // "3:04 PM - Jan 2, 2006"
	Title    string // tooltip
	DateTime string // RFC 3339
	Href     string
}

// MetricsNode is the engagement row.
type MetricsNode struct {
	Items []Metric
}

// Metric is one engagement count with its icon and intent link.
type Metric struct {
	Name  string // reply, retweet or like
	Count int
	Label string // compact count
	Icon  Icon
	Href  string
}

func (*CardNode) Kind() Kind      { return KindCard }
func (*HeaderNode) Kind() Kind    { return KindHeader }
func (*TextNode) Kind() Kind      { return KindText }
func (*MediaGridNode) Kind() Kind { return KindMediaGrid }
func (*TimestampNode) Kind() Kind { return KindTimestamp }
func (*MetricsNode) Kind() Kind   { return KindMetrics }

func (*CardNode) node()      {}
func (*HeaderNode) node()    {}
func (*TextNode) node()      {}
func (*MediaGridNode) node() {}
func (*TimestampNode) node() {}
func (*MetricsNode) node()   {}

// Depth returns how many cards are nested in c, counting c itself.
func (c *CardNode) Depth() int {
	d := 0
	for _, ch := range c.Children {
		if n, ok := ch.(*CardNode); ok {
			d = max(d, n.Depth())
		}
	}
	return d + 1
}
