package card

import (
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/postcard/pkg/fonts"
	"github.com/matzehuels/postcard/pkg/post"
)

// Measurer reports text metrics in pixels.
type Measurer interface {
	Width(style fonts.Style, size float64, text string) float64
	Ascent(style fonts.Style, size float64) float64
	Descent(style fonts.Style, size float64) float64
}

// FontMeasurer measures with the embedded fonts of [fonts].
type FontMeasurer struct{}

func (FontMeasurer) Width(s fonts.Style, size float64, text string) float64 {
	return fonts.Width(s, size, text)
}
func (FontMeasurer) Ascent(s fonts.Style, size float64) float64  { return fonts.Ascent(s, size) }
func (FontMeasurer) Descent(s fonts.Style, size float64) float64 { return fonts.Descent(s, size) }

// ItemKind identifies the drawing primitive of an [Item].
type ItemKind int

const (
	ItemText ItemKind = iota
	ItemImage
	ItemIcon
)

func (k ItemKind) String() string {
	switch k {
	case ItemText:
		return "text"
	case ItemImage:
		return "image"
	case ItemIcon:
		return "icon"
	}
	return "unknown"
}

// MarshalText encodes the kind by name.
func (k ItemKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Item is a positioned drawing primitive. Coordinates are absolute pixels
// with the origin at the top left of the card.
type Item struct {
	Kind ItemKind `json:"kind"`
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
	W    float64  `json:"width"`
	H    float64  `json:"height"`

	// Text runs. Baseline is absolute.
	Text     string  `json:"text,omitempty"`
	Bold     bool    `json:"bold,omitempty"`
	Size     float64 `json:"font_size,omitempty"`
	Baseline float64 `json:"baseline,omitempty"`
	Color    string  `json:"color,omitempty"`

	// Images. An empty Src draws a placeholder.
	Src    string `json:"src,omitempty"`
	Circle bool   `json:"circle,omitempty"`
	Clip   *Clip  `json:"clip,omitempty"`

	Icon *Icon `json:"icon,omitempty"`

	Href  string `json:"href,omitempty"`
	Title string `json:"title,omitempty"`
}

// Style returns the font style of a text item.
func (it Item) Style() fonts.Style {
	if it.Bold {
		return fonts.Bold
	}
	return fonts.Regular
}

// Clip is a rounded rectangle that bounds an image. Radii run clockwise
// from the top left.
type Clip struct {
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
	W     float64    `json:"width"`
	H     float64    `json:"height"`
	Radii [4]float64 `json:"radii"`
}

// Box is the laid out form of a node. Card boxes carry their border and
// corner radius; the other kinds only carry items.
type Box struct {
	Kind     Kind    `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"width"`
	H        float64 `json:"height"`
	Radius   float64 `json:"radius,omitempty"`
	Border   float64 `json:"border,omitempty"`
	Items    []Item  `json:"items,omitempty"`
	Children []Box   `json:"children,omitempty"`
}

// Walk calls fn for b and every descendant in paint order.
func (b Box) Walk(fn func(Box)) {
	fn(b)
	for _, c := range b.Children {
		c.Walk(fn)
	}
}

// ImageURLs returns the distinct image sources of b in paint order.
func (b Box) ImageURLs() []string {
	var urls []string
	seen := map[string]bool{}
	b.Walk(func(x Box) {
		for _, it := range x.Items {
			if it.Kind == ItemImage && it.Src != "" && !seen[it.Src] {
				seen[it.Src] = true
				urls = append(urls, it.Src)
			}
		}
	})
	return urls
}

// Layout positions root at the top left of a canvas of the given width.
// The height follows from the content.
func Layout(root *CardNode, width float64, m Measurer) Box {
	return layoutCard(root, 0, 0, width, m)
}

type layoutCtx struct {
	s float64
	m Measurer
}

func layoutCard(c *CardNode, x, y, w float64, m Measurer) Box {
	s := c.Scale
	if s <= 0 {
		s = 1
	}
	l := layoutCtx{s: s, m: m}

	b := Box{Kind: KindCard, X: x, Y: y, W: w, Radius: cornerRadius * s, Border: borderWidth * s}
	cx := x + (borderWidth+paddingX)*s
	cw := contentWidth(w, s)
	cy := y + (borderWidth+paddingY)*s

	for _, n := range c.Children {
		top, bottom := margins(n.Kind())
		cy += top * s

		var child Box
		switch n := n.(type) {
		case *HeaderNode:
			child = l.header(n, cx, cy, cw)
		case *TextNode:
			child = l.text(n, cx, cy, cw)
		case *MediaGridNode:
			child = l.mediaGrid(n, cx, cy)
		case *CardNode:
			child = layoutCard(n, cx, cy, cw, m)
		case *TimestampNode:
			child = l.timestamp(n, cx, cy)
		case *MetricsNode:
			child = l.metrics(n, cx, cy)
		default:
			continue
		}
		b.Children = append(b.Children, child)
		cy += child.H + bottom*s
	}

	b.H = cy + (paddingY+borderWidth)*s - y
	return b
}

// margins returns the space above and below a node at scale 1.
func margins(k Kind) (top, bottom float64) {
	switch k {
	case KindText:
		return textMarginTop, textMarginBot
	case KindMediaGrid:
		return 0, mediaGap
	case KindCard:
		return quoteMarginY, quoteMarginY
	case KindMetrics:
		return metricsTop, 0
	}
	return 0, 0
}

func (l layoutCtx) header(n *HeaderNode, x, y, w float64) Box {
	s := l.s
	b := Box{Kind: KindHeader, X: x, Y: y, W: w, H: avatarSize * s}

	b.Items = append(b.Items, Item{
		Kind: ItemImage, X: x, Y: y, W: avatarSize * s, H: avatarSize * s,
		Src: n.AvatarURL, Circle: true, Href: n.ProfileURL, Title: n.Name,
	})

	logo := IconLogo
	b.Items = append(b.Items, Item{
		Kind: ItemIcon, X: x + w - logoSize*s, Y: y, W: logoSize * s, H: logoSize * s,
		Icon: &logo, Href: n.ProfileURL,
	})

	textX := x + (avatarSize+avatarGap)*s
	avail := max(x+w-(logoSize+badgeGap*2)*s-textX, 0)

	nameAvail := avail
	if n.Verified {
		nameAvail = max(avail-(badgeGap+badgeSize)*s, 0)
	}
	name := l.run(n.Name, true, fontSize*s, nameLineH*s, textX, y, nameAvail, colorName)
	name.Href, name.Title = n.ProfileURL, n.Name
	b.Items = append(b.Items, name)

	if n.Verified {
		badge := IconVerified
		b.Items = append(b.Items, Item{
			Kind: ItemIcon, X: textX + name.W + badgeGap*s, Y: y + (nameLineH-badgeSize)/2*s,
			W: badgeSize * s, H: badgeSize * s, Icon: &badge, Title: "Verified Account",
		})
	}

	handle := l.run("@"+n.Username, false, fontSize*s, bodyLineH*s, textX, y+nameLineH*s, avail, colorMuted)
	handle.Href, handle.Title = n.ProfileURL, "@"+n.Username
	b.Items = append(b.Items, handle)
	return b
}

func (l layoutCtx) text(n *TextNode, x, y, w float64) Box {
	s := l.s
	b := Box{Kind: KindText, X: x, Y: y, W: w}
	lines := wrapText(n.Text, w, func(t string) float64 { return l.m.Width(fonts.Regular, fontSize*s, t) })
	for i, line := range lines {
		it := l.run(line, false, fontSize*s, bodyLineH*s, x, y+float64(i)*bodyLineH*s, 0, colorBody)
		b.Items = append(b.Items, it)
	}
	b.H = float64(len(lines)) * bodyLineH * s
	return b
}

func (l layoutCtx) mediaGrid(n *MediaGridNode, x, y float64) Box {
	s := l.s
	b := Box{Kind: KindMediaGrid, X: x, Y: y, W: n.Box.Width, H: n.Box.Height}
	for _, col := range n.Columns {
		for _, t := range col.Tiles {
			cell := &Clip{
				X: x + col.X, Y: y + t.Y, W: col.Width, H: col.Height,
				Radii: t.Corners.Radii(tileRadius * s),
			}
			b.Items = append(b.Items, Item{
				Kind: ItemImage,
				X:    cell.X + t.OffsetX, Y: cell.Y + t.OffsetY, W: t.Width, H: t.Height,
				Src: t.Media.ImageURL(), Clip: cell,
			})
			if t.Media.Type == post.MediaVideo || t.Media.Type == post.MediaAnimatedGIF {
				size := min(playSize*s, cell.W, cell.H)
				play := IconPlay
				b.Items = append(b.Items, Item{
					Kind: ItemIcon, X: cell.X + (cell.W-size)/2, Y: cell.Y + (cell.H-size)/2,
					W: size, H: size, Icon: &play, Title: t.Media.Type,
				})
			}
		}
	}
	return b
}

func (l layoutCtx) timestamp(n *TimestampNode, x, y float64) Box {
	s := l.s
	it := l.run(n.Text, false, smallFontSize*s, smallLineH*s, x, y, 0, colorMuted)
	it.Href, it.Title = n.Href, n.Title
	return Box{Kind: KindTimestamp, X: x, Y: y, W: it.W, H: smallLineH * s, Items: []Item{it}}
}

func (l layoutCtx) metrics(n *MetricsNode, x, y float64) Box {
	s := l.s
	b := Box{Kind: KindMetrics, X: x, Y: y, H: smallLineH * s}
	cx := x
	for _, mt := range n.Items {
		icon := mt.Icon
		b.Items = append(b.Items, Item{
			Kind: ItemIcon, X: cx, Y: y + (smallLineH-metricIcon)/2*s,
			W: metricIcon * s, H: metricIcon * s, Icon: &icon, Href: mt.Href,
		})
		cx += (metricIcon + metricIconGap) * s

		it := l.run(mt.Label, false, smallFontSize*s, smallLineH*s, cx, y, 0, colorMuted)
		it.Href = mt.Href
		b.Items = append(b.Items, it)
		cx += it.W + metricGap*s
	}
	b.W = max(cx-metricGap*s-x, 0)
	return b
}

// run builds a single-line text item whose line box starts at top. A
// positive maxW truncates the text with an ellipsis.
func (l layoutCtx) run(text string, bold bool, size, lineH, x, top, maxW float64, color string) Item {
	style := fonts.Regular
	if bold {
		style = fonts.Bold
	}
	measure := func(t string) float64 { return l.m.Width(style, size, t) }
	if maxW > 0 {
		text = truncate(text, maxW, measure)
	}
	asc, desc := l.m.Ascent(style, size), l.m.Descent(style, size)
	return Item{
		Kind: ItemText, X: x, Y: top, W: measure(text), H: lineH,
		Text: text, Bold: bold, Size: size, Color: color,
		Baseline: top + (lineH-(asc+desc))/2 + asc,
	}
}

// wrapText breaks text into lines no wider than maxW. Explicit line breaks
// are kept; words longer than a line are split between runes.
func wrapText(text string, maxW float64, measure func(string) float64) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, word := range words {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if measure(candidate) <= maxW {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			line = word
			for measure(line) > maxW && utf8.RuneCountInString(line) > 1 {
				head := fitRunes(line, maxW, measure)
				lines = append(lines, head)
				line = line[len(head):]
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// fitRunes returns the longest prefix of s (at least one rune) that fits maxW.
func fitRunes(s string, maxW float64, measure func(string) float64) string {
	end := 0
	for end < len(s) {
		_, size := utf8.DecodeRuneInString(s[end:])
		if end > 0 && measure(s[:end+size]) > maxW {
			break
		}
		end += size
	}
	return s[:end]
}

const ellipsis = "…"

// truncate shortens text with an ellipsis until it fits maxW.
func truncate(text string, maxW float64, measure func(string) float64) string {
	if measure(text) <= maxW {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		t := string(runes[:n]) + ellipsis
		if measure(t) <= maxW {
			return t
		}
	}
	return ellipsis
}
