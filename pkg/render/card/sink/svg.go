package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/postcard/pkg/fonts"
	"github.com/matzehuels/postcard/pkg/render/card"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	margin     float64
	embedFonts bool
	clips      int
}

// WithMargin sets the space above and below the card.
func WithMargin(m float64) SVGOption { return func(r *svgRenderer) { r.margin = m } }

// WithoutFontEmbedding references the font family by name instead of
// embedding it, which keeps the document small.
func WithoutFontEmbedding() SVGOption { return func(r *svgRenderer) { r.embedFonts = false } }

// RenderSVG renders the card as a standalone SVG document.
func RenderSVG(root card.Box, opts ...SVGOption) []byte {
	r := svgRenderer{embedFonts: true}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := canvasSize(root, r.margin)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n", w, h, w, h)
	r.renderDefs(&buf)
	fmt.Fprintf(&buf, `  <rect width="%d" height="%d" fill="#ffffff"/>`+"\n", w, h)
	fmt.Fprintf(&buf, `  <g transform="translate(0 %s)">`+"\n", num(r.margin))
	r.renderBox(&buf, root)
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n    <style>\n")
	if r.embedFonts {
		for _, s := range []fonts.Style{fonts.Regular, fonts.Bold} {
			weight := 400
			if s == fonts.Bold {
				weight = 700
			}
			fmt.Fprintf(buf, "      @font-face { font-family: '%s'; font-weight: %d; src: url(data:font/ttf;base64,%s) format('truetype'); }\n",
				fonts.FontFamily, weight, fonts.TTFBase64(s))
		}
	}
	fmt.Fprintf(buf, "      text { font-family: %s; }\n", fonts.FallbackFontFamily)
	buf.WriteString("      a { cursor: pointer; }\n")
	buf.WriteString("    </style>\n  </defs>\n")
}

func (r *svgRenderer) renderBox(buf *bytes.Buffer, b card.Box) {
	if b.Kind == card.KindCard {
		half := b.Border / 2
		fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" rx="%s" fill="#ffffff" stroke="#e5e7eb" stroke-width="%s"/>`+"\n",
			num(b.X+half), num(b.Y+half), num(b.W-b.Border), num(b.H-b.Border), num(b.Radius), num(b.Border))
	}
	for _, it := range b.Items {
		wrapLink(buf, it.Href, func() { r.renderItem(buf, it) })
	}
	for _, c := range b.Children {
		r.renderBox(buf, c)
	}
}

func (r *svgRenderer) renderItem(buf *bytes.Buffer, it card.Item) {
	switch it.Kind {
	case card.ItemText:
		weight := ""
		if it.Bold {
			weight = ` font-weight="bold"`
		}
		fmt.Fprintf(buf, `    <text x="%s" y="%s" font-size="%s"%s fill="%s">%s%s</text>`+"\n",
			num(it.X), num(it.Baseline), num(it.Size), weight, it.Color, title(it.Title), escapeXML(it.Text))
	case card.ItemImage:
		r.renderImage(buf, it)
	case card.ItemIcon:
		if it.Icon == nil {
			return
		}
		vb := it.Icon.ViewBox
		fmt.Fprintf(buf, `    <svg x="%s" y="%s" width="%s" height="%s" viewBox="%s %s %s %s">%s`,
			num(it.X), num(it.Y), num(it.W), num(it.H), num(vb[0]), num(vb[1]), num(vb[2]), num(vb[3]), title(it.Title))
		for _, p := range it.Icon.Paths {
			fmt.Fprintf(buf, `<path d="%s" fill="%s"/>`, p.D, p.Fill)
		}
		buf.WriteString("</svg>\n")
	}
}

func (r *svgRenderer) renderImage(buf *bytes.Buffer, it card.Item) {
	r.clips++
	id := fmt.Sprintf("clip-%d", r.clips)
	switch {
	case it.Circle:
		fmt.Fprintf(buf, `    <clipPath id="%s"><circle cx="%s" cy="%s" r="%s"/></clipPath>`+"\n",
			id, num(it.X+it.W/2), num(it.Y+it.H/2), num(math.Min(it.W, it.H)/2))
	case it.Clip != nil:
		c := it.Clip
		fmt.Fprintf(buf, `    <clipPath id="%s"><path d="%s"/></clipPath>`+"\n", id, roundedRectPath(c.X, c.Y, c.W, c.H, c.Radii))
	default:
		id = ""
	}

	clip := ""
	if id != "" {
		clip = fmt.Sprintf(` clip-path="url(#%s)"`, id)
	}
	if it.Src == "" {
		fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" fill="#e5e7eb"%s/>`+"\n",
			num(it.X), num(it.Y), num(it.W), num(it.H), clip)
		return
	}
	fmt.Fprintf(buf, `    <image href="%s" x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="none"%s>%s</image>`+"\n",
		escapeXML(it.Src), num(it.X), num(it.Y), num(it.W), num(it.H), clip, title(it.Title))
}

// roundedRectPath returns path data for a rectangle with per-corner radii
// given clockwise from the top left.
func roundedRectPath(x, y, w, h float64, radii [4]float64) string {
	limit := math.Min(w, h) / 2
	tl, tr, br, bl := math.Min(radii[0], limit), math.Min(radii[1], limit), math.Min(radii[2], limit), math.Min(radii[3], limit)

	var b strings.Builder
	fmt.Fprintf(&b, "M%s %s", num(x+tl), num(y))
	fmt.Fprintf(&b, "H%s", num(x+w-tr))
	if tr > 0 {
		fmt.Fprintf(&b, "A%s %s 0 0 1 %s %s", num(tr), num(tr), num(x+w), num(y+tr))
	}
	fmt.Fprintf(&b, "V%s", num(y+h-br))
	if br > 0 {
		fmt.Fprintf(&b, "A%s %s 0 0 1 %s %s", num(br), num(br), num(x+w-br), num(y+h))
	}
	fmt.Fprintf(&b, "H%s", num(x+bl))
	if bl > 0 {
		fmt.Fprintf(&b, "A%s %s 0 0 1 %s %s", num(bl), num(bl), num(x), num(y+h-bl))
	}
	fmt.Fprintf(&b, "V%s", num(y+tl))
	if tl > 0 {
		fmt.Fprintf(&b, "A%s %s 0 0 1 %s %s", num(tl), num(tl), num(x+tl), num(y))
	}
	b.WriteString("Z")
	return b.String()
}

func wrapLink(buf *bytes.Buffer, url string, fn func()) {
	if url != "" {
		fmt.Fprintf(buf, `    <a href="%s" target="_blank">`+"\n", escapeXML(url))
	}
	fn()
	if url != "" {
		buf.WriteString("    </a>\n")
	}
}

func title(s string) string {
	if s == "" {
		return ""
	}
	return "<title>" + escapeXML(s) + "</title>"
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

// canvasSize returns the pixel size of the canvas holding root.
func canvasSize(root card.Box, margin float64) (int, int) {
	return int(math.Ceil(root.W)), int(math.Ceil(root.H + 2*margin))
}
