package sink

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/postcard/pkg/fonts"
	"github.com/matzehuels/postcard/pkg/media"
	"github.com/matzehuels/postcard/pkg/render/card"
)

// PNGOption configures PNG rendering via [RenderPNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	margin float64
	images map[string]image.Image
	faces  map[faceKey]font.Face
	icons  map[string][]segment
}

type faceKey struct {
	style fonts.Style
	size  float64
}

// WithPNGMargin sets the space above and below the card.
func WithPNGMargin(m float64) PNGOption { return func(r *pngRenderer) { r.margin = m } }

// WithImages supplies decoded images keyed by source URL.
func WithImages(imgs map[string]image.Image) PNGOption {
	return func(r *pngRenderer) { r.images = imgs }
}

// RenderPNG rasterizes the card and returns the encoded PNG.
func RenderPNG(root card.Box, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{
		faces: map[faceKey]font.Face{},
		icons: map[string][]segment{},
	}
	for _, opt := range opts {
		opt(&r)
	}
	defer r.closeFaces()

	w, h := canvasSize(root, r.margin)
	dc := gg.NewContext(w, h)
	dc.SetHexColor("#ffffff")
	dc.Clear()
	dc.Translate(0, r.margin)

	if err := r.drawBox(dc, root); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *pngRenderer) drawBox(dc *gg.Context, b card.Box) error {
	if b.Kind == card.KindCard {
		half := b.Border / 2
		dc.DrawRoundedRectangle(b.X+half, b.Y+half, b.W-b.Border, b.H-b.Border, b.Radius)
		dc.SetHexColor("#ffffff")
		dc.FillPreserve()
		dc.SetHexColor("#e5e7eb")
		dc.SetLineWidth(b.Border)
		dc.Stroke()
	}
	for _, it := range b.Items {
		if err := r.drawItem(dc, it); err != nil {
			return err
		}
	}
	for _, c := range b.Children {
		if err := r.drawBox(dc, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *pngRenderer) drawItem(dc *gg.Context, it card.Item) error {
	switch it.Kind {
	case card.ItemText:
		face, err := r.face(it.Style(), it.Size)
		if err != nil {
			return err
		}
		dc.SetFontFace(face)
		dc.SetHexColor(it.Color)
		dc.DrawString(it.Text, it.X, it.Baseline)
	case card.ItemImage:
		r.drawImage(dc, it)
	case card.ItemIcon:
		if it.Icon == nil {
			return nil
		}
		return r.drawIcon(dc, it)
	}
	return nil
}

func (r *pngRenderer) drawImage(dc *gg.Context, it card.Item) {
	img := r.images[it.Src]

	clipped := true
	switch {
	case it.Circle:
		dc.DrawCircle(it.X+it.W/2, it.Y+it.H/2, math.Min(it.W, it.H)/2)
	case it.Clip != nil:
		roundedRect(dc, it.Clip.X, it.Clip.Y, it.Clip.W, it.Clip.H, it.Clip.Radii)
	default:
		clipped = false
	}

	if img == nil {
		if !clipped {
			dc.DrawRectangle(it.X, it.Y, it.W, it.H)
		}
		dc.SetHexColor("#e5e7eb")
		dc.Fill()
		return
	}

	if clipped {
		dc.Clip()
		defer dc.ResetClip()
	}
	if it.Circle {
		img = media.Square(img, math.Min(it.W, it.H))
	} else {
		img = media.Resize(img, it.W, it.H)
	}
	dc.DrawImage(img, int(math.Round(it.X)), int(math.Round(it.Y)))
}

// roundedRect adds a rectangle with per-corner radii, clockwise from the
// top left, to the current path.
func roundedRect(dc *gg.Context, x, y, w, h float64, radii [4]float64) {
	limit := math.Min(w, h) / 2
	tl, tr, br, bl := math.Min(radii[0], limit), math.Min(radii[1], limit), math.Min(radii[2], limit), math.Min(radii[3], limit)

	dc.NewSubPath()
	dc.MoveTo(x+tl, y)
	dc.LineTo(x+w-tr, y)
	if tr > 0 {
		dc.DrawArc(x+w-tr, y+tr, tr, -math.Pi/2, 0)
	}
	dc.LineTo(x+w, y+h-br)
	if br > 0 {
		dc.DrawArc(x+w-br, y+h-br, br, 0, math.Pi/2)
	}
	dc.LineTo(x+bl, y+h)
	if bl > 0 {
		dc.DrawArc(x+bl, y+h-bl, bl, math.Pi/2, math.Pi)
	}
	dc.LineTo(x, y+tl)
	if tl > 0 {
		dc.DrawArc(x+tl, y+tl, tl, math.Pi, 3*math.Pi/2)
	}
	dc.ClosePath()
}

func (r *pngRenderer) drawIcon(dc *gg.Context, it card.Item) error {
	vb := it.Icon.ViewBox
	if vb[2] == 0 || vb[3] == 0 {
		return nil
	}
	sx, sy := it.W/vb[2], it.H/vb[3]
	tx := func(p point) (float64, float64) {
		return it.X + (p.X-vb[0])*sx, it.Y + (p.Y-vb[1])*sy
	}

	for _, ip := range it.Icon.Paths {
		segs, err := r.path(ip.D)
		if err != nil {
			return fmt.Errorf("icon %s: %w", it.Icon.Name, err)
		}
		dc.NewSubPath()
		for _, s := range segs {
			switch s.Op {
			case opMove:
				dc.MoveTo(tx(s.Pts[0]))
			case opLine:
				dc.LineTo(tx(s.Pts[0]))
			case opQuad:
				x1, y1 := tx(s.Pts[0])
				x2, y2 := tx(s.Pts[1])
				dc.QuadraticTo(x1, y1, x2, y2)
			case opCubic:
				x1, y1 := tx(s.Pts[0])
				x2, y2 := tx(s.Pts[1])
				x3, y3 := tx(s.Pts[2])
				dc.CubicTo(x1, y1, x2, y2, x3, y3)
			case opClose:
				dc.ClosePath()
			}
		}
		dc.SetHexColor(ip.Fill)
		dc.Fill()
	}
	return nil
}

func (r *pngRenderer) path(d string) ([]segment, error) {
	if segs, ok := r.icons[d]; ok {
		return segs, nil
	}
	segs, err := parsePath(d)
	if err != nil {
		return nil, err
	}
	r.icons[d] = segs
	return segs, nil
}

func (r *pngRenderer) face(s fonts.Style, size float64) (font.Face, error) {
	k := faceKey{s, size}
	if f, ok := r.faces[k]; ok {
		return f, nil
	}
	f, err := fonts.Face(s, size)
	if err != nil {
		return nil, err
	}
	r.faces[k] = f
	return f, nil
}

func (r *pngRenderer) closeFaces() {
	for _, f := range r.faces {
		f.Close()
	}
}
