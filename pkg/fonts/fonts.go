// Package fonts provides the embedded Go font family used to measure and
// draw cards.
//
// The TTF data comes from golang.org/x/image/font/gofont and is compiled
// into the binary, so PNG output and text measurement do not depend on fonts
// installed on the host. SVG output embeds the same faces as base64 data
// URLs so that browsers wrap text the way the layout measured it.
package fonts

import (
	"encoding/base64"
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Style selects a face of the family.
type Style int

const (
	Regular Style = iota
	Bold
)

func (s Style) String() string {
	if s == Bold {
		return "bold"
	}
	return "regular"
}

// FontFamily is the CSS font-family name of the embedded faces.
const FontFamily = "Go"

// FallbackFontFamily lists system fonts used when the embedded face is unavailable.
const FallbackFontFamily = `'Go', -apple-system, 'Segoe UI', Helvetica, Arial, sans-serif`

// TTF returns the raw font data for style.
func TTF(s Style) []byte {
	if s == Bold {
		return gobold.TTF
	}
	return goregular.TTF
}

var (
	parsed     [2]*opentype.Font
	parseErr   [2]error
	parseOnce  [2]sync.Once
	faceMu     sync.Mutex
	faces      = map[faceKey]font.Face{}
	base64TTF  [2]string
	base64Once [2]sync.Once
)

type faceKey struct {
	style Style
	size  float64
}

// Font returns the parsed font for style. Parsing happens once.
func Font(s Style) (*opentype.Font, error) {
	i := s.index()
	parseOnce[i].Do(func() {
		parsed[i], parseErr[i] = opentype.Parse(TTF(s))
	})
	return parsed[i], parseErr[i]
}

// Face returns a new face of style at size pixels. An opentype face keeps
// scratch buffers, so callers drawing from several goroutines each need
// their own.
func Face(s Style, size float64) (font.Face, error) {
	f, err := Font(s)
	if err != nil {
		return nil, fmt.Errorf("parse %s font: %w", s, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s face: %w", s, err)
	}
	return face, nil
}

// measureFace returns the shared measuring face. Callers must hold faceMu.
func measureFace(s Style, size float64) font.Face {
	key := faceKey{s, size}
	if f, ok := faces[key]; ok {
		return f
	}
	f, err := Face(s, size)
	if err != nil {
		// The embedded fonts always parse; this only fails on a corrupted build.
		panic(err)
	}
	faces[key] = f
	return f
}

// Width returns the advance width of text in pixels.
func Width(s Style, size float64, text string) float64 {
	faceMu.Lock()
	defer faceMu.Unlock()
	return toFloat(font.MeasureString(measureFace(s, size), text))
}

// LineHeight returns the recommended line height of a face in pixels.
func LineHeight(s Style, size float64) float64 {
	faceMu.Lock()
	defer faceMu.Unlock()
	return toFloat(measureFace(s, size).Metrics().Height)
}

// Ascent returns the distance from the top of a line to the baseline.
func Ascent(s Style, size float64) float64 {
	faceMu.Lock()
	defer faceMu.Unlock()
	return toFloat(measureFace(s, size).Metrics().Ascent)
}

// Descent returns the distance from the baseline to the bottom of a line.
func Descent(s Style, size float64) float64 {
	faceMu.Lock()
	defer faceMu.Unlock()
	return toFloat(measureFace(s, size).Metrics().Descent)
}

// TTFBase64 returns the TTF data of style as base64. The result is cached
// after first computation.
func TTFBase64(s Style) string {
	i := s.index()
	base64Once[i].Do(func() {
		base64TTF[i] = base64.StdEncoding.EncodeToString(TTF(s))
	})
	return base64TTF[i]
}

func (s Style) index() int {
	if s == Bold {
		return 1
	}
	return 0
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
