package sink

import (
	"encoding/json"

	"github.com/matzehuels/postcard/pkg/post"
	"github.com/matzehuels/postcard/pkg/render/card"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	margin float64
	post   *post.Post
}

// WithJSONMargin sets the space above and below the card.
func WithJSONMargin(m float64) JSONOption { return func(r *jsonRenderer) { r.margin = m } }

// WithJSONPost includes the source post in the output.
func WithJSONPost(p *post.Post) JSONOption { return func(r *jsonRenderer) { r.post = p } }

type jsonCanvas struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Margin float64    `json:"margin"`
	Post   *post.Post `json:"post,omitempty"`
	Card   card.Box   `json:"card"`
}

// RenderJSON encodes the laid out card together with its canvas size.
func RenderJSON(root card.Box, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}
	w, h := canvasSize(root, r.margin)
	return json.MarshalIndent(jsonCanvas{
		Width:  w,
		Height: h,
		Margin: r.margin,
		Post:   r.post,
		Card:   root,
	}, "", "  ")
}
