// Package render turns posts into preview cards.
//
// Rendering happens in two steps. [card] composes a post into a tree of
// nodes and lays it out into absolutely positioned primitives (text runs,
// images, icons and boxes). The sinks in [card/sink] then paint that tree as
// SVG, PNG or JSON without making any layout decisions of their own.
// [grid] holds the media tile arithmetic shared by the layout.
//
//	root := card.Compose(p, card.Options{Width: card.DefaultWidth, Scale: 1})
//	box := card.Layout(root, card.DefaultWidth, card.FontMeasurer{})
//	svg := sink.RenderSVG(box)
//
// [card]: github.com/matzehuels/postcard/pkg/render/card
// [card/sink]: github.com/matzehuels/postcard/pkg/render/card/sink
// [grid]: github.com/matzehuels/postcard/pkg/render/grid
package render
