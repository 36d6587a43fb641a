// Package sink provides output format renderers for laid out cards.
//
// # Overview
//
// A "sink" transforms a [card.Box] produced by [card.Layout] into a final
// output format:
//
//   - PNG: raster image drawn with fogleman/gg
//   - SVG: vector image with working links and tooltips
//   - JSON: the layout itself, for debugging and external renderers
//
// All sinks paint the card on a white canvas as wide as the card, with a
// vertical margin above and below it.
//
// # PNG Output
//
// [RenderPNG] needs the decoded images referenced by the layout. Callers
// load them up front (see [card.Box.ImageURLs]) and pass them with
// [WithImages]; missing images are drawn as gray placeholders:
//
//	png, err := sink.RenderPNG(box, sink.WithImages(imgs), sink.WithPNGMargin(16))
//
// Links and tooltips cannot be represented in a PNG and are ignored.
//
// # SVG Output
//
// [RenderSVG] references images by URL and embeds the fonts used for
// measuring, so text wraps exactly where the layout put line breaks:
//
//	svg := sink.RenderSVG(box, sink.WithMargin(16))
//
// [card.Box]: github.com/matzehuels/postcard/pkg/render/card.Box
// [card.Layout]: github.com/matzehuels/postcard/pkg/render/card.Layout
// [card.Box.ImageURLs]: github.com/matzehuels/postcard/pkg/render/card.Box.ImageURLs
package sink
