// Package card turns a post into a positioned card ready for a sink.
//
// # Pipeline
//
// Rendering a card has three steps:
//
//	root := card.Compose(p, card.Options{Scale: 2})        // node tree
//	box := card.Layout(root, 672*2, card.FontMeasurer{})   // absolute positions
//	png, err := sink.RenderPNG(box, sink.WithImages(imgs)) // bytes
//
// [Compose] builds a tree of [Node] values in a fixed order: header, body
// text, media grid, quoted post, timestamp and metrics. A quoted post is
// composed as a nested [CardNode]; nesting stops at one level.
//
// [Layout] walks the tree at a fixed width and computes the height. Its
// result is a [Box] tree whose [Item] values are drawing primitives (text
// runs, images, icons) in absolute pixel coordinates, so sinks only need to
// paint them.
//
// # Formatting
//
// [FormatText] strips links from the body, [FormatCompact] abbreviates
// engagement counts (1200 -> 1.2K) and [FormatTimestamp] renders the
// creation time as "3:04 PM - Jan 2, 2006".
package card
