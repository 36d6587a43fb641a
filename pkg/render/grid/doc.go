// Package grid arranges the media attachments of a post into the tiled
// preview shown on a card.
//
// # Grouping
//
// [Group] splits one to four items into columns, keeping their order:
//
//	1 item  -> [a]
//	2 items -> [a] [b]        (side by side, never stacked)
//	3 items -> [a] [b c]
//	4 items -> [a b] [c d]
//
// # Sizing
//
// [Tiles] gives every column an equal share of the preview width. Rows in a
// column are box.Height/n - n + 1 pixels tall, which leaves an n pixel gap
// between stacked tiles when rows are spread top to bottom. Each item is then
// scaled with [ScaleToFill] so it covers its cell; the negative offsets of an
// oversized item are clipped by the cell.
//
// # Corners
//
// Only the outer corners of the composed grid are rounded. [Tile.Corners]
// reports which of a tile's corners lie on the outside of the grid.
package grid
