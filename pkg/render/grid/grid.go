package grid

import "github.com/matzehuels/postcard/pkg/post"

// MaxItems is the largest number of media items laid out in one grid.
// The lookup API never attaches more; extra items are ignored.
const MaxItems = 4

// Rect is a width and height in pixels.
type Rect struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Placement is the size of a scaled item and its shift inside a cell.
// Offsets are negative when the item overflows the cell.
type Placement struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// Tile is one media item positioned in its cell.
type Tile struct {
	Media post.Media `json:"media"`
	Placement
	// Y is the top of the cell relative to the top of the grid.
	Y       float64 `json:"y"`
	Corners Corners `json:"corners"`
}

// Column is a vertical stack of tiles. Height is the height of a single row.
type Column struct {
	// X is the left edge of the column relative to the grid.
	X      float64 `json:"x"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Tiles  []Tile  `json:"tiles"`
}

// Cell returns the rectangle every tile of c is drawn into.
func (c Column) Cell() Rect { return Rect{Width: c.Width, Height: c.Height} }

// Group splits items into columns of at most two, walking from the last item
// to the first. A post with exactly two items always gets two columns.
// The flattened result preserves the order of items.
func Group(items []post.Media) [][]post.Media {
	var groups [][]post.Media
	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]
		if len(groups) > 0 && len(groups[0]) < 2 && len(items) != 2 {
			groups[0] = append([]post.Media{item}, groups[0]...)
			continue
		}
		groups = append([][]post.Media{{item}}, groups...)
	}
	return groups
}

// RowHeight returns the height of each row in a column holding n items.
// The result is clamped at zero for boxes too small to hold n rows.
func RowHeight(boxHeight float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return max(boxHeight/float64(n)-float64(n)+1, 0)
}

// Tiles lays out items inside box. It returns nil when there is nothing to
// show. Only the first [MaxItems] items are used.
func Tiles(box Rect, items []post.Media) []Column {
	if len(items) == 0 {
		return nil
	}
	if len(items) > MaxItems {
		items = items[:MaxItems]
	}

	groups := Group(items)
	colWidth := box.Width / float64(len(groups))

	columns := make([]Column, len(groups))
	for ci, group := range groups {
		n := len(group)
		rowHeight := RowHeight(box.Height, n)
		gap := 0.0
		if n > 1 {
			gap = (box.Height - rowHeight*float64(n)) / float64(n-1)
		}

		col := Column{
			X:      float64(ci) * colWidth,
			Width:  colWidth,
			Height: rowHeight,
			Tiles:  make([]Tile, n),
		}
		for ri, m := range group {
			col.Tiles[ri] = Tile{
				Media:     m,
				Placement: ScaleToFill(m, col.Cell()),
				Y:         float64(ri) * (rowHeight + gap),
				Corners:   outerCorners(ci, len(groups), ri, n),
			}
		}
		columns[ci] = col
	}
	return columns
}

// ScaleToFill scales m uniformly so it covers cell and centers it. Items
// without natural dimensions are stretched to the cell with no offset,
// which does not preserve their aspect ratio.
func ScaleToFill(m post.Media, cell Rect) Placement {
	if !m.HasSize() {
		return Placement{Width: cell.Width, Height: cell.Height}
	}

	w, h := float64(m.Width), float64(m.Height)
	scale := max(cell.Width/w, cell.Height/h)
	sw, sh := w*scale, h*scale

	return Placement{
		Width:   sw,
		Height:  sh,
		OffsetX: (cell.Width - sw) / 2,
		OffsetY: (cell.Height - sh) / 2,
	}
}
