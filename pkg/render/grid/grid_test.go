package grid

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/postcard/pkg/post"
)

func items(n int) []post.Media {
	out := make([]post.Media, n)
	for i := range out {
		out[i] = post.Media{Key: fmt.Sprintf("m%d", i), Type: post.MediaPhoto, Width: 1200, Height: 800}
	}
	return out
}

func sizes(groups [][]post.Media) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		out[i] = len(g)
	}
	return out
}

func TestGroupSizes(t *testing.T) {
	tests := []struct {
		n    int
		want []int
	}{
		{0, []int{}},
		{1, []int{1}},
		{2, []int{1, 1}},
		{3, []int{1, 2}},
		{4, []int{2, 2}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d items", tt.n), func(t *testing.T) {
			got := sizes(Group(items(tt.n)))
			if len(got) != len(tt.want) {
				t.Fatalf("Group() sizes = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Group() sizes = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestGroupTwoItemsNeverStacked(t *testing.T) {
	pairs := [][]post.Media{
		items(2),
		{{Key: "a"}, {Key: "b"}},
		{{Key: "tall", Width: 10, Height: 1000}, {Key: "wide", Width: 1000, Height: 10}},
	}
	for _, pair := range pairs {
		if got := sizes(Group(pair)); len(got) != 2 || got[0] != 1 || got[1] != 1 {
			t.Errorf("Group(%v) sizes = %v, want [1 1]", pair, got)
		}
	}
}

func TestGroupPreservesOrder(t *testing.T) {
	for n := 1; n <= MaxItems; n++ {
		in := items(n)
		var flat []string
		for _, g := range Group(in) {
			for _, m := range g {
				flat = append(flat, m.Key)
			}
		}
		if len(flat) != n {
			t.Fatalf("n=%d: flattened %d items", n, len(flat))
		}
		for i, m := range in {
			if flat[i] != m.Key {
				t.Errorf("n=%d: position %d = %s, want %s", n, i, flat[i], m.Key)
			}
		}
	}
}

func TestGroupDoesNotMutateInput(t *testing.T) {
	in := items(3)
	before := fmt.Sprint(in)
	_ = Group(in)
	if fmt.Sprint(in) != before {
		t.Error("Group() modified its input")
	}
}

func TestTilesEmpty(t *testing.T) {
	if cols := Tiles(Rect{620, 340}, nil); cols != nil {
		t.Errorf("Tiles(nil) = %v, want nil", cols)
	}
}

func TestTilesColumnWidthsSumToBox(t *testing.T) {
	box := Rect{Width: 620, Height: 340}
	for n := 1; n <= MaxItems; n++ {
		cols := Tiles(box, items(n))
		sum := 0.0
		for _, c := range cols {
			sum += c.Width
		}
		if math.Abs(sum-box.Width) > 1e-9 {
			t.Errorf("n=%d: column widths sum to %v, want %v", n, sum, box.Width)
		}
	}
}

func TestTilesRowHeightFormula(t *testing.T) {
	box := Rect{Width: 620, Height: 340}
	for n := 1; n <= MaxItems; n++ {
		for _, c := range Tiles(box, items(n)) {
			k := float64(len(c.Tiles))
			want := box.Height/k - k + 1
			if c.Height != want {
				t.Errorf("n=%d: row height = %v, want %v", n, c.Height, want)
			}
		}
	}

	if got := RowHeight(340, 2); got != 169 {
		t.Errorf("RowHeight(340, 2) = %v, want 169", got)
	}
	if got := RowHeight(1, 2); got != 0 {
		t.Errorf("RowHeight(1, 2) = %v, want 0", got)
	}
}

func TestTilesCellsFitInBox(t *testing.T) {
	box := Rect{Width: 620, Height: 340}
	for n := 1; n <= MaxItems; n++ {
		for _, c := range Tiles(box, items(n)) {
			if c.X < 0 || c.X+c.Width > box.Width+1e-9 {
				t.Errorf("n=%d: column [%v, %v] outside box", n, c.X, c.X+c.Width)
			}
			for _, tile := range c.Tiles {
				if tile.Y < 0 || tile.Y+c.Height > box.Height+1e-9 {
					t.Errorf("n=%d: tile [%v, %v] outside box", n, tile.Y, tile.Y+c.Height)
				}
				if tile.Width < 0 || tile.Height < 0 {
					t.Errorf("n=%d: negative tile size %vx%v", n, tile.Width, tile.Height)
				}
			}
		}
	}
}

func TestTilesStackedRowsLeaveGap(t *testing.T) {
	cols := Tiles(Rect{Width: 620, Height: 340}, items(4))
	c := cols[0]
	if got := c.Tiles[1].Y - (c.Tiles[0].Y + c.Height); got != 2 {
		t.Errorf("gap between rows = %v, want 2", got)
	}
	if got := c.Tiles[1].Y + c.Height; got != 340 {
		t.Errorf("last row ends at %v, want 340", got)
	}
}

func TestTilesTruncatesExtraItems(t *testing.T) {
	cols := Tiles(Rect{Width: 620, Height: 340}, items(6))
	count := 0
	for _, c := range cols {
		count += len(c.Tiles)
	}
	if count != MaxItems {
		t.Errorf("laid out %d items, want %d", count, MaxItems)
	}
}

func TestScaleToFillCovers(t *testing.T) {
	tests := []struct {
		name string
		m    post.Media
		cell Rect
	}{
		{"landscape into square", post.Media{Width: 1600, Height: 900}, Rect{300, 300}},
		{"portrait into wide", post.Media{Width: 600, Height: 1200}, Rect{620, 340}},
		{"small upscaled", post.Media{Width: 50, Height: 40}, Rect{310, 169}},
		{"exact fit", post.Media{Width: 620, Height: 340}, Rect{620, 340}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ScaleToFill(tt.m, tt.cell)
			const eps = 1e-9
			if p.Width < tt.cell.Width-eps || p.Height < tt.cell.Height-eps {
				t.Errorf("scaled %vx%v does not cover cell %vx%v", p.Width, p.Height, tt.cell.Width, tt.cell.Height)
			}
			// Centered: equal overflow on both sides.
			if math.Abs(2*p.OffsetX+p.Width-tt.cell.Width) > eps {
				t.Errorf("not centered horizontally: offset %v width %v", p.OffsetX, p.Width)
			}
			if math.Abs(2*p.OffsetY+p.Height-tt.cell.Height) > eps {
				t.Errorf("not centered vertically: offset %v height %v", p.OffsetY, p.Height)
			}
			if p.OffsetX > eps || p.OffsetY > eps {
				t.Errorf("offsets (%v, %v) should not be positive", p.OffsetX, p.OffsetY)
			}
			// Aspect ratio preserved.
			if math.Abs(p.Width/p.Height-float64(tt.m.Width)/float64(tt.m.Height)) > 1e-9 {
				t.Errorf("aspect ratio changed")
			}
		})
	}
}

func TestScaleToFillUnknownSize(t *testing.T) {
	cell := Rect{Width: 310, Height: 169}
	for _, m := range []post.Media{{}, {Width: 100}, {Height: 100}} {
		p := ScaleToFill(m, cell)
		if p != (Placement{Width: cell.Width, Height: cell.Height}) {
			t.Errorf("ScaleToFill(%v) = %+v, want stretched to cell", m, p)
		}
	}
}

func TestTilesCorners(t *testing.T) {
	box := Rect{Width: 620, Height: 340}
	tests := []struct {
		n    int
		want [][]Corners
	}{
		{1, [][]Corners{{AllCorners}}},
		{2, [][]Corners{{TopLeft | BottomLeft}, {TopRight | BottomRight}}},
		{3, [][]Corners{{TopLeft | BottomLeft}, {TopRight, BottomRight}}},
		{4, [][]Corners{{TopLeft, BottomLeft}, {TopRight, BottomRight}}},
	}

	for _, tt := range tests {
		cols := Tiles(box, items(tt.n))
		for ci, col := range cols {
			for ri, tile := range col.Tiles {
				if tile.Corners != tt.want[ci][ri] {
					t.Errorf("n=%d col %d row %d corners = %v, want %v", tt.n, ci, ri, tile.Corners, tt.want[ci][ri])
				}
			}
		}
	}
}

func TestCornersRadii(t *testing.T) {
	got := (TopLeft | BottomRight).Radii(16)
	want := [4]float64{16, 0, 16, 0}
	if got != want {
		t.Errorf("Radii() = %v, want %v", got, want)
	}
	if s := (TopLeft | BottomLeft).String(); s != "tl+bl" {
		t.Errorf("String() = %q, want %q", s, "tl+bl")
	}
}
