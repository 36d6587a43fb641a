package grid

import "strings"

// Corners is a set of rounded tile corners.
type Corners uint8

const (
	TopLeft Corners = 1 << iota
	TopRight
	BottomRight
	BottomLeft

	NoCorners  Corners = 0
	AllCorners         = TopLeft | TopRight | BottomRight | BottomLeft
)

// Has reports whether every corner in x is set in c.
func (c Corners) Has(x Corners) bool { return c&x == x }

// Radii returns the radius for each corner in clockwise order starting at
// the top left, using r for rounded corners and 0 otherwise.
func (c Corners) Radii(r float64) [4]float64 {
	var out [4]float64
	for i, k := range []Corners{TopLeft, TopRight, BottomRight, BottomLeft} {
		if c.Has(k) {
			out[i] = r
		}
	}
	return out
}

func (c Corners) String() string {
	if c == NoCorners {
		return "none"
	}
	var parts []string
	for _, k := range []struct {
		c    Corners
		name string
	}{{TopLeft, "tl"}, {TopRight, "tr"}, {BottomRight, "br"}, {BottomLeft, "bl"}} {
		if c.Has(k.c) {
			parts = append(parts, k.name)
		}
	}
	return strings.Join(parts, "+")
}

func outerCorners(col, cols, row, rows int) Corners {
	first, last := col == 0, col == cols-1
	top, bottom := row == 0, row == rows-1

	var c Corners
	if first && top {
		c |= TopLeft
	}
	if first && bottom {
		c |= BottomLeft
	}
	if last && top {
		c |= TopRight
	}
	if last && bottom {
		c |= BottomRight
	}
	return c
}
