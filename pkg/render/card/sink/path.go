package sink

import (
	"fmt"
	"math"
	"strconv"
)

// segOp is an absolute path operation.
type segOp int

const (
	opMove segOp = iota
	opLine
	opCubic
	opQuad
	opClose
)

// segment is one absolute path operation. Pts holds the control points
// followed by the end point.
type segment struct {
	Op  segOp
	Pts []point
}

type point struct{ X, Y float64 }

// parsePath converts SVG path data to absolute segments. Arcs become cubic
// curves; smooth curves get their reflected control point.
func parsePath(d string) ([]segment, error) {
	p := &pathScanner{s: d}
	var (
		segs         []segment
		cur, start   point
		lastCtrl     point
		lastCmd      byte
		cmd          byte
		hasPrevCurve bool
	)

	for {
		p.skipSep()
		if p.done() {
			break
		}
		if c := p.peek(); isCommand(c) {
			cmd = c
			p.i++
		} else if cmd == 0 {
			return nil, fmt.Errorf("path: expected command at %d", p.i)
		}

		rel := cmd >= 'a' && cmd <= 'z'
		abs := func(x, y float64) point {
			if rel {
				return point{cur.X + x, cur.Y + y}
			}
			return point{x, y}
		}

		switch cmd {
		case 'M', 'm':
			x, y, err := p.pair()
			if err != nil {
				return nil, err
			}
			cur = abs(x, y)
			start = cur
			segs = append(segs, segment{opMove, []point{cur}})
			// Further pairs after a move are implicit line-tos.
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
			hasPrevCurve = false
		case 'L', 'l':
			x, y, err := p.pair()
			if err != nil {
				return nil, err
			}
			cur = abs(x, y)
			segs = append(segs, segment{opLine, []point{cur}})
			hasPrevCurve = false
		case 'H', 'h':
			x, err := p.number()
			if err != nil {
				return nil, err
			}
			if rel {
				x += cur.X
			}
			cur = point{x, cur.Y}
			segs = append(segs, segment{opLine, []point{cur}})
			hasPrevCurve = false
		case 'V', 'v':
			y, err := p.number()
			if err != nil {
				return nil, err
			}
			if rel {
				y += cur.Y
			}
			cur = point{cur.X, y}
			segs = append(segs, segment{opLine, []point{cur}})
			hasPrevCurve = false
		case 'C', 'c', 'S', 's':
			var c1 point
			smooth := cmd == 'S' || cmd == 's'
			if smooth {
				c1 = cur
				if hasPrevCurve && (lastCmd == 'C' || lastCmd == 'S') {
					c1 = point{2*cur.X - lastCtrl.X, 2*cur.Y - lastCtrl.Y}
				}
			} else {
				x, y, err := p.pair()
				if err != nil {
					return nil, err
				}
				c1 = abs(x, y)
			}
			x2, y2, err := p.pair()
			if err != nil {
				return nil, err
			}
			x, y, err := p.pair()
			if err != nil {
				return nil, err
			}
			c2, end := abs(x2, y2), abs(x, y)
			segs = append(segs, segment{opCubic, []point{c1, c2, end}})
			cur, lastCtrl, hasPrevCurve = end, c2, true
		case 'Q', 'q', 'T', 't':
			var c point
			if cmd == 'T' || cmd == 't' {
				c = cur
				if hasPrevCurve && (lastCmd == 'Q' || lastCmd == 'T') {
					c = point{2*cur.X - lastCtrl.X, 2*cur.Y - lastCtrl.Y}
				}
			} else {
				x, y, err := p.pair()
				if err != nil {
					return nil, err
				}
				c = abs(x, y)
			}
			x, y, err := p.pair()
			if err != nil {
				return nil, err
			}
			end := abs(x, y)
			segs = append(segs, segment{opQuad, []point{c, end}})
			cur, lastCtrl, hasPrevCurve = end, c, true
		case 'A', 'a':
			rx, ry, err := p.pair()
			if err != nil {
				return nil, err
			}
			phi, err := p.number()
			if err != nil {
				return nil, err
			}
			large, err := p.flag()
			if err != nil {
				return nil, err
			}
			sweep, err := p.flag()
			if err != nil {
				return nil, err
			}
			x, y, err := p.pair()
			if err != nil {
				return nil, err
			}
			end := abs(x, y)
			for _, c := range arcToCubics(cur, end, rx, ry, phi, large, sweep) {
				segs = append(segs, segment{opCubic, c[:]})
			}
			cur = end
			hasPrevCurve = false
		case 'Z', 'z':
			segs = append(segs, segment{Op: opClose})
			cur = start
			hasPrevCurve = false
			cmd = 0
		default:
			return nil, fmt.Errorf("path: unsupported command %q", cmd)
		}
		if cmd != 0 {
			lastCmd = upper(cmd)
		}
	}
	return segs, nil
}

// arcToCubics approximates an elliptical arc with cubic curves, following
// the endpoint to center conversion of the SVG implementation notes.
func arcToCubics(from, to point, rx, ry, phiDeg float64, large, sweep bool) [][3]point {
	if from == to {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		return [][3]point{{from, to, to}}
	}

	phi := phiDeg * math.Pi / 180
	sinPhi, cosPhi := math.Sincos(phi)

	dx, dy := (from.X-to.X)/2, (from.Y-to.Y)/2
	x1p := cosPhi*dx + sinPhi*dy
	y1p := -sinPhi*dx + cosPhi*dy

	if lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}

	numer := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := 0.0
	if den != 0 {
		coef = math.Sqrt(math.Max(numer/den, 0))
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx

	cx := cosPhi*cxp - sinPhi*cyp + (from.X+to.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (from.Y+to.Y)/2

	angle := func(ux, uy, vx, vy float64) float64 {
		return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
	}
	theta1 := angle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	delta := angle((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	step := delta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	ellipse := func(t float64) (point, point) {
		sinT, cosT := math.Sincos(t)
		p := point{
			cx + rx*cosT*cosPhi - ry*sinT*sinPhi,
			cy + rx*cosT*sinPhi + ry*sinT*cosPhi,
		}
		d := point{
			-rx*sinT*cosPhi - ry*cosT*sinPhi,
			-rx*sinT*sinPhi + ry*cosT*cosPhi,
		}
		return p, d
	}

	out := make([][3]point, 0, n)
	t := theta1
	p0, d0 := ellipse(t)
	for i := 0; i < n; i++ {
		p1, d1 := ellipse(t + step)
		if i == n-1 {
			p1 = to
		}
		out = append(out, [3]point{
			{p0.X + k*d0.X, p0.Y + k*d0.Y},
			{p1.X - k*d1.X, p1.Y - k*d1.Y},
			p1,
		})
		t += step
		p0, d0 = p1, d1
	}
	return out
}

type pathScanner struct {
	s string
	i int
}

func (p *pathScanner) done() bool { return p.i >= len(p.s) }
func (p *pathScanner) peek() byte { return p.s[p.i] }

func (p *pathScanner) skipSep() {
	for !p.done() {
		switch p.peek() {
		case ' ', ',', '\t', '\n', '\r':
			p.i++
		default:
			return
		}
	}
}

func (p *pathScanner) number() (float64, error) {
	p.skipSep()
	start := p.i
	if !p.done() && (p.peek() == '-' || p.peek() == '+') {
		p.i++
	}
	digits, dot := false, false
scan:
	for !p.done() {
		c := p.peek()
		switch {
		case c >= '0' && c <= '9':
			digits = true
		case c == '.' && !dot:
			dot = true
		default:
			break scan
		}
		p.i++
	}
	if digits && !p.done() && (p.peek() == 'e' || p.peek() == 'E') {
		save := p.i
		p.i++
		if !p.done() && (p.peek() == '-' || p.peek() == '+') {
			p.i++
		}
		expDigits := false
		for !p.done() && p.peek() >= '0' && p.peek() <= '9' {
			p.i++
			expDigits = true
		}
		if !expDigits {
			p.i = save
		}
	}
	if !digits {
		return 0, fmt.Errorf("path: expected number at %d", start)
	}
	return strconv.ParseFloat(p.s[start:p.i], 64)
}

func (p *pathScanner) pair() (float64, float64, error) {
	x, err := p.number()
	if err != nil {
		return 0, 0, err
	}
	y, err := p.number()
	return x, y, err
}

func (p *pathScanner) flag() (bool, error) {
	p.skipSep()
	if p.done() {
		return false, fmt.Errorf("path: expected flag at %d", p.i)
	}
	switch p.peek() {
	case '0':
		p.i++
		return false, nil
	case '1':
		p.i++
		return true, nil
	}
	return false, fmt.Errorf("path: invalid flag %q at %d", p.peek(), p.i)
}

func isCommand(c byte) bool {
	switch upper(c) {
	case 'M', 'L', 'H', 'V', 'C', 'S', 'Q', 'T', 'A', 'Z':
		return true
	}
	return false
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
