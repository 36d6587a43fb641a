package sink

import (
	"math"
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		d    string
		ops  []segOp
		end  point
	}{
		{"absolute lines", "M1 2L3 4H10V20Z", []segOp{opMove, opLine, opLine, opLine, opClose}, point{1, 2}},
		{"relative lines", "m1 2l3 4h1v-1z", []segOp{opMove, opLine, opLine, opLine, opClose}, point{1, 2}},
		{"implicit lineto", "M0 0 10 0 10 10", []segOp{opMove, opLine, opLine}, point{10, 10}},
		{"compact numbers", "M.5.5l-.25-.25", []segOp{opMove, opLine}, point{0.25, 0.25}},
		{"cubic and smooth", "M0 0C1 1 2 1 3 0S5 -1 6 0", []segOp{opMove, opCubic, opCubic}, point{6, 0}},
		{"quad and smooth", "M0 0Q1 1 2 0T4 0", []segOp{opMove, opQuad, opQuad}, point{4, 0}},
		{"exponent", "M1e1 2E-1", []segOp{opMove}, point{10, 0.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs, err := parsePath(tt.d)
			if err != nil {
				t.Fatalf("parsePath(%q) error: %v", tt.d, err)
			}
			if len(segs) != len(tt.ops) {
				t.Fatalf("got %d segments, want %d", len(segs), len(tt.ops))
			}
			for i, s := range segs {
				if s.Op != tt.ops[i] {
					t.Errorf("segment %d op = %d, want %d", i, s.Op, tt.ops[i])
				}
			}
			last := segs[len(segs)-1]
			if last.Op == opClose {
				last = segs[0]
			}
			end := last.Pts[len(last.Pts)-1]
			if !near(end, tt.end) {
				t.Errorf("end = %v, want %v", end, tt.end)
			}
		})
	}
}

func TestParsePathSmoothReflection(t *testing.T) {
	segs, err := parsePath("M0 0C1 1 2 1 3 0S5 -1 6 0")
	if err != nil {
		t.Fatal(err)
	}
	// Reflection of (2,1) about (3,0).
	if got := segs[2].Pts[0]; !near(got, point{4, -1}) {
		t.Errorf("reflected control = %v, want {4 -1}", got)
	}
}

func TestParsePathArc(t *testing.T) {
	segs, err := parsePath("M0 10A10 10 0 0 1 20 10")
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) < 3 {
		t.Fatalf("half circle became %d segments, want at least 3", len(segs))
	}
	for _, s := range segs[1:] {
		if s.Op != opCubic {
			t.Fatalf("arc segment op = %d, want cubic", s.Op)
		}
		// Every end point lies on the circle around (10,10).
		p := s.Pts[2]
		if r := math.Hypot(p.X-10, p.Y-10); math.Abs(r-10) > 1e-6 {
			t.Errorf("point %v at radius %v, want 10", p, r)
		}
	}
	if end := segs[len(segs)-1].Pts[2]; !near(end, point{20, 10}) {
		t.Errorf("arc end = %v, want {20 10}", end)
	}
}

func TestParsePathErrors(t *testing.T) {
	for _, d := range []string{"10 10", "M1", "M1 2L", "A1 1 0 2 1 3 3", "M1 2 X"} {
		if _, err := parsePath(d); err == nil {
			t.Errorf("parsePath(%q) succeeded, want error", d)
		}
	}
}

func TestArcToCubicsDegenerate(t *testing.T) {
	p := point{1, 1}
	if got := arcToCubics(p, p, 5, 5, 0, false, true); got != nil {
		t.Errorf("zero-length arc = %v, want nil", got)
	}
	if got := arcToCubics(p, point{2, 2}, 0, 5, 0, false, true); len(got) != 1 {
		t.Errorf("zero radius arc = %d segments, want 1 line", len(got))
	}
}

func near(a, b point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}
