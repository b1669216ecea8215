package geom

import "testing"

func TestClosestPoint(t *testing.T) {
	ps := Polygons{square(0, 0, 1000)}

	tests := []struct {
		name string
		p    Point
		want Point
	}{
		{name: "outside left", p: Pt(-500, 500), want: Pt(0, 500)},
		{name: "inside near bottom", p: Pt(500, 100), want: Pt(500, 0)},
		{name: "corner", p: Pt(1200, 1200), want: Pt(1000, 1000)},
		{name: "on border", p: Pt(0, 250), want: Pt(0, 250)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ps.ClosestPoint(tt.p)
			if !ok {
				t.Fatal("ClosestPoint() reported no boundary")
			}
			if got != tt.want {
				t.Errorf("ClosestPoint(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	if _, ok := Polygons(nil).ClosestPoint(Pt(0, 0)); ok {
		t.Error("ClosestPoint() on empty region should report no boundary")
	}
}

func TestMoveInside(t *testing.T) {
	ps := Polygons{square(0, 0, 1000)}

	// Already inside: unchanged.
	if got := ps.MoveInside(Pt(500, 500), 0, 100*100); got != Pt(500, 500) {
		t.Errorf("inside point moved to %v", got)
	}
	// Outside within range: snaps to the border, which counts as inside.
	got := ps.MoveInside(Pt(-80, 500), 0, 100*100)
	if got != Pt(0, 500) {
		t.Errorf("MoveInside() = %v, want (0,500)", got)
	}
	if !ps.Inside(got, true) {
		t.Error("moved point should be inside (border inclusive)")
	}
	// Outside beyond range: unchanged, so containment checks reject it.
	if got := ps.MoveInside(Pt(-500, 500), 0, 100*100); got != Pt(-500, 500) {
		t.Errorf("far point moved to %v", got)
	}
}

func TestMoveOutside(t *testing.T) {
	ps := Polygons{square(0, 0, 1000)}

	// Outside already: unchanged.
	if got := ps.MoveOutside(Pt(-200, 500), 50, 1000*1000); got != Pt(-200, 500) {
		t.Errorf("outside point moved to %v", got)
	}

	// Inside near the left edge: pushed out past it by the margin.
	got := ps.MoveOutside(Pt(100, 500), 50, 1000*1000)
	if ps.Inside(got, false) {
		t.Errorf("MoveOutside() = %v, still inside", got)
	}
	if got.X > 0 {
		t.Errorf("MoveOutside() = %v, should exit through the nearest edge", got)
	}

	// Inside with too small a budget: unchanged rather than teleported.
	if got := ps.MoveOutside(Pt(500, 500), 50, 100*100); got != Pt(500, 500) {
		t.Errorf("budget-bound point moved to %v", got)
	}
}

func TestEnsureInside(t *testing.T) {
	ps := Polygons{square(0, 0, 1000)}

	// Deep enough already: unchanged.
	if got := ps.EnsureInside(Pt(500, 500), Pt(0, 500), 200); got != Pt(500, 500) {
		t.Errorf("deep point moved to %v", got)
	}

	// Too shallow: pulled to the requested depth.
	got := ps.EnsureInside(Pt(50, 500), Pt(0, 500), 300)
	if !ps.Inside(got, true) {
		t.Errorf("EnsureInside() = %v, outside the region", got)
	}
	if c, _ := ps.ClosestPoint(got); c.Sub(got).Size2() < 250*250 {
		t.Errorf("EnsureInside() = %v, depth %v too shallow", got, c.Sub(got).Size())
	}

	// Region thinner than the requested depth: lands on the border at
	// worst, never outside.
	thin := Polygons{Polygon{Pt(0, 0), Pt(10000, 0), Pt(10000, 100), Pt(0, 100)}}
	got = thin.EnsureInside(Pt(5000, 50), Pt(5000, 0), 5000)
	if !thin.Inside(got, true) {
		t.Errorf("EnsureInside() on thin region = %v, outside", got)
	}
}
