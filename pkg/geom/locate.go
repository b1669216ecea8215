package geom

// ClosestPoint returns the point on any ring boundary of ps nearest to p.
// ok is false when ps has no usable rings.
func (ps Polygons) ClosestPoint(p Point) (closest Point, ok bool) {
	best := int64(-1)
	for _, ring := range ps {
		n := len(ring)
		if n < 2 {
			continue
		}
		for i := 0; i < n; i++ {
			c := closestOnSegment(p, ring[i], ring[(i+1)%n])
			d := c.Sub(p).Size2()
			if best < 0 || d < best {
				best = d
				closest = c
				ok = true
			}
		}
	}
	return closest, ok
}

// closestOnSegment projects p onto segment ab, clamped to the endpoints.
func closestOnSegment(p, a, b Point) Point {
	ab := b.Sub(a)
	len2 := ab.Size2()
	if len2 == 0 {
		return a
	}
	ap := p.Sub(a)
	t := float64(ap.X*ab.X+ap.Y*ab.Y) / float64(len2)
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return Point{
		X: a.X + int64(t*float64(ab.X)),
		Y: a.Y + int64(t*float64(ab.Y)),
	}
}

// MoveInside returns p moved onto ps if p lies outside but within
// sqrt(maxDist2) of the boundary. Points already inside (border counts as
// inside) are returned unchanged; points farther away than maxDist2 are
// returned unchanged as well, leaving the caller's containment check to
// reject them. With dist > 0 the result is pushed past the border to that
// depth when possible.
func (ps Polygons) MoveInside(p Point, dist int64, maxDist2 int64) Point {
	if ps.Inside(p, true) {
		return p
	}
	c, ok := ps.ClosestPoint(p)
	if !ok || c.Sub(p).Size2() > maxDist2 {
		return p
	}
	if dist > 0 {
		if t := c.Add(c.Sub(p).Normal(dist)); ps.Inside(t, true) {
			return t
		}
	}
	return c
}

// MoveOutside returns p pushed out of ps by at least margin when p lies
// inside. The move is abandoned (p returned unchanged) when it would
// exceed sqrt(maxDist2), so a caller never teleports a point further than
// its per-layer budget.
func (ps Polygons) MoveOutside(p Point, margin int64, maxDist2 int64) Point {
	if !ps.Inside(p, false) {
		return p
	}
	c, ok := ps.ClosestPoint(p)
	if !ok {
		return p
	}
	out := c.Sub(p)
	if out.Size2() == 0 {
		// On the boundary exactly; probe the four axis directions around
		// the nearest spot.
		for _, t := range []Point{c.Add(Pt(margin, 0)), c.Add(Pt(-margin, 0)), c.Add(Pt(0, margin)), c.Add(Pt(0, -margin))} {
			if !ps.Inside(t, false) && t.Sub(p).Size2() <= maxDist2 {
				return t
			}
		}
		return p
	}
	t := c.Add(out.Normal(margin))
	if t.Sub(p).Size2() > maxDist2 {
		return p
	}
	return t
}

// EnsureInside returns a position inside ps at depth at least minDepth
// from the boundary, anchored at border point c (the caller's precomputed
// closest boundary point). p is returned unchanged when it already
// satisfies the depth requirement. When the region is too thin to reach
// minDepth the border point itself is returned; border counts as inside.
func (ps Polygons) EnsureInside(p, c Point, minDepth int64) Point {
	if ps.Inside(p, true) {
		if b, ok := ps.ClosestPoint(p); ok && b.Sub(p).Size2() >= minDepth*minDepth {
			return p
		}
	}
	inward := p.Sub(c)
	if inward.Size2() == 0 {
		inward = Pt(1, 0)
	}
	if t := c.Add(inward.Normal(minDepth)); ps.Inside(t, true) {
		return t
	}
	if t := c.Sub(inward.Normal(minDepth)); ps.Inside(t, true) {
		return t
	}
	return c
}
