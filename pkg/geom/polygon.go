package geom

import (
	clipper "github.com/ctessum/go.clipper"
)

// Polygon is a closed polygonal ring. Vertices are implicitly connected
// back to the first; orientation follows Clipper conventions (outer rings
// counterclockwise, holes clockwise).
type Polygon []Point

// Polygons is a set of rings forming one or more regions with holes.
type Polygons []Polygon

// Join selects the corner treatment for Offset.
type Join int

const (
	// JoinMiter keeps sharp corners, the default for insets.
	JoinMiter Join = iota
	// JoinRound rounds convex corners, used when growing collision areas
	// so branches clear corners at their full radius.
	JoinRound
)

func toPath(p Polygon) clipper.Path {
	path := make(clipper.Path, len(p))
	for i, pt := range p {
		path[i] = &clipper.IntPoint{X: clipper.CInt(pt.X), Y: clipper.CInt(pt.Y)}
	}
	return path
}

func toPaths(ps Polygons) clipper.Paths {
	paths := make(clipper.Paths, 0, len(ps))
	for _, p := range ps {
		if len(p) >= 3 {
			paths = append(paths, toPath(p))
		}
	}
	return paths
}

func fromPath(path clipper.Path) Polygon {
	p := make(Polygon, len(path))
	for i, pt := range path {
		p[i] = Point{int64(pt.X), int64(pt.Y)}
	}
	return p
}

func fromPaths(paths clipper.Paths) Polygons {
	ps := make(Polygons, len(paths))
	for i, path := range paths {
		ps[i] = fromPath(path)
	}
	return ps
}

// Add appends a ring.
func (ps *Polygons) Add(p Polygon) {
	*ps = append(*ps, p)
}

// AddAll appends every ring of other.
func (ps *Polygons) AddAll(other Polygons) {
	*ps = append(*ps, other...)
}

// Empty reports whether ps contains no usable rings.
func (ps Polygons) Empty() bool {
	for _, p := range ps {
		if len(p) >= 3 {
			return false
		}
	}
	return true
}

func (ps Polygons) execute(op clipper.ClipType, other Polygons) Polygons {
	subject := toPaths(ps)
	clip := toPaths(other)
	if len(subject) == 0 && len(clip) == 0 {
		return nil
	}
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(subject, clipper.PtSubject, true)
	c.AddPaths(clip, clipper.PtClip, true)
	solution, ok := c.Execute1(op, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return nil
	}
	return fromPaths(solution)
}

// Union returns the union of ps and other. Passing nil unions ps with
// itself, normalizing overlapping rings.
func (ps Polygons) Union(other Polygons) Polygons {
	return ps.execute(clipper.CtUnion, other)
}

// Difference returns ps minus other.
func (ps Polygons) Difference(other Polygons) Polygons {
	return ps.execute(clipper.CtDifference, other)
}

// Intersection returns the region covered by both ps and other.
func (ps Polygons) Intersection(other Polygons) Polygons {
	return ps.execute(clipper.CtIntersection, other)
}

// Offset grows (delta > 0) or shrinks (delta < 0) ps by delta microns.
func (ps Polygons) Offset(delta int64, join Join) Polygons {
	paths := toPaths(ps)
	if len(paths) == 0 {
		return nil
	}
	co := clipper.NewClipperOffset()
	jt := clipper.JtMiter
	if join == JoinRound {
		jt = clipper.JtRound
	}
	co.AddPaths(paths, jt, clipper.EtClosedPolygon)
	return fromPaths(co.Execute(float64(delta)))
}

// Inside reports whether p lies within the region described by ps. A point
// on a ring boundary is inside iff borderIsInside. Containment follows
// even-odd parity over the rings, matching Clipper output where holes are
// nested rings.
func (ps Polygons) Inside(p Point, borderIsInside bool) bool {
	pt := &clipper.IntPoint{X: clipper.CInt(p.X), Y: clipper.CInt(p.Y)}
	crossings := 0
	for _, ring := range ps {
		if len(ring) < 3 {
			continue
		}
		switch clipper.PointInPolygon(pt, toPath(ring)) {
		case -1:
			return borderIsInside
		case 1:
			crossings++
		}
	}
	return crossings%2 == 1
}

// Area returns the signed area of ps in square microns. Holes contribute
// negatively.
func (ps Polygons) Area() float64 {
	var area float64
	for _, ring := range ps {
		if len(ring) >= 3 {
			area += clipper.Area(toPath(ring))
		}
	}
	return area
}

// Bounds returns the bounding box of every vertex in ps.
func (ps Polygons) Bounds() AABB {
	b := NewAABB()
	for _, ring := range ps {
		for _, p := range ring {
			b.Include(p)
		}
	}
	return b
}

// SplitIntoParts separates ps into connected regions. Each part is the
// outer ring of one region followed by its hole rings. Islands inside
// holes become parts of their own.
func (ps Polygons) SplitIntoParts() []Polygons {
	paths := toPaths(ps)
	if len(paths) == 0 {
		return nil
	}
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(paths, clipper.PtSubject, true)
	tree, ok := c.Execute2(clipper.CtUnion, clipper.PftNonZero, clipper.PftNonZero)
	if !ok || tree == nil {
		return nil
	}
	var parts []Polygons
	var walk func(outer *clipper.PolyNode)
	walk = func(outer *clipper.PolyNode) {
		part := Polygons{fromPath(outer.Contour())}
		for _, hole := range outer.Childs() {
			part.Add(fromPath(hole.Contour()))
			for _, island := range hole.Childs() {
				walk(island)
			}
		}
		parts = append(parts, part)
	}
	for _, node := range tree.Childs() {
		walk(node)
	}
	return parts
}

// Smooth removes vertices closer than removeLength to their predecessor,
// erasing micron-scale stair-stepping left by repeated insets. Rings
// reduced below three vertices are dropped.
func (ps Polygons) Smooth(removeLength int64) Polygons {
	removeLength2 := removeLength * removeLength
	out := make(Polygons, 0, len(ps))
	for _, ring := range ps {
		if len(ring) < 3 {
			continue
		}
		kept := Polygon{ring[0]}
		for _, p := range ring[1:] {
			if p.Sub(kept[len(kept)-1]).Size2() >= removeLength2 {
				kept = append(kept, p)
			}
		}
		// The closing segment must respect the same bound.
		if len(kept) > 1 && kept[len(kept)-1].Sub(kept[0]).Size2() < removeLength2 {
			kept = kept[:len(kept)-1]
		}
		if len(kept) >= 3 {
			out = append(out, kept)
		}
	}
	return out
}

// Simplify removes vertices whose omission keeps every segment deviation
// within maxDeviation, but never removes a vertex that would shift the
// outline by more than that or merge segments longer than
// smallestSegment. Rings reduced below three vertices are dropped.
func (ps Polygons) Simplify(smallestSegment, maxDeviation int64) Polygons {
	smallest2 := smallestSegment * smallestSegment
	deviation2 := maxDeviation * maxDeviation
	out := make(Polygons, 0, len(ps))
	for _, ring := range ps {
		if len(ring) < 3 {
			continue
		}
		kept := make(Polygon, 0, len(ring))
		n := len(ring)
		for i := 0; i < n; i++ {
			var prev Point
			if len(kept) > 0 {
				prev = kept[len(kept)-1]
			} else {
				prev = ring[(i+n-1)%n]
			}
			curr := ring[i]
			next := ring[(i+1)%n]
			if curr.Sub(prev).Size2() < smallest2 && distToLine2(curr, prev, next) < deviation2 {
				continue
			}
			kept = append(kept, curr)
		}
		if len(kept) >= 3 {
			out = append(out, kept)
		}
	}
	return out
}

// distToLine2 returns the squared distance from p to the infinite line
// through a and b.
func distToLine2(p, a, b Point) int64 {
	ab := b.Sub(a)
	ap := p.Sub(a)
	len2 := ab.Size2()
	if len2 == 0 {
		return ap.Size2()
	}
	cross := float64(ab.X)*float64(ap.Y) - float64(ab.Y)*float64(ap.X)
	return int64(cross * cross / float64(len2))
}
