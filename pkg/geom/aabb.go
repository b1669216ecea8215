package geom

import "math"

// AABB is an axis-aligned bounding box. The zero value is not usable; use
// NewAABB to start from an empty box that Include grows around points.
type AABB struct {
	Min, Max Point
}

// NewAABB returns an empty bounding box: Min above Max so that the first
// Include sets both.
func NewAABB() AABB {
	return AABB{
		Min: Point{math.MaxInt64, math.MaxInt64},
		Max: Point{math.MinInt64, math.MinInt64},
	}
}

// Include grows the box to contain p.
func (b *AABB) Include(p Point) {
	b.Min.X = min(b.Min.X, p.X)
	b.Min.Y = min(b.Min.Y, p.Y)
	b.Max.X = max(b.Max.X, p.X)
	b.Max.Y = max(b.Max.Y, p.Y)
}

// Expand grows the box by d in every direction.
func (b *AABB) Expand(d int64) {
	b.Min.X -= d
	b.Min.Y -= d
	b.Max.X += d
	b.Max.Y += d
}

// Contains reports whether p lies in the box, borders included.
func (b AABB) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Empty reports whether the box contains no points.
func (b AABB) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Middle returns the centre of the box.
func (b AABB) Middle() Point {
	return Point{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

// Size returns the extent of the box as a vector.
func (b AABB) Size() Point {
	return b.Max.Sub(b.Min)
}
