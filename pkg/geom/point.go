// Package geom provides the 2D geometry primitives for support generation.
//
// All coordinates are signed 64-bit integers in micrometres. Polygon
// boolean operations and offsets are delegated to the Clipper library
// (github.com/ctessum/go.clipper); this package wraps its integer Paths in
// a Polygons type and adds the proximity queries the branch placement
// needs (closest point on boundary, moveInside/moveOutside/ensureInside).
//
// Squared distances are kept in int64. With coordinates bounded by the
// machine volume border (roughly ±2 m in microns), squared magnitudes stay
// well below the int64 range.
package geom

import "math"

// Point is a 2D point or vector in integer micrometres.
type Point struct {
	X, Y int64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y int64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Div returns p scaled by 1/d, rounding toward zero.
func (p Point) Div(d int64) Point {
	return Point{p.X / d, p.Y / d}
}

// Size2 returns the squared length of p as a vector.
func (p Point) Size2() int64 {
	return p.X*p.X + p.Y*p.Y
}

// Size returns the length of p as a vector, rounded to the nearest micron.
func (p Point) Size() int64 {
	return int64(math.Round(math.Sqrt(float64(p.Size2()))))
}

// Normal returns p scaled to the given length. The zero vector is returned
// unchanged since it has no direction.
func (p Point) Normal(length int64) Point {
	size := math.Sqrt(float64(p.Size2()))
	if size == 0 {
		return p
	}
	scale := float64(length) / size
	return Point{
		X: int64(math.Round(float64(p.X) * scale)),
		Y: int64(math.Round(float64(p.Y) * scale)),
	}
}

// Rotate returns p rotated counterclockwise by angle radians about the origin.
func (p Point) Rotate(angle float64) Point {
	sin, cos := math.Sincos(angle)
	return Point{
		X: int64(math.Round(float64(p.X)*cos - float64(p.Y)*sin)),
		Y: int64(math.Round(float64(p.X)*sin + float64(p.Y)*cos)),
	}
}
