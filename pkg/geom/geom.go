// Package geom provides the 2D geometry primitives shared by the
// extraction and classification pipeline: points, affine transforms,
// bounding boxes, Bezier sampling and circle fitting.
package geom

import "math"

// Epsilon is the tolerance used for point coincidence checks in device units.
const Epsilon = 1e-6

// Point represents a 2D point.
type Point struct {
	X, Y float64
}

// DistanceTo returns the Euclidean distance to another point.
func (p Point) DistanceTo(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Near reports whether two points coincide within Epsilon.
func (p Point) Near(other Point) bool {
	return math.Abs(p.X-other.X) < Epsilon && math.Abs(p.Y-other.Y) < Epsilon
}

// NearTol reports whether two points coincide within the given tolerance.
func (p Point) NearTol(other Point, tol float64) bool {
	return math.Abs(p.X-other.X) < tol && math.Abs(p.Y-other.Y) < tol
}

// Matrix represents a 2D affine transformation matrix
// [A C E; B D F] in the PDF convention.
type Matrix struct {
	A, B, C, D, E, F float64
}

// IdentityMatrix returns an identity matrix.
func IdentityMatrix() Matrix {
	return Matrix{A: 1, B: 0, C: 0, D: 1, E: 0, F: 0}
}

// Multiply multiplies two matrices.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.C,
		B: m.A*other.B + m.B*other.D,
		C: m.C*other.A + m.D*other.C,
		D: m.C*other.B + m.D*other.D,
		E: m.E*other.A + m.F*other.C + other.E,
		F: m.E*other.B + m.F*other.D + other.F,
	}
}

// Transform applies the matrix transformation to a point.
func (m Matrix) Transform(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// TransformPoint applies the matrix transformation to a Point.
func (m Matrix) TransformPoint(p Point) Point {
	x, y := m.Transform(p.X, p.Y)
	return Point{X: x, Y: y}
}

// Scale creates a scaling matrix.
func Scale(sx, sy float64) Matrix {
	return Matrix{A: sx, B: 0, C: 0, D: sy, E: 0, F: 0}
}

// Translate creates a translation matrix.
func Translate(tx, ty float64) Matrix {
	return Matrix{A: 1, B: 0, C: 0, D: 1, E: tx, F: ty}
}

// ScaleFactor returns the average absolute scale the matrix applies,
// used to derive text heights from a transform.
func (m Matrix) ScaleFactor() float64 {
	sx := math.Hypot(m.A, m.B)
	sy := math.Hypot(m.C, m.D)
	return (sx + sy) / 2
}

// Rotation returns the rotation the matrix applies, in degrees
// counter-clockwise from the positive X axis.
func (m Matrix) Rotation() float64 {
	deg := math.Atan2(m.B, m.A) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// BoundingBox represents a rectangular area with coordinates.
type BoundingBox struct {
	X0 float64 // Left
	Y0 float64 // Bottom
	X1 float64 // Right
	Y1 float64 // Top
}

// Width returns the width of the bounding box.
func (b BoundingBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the height of the bounding box.
func (b BoundingBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Intersects checks if two bounding boxes intersect.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return !(b.X1 < other.X0 || b.X0 > other.X1 || b.Y1 < other.Y0 || b.Y0 > other.Y1)
}

// Union returns the smallest bounding box containing both boxes.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// Extend grows the bounding box to include the point.
func (b BoundingBox) Extend(p Point) BoundingBox {
	return BoundingBox{
		X0: math.Min(b.X0, p.X),
		Y0: math.Min(b.Y0, p.Y),
		X1: math.Max(b.X1, p.X),
		Y1: math.Max(b.Y1, p.Y),
	}
}

// BBoxOf returns the bounding box of a point slice.
func BBoxOf(points []Point) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}
	b := BoundingBox{X0: points[0].X, Y0: points[0].Y, X1: points[0].X, Y1: points[0].Y}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return b
}
