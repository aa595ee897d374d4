// Package entity defines the classified output entities of the conversion
// pipeline and assembles them into final per-document entity lists.
package entity

import (
	"math"

	"github.com/vectorcad/pdf2cad/pkg/geom"
)

// Kind identifies a primitive variant. The set is closed: every consumer
// switches exhaustively over these values.
type Kind uint8

const (
	KindLine Kind = iota + 1
	KindPolyline
	KindArc
	KindCircle
	KindText
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindPolyline:
		return "polyline"
	case KindArc:
		return "arc"
	case KindCircle:
		return "circle"
	case KindText:
		return "text"
	}
	return "unknown"
}

// StyleRef holds resolved, deduplicated styling attributes. Identical
// (color, weight, layer) combinations share one instance per document, so
// equality of the pointer implies equality of the style.
type StyleRef struct {
	// ColorIndex is an AutoCAD Color Index in 1..255, or ColorByLayer.
	ColorIndex int
	// Lineweight is a standard lineweight in 1/100 mm.
	Lineweight int
	// Layer is the target layer name.
	Layer string
}

// ColorByLayer marks an entity that takes its color from its layer.
const ColorByLayer = 256

// Primitive is a classified geometric or text entity. The variant set is
// fixed: Line, Polyline, Arc, Circle, Text.
type Primitive interface {
	Kind() Kind
	BBox() geom.BoundingBox
	Ref() *StyleRef
}

// Line is a straight segment between two points.
type Line struct {
	P1, P2 geom.Point
	Style  *StyleRef
}

func (l Line) Kind() Kind { return KindLine }

func (l Line) BBox() geom.BoundingBox {
	return geom.BBoxOf([]geom.Point{l.P1, l.P2})
}

func (l Line) Ref() *StyleRef { return l.Style }

// Polyline is an ordered run of connected points, optionally closed.
type Polyline struct {
	Points []geom.Point
	Closed bool
	Style  *StyleRef
}

func (p Polyline) Kind() Kind { return KindPolyline }

func (p Polyline) BBox() geom.BoundingBox { return geom.BBoxOf(p.Points) }

func (p Polyline) Ref() *StyleRef { return p.Style }

// Arc is a circular arc. Angles are in degrees, measured counter-clockwise
// from the positive X axis; the arc sweeps counter-clockwise from
// StartAngle to EndAngle.
type Arc struct {
	Center     geom.Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
	Style      *StyleRef
}

func (a Arc) Kind() Kind { return KindArc }

func (a Arc) BBox() geom.BoundingBox {
	// Conservative: the full circle's box.
	return geom.BoundingBox{
		X0: a.Center.X - a.Radius,
		Y0: a.Center.Y - a.Radius,
		X1: a.Center.X + a.Radius,
		Y1: a.Center.Y + a.Radius,
	}
}

func (a Arc) Ref() *StyleRef { return a.Style }

// Circle is a full circle.
type Circle struct {
	Center geom.Point
	Radius float64
	Style  *StyleRef
}

func (c Circle) Kind() Kind { return KindCircle }

func (c Circle) BBox() geom.BoundingBox {
	return geom.BoundingBox{
		X0: c.Center.X - c.Radius,
		Y0: c.Center.Y - c.Radius,
		X1: c.Center.X + c.Radius,
		Y1: c.Center.Y + c.Radius,
	}
}

func (c Circle) Ref() *StyleRef { return c.Style }

// Text is a text placement preserved as a text entity.
type Text struct {
	Position geom.Point
	Content  string
	Height   float64
	Rotation float64
	Style    *StyleRef
}

func (t Text) Kind() Kind { return KindText }

func (t Text) BBox() geom.BoundingBox {
	// Approximate advance of 0.6 em per rune.
	w := float64(len([]rune(t.Content))) * t.Height * 0.6
	return geom.BoundingBox{
		X0: t.Position.X,
		Y0: t.Position.Y,
		X1: t.Position.X + w,
		Y1: t.Position.Y + t.Height,
	}
}

func (t Text) Ref() *StyleRef { return t.Style }

// PageResult is the ordered primitive list for one source page plus the
// page metadata needed for aggregation.
type PageResult struct {
	Index      int
	Width      float64
	Height     float64
	Transform  geom.Matrix
	Primitives []Primitive
}

// BBox returns the union of the page's primitive bounding boxes, or the
// zero box for an empty page.
func (pr PageResult) BBox() geom.BoundingBox {
	if len(pr.Primitives) == 0 {
		return geom.BoundingBox{}
	}
	b := pr.Primitives[0].BBox()
	for _, p := range pr.Primitives[1:] {
		b = b.Union(p.BBox())
	}
	return b
}

// Equal reports whether two primitives are exact duplicates: same variant,
// geometry coinciding within tol, and the identical StyleRef.
func Equal(a, b Primitive, tol float64) bool {
	if a.Kind() != b.Kind() || a.Ref() != b.Ref() {
		return false
	}
	switch av := a.(type) {
	case Line:
		bv := b.(Line)
		return av.P1.NearTol(bv.P1, tol) && av.P2.NearTol(bv.P2, tol)
	case Polyline:
		bv := b.(Polyline)
		if av.Closed != bv.Closed || len(av.Points) != len(bv.Points) {
			return false
		}
		for i := range av.Points {
			if !av.Points[i].NearTol(bv.Points[i], tol) {
				return false
			}
		}
		return true
	case Arc:
		bv := b.(Arc)
		return av.Center.NearTol(bv.Center, tol) &&
			math.Abs(av.Radius-bv.Radius) < tol &&
			math.Abs(av.StartAngle-bv.StartAngle) < tol &&
			math.Abs(av.EndAngle-bv.EndAngle) < tol
	case Circle:
		bv := b.(Circle)
		return av.Center.NearTol(bv.Center, tol) && math.Abs(av.Radius-bv.Radius) < tol
	case Text:
		bv := b.(Text)
		return av.Content == bv.Content &&
			av.Position.NearTol(bv.Position, tol) &&
			math.Abs(av.Height-bv.Height) < tol &&
			math.Abs(av.Rotation-bv.Rotation) < tol
	}
	return false
}
