package classify

import (
	"math"
	"testing"

	"github.com/vectorcad/pdf2cad/pkg/entity"
	"github.com/vectorcad/pdf2cad/pkg/geom"
	"github.com/vectorcad/pdf2cad/pkg/ops"
	"github.com/vectorcad/pdf2cad/pkg/path"
	"github.com/vectorcad/pdf2cad/pkg/style"
)

func newTestClassifier() *Classifier {
	return New(style.NewMapper(), 0)
}

func TestStraightSegmentsNeverClassifyAsArc(t *testing.T) {
	c := newTestClassifier()
	sub := path.SubPath{
		Start: geom.Point{},
		Segments: []path.Segment{
			path.Line(geom.Point{}, geom.Point{X: 1}),
			path.Line(geom.Point{X: 1}, geom.Point{X: 1, Y: 1}),
			path.Line(geom.Point{X: 1, Y: 1}, geom.Point{Y: 1}),
		},
		Style: path.DefaultGraphicsState(),
	}

	for _, p := range c.Classify(sub) {
		if p.Kind() == entity.KindArc || p.Kind() == entity.KindCircle {
			t.Fatalf("straight-only sub-path classified as %v", p.Kind())
		}
	}
}

func TestSingleSegmentIsLine(t *testing.T) {
	c := newTestClassifier()
	sub := path.SubPath{
		Start:    geom.Point{},
		Segments: []path.Segment{path.Line(geom.Point{}, geom.Point{X: 5, Y: 5})},
		Style:    path.DefaultGraphicsState(),
	}
	prims := c.Classify(sub)
	if len(prims) != 1 || prims[0].Kind() != entity.KindLine {
		t.Fatalf("got %v, want a single line", prims)
	}
}

func TestOpenPolylineStaysOpen(t *testing.T) {
	c := newTestClassifier()
	sub := path.SubPath{
		Start: geom.Point{},
		Segments: []path.Segment{
			path.Line(geom.Point{}, geom.Point{X: 1, Y: 1}),
			path.Line(geom.Point{X: 1, Y: 1}, geom.Point{}),
		},
		Style: path.DefaultGraphicsState(),
	}
	prims := c.Classify(sub)
	if len(prims) != 1 {
		t.Fatalf("got %d primitives, want 1", len(prims))
	}
	pl, ok := prims[0].(entity.Polyline)
	if !ok {
		t.Fatalf("got %v, want polyline", prims[0].Kind())
	}
	if pl.Closed {
		t.Error("polyline marked closed without an explicit close")
	}
}

// circleSubPath builds a closed sub-path from the standard 4-segment Bezier
// circle approximation.
func circleSubPath(center geom.Point, radius float64) path.SubPath {
	quads := geom.CircleBezier(center, radius)
	sub := path.SubPath{Start: quads[0][0], Closed: true, Style: path.DefaultGraphicsState()}
	for _, q := range quads {
		sub.Segments = append(sub.Segments, path.Curve(q[0], q[1], q[2], q[3]))
	}
	return sub
}

func TestCircleRoundTrip(t *testing.T) {
	center := geom.Point{X: 10, Y: 20}
	c := newTestClassifier()

	prims := c.Classify(circleSubPath(center, 7))
	if len(prims) != 1 {
		t.Fatalf("got %d primitives, want 1", len(prims))
	}
	circle, ok := prims[0].(entity.Circle)
	if !ok {
		t.Fatalf("got %v, want circle", prims[0].Kind())
	}
	if circle.Center.DistanceTo(center) > 0.01*7 {
		t.Errorf("center = %+v, want ~%+v", circle.Center, center)
	}
	if math.Abs(circle.Radius-7) > 0.01*7 {
		t.Errorf("radius = %g, want ~7", circle.Radius)
	}
}

func TestQuarterArc(t *testing.T) {
	quads := geom.CircleBezier(geom.Point{}, 4)
	// First quadrant only: right to top, counter-clockwise.
	q := quads[0]
	sub := path.SubPath{
		Start:    q[0],
		Segments: []path.Segment{path.Curve(q[0], q[1], q[2], q[3])},
		Style:    path.DefaultGraphicsState(),
	}

	prims := newTestClassifier().Classify(sub)
	if len(prims) != 1 {
		t.Fatalf("got %d primitives, want 1", len(prims))
	}
	arc, ok := prims[0].(entity.Arc)
	if !ok {
		t.Fatalf("got %v, want arc", prims[0].Kind())
	}
	if math.Abs(arc.StartAngle-0) > 1 || math.Abs(arc.EndAngle-90) > 1 {
		t.Errorf("arc spans %g..%g, want ~0..90", arc.StartAngle, arc.EndAngle)
	}
}

func TestClockwiseArcSwapsEndpoints(t *testing.T) {
	quads := geom.CircleBezier(geom.Point{}, 4)
	q := quads[0]
	// Reverse the quadrant: top to right, clockwise.
	sub := path.SubPath{
		Start:    q[3],
		Segments: []path.Segment{path.Curve(q[3], q[2], q[1], q[0])},
		Style:    path.DefaultGraphicsState(),
	}

	prims := newTestClassifier().Classify(sub)
	arc, ok := prims[0].(entity.Arc)
	if !ok {
		t.Fatalf("got %v, want arc", prims[0].Kind())
	}
	// Stored counter-clockwise regardless of traversal direction.
	if math.Abs(arc.StartAngle-0) > 1 || math.Abs(arc.EndAngle-90) > 1 {
		t.Errorf("arc spans %g..%g, want ~0..90", arc.StartAngle, arc.EndAngle)
	}
}

func TestNonCircularCurveFallsBackToPolyline(t *testing.T) {
	diagnostics := 0
	c := newTestClassifier()
	c.Diag = func(string, ...any) { diagnostics++ }

	// A flat S-shape no circle fits.
	sub := path.SubPath{
		Start: geom.Point{},
		Segments: []path.Segment{
			path.Curve(geom.Point{}, geom.Point{X: 3, Y: 8}, geom.Point{X: 6, Y: -8}, geom.Point{X: 9}),
		},
		Style: path.DefaultGraphicsState(),
	}

	prims := c.Classify(sub)
	if len(prims) != 1 {
		t.Fatalf("got %d primitives, want 1", len(prims))
	}
	if prims[0].Kind() != entity.KindPolyline {
		t.Fatalf("got %v, want polyline fallback", prims[0].Kind())
	}
	if diagnostics == 0 {
		t.Error("fallback produced no diagnostic")
	}
}

func TestMixedRunsSplit(t *testing.T) {
	q := geom.CircleBezier(geom.Point{X: 5, Y: 4}, 4)[3]
	sub := path.SubPath{
		Start: geom.Point{},
		Segments: []path.Segment{
			path.Line(geom.Point{}, q[0]),
			path.Curve(q[0], q[1], q[2], q[3]),
		},
		Style: path.DefaultGraphicsState(),
	}

	prims := newTestClassifier().Classify(sub)
	if len(prims) != 2 {
		t.Fatalf("got %d primitives, want 2", len(prims))
	}
	if prims[0].Kind() != entity.KindLine {
		t.Errorf("first primitive = %v, want line", prims[0].Kind())
	}
	if prims[1].Kind() != entity.KindArc {
		t.Errorf("second primitive = %v, want arc", prims[1].Kind())
	}
}

func TestTextPrimitive(t *testing.T) {
	c := newTestClassifier()
	p := c.TextPrimitive(ops.DrawOp{
		Tag:      ops.ShowText,
		Operands: []float64{10, 20, 12, 0},
		Text:     "GROUND FLOOR",
	})
	text, ok := p.(entity.Text)
	if !ok {
		t.Fatalf("got %v, want text", p.Kind())
	}
	if text.Content != "GROUND FLOOR" || text.Height != 12 {
		t.Errorf("text = %+v", text)
	}
	if text.Style.Layer != style.TextLayer {
		t.Errorf("text layer = %q, want %q", text.Style.Layer, style.TextLayer)
	}
}
