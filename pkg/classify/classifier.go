// Package classify turns reconstructed sub-paths into typed drawing
// primitives, recognizing circles and circular arcs among curved spans.
package classify

import (
	"math"

	"github.com/vectorcad/pdf2cad/pkg/entity"
	"github.com/vectorcad/pdf2cad/pkg/geom"
	"github.com/vectorcad/pdf2cad/pkg/ops"
	"github.com/vectorcad/pdf2cad/pkg/path"
	"github.com/vectorcad/pdf2cad/pkg/style"
)

const (
	// fitSamples is the number of line spans each cubic contributes to
	// circle fitting.
	fitSamples = 8
	// fallbackSamples is the denser sampling used when a curved run is
	// kept as a polyline.
	fallbackSamples = 16
	// fullCircleSlackDeg is the sweep tolerance for promoting a closed
	// curved sub-path to a circle.
	fullCircleSlackDeg = 1.0
)

// Classifier converts sub-paths into primitives. The zero value is not
// usable; construct with New.
type Classifier struct {
	// Tolerance is the relative circle-fit threshold: a fit is accepted
	// when the maximum sample deviation is below Tolerance times the
	// fitted radius.
	Tolerance float64
	// Diag, when set, receives human-readable notes about degraded
	// classifications such as circle fits that fell back to polylines.
	Diag func(format string, args ...any)

	mapper *style.Mapper
}

// DefaultTolerance is the relative fit tolerance used when none is given.
const DefaultTolerance = 0.01

// New returns a Classifier that interns styles through the given mapper.
func New(mapper *style.Mapper, tolerance float64) *Classifier {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Classifier{Tolerance: tolerance, mapper: mapper}
}

// Classify maps one sub-path to zero or more primitives. Straight spans
// become lines or polylines, curved spans become arcs or circles when a
// circular fit holds and polylines otherwise. Curved geometry is never
// dropped: a failed fit degrades to a sampled polyline.
func (c *Classifier) Classify(sub path.SubPath) []entity.Primitive {
	ref := c.mapper.Resolve(sub.Style, style.DefaultLayer)
	runs := splitRuns(sub.Segments)

	// A closed sub-path that is one uniform run keeps its closure.
	if len(runs) == 1 {
		run := runs[0]
		if run.kind == path.SegmentLine {
			return c.straightRun(run.segments, sub.Closed, ref)
		}
		return c.curvedRun(run.segments, sub.Closed, ref)
	}

	var out []entity.Primitive
	for _, run := range runs {
		if run.kind == path.SegmentLine {
			out = append(out, c.straightRun(run.segments, false, ref)...)
		} else {
			out = append(out, c.curvedRun(run.segments, false, ref)...)
		}
	}
	return out
}

// TextPrimitive builds a text entity from a text drawing operation.
// Operands are x, y, height, rotation in degrees.
func (c *Classifier) TextPrimitive(op ops.DrawOp) entity.Primitive {
	return entity.Text{
		Position: geom.Point{X: op.Operands[0], Y: op.Operands[1]},
		Content:  op.Text,
		Height:   op.Operands[2],
		Rotation: op.Operands[3],
		Style:    c.mapper.ResolveText(),
	}
}

type run struct {
	kind     path.SegmentKind
	segments []path.Segment
}

func splitRuns(segments []path.Segment) []run {
	var runs []run
	for _, seg := range segments {
		n := len(runs)
		if n == 0 || runs[n-1].kind != seg.Kind {
			runs = append(runs, run{kind: seg.Kind})
			n++
		}
		runs[n-1].segments = append(runs[n-1].segments, seg)
	}
	return runs
}

func (c *Classifier) straightRun(segments []path.Segment, closed bool, ref *entity.StyleRef) []entity.Primitive {
	if len(segments) == 1 && !closed {
		return []entity.Primitive{entity.Line{P1: segments[0].P0, P2: segments[0].P3, Style: ref}}
	}
	pts := make([]geom.Point, 0, len(segments)+1)
	pts = append(pts, segments[0].P0)
	for _, seg := range segments {
		pts = append(pts, seg.P3)
	}
	if closed {
		// Closure is carried by the flag, not a repeated vertex.
		pts = pts[:len(pts)-1]
	}
	return []entity.Primitive{entity.Polyline{Points: pts, Closed: closed, Style: ref}}
}

func (c *Classifier) curvedRun(segments []path.Segment, closed bool, ref *entity.StyleRef) []entity.Primitive {
	pts := sampleRun(segments, fitSamples)
	fit, ok := geom.FitCircle(pts)
	if !ok || fit.Radius < geom.Epsilon || fit.MaxDeviation >= c.Tolerance*fit.Radius {
		if c.Diag != nil {
			c.Diag("curved run of %d segments kept as polyline (no circular fit)", len(segments))
		}
		dense := sampleRun(segments, fallbackSamples)
		return []entity.Primitive{entity.Polyline{Points: dense, Closed: closed, Style: ref}}
	}

	sweep := geom.SweepDeg(pts, fit.Center)
	if closed && math.Abs(math.Abs(sweep)-360) <= fullCircleSlackDeg {
		return []entity.Primitive{entity.Circle{Center: fit.Center, Radius: fit.Radius, Style: ref}}
	}

	start := geom.AngleDeg(fit.Center, pts[0])
	end := geom.AngleDeg(fit.Center, pts[len(pts)-1])
	if sweep < 0 {
		start, end = end, start
	}
	return []entity.Primitive{entity.Arc{
		Center:     fit.Center,
		Radius:     fit.Radius,
		StartAngle: start,
		EndAngle:   end,
		Style:      ref,
	}}
}

// sampleRun flattens a curved run into a point sequence, n spans per cubic,
// without duplicating shared endpoints.
func sampleRun(segments []path.Segment, n int) []geom.Point {
	pts := make([]geom.Point, 0, len(segments)*n+1)
	for i, seg := range segments {
		sampled := geom.SampleCubic(seg.P0, seg.P1, seg.P2, seg.P3, n)
		if i > 0 {
			sampled = sampled[1:]
		}
		pts = append(pts, sampled...)
	}
	return pts
}
