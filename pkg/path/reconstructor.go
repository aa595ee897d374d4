// Package path rebuilds connected sub-paths from the flat per-page drawing
// operation stream, tracking the graphics state each sub-path was created
// under.
package path

import (
	"fmt"

	"github.com/vectorcad/pdf2cad/pkg/geom"
	"github.com/vectorcad/pdf2cad/pkg/ops"
)

// SegmentKind distinguishes straight spans from cubic curve spans.
type SegmentKind uint8

const (
	SegmentLine SegmentKind = iota + 1
	SegmentCurve
)

// Segment is a single span of a SubPath. A line uses P0 and P3; a curve
// uses all four control points. Invariant: P0 equals the previous segment's
// P3 within geom.Epsilon.
type Segment struct {
	Kind           SegmentKind
	P0, P1, P2, P3 geom.Point
}

// Line returns a straight segment from a to b.
func Line(a, b geom.Point) Segment {
	return Segment{Kind: SegmentLine, P0: a, P3: b}
}

// Curve returns a cubic segment with the given control points.
func Curve(p0, p1, p2, p3 geom.Point) Segment {
	return Segment{Kind: SegmentCurve, P0: p0, P1: p1, P2: p2, P3: p3}
}

// SubPath is an ordered run of connected segments sharing one stroke state
// snapshot.
type SubPath struct {
	Segments []Segment
	Closed   bool
	Style    GraphicsState
	Start    geom.Point
}

// End returns the current endpoint of the sub-path.
func (sp *SubPath) End() geom.Point {
	if len(sp.Segments) == 0 {
		return sp.Start
	}
	return sp.Segments[len(sp.Segments)-1].P3
}

// MalformedPathError reports an operator sequence that violates the path
// state machine; the input stream is corrupt.
type MalformedPathError struct {
	Page    int
	OpIndex int
	Op      ops.Tag
	Reason  string
}

func (e *MalformedPathError) Error() string {
	return fmt.Sprintf("malformed path on page %d: op %d (%s): %s",
		e.Page, e.OpIndex, e.Op, e.Reason)
}

// Reconstruct groups the page's drawing operations into connected sub-paths.
//
// MoveTo starts a new sub-path, finalizing the previous one if it has at
// least one segment. LineTo/CurveTo append a segment; their start operand
// must continue the open sub-path. A discontinuity finalizes the open
// sub-path and begins a new one at the operator's start point, while a
// LineTo/CurveTo with no active sub-path at all fails with
// MalformedPathError. ClosePath appends a synthetic closing segment when
// needed and finalizes the sub-path as closed. SetColor/SetWidth/
// SetTransform update the state captured by the next sub-path only.
// Zero-segment sub-paths are discarded silently. ShowText operations do not
// participate in path reconstruction. An operation carrying fewer operands
// than its tag requires fails with MalformedPathError.
func Reconstruct(stream ops.PageStream) ([]SubPath, error) {
	var result []SubPath
	var current *SubPath
	pending := DefaultGraphicsState()

	finalize := func(closed bool) {
		if current == nil {
			return
		}
		if len(current.Segments) > 0 {
			current.Closed = closed
			result = append(result, *current)
		}
		current = nil
	}

	begin := func(start geom.Point) {
		current = &SubPath{Start: start, Style: pending}
	}

	for i, op := range stream.Ops {
		if want := operandCount(op.Tag); len(op.Operands) < want {
			return nil, &MalformedPathError{
				Page:    stream.Index,
				OpIndex: i,
				Op:      op.Tag,
				Reason:  fmt.Sprintf("want %d operands, got %d", want, len(op.Operands)),
			}
		}
		switch op.Tag {
		case ops.MoveTo:
			finalize(false)
			begin(geom.Point{X: op.Operands[0], Y: op.Operands[1]})

		case ops.LineTo, ops.CurveTo:
			if current == nil {
				return nil, &MalformedPathError{
					Page:    stream.Index,
					OpIndex: i,
					Op:      op.Tag,
					Reason:  "no active sub-path",
				}
			}
			start := geom.Point{X: op.Operands[0], Y: op.Operands[1]}
			if !start.Near(current.End()) {
				finalize(false)
				begin(start)
			}
			if op.Tag == ops.LineTo {
				end := geom.Point{X: op.Operands[2], Y: op.Operands[3]}
				current.Segments = append(current.Segments, Line(current.End(), end))
			} else {
				c1 := geom.Point{X: op.Operands[2], Y: op.Operands[3]}
				c2 := geom.Point{X: op.Operands[4], Y: op.Operands[5]}
				end := geom.Point{X: op.Operands[6], Y: op.Operands[7]}
				current.Segments = append(current.Segments, Curve(current.End(), c1, c2, end))
			}

		case ops.ClosePath:
			if current == nil {
				continue
			}
			if !current.End().Near(current.Start) {
				current.Segments = append(current.Segments, Line(current.End(), current.Start))
			}
			finalize(true)

		case ops.SetColor:
			pending.Color = RGB{R: op.Operands[0], G: op.Operands[1], B: op.Operands[2]}

		case ops.SetWidth:
			pending.LineWidth = op.Operands[0]

		case ops.SetTransform:
			pending.CTM = geom.Matrix{
				A: op.Operands[0], B: op.Operands[1],
				C: op.Operands[2], D: op.Operands[3],
				E: op.Operands[4], F: op.Operands[5],
			}

		case ops.ShowText:
			// Text bypasses path reconstruction.
		}
	}
	finalize(false)

	return result, nil
}

// operandCount returns the minimum operand arity for a tag.
func operandCount(tag ops.Tag) int {
	switch tag {
	case ops.MoveTo:
		return 2
	case ops.LineTo:
		return 4
	case ops.CurveTo:
		return 8
	case ops.SetColor:
		return 3
	case ops.SetWidth:
		return 1
	case ops.SetTransform:
		return 6
	}
	return 0
}
