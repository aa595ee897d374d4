// Package ops defines the drawing operation stream consumed by the
// conversion pipeline. A StreamSource (typically backed by a PDF reader)
// yields per-page DrawOp sequences; the pipeline never touches the
// underlying container format.
package ops

import "fmt"

// Tag identifies a drawing operation.
type Tag uint8

const (
	MoveTo Tag = iota + 1
	LineTo
	CurveTo
	ClosePath
	SetColor
	SetWidth
	SetTransform
	ShowText
)

// String returns the operator name.
func (t Tag) String() string {
	switch t {
	case MoveTo:
		return "MoveTo"
	case LineTo:
		return "LineTo"
	case CurveTo:
		return "CurveTo"
	case ClosePath:
		return "ClosePath"
	case SetColor:
		return "SetColor"
	case SetWidth:
		return "SetWidth"
	case SetTransform:
		return "SetTransform"
	case ShowText:
		return "ShowText"
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}

// DrawOp is a single content-stream instruction in device space (y grows
// downward from the top-left page corner). Operand layout by tag:
//
//	MoveTo       [x y]
//	LineTo       [x0 y0 x1 y1]            start, end
//	CurveTo      [x0 y0 x1 y1 x2 y2 x3 y3] start, ctrl1, ctrl2, end
//	ClosePath    []
//	SetColor     [r g b]                  components in 0..1
//	SetWidth     [w]
//	SetTransform [a b c d e f]
//	ShowText     [x y height rotation]    with Text holding the string
//
// A DrawOp is immutable once read.
type DrawOp struct {
	Tag      Tag
	Operands []float64
	Text     string
	Page     int
}

// PageStream is the ordered operation sequence for one source page together
// with the page geometry needed downstream.
type PageStream struct {
	Index  int
	Width  float64
	Height float64
	Ops    []DrawOp
}

// StreamSource is the input collaborator contract: an ordered-by-page
// provider of DrawOp streams.
type StreamSource interface {
	// PageCount returns the number of pages in the document.
	PageCount() int

	// Page returns the operation stream for the given 0-based page index.
	Page(index int) (PageStream, error)

	// Close releases resources associated with the source.
	Close() error
}
