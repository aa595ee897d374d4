package source

import (
	"github.com/vectorcad/pdf2cad/pkg/geom"
	"github.com/vectorcad/pdf2cad/pkg/ops"
)

// gstate is the subset of the content-stream graphics state the drawing
// pipeline consumes.
type gstate struct {
	ctm   geom.Matrix
	color [3]float64
	width float64
}

// interpreter executes a page's content stream and emits drawing
// operations in device space (origin top-left, y down). Path construction
// is buffered per path and emitted when a painting operator strokes or
// fills it; only no-op paths (n) leave no trace in the output stream.
type interpreter struct {
	page  int
	out   []ops.DrawOp
	stack []gstate
	state gstate
	buf   []ops.DrawOp
	cp    geom.Point
	hasCP bool
	start geom.Point
}

func newInterpreter(page int, pageHeight float64) *interpreter {
	return &interpreter{
		page: page,
		state: gstate{
			// Base transform maps PDF user space (y up, origin bottom
			// left) to device space (y down, origin top left).
			ctm:   geom.Matrix{A: 1, D: -1, F: pageHeight},
			width: 1,
		},
	}
}

// run tokenizes and executes the content stream, returning the emitted
// drawing operations. Lexer errors terminate execution at the error point;
// everything emitted so far is kept.
func (in *interpreter) run(content []byte) []ops.DrawOp {
	lexer := newContentLexer(content)
	var operands []any
	for {
		tok, err := lexer.next()
		if err != nil {
			break
		}
		if tok.kind == tokenOperand {
			operands = append(operands, tok.value)
			continue
		}
		in.exec(tok.value.(string), operands)
		operands = operands[:0]
	}
	return in.out
}

func (in *interpreter) exec(op string, operands []any) {
	switch op {
	case "q":
		in.stack = append(in.stack, in.state)

	case "Q":
		if n := len(in.stack); n > 0 {
			in.state = in.stack[n-1]
			in.stack = in.stack[:n-1]
			in.emitTransform()
			in.emitColor()
			in.emitWidth()
		}

	case "cm":
		if len(operands) == 6 {
			cm := geom.Matrix{
				A: num(operands[0]), B: num(operands[1]),
				C: num(operands[2]), D: num(operands[3]),
				E: num(operands[4]), F: num(operands[5]),
			}
			in.state.ctm = cm.Multiply(in.state.ctm)
			in.emitTransform()
		}

	case "w":
		if len(operands) == 1 {
			in.state.width = num(operands[0])
			in.emitWidth()
		}

	case "RG":
		if len(operands) == 3 {
			in.state.color = [3]float64{num(operands[0]), num(operands[1]), num(operands[2])}
			in.emitColor()
		}

	case "G":
		if len(operands) == 1 {
			g := num(operands[0])
			in.state.color = [3]float64{g, g, g}
			in.emitColor()
		}

	case "K":
		if len(operands) == 4 {
			c, m, y, k := num(operands[0]), num(operands[1]), num(operands[2]), num(operands[3])
			in.state.color = [3]float64{
				(1 - c) * (1 - k),
				(1 - m) * (1 - k),
				(1 - y) * (1 - k),
			}
			in.emitColor()
		}

	case "m":
		if len(operands) == 2 {
			p := in.device(num(operands[0]), num(operands[1]))
			in.buf = append(in.buf, ops.DrawOp{
				Tag:      ops.MoveTo,
				Operands: []float64{p.X, p.Y},
				Page:     in.page,
			})
			in.cp, in.start, in.hasCP = p, p, true
		}

	case "l":
		if len(operands) == 2 && in.hasCP {
			p := in.device(num(operands[0]), num(operands[1]))
			in.buf = append(in.buf, ops.DrawOp{
				Tag:      ops.LineTo,
				Operands: []float64{in.cp.X, in.cp.Y, p.X, p.Y},
				Page:     in.page,
			})
			in.cp = p
		}

	case "c":
		if len(operands) == 6 && in.hasCP {
			c1 := in.device(num(operands[0]), num(operands[1]))
			c2 := in.device(num(operands[2]), num(operands[3]))
			end := in.device(num(operands[4]), num(operands[5]))
			in.curveTo(c1, c2, end)
		}

	case "v":
		// First control point coincides with the current point.
		if len(operands) == 4 && in.hasCP {
			c2 := in.device(num(operands[0]), num(operands[1]))
			end := in.device(num(operands[2]), num(operands[3]))
			in.curveTo(in.cp, c2, end)
		}

	case "y":
		// Second control point coincides with the endpoint.
		if len(operands) == 4 && in.hasCP {
			c1 := in.device(num(operands[0]), num(operands[1]))
			end := in.device(num(operands[2]), num(operands[3]))
			in.curveTo(c1, end, end)
		}

	case "re":
		if len(operands) == 4 {
			x, y := num(operands[0]), num(operands[1])
			w, h := num(operands[2]), num(operands[3])
			p0 := in.device(x, y)
			p1 := in.device(x+w, y)
			p2 := in.device(x+w, y+h)
			p3 := in.device(x, y+h)
			in.buf = append(in.buf,
				ops.DrawOp{Tag: ops.MoveTo, Operands: []float64{p0.X, p0.Y}, Page: in.page},
				ops.DrawOp{Tag: ops.LineTo, Operands: []float64{p0.X, p0.Y, p1.X, p1.Y}, Page: in.page},
				ops.DrawOp{Tag: ops.LineTo, Operands: []float64{p1.X, p1.Y, p2.X, p2.Y}, Page: in.page},
				ops.DrawOp{Tag: ops.LineTo, Operands: []float64{p2.X, p2.Y, p3.X, p3.Y}, Page: in.page},
				ops.DrawOp{Tag: ops.ClosePath, Page: in.page},
			)
			in.cp, in.start, in.hasCP = p0, p0, true
		}

	case "h":
		if in.hasCP {
			in.buf = append(in.buf, ops.DrawOp{Tag: ops.ClosePath, Page: in.page})
			in.cp = in.start
		}

	case "S":
		in.flush(false)

	case "s":
		in.flush(true)

	case "B", "B*", "b", "b*":
		// Fill plus stroke: the stroked outline is what survives.
		in.flush(op == "b" || op == "b*")

	case "f", "F", "f*":
		// Filling implicitly closes the path; its outline is kept so
		// filled shapes like wall hatches still contribute geometry.
		in.flush(true)

	case "n":
		in.discard()
	}
}

func (in *interpreter) curveTo(c1, c2, end geom.Point) {
	in.buf = append(in.buf, ops.DrawOp{
		Tag: ops.CurveTo,
		Operands: []float64{
			in.cp.X, in.cp.Y, c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y,
		},
		Page: in.page,
	})
	in.cp = end
}

// flush commits the buffered path to the output stream, optionally closing
// it first.
func (in *interpreter) flush(closeFirst bool) {
	if len(in.buf) == 0 {
		return
	}
	if closeFirst && in.hasCP && in.buf[len(in.buf)-1].Tag != ops.ClosePath {
		in.buf = append(in.buf, ops.DrawOp{Tag: ops.ClosePath, Page: in.page})
	}
	in.out = append(in.out, in.buf...)
	in.discard()
}

func (in *interpreter) discard() {
	in.buf = in.buf[:0]
	in.hasCP = false
}

func (in *interpreter) device(x, y float64) geom.Point {
	dx, dy := in.state.ctm.Transform(x, y)
	return geom.Point{X: dx, Y: dy}
}

func (in *interpreter) emitTransform() {
	m := in.state.ctm
	in.out = append(in.out, ops.DrawOp{
		Tag:      ops.SetTransform,
		Operands: []float64{m.A, m.B, m.C, m.D, m.E, m.F},
		Page:     in.page,
	})
}

func (in *interpreter) emitColor() {
	c := in.state.color
	in.out = append(in.out, ops.DrawOp{
		Tag:      ops.SetColor,
		Operands: []float64{c[0], c[1], c[2]},
		Page:     in.page,
	})
}

func (in *interpreter) emitWidth() {
	// Widths reach the style mapper in drawing units.
	w := in.state.width * in.state.ctm.ScaleFactor()
	in.out = append(in.out, ops.DrawOp{
		Tag:      ops.SetWidth,
		Operands: []float64{w},
		Page:     in.page,
	})
}

func num(v any) float64 {
	f, _ := v.(float64)
	return f
}
