package source

import (
	"math"
	"testing"

	"github.com/vectorcad/pdf2cad/pkg/ops"
)

func opsOfTag(stream []ops.DrawOp, tag ops.Tag) []ops.DrawOp {
	var out []ops.DrawOp
	for _, op := range stream {
		if op.Tag == tag {
			out = append(out, op)
		}
	}
	return out
}

func TestInterpreterStrokedLine(t *testing.T) {
	// Page height 100: user (10,20) maps to device (10,80).
	in := newInterpreter(0, 100)
	out := in.run([]byte("10 20 m 30 20 l S"))

	moves := opsOfTag(out, ops.MoveTo)
	lines := opsOfTag(out, ops.LineTo)
	if len(moves) != 1 || len(lines) != 1 {
		t.Fatalf("got %d moves and %d lines, want 1 and 1", len(moves), len(lines))
	}
	if moves[0].Operands[1] != 80 {
		t.Errorf("move y = %g, want 80 (flipped to device space)", moves[0].Operands[1])
	}
	if lines[0].Operands[2] != 30 || lines[0].Operands[3] != 80 {
		t.Errorf("line end = (%g,%g), want (30,80)", lines[0].Operands[2], lines[0].Operands[3])
	}
}

func TestInterpreterFilledPathKeepsOutline(t *testing.T) {
	// A filled rectangle, as produced for wall hatches, must still yield
	// its outline geometry.
	in := newInterpreter(0, 100)
	out := in.run([]byte("10 10 80 5 re f"))

	if len(opsOfTag(out, ops.MoveTo)) != 1 {
		t.Fatal("filled rectangle did not open a sub-path")
	}
	if got := len(opsOfTag(out, ops.LineTo)); got != 3 {
		t.Errorf("filled rectangle emitted %d line ops, want 3", got)
	}
	if len(opsOfTag(out, ops.ClosePath)) == 0 {
		t.Error("filled rectangle outline not closed")
	}
}

func TestInterpreterFillClosesOpenPath(t *testing.T) {
	in := newInterpreter(0, 100)
	out := in.run([]byte("0 0 m 10 0 l 10 10 l f"))
	if len(opsOfTag(out, ops.LineTo)) != 2 {
		t.Fatal("filled path missing from the output stream")
	}
	if len(opsOfTag(out, ops.ClosePath)) != 1 {
		t.Error("fill did not close the open sub-path")
	}
}

func TestInterpreterNoOpPathDiscarded(t *testing.T) {
	in := newInterpreter(0, 100)
	out := in.run([]byte("10 20 m 30 20 l n"))
	if len(opsOfTag(out, ops.MoveTo)) != 0 || len(opsOfTag(out, ops.LineTo)) != 0 {
		t.Error("no-op path leaked into the output stream")
	}
}

func TestInterpreterFillAndStrokeKept(t *testing.T) {
	in := newInterpreter(0, 100)
	out := in.run([]byte("10 20 m 30 20 l B"))
	if len(opsOfTag(out, ops.LineTo)) != 1 {
		t.Error("fill-and-stroke path missing from the output stream")
	}
}

func TestInterpreterRectangle(t *testing.T) {
	in := newInterpreter(0, 100)
	out := in.run([]byte("10 10 20 30 re S"))

	if len(opsOfTag(out, ops.MoveTo)) != 1 {
		t.Fatal("rectangle did not open a sub-path")
	}
	if got := len(opsOfTag(out, ops.LineTo)); got != 3 {
		t.Errorf("rectangle emitted %d line ops, want 3", got)
	}
	if len(opsOfTag(out, ops.ClosePath)) != 1 {
		t.Error("rectangle not closed")
	}
}

func TestInterpreterCloseOnLowercaseStroke(t *testing.T) {
	in := newInterpreter(0, 100)
	out := in.run([]byte("0 0 m 10 0 l 10 10 l s"))
	if len(opsOfTag(out, ops.ClosePath)) != 1 {
		t.Error("s operator did not close the path")
	}
}

func TestInterpreterTransform(t *testing.T) {
	// 2x scale then a line from user (5,10): device (10, 100-20).
	in := newInterpreter(0, 100)
	out := in.run([]byte("2 0 0 2 0 0 cm 0 0 m 5 10 l S"))

	lines := opsOfTag(out, ops.LineTo)
	if len(lines) != 1 {
		t.Fatal("missing stroked line")
	}
	if lines[0].Operands[2] != 10 || lines[0].Operands[3] != 80 {
		t.Errorf("transformed end = (%g,%g), want (10,80)", lines[0].Operands[2], lines[0].Operands[3])
	}

	in2 := newInterpreter(0, 100)
	out2 := in2.run([]byte("2 0 0 2 0 0 cm 3 w 0 0 m 1 1 l S"))
	widths := opsOfTag(out2, ops.SetWidth)
	if len(widths) != 1 || math.Abs(widths[0].Operands[0]-6) > 1e-9 {
		t.Errorf("width under 2x transform = %+v, want 6", widths)
	}
}

func TestInterpreterSaveRestore(t *testing.T) {
	in := newInterpreter(0, 100)
	out := in.run([]byte("q 1 0 0 RG Q 0 0 m 1 0 l S"))

	colors := opsOfTag(out, ops.SetColor)
	if len(colors) == 0 {
		t.Fatal("no color ops emitted")
	}
	last := colors[len(colors)-1]
	if last.Operands[0] != 0 || last.Operands[1] != 0 || last.Operands[2] != 0 {
		t.Errorf("restored color = %v, want black", last.Operands)
	}
}

func TestInterpreterGrayStroke(t *testing.T) {
	in := newInterpreter(0, 100)
	out := in.run([]byte("0.5 G 0 0 m 1 0 l S"))
	colors := opsOfTag(out, ops.SetColor)
	if len(colors) != 1 || colors[0].Operands[0] != 0.5 || colors[0].Operands[2] != 0.5 {
		t.Errorf("gray stroke ops = %+v", colors)
	}
}

func TestInterpreterCMYKStroke(t *testing.T) {
	// 0 1 1 0 K is pure red.
	in := newInterpreter(0, 100)
	out := in.run([]byte("0 1 1 0 K 0 0 m 1 0 l S"))
	colors := opsOfTag(out, ops.SetColor)
	if len(colors) != 1 {
		t.Fatalf("got %d color ops, want 1", len(colors))
	}
	got := colors[0].Operands
	if got[0] != 1 || got[1] != 0 || got[2] != 0 {
		t.Errorf("CMYK stroke color = %v, want [1 0 0]", got)
	}

	// Black generation scales every channel.
	in = newInterpreter(0, 100)
	out = in.run([]byte("0 0 0 0.5 K 0 0 m 1 0 l S"))
	colors = opsOfTag(out, ops.SetColor)
	if len(colors) != 1 || math.Abs(colors[0].Operands[0]-0.5) > 1e-9 {
		t.Errorf("CMYK black component ops = %+v, want 0.5 gray", colors)
	}
}

func TestInterpreterCurveVariants(t *testing.T) {
	in := newInterpreter(0, 100)
	out := in.run([]byte("0 0 m 1 1 2 1 3 0 c S"))
	curves := opsOfTag(out, ops.CurveTo)
	if len(curves) != 1 {
		t.Fatalf("c operator: got %d curves, want 1", len(curves))
	}
	if len(curves[0].Operands) != 8 {
		t.Errorf("curve operands = %v, want 8 values", curves[0].Operands)
	}

	in = newInterpreter(0, 100)
	out = in.run([]byte("0 0 m 2 1 3 0 v S"))
	curves = opsOfTag(out, ops.CurveTo)
	if len(curves) != 1 {
		t.Fatalf("v operator: got %d curves, want 1", len(curves))
	}
	// v reuses the current point as the first control point.
	if curves[0].Operands[2] != curves[0].Operands[0] || curves[0].Operands[3] != curves[0].Operands[1] {
		t.Errorf("v control point = %v, want current point", curves[0].Operands)
	}
}
