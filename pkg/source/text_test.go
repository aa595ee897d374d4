package source

import (
	"math"
	"testing"

	lpdf "github.com/ledongthuc/pdf"
)

func fragment(x, y, size float64, s string) lpdf.Text {
	return lpdf.Text{X: x, Y: y, FontSize: size, S: s}
}

func TestGroupTextRunsSplitsDistantFragments(t *testing.T) {
	texts := []lpdf.Text{
		fragment(10, 100, 10, "A"),
		fragment(16, 100, 10, "B"),
		fragment(10, 50, 10, "C"),
	}
	runs := groupTextRuns(texts)
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if len(runs[0]) != 2 || runs[0][1].S != "B" {
		t.Errorf("first run = %+v, want the two adjacent fragments", runs[0])
	}
}

func TestGroupTextRunsSplitsOnFontSize(t *testing.T) {
	texts := []lpdf.Text{
		fragment(10, 100, 10, "A"),
		fragment(16, 100, 14, "B"),
	}
	if runs := groupTextRuns(texts); len(runs) != 2 {
		t.Errorf("got %d runs, want 2 (font size change)", len(runs))
	}
}

func TestGroupTextRunsKeepsRotatedLabel(t *testing.T) {
	// A label running upward: each anchor is above the previous one, so a
	// baseline-Y check would split it into single glyphs.
	texts := []lpdf.Text{
		fragment(10, 10, 10, "U"),
		fragment(10, 16, 10, "P"),
		fragment(10, 22, 10, "!"),
	}
	runs := groupTextRuns(texts)
	if len(runs) != 1 || len(runs[0]) != 3 {
		t.Fatalf("rotated label split into %d runs, want 1", len(runs))
	}
}

func TestRunRotationDeg(t *testing.T) {
	horizontal := []lpdf.Text{fragment(10, 10, 10, "A"), fragment(20, 10, 10, "B")}
	if got := runRotationDeg(horizontal); got != 0 {
		t.Errorf("horizontal run rotation = %g, want 0", got)
	}

	// Upward in user space is 90 degrees; device space flips the sign.
	vertical := []lpdf.Text{fragment(10, 10, 10, "A"), fragment(10, 20, 10, "B")}
	if got := runRotationDeg(vertical); math.Abs(got-270) > 1e-9 {
		t.Errorf("vertical run rotation = %g, want 270", got)
	}

	single := []lpdf.Text{fragment(10, 10, 10, "A")}
	if got := runRotationDeg(single); got != 0 {
		t.Errorf("single fragment rotation = %g, want 0", got)
	}
}
