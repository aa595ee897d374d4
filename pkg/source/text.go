package source

import (
	"math"
	"strings"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/vectorcad/pdf2cad/pkg/geom"
	"github.com/vectorcad/pdf2cad/pkg/ops"
)

// textOps extracts the page's positioned text as ShowText operations in
// device space. The text layer of damaged PDFs can fail in the underlying
// reader; such pages simply contribute no text.
func (d *Document) textOps(index int, pageHeight float64) []ops.DrawOp {
	if d.textReader == nil || index+1 > d.textReader.NumPage() {
		return nil
	}

	texts := pageTexts(d.textReader, index+1)
	if len(texts) == 0 {
		return nil
	}

	var out []ops.DrawOp
	for _, run := range groupTextRuns(texts) {
		var sb strings.Builder
		for _, t := range run {
			sb.WriteString(t.S)
		}
		content := strings.TrimSpace(sb.String())
		if content == "" {
			continue
		}
		first := run[0]
		out = append(out, ops.DrawOp{
			Tag: ops.ShowText,
			// x, y (device space), height, rotation.
			Operands: []float64{first.X, pageHeight - first.Y, first.FontSize, runRotationDeg(run)},
			Text:     content,
			Page:     index,
		})
	}
	return out
}

// groupTextRuns collects consecutive fragments into visual runs. Fragments
// continue a run when they share the font size and sit within 2.5 em of the
// previous anchor, which keeps rotated labels together where a fixed
// baseline check would split them.
func groupTextRuns(texts []lpdf.Text) [][]lpdf.Text {
	var runs [][]lpdf.Text
	for _, t := range texts {
		if n := len(runs); n > 0 {
			run := runs[n-1]
			prev := run[len(run)-1]
			if t.FontSize == prev.FontSize && withinRunGap(prev, t) {
				runs[n-1] = append(run, t)
				continue
			}
		}
		runs = append(runs, []lpdf.Text{t})
	}
	return runs
}

func withinRunGap(prev, next lpdf.Text) bool {
	limit := 2.5 * prev.FontSize
	if limit < 1 {
		limit = 1
	}
	return math.Hypot(next.X-prev.X, next.Y-prev.Y) <= limit
}

// runRotationDeg derives the run's baseline angle in device space (y down)
// from the first and last glyph anchors. Runs with a single fragment or
// coincident anchors read as horizontal.
func runRotationDeg(run []lpdf.Text) float64 {
	first, last := run[0], run[len(run)-1]
	dx, dy := last.X-first.X, last.Y-first.Y
	if math.Hypot(dx, dy) < geom.Epsilon {
		return 0
	}
	// Anchors are in PDF user space (y up); flipping to device space
	// negates the angle.
	deg := (geom.Matrix{A: dx, B: dy, D: 1}).Rotation()
	if deg == 0 {
		return 0
	}
	return 360 - deg
}

// pageTexts reads a page's text fragments, absorbing reader panics from
// malformed files.
func pageTexts(r *lpdf.Reader, pageNo int) (texts []lpdf.Text) {
	defer func() {
		if recover() != nil {
			texts = nil
		}
	}()

	page := r.Page(pageNo)
	if page.V.IsNull() {
		return nil
	}
	return page.Content().Text
}
