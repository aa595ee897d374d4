// Package aggregate combines per-page primitive sets into output documents
// according to a page-handling mode.
package aggregate

import (
	"fmt"

	"github.com/vectorcad/pdf2cad/pkg/entity"
	"github.com/vectorcad/pdf2cad/pkg/geom"
)

// Mode selects how source pages map to output documents.
type Mode uint8

const (
	// ModeSingle processes only the first selected page.
	ModeSingle Mode = iota + 1
	// ModeSeparate emits one output document per selected page.
	ModeSeparate
	// ModeMerge stacks all selected pages into one document.
	ModeMerge
)

// String returns the mode's configuration name.
func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeSeparate:
		return "separate"
	case ModeMerge:
		return "merge"
	}
	return "unknown"
}

// ParseMode maps a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "single":
		return ModeSingle, nil
	case "separate":
		return ModeSeparate, nil
	case "merge":
		return ModeMerge, nil
	}
	return 0, fmt.Errorf("unknown page mode %q (want single, separate or merge)", s)
}

// PageRangeError reports an explicitly requested page index that does not
// exist in the document.
type PageRangeError struct {
	Index int
	Count int
}

func (e *PageRangeError) Error() string {
	return fmt.Sprintf("page index %d out of range: document has %d pages", e.Index, e.Count)
}

// DedupTolerance is the coordinate tolerance for the exact-duplicate pass.
const DedupTolerance = 1e-6

// DefaultGapFraction is the merge-mode inter-page gap as a fraction of the
// tallest page height.
const DefaultGapFraction = 0.10

// Options configures aggregation of classified pages into documents.
type Options struct {
	Mode Mode
	// Pages is the explicit 0-based page subset, in request order. Nil or
	// empty selects all pages.
	Pages []int
	// Scale multiplies every output coordinate, radius and text height.
	Scale float64
	// GapFraction overrides DefaultGapFraction when positive.
	GapFraction float64
	// Dedup enables removal of exact duplicate primitives in merge mode.
	Dedup bool
}

// Document is one aggregated output drawing.
type Document struct {
	// Name distinguishes documents of one conversion, e.g. "page2". Empty
	// for single-document modes.
	Name string
	// Pages lists the source page indices included, in order.
	Pages []int
	// Primitives is the final ordered entity list in target drawing space.
	Primitives []entity.Primitive
}

// SelectPages validates an explicit page subset against the page count and
// returns the effective selection. A nil or empty subset selects every page
// in order. Any out-of-range index fails before extraction work starts.
func SelectPages(subset []int, count int) ([]int, error) {
	if len(subset) == 0 {
		all := make([]int, count)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}
	for _, idx := range subset {
		if idx < 0 || idx >= count {
			return nil, &PageRangeError{Index: idx, Count: count}
		}
	}
	selected := make([]int, len(subset))
	copy(selected, subset)
	return selected, nil
}

// Aggregate maps classified page results to output documents. The page
// results must cover every index the selection names. Assembly into target
// drawing space (axis flip plus scale) happens here, once per page, before
// merge offsets are applied.
func Aggregate(pages map[int]entity.PageResult, selected []int, opts Options) ([]Document, error) {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}

	switch opts.Mode {
	case ModeSingle:
		if len(selected) == 0 {
			return nil, nil
		}
		idx := selected[0]
		pr, ok := pages[idx]
		if !ok {
			return nil, fmt.Errorf("page %d not extracted", idx)
		}
		return []Document{{
			Pages:      []int{idx},
			Primitives: entity.Assemble(pr, scale),
		}}, nil

	case ModeSeparate:
		docs := make([]Document, 0, len(selected))
		for _, idx := range selected {
			pr, ok := pages[idx]
			if !ok {
				return nil, fmt.Errorf("page %d not extracted", idx)
			}
			docs = append(docs, Document{
				Name:       fmt.Sprintf("page%d", idx+1),
				Pages:      []int{idx},
				Primitives: entity.Assemble(pr, scale),
			})
		}
		return docs, nil

	case ModeMerge:
		return mergePages(pages, selected, scale, opts)

	default:
		return nil, fmt.Errorf("unknown page mode %d", opts.Mode)
	}
}

// mergePages stacks the selected pages top to bottom along Y, separated by
// a gap, so no two pages' bounding boxes overlap.
func mergePages(pages map[int]entity.PageResult, selected []int, scale float64, opts Options) ([]Document, error) {
	gapFrac := opts.GapFraction
	if gapFrac <= 0 {
		gapFrac = DefaultGapFraction
	}

	var tallest float64
	for _, idx := range selected {
		pr, ok := pages[idx]
		if !ok {
			return nil, fmt.Errorf("page %d not extracted", idx)
		}
		if h := pr.Height * scale; h > tallest {
			tallest = h
		}
	}
	gap := tallest * gapFrac

	doc := Document{Name: "merged"}
	ceiling := 0.0
	first := true
	for _, idx := range selected {
		prims := entity.Assemble(pages[idx], scale)
		doc.Pages = append(doc.Pages, idx)
		if len(prims) == 0 {
			continue
		}
		bb := primitivesBBox(prims)
		if !first {
			dy := ceiling - gap - bb.Y1
			for i, p := range prims {
				prims[i] = entity.Translate(p, 0, dy)
			}
			bb = geom.BoundingBox{X0: bb.X0, Y0: bb.Y0 + dy, X1: bb.X1, Y1: bb.Y1 + dy}
		}
		ceiling = bb.Y0
		first = false
		doc.Primitives = append(doc.Primitives, prims...)
	}

	if opts.Dedup {
		doc.Primitives = Dedup(doc.Primitives, DedupTolerance)
	}
	return []Document{doc}, nil
}

// Dedup removes exact duplicate primitives, keeping the first occurrence.
// Duplicates have the same variant, geometry within tol, and the identical
// interned style.
func Dedup(prims []entity.Primitive, tol float64) []entity.Primitive {
	out := make([]entity.Primitive, 0, len(prims))
	for _, p := range prims {
		dup := false
		for _, kept := range out {
			if entity.Equal(kept, p, tol) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

func primitivesBBox(prims []entity.Primitive) geom.BoundingBox {
	b := prims[0].BBox()
	for _, p := range prims[1:] {
		b = b.Union(p.BBox())
	}
	return b
}
