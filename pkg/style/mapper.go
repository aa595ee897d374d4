// Package style resolves raw stroke attributes into deduplicated CAD style
// references: palette color index, standard lineweight and layer name.
package style

import (
	"math"

	"github.com/vectorcad/pdf2cad/pkg/entity"
	"github.com/vectorcad/pdf2cad/pkg/path"
)

// standardWeights is the fixed set of valid lineweights in 1/100 mm,
// ascending.
var standardWeights = []int{
	0, 5, 9, 13, 15, 18, 20, 25, 30, 35, 40, 50, 53, 60, 70, 80,
	90, 100, 106, 120, 140, 158, 200, 211,
}

// SnapLineweight maps a stroke width in drawing units (interpreted as mm)
// to the nearest standard lineweight. Values below the smallest standard
// weight clamp to it, values above the largest clamp to it. Ties resolve
// to the smaller weight.
func SnapLineweight(width float64) int {
	hundredths := width * 100
	if hundredths <= float64(standardWeights[0]) {
		return standardWeights[0]
	}
	last := standardWeights[len(standardWeights)-1]
	if hundredths >= float64(last) {
		return last
	}
	best := standardWeights[0]
	bestDist := math.Inf(1)
	for _, w := range standardWeights {
		d := math.Abs(hundredths - float64(w))
		if d < bestDist {
			bestDist = d
			best = w
		}
	}
	return best
}

// DefaultLayer is the layer assigned to all stroked geometry.
const DefaultLayer = "0"

// TextLayer is the layer assigned to text entities.
const TextLayer = "TEXT"

// Mapper interns StyleRef values per document. Identical (color, weight,
// layer) combinations return the same pointer, so downstream duplicate
// detection can compare styles by identity. Not safe for concurrent use;
// each document conversion owns one Mapper.
type Mapper struct {
	pool map[entity.StyleRef]*entity.StyleRef
}

// NewMapper returns an empty Mapper.
func NewMapper() *Mapper {
	return &Mapper{pool: make(map[entity.StyleRef]*entity.StyleRef)}
}

// Resolve maps a captured graphics state to an interned StyleRef on the
// given layer. Pure black strokes map to ColorByLayer so they render with
// the layer color instead of pinning an explicit index.
func (m *Mapper) Resolve(gs path.GraphicsState, layer string) *entity.StyleRef {
	color := entity.ColorByLayer
	if gs.Color.R != 0 || gs.Color.G != 0 || gs.Color.B != 0 {
		color = NearestACI(gs.Color.R, gs.Color.G, gs.Color.B)
	}
	return m.intern(entity.StyleRef{
		ColorIndex: color,
		Lineweight: SnapLineweight(gs.LineWidth),
		Layer:      layer,
	})
}

// ResolveText maps text attributes to an interned StyleRef on the text
// layer.
func (m *Mapper) ResolveText() *entity.StyleRef {
	return m.intern(entity.StyleRef{
		ColorIndex: entity.ColorByLayer,
		Lineweight: standardWeights[0],
		Layer:      TextLayer,
	})
}

// Refs returns every interned StyleRef, in unspecified order.
func (m *Mapper) Refs() []*entity.StyleRef {
	refs := make([]*entity.StyleRef, 0, len(m.pool))
	for _, r := range m.pool {
		refs = append(refs, r)
	}
	return refs
}

func (m *Mapper) intern(key entity.StyleRef) *entity.StyleRef {
	if r, ok := m.pool[key]; ok {
		return r
	}
	r := new(entity.StyleRef)
	*r = key
	m.pool[key] = r
	return r
}
