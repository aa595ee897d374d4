package path

import "github.com/vectorcad/pdf2cad/pkg/geom"

// RGB is a device color with components in 0..1.
type RGB struct {
	R, G, B float64
}

// GraphicsState is the stroke state captured by a SubPath at creation time.
// It is copied, never shared, so later operator changes cannot retroactively
// alter an already-built SubPath.
type GraphicsState struct {
	Color     RGB
	LineWidth float64
	CTM       geom.Matrix
}

// DefaultGraphicsState returns the initial state for a page: black stroke,
// unit line width, identity transform.
func DefaultGraphicsState() GraphicsState {
	return GraphicsState{
		Color:     RGB{},
		LineWidth: 1,
		CTM:       geom.IdentityMatrix(),
	}
}
