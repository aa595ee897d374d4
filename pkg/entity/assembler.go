package entity

import "github.com/vectorcad/pdf2cad/pkg/geom"

// Assemble maps a page's primitives from device space (y down, top-left
// origin) into target drawing space (y up, bottom-left origin), applying
// the global scale factor to every coordinate, radius and text height. The
// axis flip happens exactly once, here, so no component upstream or
// downstream transforms again.
func Assemble(pr PageResult, scale float64) []Primitive {
	out := make([]Primitive, 0, len(pr.Primitives))
	for _, p := range pr.Primitives {
		out = append(out, assembleOne(p, pr.Height, scale))
	}
	return out
}

func assembleOne(p Primitive, pageHeight, scale float64) Primitive {
	flip := func(pt geom.Point) geom.Point {
		return geom.Point{X: pt.X * scale, Y: (pageHeight - pt.Y) * scale}
	}
	switch v := p.(type) {
	case Line:
		return Line{P1: flip(v.P1), P2: flip(v.P2), Style: v.Style}
	case Polyline:
		pts := make([]geom.Point, len(v.Points))
		for i, pt := range v.Points {
			pts[i] = flip(pt)
		}
		return Polyline{Points: pts, Closed: v.Closed, Style: v.Style}
	case Arc:
		// Mirroring about the X axis reverses orientation: the swept
		// interval negates and the endpoints swap to keep the arc
		// counter-clockwise.
		start := normDeg(-v.EndAngle)
		end := normDeg(-v.StartAngle)
		return Arc{
			Center:     flip(v.Center),
			Radius:     v.Radius * scale,
			StartAngle: start,
			EndAngle:   end,
			Style:      v.Style,
		}
	case Circle:
		return Circle{Center: flip(v.Center), Radius: v.Radius * scale, Style: v.Style}
	case Text:
		return Text{
			Position: flip(v.Position),
			Content:  v.Content,
			Height:   v.Height * scale,
			Rotation: normDeg(-v.Rotation),
			Style:    v.Style,
		}
	}
	return p
}

// Translate shifts a primitive by (dx, dy), producing a new value.
func Translate(p Primitive, dx, dy float64) Primitive {
	shift := func(pt geom.Point) geom.Point {
		return geom.Point{X: pt.X + dx, Y: pt.Y + dy}
	}
	switch v := p.(type) {
	case Line:
		return Line{P1: shift(v.P1), P2: shift(v.P2), Style: v.Style}
	case Polyline:
		pts := make([]geom.Point, len(v.Points))
		for i, pt := range v.Points {
			pts[i] = shift(pt)
		}
		return Polyline{Points: pts, Closed: v.Closed, Style: v.Style}
	case Arc:
		return Arc{
			Center:     shift(v.Center),
			Radius:     v.Radius,
			StartAngle: v.StartAngle,
			EndAngle:   v.EndAngle,
			Style:      v.Style,
		}
	case Circle:
		return Circle{Center: shift(v.Center), Radius: v.Radius, Style: v.Style}
	case Text:
		return Text{
			Position: shift(v.Position),
			Content:  v.Content,
			Height:   v.Height,
			Rotation: v.Rotation,
			Style:    v.Style,
		}
	}
	return p
}

func normDeg(d float64) float64 {
	for d < 0 {
		d += 360
	}
	for d >= 360 {
		d -= 360
	}
	return d
}
