package geom

// CubicPoint evaluates a cubic Bezier curve at parameter t in [0, 1].
func CubicPoint(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t

	return Point{
		X: mt3*p0.X + 3*mt2*t*p1.X + 3*mt*t2*p2.X + t3*p3.X,
		Y: mt3*p0.Y + 3*mt2*t*p1.Y + 3*mt*t2*p2.Y + t3*p3.Y,
	}
}

// SampleCubic approximates a cubic Bezier curve by segments+1 points at
// uniform parameter steps, including both endpoints.
func SampleCubic(p0, p1, p2, p3 Point, segments int) []Point {
	if segments < 1 {
		segments = 1
	}
	points := make([]Point, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		points = append(points, CubicPoint(p0, p1, p2, p3, t))
	}
	return points
}

// CircleBezier returns the four cubic Bezier segments of the standard
// 4-segment circle approximation, as control point quadruples. Useful for
// tests and for synthesizing closed curves.
func CircleBezier(center Point, radius float64) [][4]Point {
	// Magic constant for a quarter-circle cubic approximation.
	const k = 0.5522847498307936

	right := Point{X: center.X + radius, Y: center.Y}
	top := Point{X: center.X, Y: center.Y + radius}
	left := Point{X: center.X - radius, Y: center.Y}
	bottom := Point{X: center.X, Y: center.Y - radius}
	kr := k * radius

	return [][4]Point{
		{right, {X: right.X, Y: right.Y + kr}, {X: top.X + kr, Y: top.Y}, top},
		{top, {X: top.X - kr, Y: top.Y}, {X: left.X, Y: left.Y + kr}, left},
		{left, {X: left.X, Y: left.Y - kr}, {X: bottom.X - kr, Y: bottom.Y}, bottom},
		{bottom, {X: bottom.X + kr, Y: bottom.Y}, {X: right.X, Y: right.Y - kr}, right},
	}
}
