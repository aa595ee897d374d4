package geom

import "math"

// CircleFit holds the result of a least-squares circle fit.
type CircleFit struct {
	Center Point
	Radius float64
	// MaxDeviation is the largest absolute distance of any sample from the
	// fitted circle.
	MaxDeviation float64
	// RMSError is the root-mean-square distance of the samples from the
	// fitted circle.
	RMSError float64
}

// FitCircle fits a circle through the points by least squares, solving the
// algebraic system x^2 + y^2 = c0*x + c1*y + c2. It returns false when fewer
// than three points are given or the system is degenerate (collinear points).
func FitCircle(points []Point) (CircleFit, bool) {
	if len(points) < 3 {
		return CircleFit{}, false
	}

	// Normal equations for the 3-parameter algebraic fit.
	var sxx, sxy, syy, sx, sy, n float64
	var bx, by, b1 float64
	for _, p := range points {
		z := p.X*p.X + p.Y*p.Y
		sxx += p.X * p.X
		sxy += p.X * p.Y
		syy += p.Y * p.Y
		sx += p.X
		sy += p.Y
		n++
		bx += z * p.X
		by += z * p.Y
		b1 += z
	}

	m := [3][4]float64{
		{sxx, sxy, sx, bx},
		{sxy, syy, sy, by},
		{sx, sy, n, b1},
	}
	sol, ok := solve3(m)
	if !ok {
		return CircleFit{}, false
	}

	cx := sol[0] / 2
	cy := sol[1] / 2
	r2 := sol[2] + cx*cx + cy*cy
	if r2 <= 0 {
		return CircleFit{}, false
	}
	radius := math.Sqrt(r2)

	fit := CircleFit{Center: Point{X: cx, Y: cy}, Radius: radius}
	var sum float64
	for _, p := range points {
		dev := math.Abs(p.DistanceTo(fit.Center) - radius)
		if dev > fit.MaxDeviation {
			fit.MaxDeviation = dev
		}
		sum += dev * dev
	}
	fit.RMSError = math.Sqrt(sum / n)
	return fit, true
}

// solve3 solves a 3x3 linear system given as an augmented matrix using
// Gaussian elimination with partial pivoting.
func solve3(m [3][4]float64) ([3]float64, bool) {
	for col := 0; col < 3; col++ {
		pivot := col
		for row := col + 1; row < 3; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return [3]float64{}, false
		}
		m[col], m[pivot] = m[pivot], m[col]

		for row := 0; row < 3; row++ {
			if row == col {
				continue
			}
			f := m[row][col] / m[col][col]
			for k := col; k < 4; k++ {
				m[row][k] -= f * m[col][k]
			}
		}
	}
	var sol [3]float64
	for i := 0; i < 3; i++ {
		sol[i] = m[i][3] / m[i][i]
	}
	return sol, true
}

// IsCCW reports whether the points traverse counter-clockwise around the
// center, using the signed area of the fan triangles.
func IsCCW(points []Point, center Point) bool {
	if len(points) < 3 {
		return true
	}
	var signed float64
	for i := 0; i < len(points)-1; i++ {
		p1, p2 := points[i], points[i+1]
		signed += (p1.X - center.X) * (p2.Y - center.Y)
		signed -= (p2.X - center.X) * (p1.Y - center.Y)
	}
	return signed > 0
}

// AngleDeg returns the angle of p around center in degrees, measured
// counter-clockwise from the positive X axis and normalized to [0, 360).
func AngleDeg(center, p Point) float64 {
	deg := math.Atan2(p.Y-center.Y, p.X-center.X) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// SweepDeg returns the total angle in degrees swept by the points around
// the center, accumulated from unwrapped consecutive deltas. The result is
// positive for counter-clockwise traversal and negative for clockwise.
func SweepDeg(points []Point, center Point) float64 {
	if len(points) < 2 {
		return 0
	}
	var total float64
	prev := math.Atan2(points[0].Y-center.Y, points[0].X-center.X)
	for _, p := range points[1:] {
		cur := math.Atan2(p.Y-center.Y, p.X-center.X)
		d := cur - prev
		for d > math.Pi {
			d -= 2 * math.Pi
		}
		for d < -math.Pi {
			d += 2 * math.Pi
		}
		total += d
		prev = cur
	}
	return total * 180 / math.Pi
}
