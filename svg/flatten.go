package svg

import "math"

// MaxFlattenDepth bounds curve subdivision, so a single curve never yields
// more than 2^MaxFlattenDepth segments.
const MaxFlattenDepth = 18

func lerp(a, b Point, t float64) Point {
	return Point{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

// FlattenCubic approximates the cubic Bézier p0..p3 with line segments and
// emits every segment end point (p0 itself is not emitted).
func FlattenCubic(p0, p1, p2, p3 Point, tol float64, emit func(Point)) {
	flattenCubic(p0, p1, p2, p3, tol*tol, 0, emit)
}

// FlattenQuadratic approximates the quadratic Bézier p0..p2 by raising it
// to the equivalent cubic.
func FlattenQuadratic(p0, p1, p2 Point, tol float64, emit func(Point)) {
	c1 := lerp(p0, p1, 2.0/3.0)
	c2 := lerp(p2, p1, 2.0/3.0)
	flattenCubic(p0, c1, c2, p2, tol*tol, 0, emit)
}

func flattenCubic(p0, p1, p2, p3 Point, tol2 float64, depth int, emit func(Point)) {
	if depth >= MaxFlattenDepth || cubicIsFlat(p0, p1, p2, p3, tol2) {
		emit(p3)
		return
	}

	// de Casteljau split at t = 0.5
	m01 := lerp(p0, p1, 0.5)
	m12 := lerp(p1, p2, 0.5)
	m23 := lerp(p2, p3, 0.5)
	m012 := lerp(m01, m12, 0.5)
	m123 := lerp(m12, m23, 0.5)
	m0123 := lerp(m012, m123, 0.5)

	flattenCubic(p0, m01, m012, m0123, tol2, depth+1, emit)
	flattenCubic(m0123, m123, m23, p3, tol2, depth+1, emit)
}

// cubicIsFlat compares the squared cross-product deviation of the control
// points against 5·tol²·|chord|².
func cubicIsFlat(p0, p1, p2, p3 Point, tol2 float64) bool {
	dx := p3.X - p0.X
	dy := p3.Y - p0.Y
	chord2 := dx*dx + dy*dy
	if chord2 < 1e-18 {
		// closed loop: measure the control points against the end point
		d1 := sqDist(p1, p0)
		d2 := sqDist(p2, p0)
		return math.Max(d1, d2) <= tol2
	}
	d1 := math.Abs((p1.X-p3.X)*dy - (p1.Y-p3.Y)*dx)
	d2 := math.Abs((p2.X-p3.X)*dy - (p2.Y-p3.Y)*dx)
	return (d1+d2)*(d1+d2) <= 5*tol2*chord2
}

func sqDist(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// arc is an elliptical arc in center parameterization.
type arc struct {
	cx, cy     float64
	rx, ry     float64
	sinP, cosP float64
}

func (a arc) at(theta float64) Point {
	s, c := math.Sincos(theta)
	return Point{
		X: a.cx + a.rx*a.cosP*c - a.ry*a.sinP*s,
		Y: a.cy + a.rx*a.sinP*c + a.ry*a.cosP*s,
	}
}

// FlattenArc approximates the SVG elliptical arc from p0 to p1 with radii
// rx, ry, x-axis rotation phi (degrees) and the large-arc and sweep flags.
func FlattenArc(p0 Point, rx, ry, phi float64, large, sweep bool, p1 Point, tol float64, emit func(Point)) {
	if p0 == p1 {
		return
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		emit(p1)
		return
	}

	sinP, cosP := math.Sincos(phi * math.Pi / 180)
	hx := (p0.X - p1.X) / 2
	hy := (p0.Y - p1.Y) / 2
	x1 := cosP*hx + sinP*hy
	y1 := -sinP*hx + cosP*hy

	// scale up radii that are too small to span the end points
	if lambda := x1*x1/(rx*rx) + y1*y1/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	rx2, ry2 := rx*rx, ry*ry
	num := rx2*ry2 - rx2*y1*y1 - ry2*x1*x1
	den := rx2*y1*y1 + ry2*x1*x1
	coef := 0.0
	if den > 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1 / ry
	cyp := -coef * ry * x1 / rx

	a := arc{
		cx:   cosP*cxp - sinP*cyp + (p0.X+p1.X)/2,
		cy:   sinP*cxp + cosP*cyp + (p0.Y+p1.Y)/2,
		rx:   rx,
		ry:   ry,
		sinP: sinP,
		cosP: cosP,
	}

	theta1 := vectorAngle(1, 0, (x1-cxp)/rx, (y1-cyp)/ry)
	delta := vectorAngle((x1-cxp)/rx, (y1-cyp)/ry, (-x1-cxp)/rx, (-y1-cyp)/ry)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	// quarter turns at most per top-level piece keep the midpoint test honest
	n := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	if n < 1 {
		n = 1
	}
	step := delta / float64(n)
	tol2 := tol * tol
	pa := p0
	for i := 0; i < n; i++ {
		ta := theta1 + step*float64(i)
		tb := ta + step
		pb := a.at(tb)
		if i == n-1 {
			pb = p1
		}
		flattenArcSpan(a, ta, tb, pa, pb, tol2, 0, emit)
		pa = pb
	}
}

func flattenArcSpan(a arc, ta, tb float64, pa, pb Point, tol2 float64, depth int, emit func(Point)) {
	tm := (ta + tb) / 2
	pm := a.at(tm)
	if depth >= MaxFlattenDepth || sqDist(pm, lerp(pa, pb, 0.5)) <= tol2 {
		emit(pb)
		return
	}
	flattenArcSpan(a, ta, tm, pa, pm, tol2, depth+1, emit)
	flattenArcSpan(a, tm, tb, pm, pb, tol2, depth+1, emit)
}

func vectorAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}
