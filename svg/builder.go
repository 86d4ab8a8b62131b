package svg

import "math"

// closeEpsilon is the distance under which the end of a path is taken to
// coincide with its start.
const closeEpsilon = 1e-9

// pathBuilder accumulates the paths of one shape. Drawing calls take local
// coordinates; every emitted point is baked through xf into absolute space.
type pathBuilder struct {
	xf    Transform
	tol   float64
	paths []Path

	pts   []Point
	pos   Point
	start Point
}

// newPathBuilder returns a builder whose flattening tolerance, given in
// absolute units, is carried into local space through the transform scale.
func newPathBuilder(xf Transform, tol float64) *pathBuilder {
	if s := xf.ScaleFactor(); s > 1e-12 {
		tol /= s
	}
	return &pathBuilder{xf: xf, tol: tol}
}

func (b *pathBuilder) emit(p Point) {
	b.pts = append(b.pts, b.xf.Apply(p))
	b.pos = p
}

// begin starts a subpath at the current point if none is open.
func (b *pathBuilder) begin() {
	if len(b.pts) == 0 {
		b.start = b.pos
		b.pts = append(b.pts, b.xf.Apply(b.pos))
	}
}

func (b *pathBuilder) moveTo(p Point) {
	b.commitPath(false)
	b.pos = p
	b.begin()
}

func (b *pathBuilder) lineTo(p Point) {
	b.begin()
	b.emit(p)
}

func (b *pathBuilder) cubicBezTo(c1, c2, p Point) {
	b.begin()
	FlattenCubic(b.pos, c1, c2, p, b.tol, b.emit)
	b.pos = p
}

func (b *pathBuilder) quadBezTo(c, p Point) {
	b.begin()
	FlattenQuadratic(b.pos, c, p, b.tol, b.emit)
	b.pos = p
}

func (b *pathBuilder) arcTo(rx, ry, phi float64, large, sweep bool, p Point) {
	b.begin()
	FlattenArc(b.pos, rx, ry, phi, large, sweep, p, b.tol, b.emit)
	b.pos = p
}

// closePath commits the open subpath as closed and returns the current point
// to its start.
func (b *pathBuilder) closePath() {
	open := len(b.pts) > 0
	b.commitPath(true)
	if open {
		b.pos = b.start
	}
}

// commitPath finishes the open subpath. A closed path gets a closing point
// when its ends differ; an open path whose ends coincide is promoted to
// closed. Either way the last point is made identical to the first. Paths
// of fewer than two points are dropped.
func (b *pathBuilder) commitPath(closed bool) {
	pts := b.pts
	b.pts = nil
	if len(pts) < 2 {
		return
	}
	first := pts[0]
	n := len(pts) - 1
	coincide := math.Hypot(pts[n].X-first.X, pts[n].Y-first.Y) <= closeEpsilon
	switch {
	case coincide:
		pts[n] = first
		closed = true
	case closed:
		pts = append(pts, first)
	}
	if len(pts) < 2 || (closed && len(pts) < 3) {
		return
	}
	b.paths = append(b.paths, Path{Points: pts, Closed: closed})
}
