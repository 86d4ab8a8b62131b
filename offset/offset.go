// Package offset grows and shrinks closed contours by a fixed distance.
//
// The band swept by a disc of radius d along the contour is built from one
// rectangle per edge and one polygonal disc per vertex, merged with polygon
// boolean operations. The outward offset (margin) is the contour united with
// that band; the inward offset (padding) is the contour minus the band.
package offset

import (
	"errors"
	"math"
	"sort"

	polyclip "github.com/ctessum/polyclip-go"

	"camcore/svg"
)

var (
	// ErrNegativeDistance is returned when Margin or Padding is asked for
	// a negative distance.
	ErrNegativeDistance = errors.New("offset: negative distance")

	// ErrDegenerate is returned for open contours and contours without
	// area.
	ErrDegenerate = errors.New("offset: open or degenerate contour")
)

// ArcTolerance is the maximum distance between a vertex disc and its
// polygonal approximation.
const ArcTolerance = 0.01

const (
	minDiscSegments = 8
	maxDiscSegments = 256
	areaEpsilon     = 1e-12
)

// Polygon is a set of closed rings. Outer boundaries run counter-clockwise
// (positive signed area) and holes clockwise; rings are ordered by
// decreasing absolute area.
type Polygon []svg.Path

// Area returns the net area of pg: outer rings minus holes.
func (pg Polygon) Area() float64 {
	a := 0.0
	for _, r := range pg {
		a += svg.SignedArea(r)
	}
	return a
}

// Normalize returns p as a single counter-clockwise closed ring with
// repeated points removed.
func Normalize(p svg.Path) (Polygon, error) {
	c, err := contour(p)
	if err != nil {
		return nil, err
	}
	return normalize(polyclip.Polygon{c}), nil
}

// Margin returns the region within distance d outside p, p included.
func Margin(p svg.Path, d float64) (Polygon, error) {
	return grow(p, d, polyclip.UNION)
}

// Padding returns the part of p farther than d from its boundary. The
// result is empty when p is too thin to survive the offset.
func Padding(p svg.Path, d float64) (Polygon, error) {
	return grow(p, d, polyclip.DIFFERENCE)
}

// OffsetContour offsets p outward for positive d and inward for negative d.
func OffsetContour(p svg.Path, d float64) (Polygon, error) {
	if d < 0 {
		return Padding(p, -d)
	}
	return Margin(p, d)
}

func grow(p svg.Path, d float64, op polyclip.Op) (Polygon, error) {
	if d < 0 {
		return nil, ErrNegativeDistance
	}
	c, err := contour(p)
	if err != nil {
		return nil, err
	}
	if d == 0 {
		return normalize(polyclip.Polygon{c}), nil
	}
	result := polyclip.Polygon{c}.Construct(op, band(c, d))
	return normalize(result), nil
}

// contour converts a closed path to a polyclip ring without the repeated
// closing point.
func contour(p svg.Path) (polyclip.Contour, error) {
	if !p.Closed {
		return nil, ErrDegenerate
	}
	c := make(polyclip.Contour, 0, len(p.Points))
	for _, pt := range p.Points {
		q := polyclip.Point{X: pt.X, Y: pt.Y}
		if n := len(c); n > 0 && c[n-1] == q {
			continue
		}
		c = append(c, q)
	}
	if n := len(c); n > 1 && c[0] == c[n-1] {
		c = c[:n-1]
	}
	if len(c) < 3 || math.Abs(contourArea(c)) < areaEpsilon {
		return nil, ErrDegenerate
	}
	return c, nil
}

func contourArea(c polyclip.Contour) float64 {
	a := 0.0
	for i := range c {
		j := (i + 1) % len(c)
		a += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return a / 2
}

// band returns the region swept by a disc of radius d along c.
func band(c polyclip.Contour, d float64) polyclip.Polygon {
	parts := make([]polyclip.Polygon, 0, 2*len(c))
	disc := discTemplate(d)
	for i, a := range c {
		b := c[(i+1)%len(c)]
		if r := edgeRect(a, b, d); r != nil {
			parts = append(parts, polyclip.Polygon{r})
		}
		v := make(polyclip.Contour, len(disc))
		for k, q := range disc {
			v[k] = polyclip.Point{X: a.X + q.X, Y: a.Y + q.Y}
		}
		parts = append(parts, polyclip.Polygon{v})
	}
	return unionAll(parts)
}

// edgeRect returns the rectangle of half-width d around segment ab. It is
// stretched a hair past both ends so that neighbouring rectangles overlap
// instead of sharing an edge.
func edgeRect(a, b polyclip.Point, d float64) polyclip.Contour {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return nil
	}
	ux, uy := dx/l, dy/l
	nx, ny := -uy*d, ux*d
	ex, ey := ux*d*1e-4, uy*d*1e-4
	return polyclip.Contour{
		{X: a.X - ex + nx, Y: a.Y - ey + ny},
		{X: a.X - ex - nx, Y: a.Y - ey - ny},
		{X: b.X + ex - nx, Y: b.Y + ey - ny},
		{X: b.X + ex + nx, Y: b.Y + ey + ny},
	}
}

// discTemplate returns a polygon approximating a disc of radius d centred
// at the origin, rotated half a step so no vertex sits on an axis.
func discTemplate(d float64) polyclip.Contour {
	n := minDiscSegments
	if ArcTolerance < d {
		step := 2 * math.Acos(1-ArcTolerance/d)
		n = int(math.Ceil(2 * math.Pi / step))
	}
	n = max(minDiscSegments, min(n, maxDiscSegments))
	out := make(polyclip.Contour, n)
	for k := range out {
		s, c := math.Sincos((float64(k) + 0.5) * 2 * math.Pi / float64(n))
		out[k] = polyclip.Point{X: d * c, Y: d * s}
	}
	return out
}

// unionAll merges polygons pairwise so each boolean operation works on
// inputs of similar size.
func unionAll(ps []polyclip.Polygon) polyclip.Polygon {
	switch len(ps) {
	case 0:
		return nil
	case 1:
		return ps[0]
	}
	mid := len(ps) / 2
	return unionAll(ps[:mid]).Construct(polyclip.UNION, unionAll(ps[mid:]))
}

// normalize converts boolean-operation output to closed rings with
// outer boundaries counter-clockwise and holes clockwise.
func normalize(pg polyclip.Polygon) Polygon {
	var rings []polyclip.Contour
	for _, c := range pg {
		if len(c) >= 3 && math.Abs(contourArea(c)) >= areaEpsilon {
			rings = append(rings, c)
		}
	}
	out := make(Polygon, 0, len(rings))
	for i, c := range rings {
		depth := 0
		for j, other := range rings {
			if j != i && inside(other, c[0]) {
				depth++
			}
		}
		ccw := contourArea(c) > 0
		hole := depth%2 == 1
		pts := make([]svg.Point, 0, len(c)+1)
		if ccw != hole {
			for _, q := range c {
				pts = append(pts, svg.Point{X: q.X, Y: q.Y})
			}
		} else {
			for k := len(c) - 1; k >= 0; k-- {
				pts = append(pts, svg.Point{X: c[k].X, Y: c[k].Y})
			}
		}
		pts = append(pts, pts[0])
		out = append(out, svg.Path{Points: pts, Closed: true})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(svg.SignedArea(out[i])) > math.Abs(svg.SignedArea(out[j]))
	})
	return out
}

func inside(c polyclip.Contour, pt polyclip.Point) bool {
	pts := make([]svg.Point, len(c))
	for i, q := range c {
		pts[i] = svg.Point{X: q.X, Y: q.Y}
	}
	return svg.Contains(svg.Path{Points: pts, Closed: true}, svg.Point{X: pt.X, Y: pt.Y})
}
