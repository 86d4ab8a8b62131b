package svg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

func segmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

func polylineDistance(p Point, pts []Point) float64 {
	best := math.Inf(1)
	for i := 1; i < len(pts); i++ {
		best = math.Min(best, segmentDistance(p, pts[i-1], pts[i]))
	}
	return best
}

func TestFlattenCubicFidelity(t *testing.T) {
	tests := []struct {
		name           string
		p0, p1, p2, p3 Point
		tol            float64
	}{
		{"s-curve", Point{X: 0, Y: 0}, Point{X: 30, Y: 80}, Point{X: 70, Y: -80}, Point{X: 100, Y: 0}, 0.5},
		{"arch", Point{X: 0, Y: 0}, Point{X: 0, Y: 100}, Point{X: 100, Y: 100}, Point{X: 100, Y: 0}, 0.1},
		{"tight", Point{X: 0, Y: 0}, Point{X: 5, Y: 5}, Point{X: 10, Y: -5}, Point{X: 15, Y: 0}, 0.01},
		{"straight", Point{X: 0, Y: 0}, Point{X: 10, Y: 0}, Point{X: 20, Y: 0}, Point{X: 30, Y: 0}, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := []Point{tt.p0}
			FlattenCubic(tt.p0, tt.p1, tt.p2, tt.p3, tt.tol, func(p Point) {
				pts = append(pts, p)
			})
			require.GreaterOrEqual(t, len(pts), 2)
			assert.LessOrEqual(t, len(pts)-1, 1<<MaxFlattenDepth)
			assert.Equal(t, tt.p3, pts[len(pts)-1], "last point is the curve end point")

			for i := 0; i <= 1000; i++ {
				c := cubicAt(tt.p0, tt.p1, tt.p2, tt.p3, float64(i)/1000)
				assert.LessOrEqual(t, polylineDistance(c, pts), tt.tol+1e-9)
			}
		})
	}
}

func TestFlattenCubicDegenerate(t *testing.T) {
	p := Point{X: 3, Y: 4}
	var n int
	FlattenCubic(p, p, p, p, 0.1, func(Point) { n++ })
	assert.Equal(t, 1, n)
}

func TestFlattenCubicClosedLoop(t *testing.T) {
	p0 := Point{X: 0, Y: 0}
	var pts []Point
	FlattenCubic(p0, Point{X: 100, Y: 100}, Point{X: -100, Y: 100}, p0, 0.5, func(p Point) {
		pts = append(pts, p)
	})
	require.Greater(t, len(pts), 4, "a loop with coincident ends is still subdivided")
	assert.Equal(t, p0, pts[len(pts)-1])
}

func TestFlattenQuadraticEndsAtEndPoint(t *testing.T) {
	p0, c, p2 := Point{X: 0, Y: 0}, Point{X: 50, Y: 100}, Point{X: 100, Y: 0}
	var pts []Point
	FlattenQuadratic(p0, c, p2, 0.1, func(p Point) { pts = append(pts, p) })
	require.NotEmpty(t, pts)
	assert.Equal(t, p2, pts[len(pts)-1])
	// the apex of this quadratic is at (50, 50)
	apex := Point{X: 50, Y: 50}
	assert.LessOrEqual(t, polylineDistance(apex, append([]Point{p0}, pts...)), 0.1+1e-9)
}

func TestFlattenArc(t *testing.T) {
	tests := []struct {
		name         string
		p0, p1       Point
		r            float64
		large, sweep bool
		center       Point
	}{
		{"quarter", Point{X: 10, Y: 0}, Point{X: 0, Y: 10}, 10, false, true, Point{X: 0, Y: 0}},
		{"half", Point{X: 10, Y: 0}, Point{X: -10, Y: 0}, 10, false, true, Point{X: 0, Y: 0}},
		{"large three quarters", Point{X: 10, Y: 0}, Point{X: 0, Y: -10}, 10, true, true, Point{X: 0, Y: 0}},
		{"radius too small", Point{X: 0, Y: 0}, Point{X: 20, Y: 0}, 1, false, true, Point{X: 10, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pts []Point
			FlattenArc(tt.p0, tt.r, tt.r, 0, tt.large, tt.sweep, tt.p1, 0.05, func(p Point) {
				pts = append(pts, p)
			})
			require.NotEmpty(t, pts)
			assert.Equal(t, tt.p1, pts[len(pts)-1])

			radius := math.Hypot(tt.p0.X-tt.center.X, tt.p0.Y-tt.center.Y)
			for _, p := range pts {
				assert.InDelta(t, radius, math.Hypot(p.X-tt.center.X, p.Y-tt.center.Y), 1e-6)
			}
			all := append([]Point{tt.p0}, pts...)
			for i := 1; i < len(all); i++ {
				mid := lerp(all[i-1], all[i], 0.5)
				sag := radius - math.Hypot(mid.X-tt.center.X, mid.Y-tt.center.Y)
				assert.LessOrEqual(t, sag, 0.05+1e-9)
			}
		})
	}
}

func TestFlattenArcDegenerate(t *testing.T) {
	var pts []Point
	emit := func(p Point) { pts = append(pts, p) }

	FlattenArc(Point{X: 1, Y: 1}, 5, 5, 0, false, true, Point{X: 1, Y: 1}, 0.1, emit)
	assert.Empty(t, pts, "coincident end points draw nothing")

	FlattenArc(Point{X: 0, Y: 0}, 0, 5, 0, false, true, Point{X: 4, Y: 3}, 0.1, emit)
	assert.Equal(t, []Point{{X: 4, Y: 3}}, pts, "zero radius degrades to a line")
}
