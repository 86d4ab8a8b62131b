package svg

import (
	"image/color"
	"math"
)

// SortShapes reorders the shapes greedily so that each one starts near
// where the previous one ended, beginning at the origin. A shape whose last
// point is nearer than its first is reversed.
func (d *Document) SortShapes() {
	remaining := make([]*Shape, 0, len(d.Shapes))
	for _, s := range d.Shapes {
		if len(s.Paths) > 0 {
			remaining = append(remaining, s)
		}
	}
	sorted := make([]*Shape, 0, len(d.Shapes))
	used := make([]bool, len(remaining))
	cursor := Point{}

	for range remaining {
		best := -1
		bestDist := math.Inf(1)
		reverse := false
		for i, s := range remaining {
			if used[i] {
				continue
			}
			first := s.Paths[0].Start()
			last := s.Paths[len(s.Paths)-1].End()
			if dist := cursor.DistanceFrom(first); dist < bestDist {
				best, bestDist, reverse = i, dist, false
			}
			if dist := cursor.DistanceFrom(last); dist < bestDist {
				best, bestDist, reverse = i, dist, true
			}
		}
		s := remaining[best]
		used[best] = true
		if reverse {
			reverseShape(s)
		}
		sorted = append(sorted, s)
		cursor = s.Paths[len(s.Paths)-1].Start()
	}

	// shapes without paths keep their relative order at the end
	for _, s := range d.Shapes {
		if len(s.Paths) == 0 {
			sorted = append(sorted, s)
		}
	}
	d.Shapes = sorted
}

func reverseShape(s *Shape) {
	n := len(s.Paths)
	paths := make([]Path, n)
	for i, p := range s.Paths {
		paths[n-1-i] = p.Reversed()
	}
	s.Paths = paths
}

// Flip mirrors every point about the centre of the document bounds.
func (d *Document) Flip(horizontal, vertical bool) {
	if !horizontal && !vertical {
		return
	}
	sx := d.Bounds.Min.X + d.Bounds.Max.X
	sy := d.Bounds.Min.Y + d.Bounds.Max.Y
	d.mapPoints(func(p Point) Point {
		if horizontal {
			p.X = sx - p.X
		}
		if vertical {
			p.Y = sy - p.Y
		}
		return p
	})
}

// Scale multiplies every coordinate by (sx, sy).
func (d *Document) Scale(sx, sy float64) {
	d.mapPoints(func(p Point) Point {
		return Point{X: p.X * sx, Y: p.Y * sy}
	})
	d.Width *= math.Abs(sx)
	d.Height *= math.Abs(sy)
}

// Translate moves every point by (dx, dy).
func (d *Document) Translate(dx, dy float64) {
	d.mapPoints(func(p Point) Point {
		return Point{X: p.X + dx, Y: p.Y + dy}
	})
}

// Clip translates the drawing so that its bounds start at the origin.
func (d *Document) Clip() {
	d.Translate(-d.Bounds.Min.X, -d.Bounds.Min.Y)
}

func (d *Document) mapPoints(f func(Point) Point) {
	for _, s := range d.Shapes {
		for i := range s.Paths {
			pts := s.Paths[i].Points
			for j := range pts {
				pts[j] = f(pts[j])
			}
		}
		s.updateBounds()
	}
	d.updateBounds()
}

// HideStroke marks every shape stroked in c as hidden, so construction
// lines drawn in a reserved color are left out of synthesis. It returns
// the number of shapes hidden.
func (d *Document) HideStroke(c color.RGBA) int {
	n := 0
	for _, s := range d.Shapes {
		if s.Visible && s.Stroke != nil && *s.Stroke == c {
			s.Visible = false
			n++
		}
	}
	if n > 0 {
		d.updateBounds()
	}
	return n
}

// Contains reports whether pt lies inside the closed path p under the
// even-odd rule.
func Contains(p Path, pt Point) bool {
	pts := p.Points
	n := len(pts)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) &&
			pt.X < (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// ContainmentCount returns how many closed paths other than paths[i]
// contain the first point of paths[i].
func ContainmentCount(paths []Path, i int) int {
	if len(paths[i].Points) == 0 {
		return 0
	}
	pt := paths[i].Start()
	n := 0
	for j, p := range paths {
		if j == i || !p.Closed {
			continue
		}
		if Contains(p, pt) {
			n++
		}
	}
	return n
}

// SignedArea returns the shoelace area of p: positive for counter-clockwise
// rings in a y-up frame.
func SignedArea(p Path) float64 {
	pts := p.Points
	area := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return area / 2
}
