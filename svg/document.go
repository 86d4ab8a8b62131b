package svg

import (
	"image/color"

	"github.com/jbeda/geom"
)

// Point is a coordinate pair in absolute (baked) document space.
type Point = geom.Coord

// Rect is an axis-aligned bounding box.
type Rect = geom.Rect

// Path is an ordered sequence of points. A closed path always has its
// first and last points equal.
type Path struct {
	Points []Point
	Closed bool
}

// Start returns the first point of p.
func (p Path) Start() Point { return p.Points[0] }

// End returns the last point of p.
func (p Path) End() Point { return p.Points[len(p.Points)-1] }

// Reversed returns a copy of p with its point order reversed.
func (p Path) Reversed() Path {
	pts := make([]Point, len(p.Points))
	for i, pt := range p.Points {
		pts[len(pts)-1-i] = pt
	}
	return Path{Points: pts, Closed: p.Closed}
}

// Shape is one drawable element with its flattened paths and resolved
// presentation attributes.
type Shape struct {
	Kind        ElementKind
	ID          string
	Paths       []Path
	Fill        *color.RGBA
	Stroke      *color.RGBA
	StrokeWidth float64
	Visible     bool
	Bounds      Rect
}

func (s *Shape) updateBounds() {
	first := true
	for _, p := range s.Paths {
		for _, pt := range p.Points {
			if first {
				s.Bounds = Rect{Min: pt, Max: pt}
				first = false
				continue
			}
			s.Bounds.ExpandToContainCoord(pt)
		}
	}
}

// Document is parsed artwork: shapes in document order plus the union of
// the visible shapes' bounds and the declared size.
type Document struct {
	Shapes []*Shape
	Bounds Rect
	Width  float64
	Height float64
}

func (d *Document) updateBounds() {
	first := true
	d.Bounds = Rect{}
	for _, s := range d.Shapes {
		if !s.Visible {
			continue
		}
		if first {
			d.Bounds = s.Bounds
			first = false
			continue
		}
		d.Bounds.ExpandToContainRect(s.Bounds)
	}
}

// VisibleShapes returns the shapes that take part in toolpath synthesis.
func (d *Document) VisibleShapes() []*Shape {
	var out []*Shape
	for _, s := range d.Shapes {
		if s.Visible {
			out = append(out, s)
		}
	}
	return out
}
