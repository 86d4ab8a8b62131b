package svg

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/beevik/etree"

	"camcore/internal/logging"
)

// DefaultTolerance is the flattening tolerance used when Options leaves it
// unset.
const DefaultTolerance = 0.1

// ErrNoRoot is returned when the input holds no root element.
var ErrNoRoot = errors.New("svg: document has no root element")

// Options control parsing.
type Options struct {
	// Tolerance is the maximum chord error of flattened curves, in
	// absolute document units.
	Tolerance float64

	// ClosePolylineWhenFilled closes polylines that carry a fill. By
	// default polylines stay open unless their ends coincide.
	ClosePolylineWhenFilled bool
}

func (o Options) tolerance() float64 {
	if o.Tolerance <= 0 {
		return DefaultTolerance
	}
	return o.Tolerance
}

// ElementKind is the closed set of element kinds the parser understands.
type ElementKind int

const (
	KindContainer ElementKind = iota
	KindCircle
	KindEllipse
	KindLine
	KindPath
	KindPolygon
	KindPolyline
	KindRect
)

var kindNames = [...]string{
	KindContainer: "container",
	KindCircle:    "circle",
	KindEllipse:   "ellipse",
	KindLine:      "line",
	KindPath:      "path",
	KindPolygon:   "polygon",
	KindPolyline:  "polyline",
	KindRect:      "rect",
}

func (k ElementKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("ElementKind(%d)", int(k))
	}
	return kindNames[k]
}

var elementKinds = map[string]ElementKind{
	"svg":      KindContainer,
	"g":        KindContainer,
	"defs":     KindContainer,
	"a":        KindContainer,
	"switch":   KindContainer,
	"circle":   KindCircle,
	"ellipse":  KindEllipse,
	"line":     KindLine,
	"path":     KindPath,
	"polygon":  KindPolygon,
	"polyline": KindPolyline,
	"rect":     KindRect,
}

// non-drawing elements skipped without a warning
var ignoredElements = map[string]bool{
	"title":          true,
	"desc":           true,
	"metadata":       true,
	"style":          true,
	"script":         true,
	"namedview":      true,
	"linearGradient": true,
	"radialGradient": true,
	"clipPath":       true,
	"mask":           true,
	"pattern":        true,
	"symbol":         true,
	"marker":         true,
	"filter":         true,
}

// build draws the element's geometry into b.
func (k ElementKind) build(a Attributes, b *pathBuilder, opts Options) {
	g := a.Geometry
	switch k {
	case KindCircle:
		if g.R > 0 {
			ellipsePath(b, g.Cx, g.Cy, g.R, g.R)
		}
	case KindEllipse:
		if g.Rx > 0 && g.Ry > 0 {
			ellipsePath(b, g.Cx, g.Cy, g.Rx, g.Ry)
		}
	case KindLine:
		b.moveTo(Point{X: g.X1, Y: g.Y1})
		b.lineTo(Point{X: g.X2, Y: g.Y2})
		b.commitPath(false)
	case KindPath:
		parsePathData(g.D, b)
	case KindPolygon, KindPolyline:
		pts := parsePointsList(g.Points)
		if len(pts) == 0 {
			return
		}
		b.moveTo(pts[0])
		for _, p := range pts[1:] {
			b.lineTo(p)
		}
		closed := k == KindPolygon || (opts.ClosePolylineWhenFilled && a.Fill != nil)
		b.commitPath(closed)
	case KindRect:
		rectPath(b, g)
	}
}

func ellipsePath(b *pathBuilder, cx, cy, rx, ry float64) {
	b.moveTo(Point{X: cx + rx, Y: cy})
	b.arcTo(rx, ry, 0, false, true, Point{X: cx - rx, Y: cy})
	b.arcTo(rx, ry, 0, false, true, Point{X: cx + rx, Y: cy})
	b.closePath()
}

func rectPath(b *pathBuilder, g Geometry) {
	x, y, w, h := g.X, g.Y, g.Width, g.Height
	if w <= 0 || h <= 0 {
		return
	}
	rx, ry := g.Rx, g.Ry
	switch {
	case g.HasRx && !g.HasRy:
		ry = rx
	case g.HasRy && !g.HasRx:
		rx = ry
	}
	rx = math.Min(math.Max(rx, 0), w/2)
	ry = math.Min(math.Max(ry, 0), h/2)

	if rx == 0 || ry == 0 {
		b.moveTo(Point{X: x, Y: y})
		b.lineTo(Point{X: x + w, Y: y})
		b.lineTo(Point{X: x + w, Y: y + h})
		b.lineTo(Point{X: x, Y: y + h})
		b.closePath()
		return
	}
	b.moveTo(Point{X: x + rx, Y: y})
	b.lineTo(Point{X: x + w - rx, Y: y})
	b.arcTo(rx, ry, 0, false, true, Point{X: x + w, Y: y + ry})
	b.lineTo(Point{X: x + w, Y: y + h - ry})
	b.arcTo(rx, ry, 0, false, true, Point{X: x + w - rx, Y: y + h})
	b.lineTo(Point{X: x + rx, Y: y + h})
	b.arcTo(rx, ry, 0, false, true, Point{X: x, Y: y + h - ry})
	b.lineTo(Point{X: x, Y: y + ry})
	b.arcTo(rx, ry, 0, false, true, Point{X: x + rx, Y: y})
	b.closePath()
}

type parser struct {
	opts Options
	doc  *Document
	root bool
}

// Parse walks the element tree under root and returns the assembled
// document. Malformed input is logged and skipped; Parse never fails.
func Parse(root *etree.Element, opts Options) *Document {
	p := &parser{opts: opts, doc: &Document{}, root: true}
	if root != nil {
		p.walk(root, DefaultAttributes(), false)
	}
	p.doc.updateBounds()
	return p.doc
}

// ParseReader reads an SVG document from r.
func ParseReader(r io.Reader, opts Options) (*Document, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("svg: read document: %w", err)
	}
	if doc.Root() == nil {
		return nil, ErrNoRoot
	}
	return Parse(doc.Root(), opts), nil
}

// ParseString parses an SVG document held in s.
func ParseString(s string, opts Options) (*Document, error) {
	return ParseReader(strings.NewReader(s), opts)
}

func (p *parser) walk(el *etree.Element, inherited Attributes, hidden bool) {
	if el.Space != "" && el.Space != "svg" {
		// foreign namespaces (sodipodi, inkscape, ...)
		return
	}
	kind, ok := elementKinds[el.Tag]
	if !ok {
		if !ignoredElements[el.Tag] {
			logging.Logger().Warn("svg: unknown element skipped", "element", el.Tag)
		}
		return
	}

	a := resolve(el, inherited)
	if kind == KindContainer {
		if el.Tag == "svg" {
			a.Transform = a.Transform.Mul(p.viewport(a.Geometry, el))
		}
		hideChildren := hidden || el.Tag == "defs"
		for _, child := range el.ChildElements() {
			p.walk(child, a, hideChildren)
		}
		return
	}

	b := newPathBuilder(a.Transform, p.opts.tolerance())
	kind.build(a, b, p.opts)
	if len(b.paths) == 0 {
		return
	}
	s := &Shape{
		Kind:        kind,
		ID:          a.ID,
		Paths:       b.paths,
		Fill:        a.Fill,
		Stroke:      a.Stroke,
		StrokeWidth: a.StrokeWidth * a.Transform.ScaleFactor(),
		Visible:     a.Visible() && !hidden,
	}
	s.updateBounds()
	p.doc.Shapes = append(p.doc.Shapes, s)
}

// viewport returns the transform from an svg element's viewBox into its
// parent's coordinates, and records the document size for the outermost
// element.
func (p *parser) viewport(g Geometry, el *etree.Element) Transform {
	outer := p.root
	p.root = false

	w, h := g.Width, g.Height
	vb := parseNumberList(el.SelectAttrValue("viewBox", ""))
	hasVB := len(vb) == 4 && vb[2] > 0 && vb[3] > 0
	if hasVB {
		if w <= 0 {
			w = vb[2]
		}
		if h <= 0 {
			h = vb[3]
		}
	}
	if outer {
		p.doc.Width, p.doc.Height = w, h
	}

	t := Identity()
	if !outer {
		t = Translate(g.X, g.Y)
	}
	if !hasVB {
		return t
	}

	sx, sy := w/vb[2], h/vb[3]
	var tx, ty float64
	par := strings.Fields(el.SelectAttrValue("preserveAspectRatio", ""))
	if len(par) == 0 || par[0] != "none" {
		// xMidYMid meet
		s := math.Min(sx, sy)
		tx = (w - vb[2]*s) / 2
		ty = (h - vb[3]*s) / 2
		sx, sy = s, s
	}
	return t.Mul(Translate(tx, ty)).Mul(Scale(sx, sy)).Mul(Translate(-vb[0], -vb[1]))
}
