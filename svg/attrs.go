package svg

import (
	"image/color"
	"strings"

	"github.com/beevik/etree"
)

// Geometry holds the element-specific geometric attributes. They are never
// inherited.
type Geometry struct {
	X, Y, Width, Height float64
	Rx, Ry              float64
	HasRx, HasRy        bool
	Cx, Cy, R           float64
	X1, Y1, X2, Y2      float64
	D                   string
	Points              string
}

// Attributes is the resolved attribute state of one element. It is a value
// type: resolving a child copies the parent's value, so nothing is shared
// between elements.
type Attributes struct {
	ID          string
	Fill        *color.RGBA
	Stroke      *color.RGBA
	Color       *color.RGBA
	StrokeWidth float64
	Visibility  bool
	DisplayNone bool
	Transform   Transform
	Geometry    Geometry
}

// DefaultAttributes returns the initial state at the document root.
func DefaultAttributes() Attributes {
	b := black
	return Attributes{
		Fill:        &b,
		StrokeWidth: 1,
		Visibility:  true,
		Transform:   Identity(),
	}
}

// Visible reports whether an element with these attributes is rendered.
func (a Attributes) Visible() bool {
	return a.Visibility && !a.DisplayNone
}

// inherit returns the part of a that containers pass to their children:
// paint, stroke width, visibility and transform.
func (a Attributes) inherit() Attributes {
	return Attributes{
		Fill:        copyColor(a.Fill),
		Stroke:      copyColor(a.Stroke),
		Color:       copyColor(a.Color),
		StrokeWidth: a.StrokeWidth,
		Visibility:  a.Visibility,
		DisplayNone: a.DisplayNone,
		Transform:   a.Transform,
	}
}

func copyColor(c *color.RGBA) *color.RGBA {
	if c == nil {
		return nil
	}
	cc := *c
	return &cc
}

// resolve computes the attributes of el from the inherited state. The
// element's own transform is composed onto the inherited one. Style
// declarations are applied after plain attributes and take precedence.
func resolve(el *etree.Element, inherited Attributes) Attributes {
	a := inherited.inherit()

	// currentColor references need the element's color first
	if v := el.SelectAttrValue("color", ""); v != "" {
		a.set("color", v)
	}
	var style string
	for _, attr := range el.Attr {
		if attr.Space != "" {
			continue
		}
		switch attr.Key {
		case "style":
			style = attr.Value
		case "color":
		default:
			a.set(attr.Key, attr.Value)
		}
	}
	if style != "" {
		a.applyStyle(style)
	}
	return a
}

func (a *Attributes) applyStyle(style string) {
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k == "" || k == "style" {
			continue
		}
		a.set(k, v)
	}
}

func (a *Attributes) set(key, value string) {
	value = strings.TrimSpace(value)
	if value == "inherit" {
		return
	}
	g := &a.Geometry
	switch key {
	case "id":
		a.ID = value
	case "fill":
		a.Fill = resolvePaint(key, value, a.Color)
	case "stroke":
		a.Stroke = resolvePaint(key, value, a.Color)
	case "color":
		if c := resolveColor(key, value, a.Color); c != nil {
			a.Color = c
		}
	case "stroke-width":
		if v, ok := parseLength(value); ok {
			a.StrokeWidth = v
		}
	case "visibility":
		switch value {
		case "hidden", "collapse":
			a.Visibility = false
		case "visible":
			a.Visibility = true
		}
	case "display":
		if value == "none" {
			a.DisplayNone = true
		}
	case "transform":
		a.Transform = a.Transform.Mul(parseTransform(value))
	case "d":
		g.D = value
	case "points":
		g.Points = value
	case "x":
		setLength(&g.X, nil, value)
	case "y":
		setLength(&g.Y, nil, value)
	case "width":
		setLength(&g.Width, nil, value)
	case "height":
		setLength(&g.Height, nil, value)
	case "rx":
		setLength(&g.Rx, &g.HasRx, value)
	case "ry":
		setLength(&g.Ry, &g.HasRy, value)
	case "cx":
		setLength(&g.Cx, nil, value)
	case "cy":
		setLength(&g.Cy, nil, value)
	case "r":
		setLength(&g.R, nil, value)
	case "x1":
		setLength(&g.X1, nil, value)
	case "y1":
		setLength(&g.Y1, nil, value)
	case "x2":
		setLength(&g.X2, nil, value)
	case "y2":
		setLength(&g.Y2, nil, value)
	}
}

func setLength(dst *float64, has *bool, value string) {
	v, ok := parseLength(value)
	if !ok {
		return
	}
	*dst = v
	if has != nil {
		*has = true
	}
}
