package svg

import (
	"math"
	"regexp"
	"strings"

	"camcore/internal/logging"
)

// Transform is a 2x3 affine matrix: [ A C E ; B D F ].
type Transform struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{A: 1, D: 1}
}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Transform {
	return Transform{A: 1, D: 1, E: tx, F: ty}
}

// Scale returns a scale by (sx, sy).
func Scale(sx, sy float64) Transform {
	return Transform{A: sx, D: sy}
}

// Rotate returns a rotation by deg degrees around the origin.
func Rotate(deg float64) Transform {
	s, c := math.Sincos(deg * math.Pi / 180)
	return Transform{A: c, B: s, C: -s, D: c}
}

// Mul returns t ∘ u (apply u, then t).
func (t Transform) Mul(u Transform) Transform {
	return Transform{
		A: t.A*u.A + t.C*u.B,
		B: t.B*u.A + t.D*u.B,
		C: t.A*u.C + t.C*u.D,
		D: t.B*u.C + t.D*u.D,
		E: t.A*u.E + t.C*u.F + t.E,
		F: t.B*u.E + t.D*u.F + t.F,
	}
}

// Apply maps p through t.
func (t Transform) Apply(p Point) Point {
	return Point{
		X: t.A*p.X + t.C*p.Y + t.E,
		Y: t.B*p.X + t.D*p.Y + t.F,
	}
}

// ScaleFactor is the geometric mean scale of t, used to carry a
// flattening tolerance from absolute space into local space.
func (t Transform) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(t.A*t.D - t.B*t.C))
}

var transformFuncRe = regexp.MustCompile(`([A-Za-z]+)\s*\(([^)]*)\)`)

// parseTransform parses an SVG transform list. Functions are composed left
// to right; unknown functions and bad argument counts are logged and
// contribute the identity.
func parseTransform(s string) Transform {
	t := Identity()
	s = strings.TrimSpace(s)
	if s == "" {
		return t
	}
	for _, m := range transformFuncRe.FindAllStringSubmatch(s, -1) {
		name := m[1]
		args := parseNumberList(m[2])
		var u Transform
		ok := true
		switch name {
		case "matrix":
			if len(args) == 6 {
				u = Transform{A: args[0], B: args[1], C: args[2], D: args[3], E: args[4], F: args[5]}
			} else {
				ok = false
			}
		case "translate":
			switch len(args) {
			case 1:
				u = Translate(args[0], 0)
			case 2:
				u = Translate(args[0], args[1])
			default:
				ok = false
			}
		case "scale":
			switch len(args) {
			case 1:
				u = Scale(args[0], args[0])
			case 2:
				u = Scale(args[0], args[1])
			default:
				ok = false
			}
		case "rotate":
			switch len(args) {
			case 1:
				u = Rotate(args[0])
			case 3:
				u = Translate(args[1], args[2]).Mul(Rotate(args[0])).Mul(Translate(-args[1], -args[2]))
			default:
				ok = false
			}
		case "skewX":
			if len(args) == 1 {
				u = Transform{A: 1, C: math.Tan(args[0] * math.Pi / 180), D: 1}
			} else {
				ok = false
			}
		case "skewY":
			if len(args) == 1 {
				u = Transform{A: 1, B: math.Tan(args[0] * math.Pi / 180), D: 1}
			} else {
				ok = false
			}
		default:
			logging.Logger().Warn("svg: unknown transform function", "function", name)
			continue
		}
		if !ok {
			logging.Logger().Warn("svg: bad transform arguments", "function", name, "args", m[2])
			continue
		}
		t = t.Mul(u)
	}
	return t
}
