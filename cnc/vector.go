package cnc

import (
	"errors"
	"fmt"
	"math"

	"camcore/gcode"
	"camcore/internal/logging"
	"camcore/offset"
	"camcore/svg"
)

// Mode selects how contours are derived from paths.
type Mode string

const (
	// ModePath follows the drawn paths.
	ModePath Mode = "path"
	// ModeOutline follows closed paths offset by the tool radius: outward
	// for outer contours, inward for nested ones.
	ModeOutline Mode = "outline"
)

// Tabs configures bridges left uncut along profile cuts.
type Tabs struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// Height is the tab thickness above the target depth.
	Height float64 `json:"height" yaml:"height"`
	// Space is the cut length between tabs.
	Space float64 `json:"space" yaml:"space"`
	// Width is the length of each tab.
	Width float64 `json:"width" yaml:"width"`
}

// VectorOptions parameterize vector synthesis. Lengths are in document
// units, feed rates in units per minute and angles in degrees.
type VectorOptions struct {
	Type         string  `json:"type" yaml:"type"`
	Mode         Mode    `json:"mode" yaml:"mode"`
	ToolDiameter float64 `json:"toolDiameter" yaml:"toolDiameter"`
	// ToolAngle is the included angle of a V cutter; 0 or 180 and above
	// mean a flat end mill.
	ToolAngle    float64 `json:"toolAngle" yaml:"toolAngle"`
	TargetDepth  float64 `json:"targetDepth" yaml:"targetDepth"`
	StepDown     float64 `json:"stepDown" yaml:"stepDown"`
	JogSpeed     float64 `json:"jogSpeed" yaml:"jogSpeed"`
	WorkSpeed    float64 `json:"workSpeed" yaml:"workSpeed"`
	PlungeSpeed  float64 `json:"plungeSpeed" yaml:"plungeSpeed"`
	SafetyHeight float64 `json:"safetyHeight" yaml:"safetyHeight"`
	StopHeight   float64 `json:"stopHeight" yaml:"stopHeight"`
	Tabs         Tabs    `json:"tabs" yaml:"tabs"`
	// Translation is passed through to the structured program object.
	Translation gcode.Translation `json:"translation" yaml:"translation"`
}

// OutlineOffset is the contour offset used in outline mode: the radius of
// the cutter at the target depth, capped at half the tool diameter.
func (o VectorOptions) OutlineOffset() float64 {
	r := o.ToolDiameter / 2
	if o.ToolAngle > 0 && o.ToolAngle < 180 {
		r = math.Min(math.Abs(o.TargetDepth)*math.Tan(o.ToolAngle*math.Pi/360), r)
	}
	return math.Max(r, 0)
}

func (o VectorOptions) plungeRate() float64 {
	if o.PlungeSpeed > 0 {
		return o.PlungeSpeed
	}
	return o.WorkSpeed
}

// Vector builds the tool path for the visible shapes of doc. For every
// pass each contour is entered from the safety height, plunged to the pass
// depth and followed; the program ends at the stop height over the origin.
// Empty and degenerate paths are skipped.
func Vector(doc *svg.Document, opts VectorOptions) *gcode.ToolPath {
	if opts.Mode == "" {
		opts.Mode = ModePath
	}
	tp := gcode.NewToolPath(opts.JogSpeed, opts.WorkSpeed, opts.plungeRate())
	tp.Comment(fmt.Sprintf("vector %s, depth %s, step %s",
		opts.Mode, gcode.FormatNumber(opts.TargetDepth), gcode.FormatNumber(opts.StepDown)))
	tp.SpindleOn()

	contours := vectorContours(doc, opts)
	tabZ := -math.Abs(opts.TargetDepth) + opts.Tabs.Height
	useTabs := opts.Tabs.Enabled && opts.Tabs.Width > 0 && opts.Tabs.Space > 0

	for _, z := range PassDepths(opts.TargetDepth, opts.StepDown) {
		for _, c := range contours {
			tp.RapidTo(gcode.Z(opts.SafetyHeight))
			tp.RapidTo(gcode.X(c[0].X), gcode.Y(c[0].Y))
			tp.Plunge(z)
			if useTabs && z < tabZ {
				cutWithTabs(tp, c, z, tabZ, opts.Tabs)
			} else {
				for _, p := range c[1:] {
					tp.MoveTo(gcode.X(p.X), gcode.Y(p.Y))
				}
			}
			tp.RapidTo(gcode.Z(opts.SafetyHeight))
		}
	}

	tp.RapidTo(gcode.Z(opts.StopHeight))
	tp.RapidTo(gcode.X(0), gcode.Y(0))
	tp.SpindleOff()
	return tp
}

// vectorContours returns the point sequences to follow, in shape order.
func vectorContours(doc *svg.Document, opts VectorOptions) [][]svg.Point {
	if doc == nil {
		return nil
	}
	var paths []svg.Path
	for _, s := range doc.VisibleShapes() {
		paths = append(paths, s.Paths...)
	}

	r := opts.OutlineOffset()
	var out [][]svg.Point
	for i, p := range paths {
		if len(p.Points) < 2 {
			continue
		}
		if opts.Mode != ModeOutline || !p.Closed {
			out = append(out, p.Points)
			continue
		}
		d := r
		if svg.ContainmentCount(paths, i)%2 == 1 {
			d = -r
		}
		rings, err := offset.OffsetContour(p, d)
		if err != nil {
			if !errors.Is(err, offset.ErrDegenerate) {
				logging.Logger().Warn("cnc: outline offset failed", "error", err)
			}
			continue
		}
		for _, ring := range rings {
			out = append(out, ring.Points)
		}
	}
	return out
}
