package cnc

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"camcore/gcode"
)

// DefaultPixelSize is the pixel pitch used when ReliefOptions leaves it
// unset.
const DefaultPixelSize = 0.1

// ErrEmptyHeightmap is returned for a height map without pixels or whose
// pixel buffer does not match its size.
var ErrEmptyHeightmap = errors.New("cnc: empty or inconsistent height map")

// Heightmap is a greyscale intensity grid, row-major with row 0 at the
// top. Dark pixels are deep unless ReliefOptions.Invert is set.
type Heightmap struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewHeightmap returns a white (zero depth) map of the given size.
func NewHeightmap(w, h int) *Heightmap {
	pix := make([]uint8, w*h)
	for i := range pix {
		pix[i] = 0xff
	}
	return &Heightmap{Width: w, Height: h, Pix: pix}
}

func (h *Heightmap) valid() bool {
	return h != nil && h.Width > 0 && h.Height > 0 && len(h.Pix) == h.Width*h.Height
}

// At returns the intensity at column x, row y.
func (h *Heightmap) At(x, y int) uint8 { return h.Pix[y*h.Width+x] }

// Set stores the intensity at column x, row y.
func (h *Heightmap) Set(x, y int, v uint8) { h.Pix[y*h.Width+x] = v }

// ReliefOptions parameterize relief synthesis.
type ReliefOptions struct {
	Type string `json:"type" yaml:"type"`
	// ConeHalfAngle is half the included angle of the cutter, in degrees.
	// Values outside (0, 90) disable cone correction.
	ConeHalfAngle float64 `json:"coneHalfAngle" yaml:"coneHalfAngle"`
	TargetDepth   float64 `json:"targetDepth" yaml:"targetDepth"`
	StepDown      float64 `json:"stepDown" yaml:"stepDown"`
	SafetyHeight  float64 `json:"safetyHeight" yaml:"safetyHeight"`
	StopHeight    float64 `json:"stopHeight" yaml:"stopHeight"`
	JogSpeed      float64 `json:"jogSpeed" yaml:"jogSpeed"`
	WorkSpeed     float64 `json:"workSpeed" yaml:"workSpeed"`
	PlungeSpeed   float64 `json:"plungeSpeed" yaml:"plungeSpeed"`
	Invert        bool    `json:"invert" yaml:"invert"`
	// PixelSize is the distance between neighbouring pixels.
	PixelSize   float64           `json:"pixelSize" yaml:"pixelSize"`
	Translation gcode.Translation `json:"translation" yaml:"translation"`
}

func (o ReliefOptions) pixelSize() float64 {
	if o.PixelSize > 0 {
		return o.PixelSize
	}
	return DefaultPixelSize
}

// depths converts intensities to depth values on the 0..255 scale, larger
// meaning deeper.
func depths(hm *Heightmap, invert bool) []float64 {
	d := make([]float64, len(hm.Pix))
	for i, v := range hm.Pix {
		if invert {
			d[i] = float64(v)
		} else {
			d[i] = float64(255 - v)
		}
	}
	return d
}

// Relax deepens every cell of the w×h depth grid (0..255 scale, larger is
// deeper) to at least the depth the cone of the tool reaches there while
// cutting a 4-neighbour: the neighbour's depth less pixelSize/slope, in
// grid units for a target depth of targetDepth. Cells only ever deepen and
// the scan repeats, alternating direction, until nothing changes. It
// returns the number of scans made.
func Relax(d []float64, w, h int, pixelSize, slope, targetDepth float64) int {
	if slope <= 0 || math.IsInf(slope, 0) || targetDepth == 0 || w*h == 0 {
		return 0
	}
	drop := pixelSize / slope * 255 / math.Abs(targetDepth)
	raise := func(i, n int) bool {
		if b := d[n] - drop; b > d[i] {
			d[i] = b
			return true
		}
		return false
	}
	visit := func(x, y int) bool {
		i := y*w + x
		changed := false
		if x > 0 && raise(i, i-1) {
			changed = true
		}
		if x < w-1 && raise(i, i+1) {
			changed = true
		}
		if y > 0 && raise(i, i-w) {
			changed = true
		}
		if y < h-1 && raise(i, i+w) {
			changed = true
		}
		return changed
	}

	scans := 0
	for {
		scans++
		changed := false
		if scans%2 == 1 {
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					if visit(x, y) {
						changed = true
					}
				}
			}
		} else {
			for y := h - 1; y >= 0; y-- {
				for x := w - 1; x >= 0; x-- {
					if visit(x, y) {
						changed = true
					}
				}
			}
		}
		if !changed {
			return scans
		}
	}
}

// ReliefToolPath mills hm column by column. For each pass the cutter
// follows the relaxed surface, clamped to the pass floor, zig-zagging
// along the rows. Cells already cut to their depth by an earlier pass are
// crossed at the safety height: the cutter retracts, rapids to the next
// cell that still needs cutting and plunges there. Runs of equal depth
// along a column are merged into one move.
func ReliefToolPath(hm *Heightmap, opts ReliefOptions) (*gcode.ToolPath, error) {
	if !hm.valid() {
		return nil, ErrEmptyHeightmap
	}
	w, h := hm.Width, hm.Height
	target := math.Abs(opts.TargetDepth)
	px := opts.pixelSize()

	d := depths(hm, opts.Invert)
	if opts.ConeHalfAngle > 0 && opts.ConeHalfAngle < 90 {
		Relax(d, w, h, px, math.Tan(opts.ConeHalfAngle*math.Pi/180), target)
	}
	z := make([]float64, len(d))
	for i, v := range d {
		z[i] = -v / 255 * target
	}

	plunge := opts.PlungeSpeed
	if plunge <= 0 {
		plunge = opts.WorkSpeed
	}
	tp := gcode.NewToolPath(opts.JogSpeed, opts.WorkSpeed, plunge)
	tp.Comment(fmt.Sprintf("relief %dx%d px, pixel %s, depth %s",
		w, h, gcode.FormatNumber(px), gcode.FormatNumber(target)))
	tp.SpindleOn()

	col := make([]colPoint, 0, h)
	top := 0.0
	raised := false
	for _, floor := range PassDepths(target, opts.StepDown) {
		down := true
		for x := 0; x < w; x++ {
			col = col[:0]
			for y := 0; y < h; y++ {
				tz := z[y*w+x]
				col = append(col, colPoint{y: float64(h-1-y) * px, z: math.Max(tz, floor), cut: tz < top})
			}
			runs := cutRuns(col, down)
			if len(runs) == 0 {
				continue
			}
			down = !down
			for _, run := range runs {
				if !raised {
					tp.RapidTo(gcode.Z(opts.SafetyHeight))
				}
				millRun(tp, float64(x)*px, mergeRuns(run))
				tp.RapidTo(gcode.Z(opts.SafetyHeight))
				raised = true
			}
		}
		top = floor
	}

	tp.RapidTo(gcode.Z(opts.StopHeight))
	tp.RapidTo(gcode.X(0), gcode.Y(0))
	tp.SpindleOff()
	return tp, nil
}

// Relief renders the relief tool path for hm as G-code text.
func Relief(hm *Heightmap, opts ReliefOptions) (string, error) {
	tp, err := ReliefToolPath(hm, opts)
	if err != nil {
		return "", err
	}
	return gcode.Write(tp), nil
}

type colPoint struct {
	y, z float64
	cut  bool
}

// cutRuns splits col into the runs of consecutive cells still to be cut,
// in milling order: top to bottom when down is set, else bottom to top.
func cutRuns(col []colPoint, down bool) [][]colPoint {
	var runs [][]colPoint
	start := -1
	for i := 0; i <= len(col); i++ {
		if i < len(col) && col[i].cut {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, slices.Clone(col[start:i]))
			start = -1
		}
	}
	if !down {
		slices.Reverse(runs)
		for _, r := range runs {
			slices.Reverse(r)
		}
	}
	return runs
}

// mergeRuns keeps only the ends of every run of equal depth.
func mergeRuns(col []colPoint) []colPoint {
	out := col[:0:0]
	for i, p := range col {
		if i == 0 || i == len(col)-1 || p.z != col[i-1].z || p.z != col[i+1].z {
			out = append(out, p)
		}
	}
	return out
}

// millRun rapids over the first cell of run, plunges and follows the rest.
// The cutter must be at the safety height.
func millRun(tp *gcode.ToolPath, x float64, run []colPoint) {
	tp.RapidTo(gcode.X(x), gcode.Y(run[0].y))
	tp.Plunge(run[0].z)
	for _, p := range run[1:] {
		tp.MoveTo(gcode.Y(p.y), gcode.Z(p.z))
	}
}
