package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"camcore"
	"camcore/cnc"
	"camcore/gcode"
	"camcore/internal/config"
	"camcore/internal/raster"
	"camcore/svg"
)

type settings struct {
	in, out      string
	mode         string
	asJSON       bool
	sort         bool
	flip         bool
	clip         bool
	scale        float64
	construction string
	width        int
	tolerance    float64
	vector       cnc.VectorOptions
	relief       cnc.ReliefOptions
}

func main() {
	def := config.DefaultProfile()

	inPath := flag.String("in", "", "input SVG (vector) or image (relief) file")
	outPath := flag.String("out", "", "output file (default: stdout)")
	mode := flag.String("mode", "vector", "synthesis: vector or relief")
	profilePath := flag.String("profile", "", "YAML machine profile seeding the defaults below")
	asJSON := flag.Bool("json", false, "write the structured program object instead of G-code text")
	verbose := flag.Bool("v", false, "log parser diagnostics to stderr")

	machine := flag.String("type", "cnc", "machine type: cnc, laser or 3dp")
	safeZ := flag.Float64("safez", def.Vector.SafetyHeight, "safe Z height (mm)")
	stopZ := flag.Float64("stopz", def.Vector.StopHeight, "Z height at program end (mm)")
	cutZ := flag.Float64("cutz", -def.Vector.TargetDepth, "target cut depth (mm); the sign is ignored")
	stepDown := flag.Float64("stepdown", def.Vector.StepDown, "step-down per pass (mm, positive). If 0, do it in a single pass")
	jog := flag.Float64("jog", def.Vector.JogSpeed, "rapid feed rate (mm/min)")
	feed := flag.Float64("feed", def.Vector.WorkSpeed, "XY cutting feed rate (mm/min)")
	plunge := flag.Float64("plunge", def.Vector.PlungeSpeed, "Z plunge feed rate (mm/min)")

	cut := flag.String("cut", "path", "vector: path follows the drawing, outline offsets closed shapes by the tool radius")
	toolDia := flag.Float64("tooldia", def.Vector.ToolDiameter, "vector: tool diameter in mm")
	toolAngle := flag.Float64("toolangle", 0.0, "vector: included angle of a V bit in degrees, 0 for a flat end mill")
	tabs := flag.Bool("tabs", false, "vector: leave tabs along the cut")
	tabHeight := flag.Float64("tabheight", 1.0, "vector: tab thickness above the cut depth (mm)")
	tabSpace := flag.Float64("tabspace", 50.0, "vector: cut length between tabs (mm)")
	tabWidth := flag.Float64("tabwidth", 5.0, "vector: tab length (mm)")
	tolerance := flag.Float64("tol", svg.DefaultTolerance, "vector: curve flattening tolerance")
	sortShapes := flag.Bool("sort", false, "vector: reorder shapes to shorten travel")
	flip := flag.Bool("flip", true, "vector: mirror Y so the drawing reads upright on the machine")
	clip := flag.Bool("clip", false, "vector: move the drawing so its bounds start at the origin")
	scale := flag.Float64("scale", 1.0, "vector: coordinate scale factor (SVG units → mm)")
	construction := flag.String("construction", "#0000ff",
		"vector: stroke color (e.g. #0000ff) of construction geometry to ignore; empty or 'none' to disable")

	cone := flag.Float64("cone", def.Relief.ConeHalfAngle, "relief: cone half-angle of the tool in degrees, 0 to disable")
	pixel := flag.Float64("pixel", cnc.DefaultPixelSize, "relief: pixel size (mm)")
	width := flag.Int("width", 0, "relief: resample the image to this many pixels across")
	invert := flag.Bool("invert", false, "relief: cut light areas deep instead of dark ones")

	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "error: -in file is required")
		os.Exit(1)
	}
	if *verbose {
		camcore.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	profile, err := config.LoadProfile(*profilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	s := settings{
		in:           *inPath,
		out:          *outPath,
		mode:         strings.ToLower(*mode),
		asJSON:       *asJSON,
		sort:         *sortShapes,
		flip:         *flip,
		clip:         *clip,
		scale:        *scale,
		construction: *construction,
		width:        *width,
		tolerance:    profile.Tolerance,
		vector:       profile.Vector,
		relief:       profile.Relief,
	}
	v, r := &s.vector, &s.relief

	// Flags given on the command line override the profile.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "type":
			v.Type, r.Type = *machine, *machine
		case "safez":
			v.SafetyHeight, r.SafetyHeight = *safeZ, *safeZ
		case "stopz":
			v.StopHeight, r.StopHeight = *stopZ, *stopZ
		case "cutz":
			v.TargetDepth, r.TargetDepth = math.Abs(*cutZ), math.Abs(*cutZ)
		case "stepdown":
			v.StepDown, r.StepDown = *stepDown, *stepDown
		case "jog":
			v.JogSpeed, r.JogSpeed = *jog, *jog
		case "feed":
			v.WorkSpeed, r.WorkSpeed = *feed, *feed
		case "plunge":
			v.PlungeSpeed, r.PlungeSpeed = *plunge, *plunge
		case "cut":
			v.Mode = cnc.Mode(strings.ToLower(*cut))
		case "tooldia":
			v.ToolDiameter = *toolDia
		case "toolangle":
			v.ToolAngle = *toolAngle
		case "tabs":
			v.Tabs.Enabled = *tabs
			if v.Tabs.Height == 0 {
				v.Tabs.Height = *tabHeight
			}
			if v.Tabs.Space == 0 {
				v.Tabs.Space = *tabSpace
			}
			if v.Tabs.Width == 0 {
				v.Tabs.Width = *tabWidth
			}
		case "tabheight":
			v.Tabs.Height = *tabHeight
		case "tabspace":
			v.Tabs.Space = *tabSpace
		case "tabwidth":
			v.Tabs.Width = *tabWidth
		case "tol":
			s.tolerance = *tolerance
		case "cone":
			r.ConeHalfAngle = *cone
		case "pixel":
			r.PixelSize = *pixel
		case "invert":
			r.Invert = *invert
		}
	})

	if err := run(s); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(s settings) error {
	var (
		obj *gcode.Object
		err error
	)
	switch s.mode {
	case "vector":
		obj, err = vectorObject(s)
	case "relief":
		obj, err = reliefObject(s)
	default:
		return fmt.Errorf("invalid -mode %q (must be vector or relief)", s.mode)
	}
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if s.out != "" && s.out != "-" {
		f, err := os.Create(s.out)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if s.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(obj)
	}
	_, err = fmt.Fprintln(out, camcore.Encode(obj))
	return err
}

func vectorObject(s settings) (*gcode.Object, error) {
	switch s.vector.Mode {
	case "", cnc.ModePath, cnc.ModeOutline:
	default:
		return nil, fmt.Errorf("invalid -cut %q (must be path or outline)", s.vector.Mode)
	}
	if s.vector.Mode == cnc.ModeOutline && s.vector.ToolDiameter <= 0 {
		return nil, errors.New("-tooldia must be > 0 when -cut is outline")
	}

	f, err := os.Open(s.in)
	if err != nil {
		return nil, fmt.Errorf("opening SVG: %w", err)
	}
	defer f.Close()

	doc, err := camcore.ParseSVG(f, svg.Options{Tolerance: s.tolerance})
	if err != nil {
		return nil, err
	}

	cc := strings.TrimSpace(s.construction)
	if cc != "" && !strings.EqualFold(cc, "none") {
		c, ok := svg.ParseColor(cc)
		if !ok {
			return nil, fmt.Errorf("invalid -construction color %q", s.construction)
		}
		doc.HideStroke(c)
	}
	if len(doc.VisibleShapes()) == 0 {
		fmt.Fprintln(os.Stderr, "warning: no visible shapes found")
	}

	if s.flip {
		doc.Flip(false, true)
	}
	if s.scale != 1 && s.scale > 0 {
		doc.Scale(s.scale, s.scale)
	}
	if s.clip {
		doc.Clip()
	}
	if s.sort {
		doc.SortShapes()
	}
	return camcore.VectorObject(doc, s.vector)
}

func reliefObject(s settings) (*gcode.Object, error) {
	hm, err := raster.Load(s.in, raster.Options{Width: s.width})
	if err != nil {
		return nil, err
	}
	return camcore.ReliefObject(hm, s.relief)
}
