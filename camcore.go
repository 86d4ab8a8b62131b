package camcore

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"camcore/cnc"
	"camcore/gcode"
	"camcore/internal/logging"
	"camcore/svg"
)

// ErrUnsupportedType is returned when a program object is requested for a
// machine type other than cnc, laser or 3dp.
var ErrUnsupportedType = errors.New("camcore: unsupported machine type")

// SetLogger installs l for diagnostics from every camcore package. Passing
// nil silences them again.
func SetLogger(l *slog.Logger) { logging.SetLogger(l) }

// ParseSVG reads an SVG document from r.
func ParseSVG(r io.Reader, opts svg.Options) (*svg.Document, error) {
	doc, err := svg.ParseReader(r, opts)
	if err != nil {
		return nil, fmt.Errorf("camcore: parse svg: %w", err)
	}
	return doc, nil
}

// VectorToolPath synthesizes the profile tool path for doc.
func VectorToolPath(doc *svg.Document, opts cnc.VectorOptions) *gcode.ToolPath {
	return cnc.Vector(doc, opts)
}

// VectorGcode synthesizes the profile tool path for doc as G-code text.
func VectorGcode(doc *svg.Document, opts cnc.VectorOptions) string {
	return gcode.Write(cnc.Vector(doc, opts))
}

// VectorObject synthesizes the profile tool path for doc as a program
// object. opts is carried along as the object's params.
func VectorObject(doc *svg.Document, opts cnc.VectorOptions) (*gcode.Object, error) {
	mode := opts.Mode
	if mode == "" {
		mode = cnc.ModePath
	}
	return object(VectorGcode(doc, opts), opts.Type, string(mode), opts, opts.Translation)
}

// ReliefToolPath synthesizes the relief tool path for hm.
func ReliefToolPath(hm *cnc.Heightmap, opts cnc.ReliefOptions) (*gcode.ToolPath, error) {
	return cnc.ReliefToolPath(hm, opts)
}

// ReliefGcode synthesizes the relief tool path for hm as G-code text.
func ReliefGcode(hm *cnc.Heightmap, opts cnc.ReliefOptions) (string, error) {
	return cnc.Relief(hm, opts)
}

// ReliefObject synthesizes the relief tool path for hm as a program object.
func ReliefObject(hm *cnc.Heightmap, opts cnc.ReliefOptions) (*gcode.Object, error) {
	text, err := cnc.Relief(hm, opts)
	if err != nil {
		return nil, err
	}
	return object(text, opts.Type, "relief", opts, opts.Translation)
}

func object(text, typ, mode string, params any, tr gcode.Translation) (*gcode.Object, error) {
	if typ == "" {
		typ = gcode.TypeCNC
	}
	o := gcode.Decode(text, gcode.ModelInfo{Type: typ, Mode: mode, Params: params, Translation: tr})
	if o == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, typ)
	}
	return o, nil
}

// Encode renders a program object as G-code text.
func Encode(o *gcode.Object) string { return gcode.Encode(o) }

// Decode parses G-code text into a program object. It returns nil when
// info.Type is not a supported machine type.
func Decode(text string, info gcode.ModelInfo) *gcode.Object { return gcode.Decode(text, info) }
