package camcore

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camcore/cnc"
	"camcore/gcode"
	"camcore/svg"
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
	<path d="M0,0 L100,0 L100,100 L0,100 Z"/>
</svg>`

func squareOptions() cnc.VectorOptions {
	return cnc.VectorOptions{
		TargetDepth:  2,
		StepDown:     2,
		JogSpeed:     1000,
		WorkSpeed:    500,
		SafetyHeight: 5,
		StopHeight:   10,
	}
}

func TestVectorObjectMatchesText(t *testing.T) {
	doc, err := ParseSVG(strings.NewReader(square), svg.Options{Tolerance: 1})
	require.NoError(t, err)

	opts := squareOptions()
	text := VectorGcode(doc, opts)
	obj, err := VectorObject(doc, opts)
	require.NoError(t, err)

	assert.Equal(t, gcode.Metadata{Type: gcode.TypeCNC, Mode: "path"}, obj.Metadata)
	assert.Equal(t, opts, obj.Params)
	assert.Equal(t, text, Encode(obj))
	assert.Len(t, obj.Data, VectorToolPath(doc, opts).Len())
	assert.Contains(t, text, "G1 Z-2")
	assert.True(t, strings.HasSuffix(text, "G0 Z10\nG0 X0 Y0\nM5"))
}

func TestVectorObjectType(t *testing.T) {
	doc, err := ParseSVG(strings.NewReader(square), svg.Options{})
	require.NoError(t, err)

	opts := squareOptions()
	opts.Type = gcode.TypeLaser
	opts.Mode = cnc.ModeOutline
	opts.Translation = gcode.Translation{X: 3, Y: 4}
	obj, err := VectorObject(doc, opts)
	require.NoError(t, err)
	assert.Equal(t, gcode.Metadata{Type: gcode.TypeLaser, Mode: "outline"}, obj.Metadata)
	assert.Equal(t, gcode.Translation{X: 3, Y: 4}, obj.Translation)

	opts.Type = "plotter"
	_, err = VectorObject(doc, opts)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestReliefObject(t *testing.T) {
	hm := cnc.NewHeightmap(4, 3)
	hm.Set(1, 1, 0)
	opts := cnc.ReliefOptions{TargetDepth: 1, StepDown: 0.5, SafetyHeight: 3, PixelSize: 1}

	obj, err := ReliefObject(hm, opts)
	require.NoError(t, err)
	assert.Equal(t, "relief", obj.Metadata.Mode)

	text, err := ReliefGcode(hm, opts)
	require.NoError(t, err)
	assert.Equal(t, text, Encode(obj))

	b, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"coneHalfAngle":0`)

	_, err = ReliefObject(&cnc.Heightmap{}, opts)
	assert.ErrorIs(t, err, cnc.ErrEmptyHeightmap)
}

func TestDecodeEncode(t *testing.T) {
	text := "M3\nG0 X1 Y2 F100\n; done\nM5"
	obj := Decode(text, gcode.ModelInfo{Type: gcode.Type3DP})
	require.NotNil(t, obj)
	assert.Equal(t, text, Encode(obj))
	assert.Nil(t, Decode(text, gcode.ModelInfo{Type: "lathe"}))
	assert.Empty(t, Encode(nil))
}

func TestParseSVGError(t *testing.T) {
	_, err := ParseSVG(strings.NewReader("<svg"), svg.Options{})
	assert.Error(t, err)
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	_, err := ParseSVG(strings.NewReader(`<svg><blink/></svg>`), svg.Options{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "blink")

	buf.Reset()
	SetLogger(nil)
	_, err = ParseSVG(strings.NewReader(`<svg><blink/></svg>`), svg.Options{})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
