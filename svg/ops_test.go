package svg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineShape(id string, pts ...Point) *Shape {
	s := &Shape{ID: id, Visible: true, Paths: []Path{{Points: pts}}}
	s.updateBounds()
	return s
}

func newDoc(shapes ...*Shape) *Document {
	d := &Document{Shapes: shapes}
	d.updateBounds()
	return d
}

func ids(d *Document) []string {
	out := make([]string, len(d.Shapes))
	for i, s := range d.Shapes {
		out[i] = s.ID
	}
	return out
}

func TestSortShapes(t *testing.T) {
	d := newDoc(
		lineShape("far", Point{X: 100, Y: 0}, Point{X: 110, Y: 0}),
		lineShape("reversed", Point{X: 30, Y: 0}, Point{X: 12, Y: 0}),
		lineShape("near", Point{X: 1, Y: 0}, Point{X: 10, Y: 0}),
	)
	d.SortShapes()
	assert.Equal(t, []string{"near", "reversed", "far"}, ids(d))
	assert.Equal(t, Point{X: 12, Y: 0}, d.Shapes[1].Paths[0].Start(), "nearer last point reverses the shape")
}

func TestSortShapesTieKeepsFirstFound(t *testing.T) {
	d := newDoc(
		lineShape("a", Point{X: 5, Y: 0}, Point{X: 6, Y: 0}),
		lineShape("b", Point{X: 0, Y: 5}, Point{X: 0, Y: 6}),
	)
	d.SortShapes()
	assert.Equal(t, []string{"a", "b"}, ids(d))
}

func TestFlipScaleClip(t *testing.T) {
	d := newDoc(lineShape("s", Point{X: 10, Y: 20}, Point{X: 30, Y: 60}))

	d.Flip(true, false)
	assert.Equal(t, []Point{{X: 30, Y: 20}, {X: 10, Y: 60}}, d.Shapes[0].Paths[0].Points)
	assert.Equal(t, Rect{Min: Point{X: 10, Y: 20}, Max: Point{X: 30, Y: 60}}, d.Bounds)

	d.Flip(false, true)
	assert.Equal(t, []Point{{X: 30, Y: 60}, {X: 10, Y: 20}}, d.Shapes[0].Paths[0].Points)

	d.Scale(2, 0.5)
	assert.Equal(t, Rect{Min: Point{X: 20, Y: 10}, Max: Point{X: 60, Y: 30}}, d.Bounds)
	assert.Equal(t, d.Bounds, d.Shapes[0].Bounds)

	d.Clip()
	assert.Equal(t, Rect{Min: Point{X: 0, Y: 0}, Max: Point{X: 40, Y: 20}}, d.Bounds)
	assert.Equal(t, []Point{{X: 40, Y: 20}, {X: 0, Y: 0}}, d.Shapes[0].Paths[0].Points)
}

func square(x, y, size float64) Path {
	return Path{Closed: true, Points: []Point{
		{X: x, Y: y}, {X: x + size, Y: y}, {X: x + size, Y: y + size}, {X: x, Y: y + size}, {X: x, Y: y},
	}}
}

func TestContains(t *testing.T) {
	sq := square(0, 0, 10)
	tests := []struct {
		pt   Point
		want bool
	}{
		{Point{X: 5, Y: 5}, true},
		{Point{X: 0.1, Y: 9.9}, true},
		{Point{X: -1, Y: 5}, false},
		{Point{X: 11, Y: 5}, false},
		{Point{X: 5, Y: 15}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Contains(sq, tt.pt), "%v", tt.pt)
	}
	assert.False(t, Contains(Path{Points: []Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}, Point{X: 0.5, Y: 0.5}))
}

func TestContainmentCount(t *testing.T) {
	paths := []Path{square(0, 0, 100), square(10, 10, 80), square(20, 20, 60), square(200, 0, 10)}
	assert.Equal(t, 0, ContainmentCount(paths, 0))
	assert.Equal(t, 1, ContainmentCount(paths, 1))
	assert.Equal(t, 2, ContainmentCount(paths, 2))
	assert.Equal(t, 0, ContainmentCount(paths, 3))

	open := []Path{{Points: []Point{{X: -5, Y: -5}, {X: 500, Y: -5}, {X: 500, Y: 500}}}, square(0, 0, 1)}
	assert.Equal(t, 0, ContainmentCount(open, 1), "open paths never contain")
}

func TestSignedArea(t *testing.T) {
	require.InDelta(t, 100, SignedArea(square(0, 0, 10)), 1e-12)
	require.InDelta(t, -100, SignedArea(square(0, 0, 10).Reversed()), 1e-12)
}

func TestHideStroke(t *testing.T) {
	doc, err := ParseString(`<svg xmlns="http://www.w3.org/2000/svg">
		<path id="cut" d="M0,0 L10,0" stroke="black"/>
		<path id="guide" d="M0,0 L0,50" stroke="#0000ff"/>
		<path id="fill" d="M0,0 L5,5"/>
	</svg>`, Options{})
	require.NoError(t, err)
	assert.Equal(t, 50.0, doc.Bounds.Max.Y)

	blue, ok := ParseColor("#00f")
	require.True(t, ok)
	assert.Equal(t, 1, doc.HideStroke(blue))
	assert.Equal(t, 0, doc.HideStroke(blue))

	var visible []string
	for _, s := range doc.VisibleShapes() {
		visible = append(visible, s.ID)
	}
	assert.Equal(t, []string{"cut", "fill"}, visible)
	assert.Equal(t, 5.0, doc.Bounds.Max.Y)

	_, ok = ParseColor("none")
	assert.False(t, ok)
}
