package offset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camcore/svg"
)

func square(x, y, size float64) svg.Path {
	return svg.Path{Closed: true, Points: []svg.Point{
		{X: x, Y: y}, {X: x + size, Y: y}, {X: x + size, Y: y + size}, {X: x, Y: y + size}, {X: x, Y: y},
	}}
}

func TestZeroDistanceIsNormalize(t *testing.T) {
	cw := square(0, 0, 10).Reversed()

	want, err := Normalize(cw)
	require.NoError(t, err)
	require.Len(t, want, 1)
	assert.Greater(t, svg.SignedArea(want[0]), 0.0, "normalized ring is counter-clockwise")

	for _, f := range []func(svg.Path, float64) (Polygon, error){Margin, Padding, OffsetContour} {
		got, err := f(cw, 0)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestMarginGrowsArea(t *testing.T) {
	got, err := Margin(square(0, 0, 100), 5)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// square, four side strips and four quarter discs
	want := 100*100 + 4*100*5 + math.Pi*25
	assert.InDelta(t, want, got.Area(), 1)
	assert.True(t, got[0].Closed)
	assert.Equal(t, got[0].Start(), got[0].End())

	for _, pt := range got[0].Points {
		assert.False(t, svg.Contains(square(0, 0, 100), pt), "margin ring lies outside the source")
	}
}

func TestPaddingShrinksArea(t *testing.T) {
	got, err := Padding(square(0, 0, 100), 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 90*90, got.Area(), 1e-3)
	assert.Greater(t, svg.SignedArea(got[0]), 0.0)

	neg, err := OffsetContour(square(0, 0, 100), -5)
	require.NoError(t, err)
	assert.Equal(t, got, neg)
}

func TestPaddingCanVanish(t *testing.T) {
	thin := svg.Path{Closed: true, Points: []svg.Point{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 2}, {X: 0, Y: 2}, {X: 0, Y: 0},
	}}
	got, err := Padding(thin, 2)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMarginOfConcaveContour(t *testing.T) {
	// an L shape
	l := svg.Path{Closed: true, Points: []svg.Point{
		{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 20}, {X: 0, Y: 20}, {X: 0, Y: 0},
	}}
	src := svg.SignedArea(l)
	grown, err := Margin(l, 1)
	require.NoError(t, err)
	require.NotEmpty(t, grown)
	assert.Greater(t, grown.Area(), src)

	shrunk, err := Padding(l, 1)
	require.NoError(t, err)
	require.NotEmpty(t, shrunk)
	assert.Less(t, shrunk.Area(), src)
	assert.Greater(t, shrunk.Area(), 0.0)
}

func TestContractViolations(t *testing.T) {
	_, err := Margin(square(0, 0, 10), -1)
	assert.ErrorIs(t, err, ErrNegativeDistance)

	_, err = Padding(square(0, 0, 10), -1)
	assert.ErrorIs(t, err, ErrNegativeDistance)

	open := svg.Path{Points: []svg.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}}
	_, err = Margin(open, 1)
	assert.ErrorIs(t, err, ErrDegenerate)

	flat := svg.Path{Closed: true, Points: []svg.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 0}}}
	_, err = Normalize(flat)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestDiscTemplate(t *testing.T) {
	small := discTemplate(0.005)
	assert.Len(t, small, minDiscSegments)

	big := discTemplate(1000)
	assert.Len(t, big, maxDiscSegments)

	d := discTemplate(5)
	for i := range d {
		a, b := d[i], d[(i+1)%len(d)]
		mid := math.Hypot((a.X+b.X)/2, (a.Y+b.Y)/2)
		assert.LessOrEqual(t, 5-mid, ArcTolerance+1e-12)
	}
}
