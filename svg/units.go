package svg

import (
	"regexp"
	"strconv"
	"strings"

	"camcore/internal/logging"
)

// DPI is the resolution used to convert absolute units into user units.
const DPI = 72.0

// unitScale maps a length suffix to user units (px).
var unitScale = map[string]float64{
	"":   1,
	"px": 1,
	"pt": DPI / 72,
	"pc": DPI / 6,
	"mm": DPI / 25.4,
	"cm": DPI / 2.54,
	"in": DPI,
}

const numberPattern = `[-+]?(?:\d*\.\d+|\d+\.?)(?:[eE][-+]?\d+)?`

var (
	numberRe = regexp.MustCompile(numberPattern)
	lengthRe = regexp.MustCompile(`^(` + numberPattern + `)\s*([A-Za-z%]*)$`)
)

// parseLength converts an SVG length into user units. Percentages and
// font-relative units cannot be resolved without layout context: they are
// logged and reported as absent.
func parseLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	m := lengthRe.FindStringSubmatch(s)
	if m == nil {
		logging.Logger().Warn("svg: malformed length", "value", s)
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		logging.Logger().Warn("svg: malformed length", "value", s)
		return 0, false
	}
	scale, ok := unitScale[strings.ToLower(m[2])]
	if !ok {
		logging.Logger().Warn("svg: unsupported unit", "value", s)
		return 0, false
	}
	return v * scale, true
}

// parseNumberList extracts every number in s, ignoring separators.
func parseNumberList(s string) []float64 {
	matches := numberRe.FindAllString(s, -1)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// parsePointsList parses the points attribute of polyline/polygon. A
// trailing odd coordinate is dropped.
func parsePointsList(s string) []Point {
	nums := parseNumberList(s)
	pts := make([]Point, 0, len(nums)/2)
	for i := 0; i+1 < len(nums); i += 2 {
		pts = append(pts, Point{X: nums[i], Y: nums[i+1]})
	}
	return pts
}
