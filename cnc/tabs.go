package cnc

import (
	"math"

	"camcore/gcode"
	"camcore/svg"
)

// cutWithTabs follows c at depth z, rising to tabZ for tabs.Width out of
// every tabs.Width+tabs.Space of travel. The cut starts in normal mode and
// switches exactly where the accumulated distance reaches the current span,
// so a long edge may cross several tab boundaries.
func cutWithTabs(tp *gcode.ToolPath, c []svg.Point, z, tabZ float64, tabs Tabs) {
	inTab := false
	acc := 0.0
	for i := 1; i < len(c); i++ {
		a, b := c[i-1], c[i]
		rem := math.Hypot(b.X-a.X, b.Y-a.Y)
		for rem > 0 {
			span := tabs.Space
			if inTab {
				span = tabs.Width
			}
			need := span - acc
			if need >= rem {
				acc += rem
				break
			}
			t := need / rem
			a = svg.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
			rem -= need
			tp.MoveTo(gcode.X(a.X), gcode.Y(a.Y))
			inTab = !inTab
			if inTab {
				tp.MoveTo(gcode.Z(tabZ))
			} else {
				tp.Plunge(z)
			}
			acc = 0
		}
		tp.MoveTo(gcode.X(b.X), gcode.Y(b.Y))
	}
}
