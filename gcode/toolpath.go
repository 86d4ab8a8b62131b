package gcode

import "slices"

// FeedType separates rapid travel from cutting moves; the writer tracks the
// last feed rate of each independently.
type FeedType int

const (
	RapidFeed FeedType = iota
	CuttingFeed
)

func feedType(c Code) FeedType {
	if c == CodeRapid {
		return RapidFeed
	}
	return CuttingFeed
}

// ToolPath is an ordered sequence of commands together with the jog, work
// and plunge rates attached to the moves it records. A rate of zero or less
// leaves the F word off.
type ToolPath struct {
	JogRate    float64
	WorkRate   float64
	PlungeRate float64

	cmds []Command
}

// NewToolPath returns an empty tool path using the given rates.
func NewToolPath(jog, work, plunge float64) *ToolPath {
	return &ToolPath{JogRate: jog, WorkRate: work, PlungeRate: plunge}
}

// SetRates changes the rates used by subsequent moves.
func (tp *ToolPath) SetRates(jog, work, plunge float64) {
	tp.JogRate, tp.WorkRate, tp.PlungeRate = jog, work, plunge
}

func withFeed(args []Arg, rate float64) []Arg {
	if rate > 0 {
		return append(slices.Clone(args), F(rate))
	}
	return args
}

// RapidTo appends a G0 move at the jog rate.
func (tp *ToolPath) RapidTo(args ...Arg) {
	tp.cmds = append(tp.cmds, Rapid(withFeed(args, tp.JogRate)...))
}

// MoveTo appends a G1 move at the work rate.
func (tp *ToolPath) MoveTo(args ...Arg) {
	tp.cmds = append(tp.cmds, Linear(withFeed(args, tp.WorkRate)...))
}

// Plunge appends a G1 move along Z at the plunge rate.
func (tp *ToolPath) Plunge(z float64) {
	tp.cmds = append(tp.cmds, Linear(withFeed([]Arg{Z(z)}, tp.PlungeRate)...))
}

func (tp *ToolPath) SpindleOn()  { tp.cmds = append(tp.cmds, SpindleOn()) }
func (tp *ToolPath) SpindleOff() { tp.cmds = append(tp.cmds, SpindleOff()) }

func (tp *ToolPath) Comment(text string) {
	tp.cmds = append(tp.cmds, Comment(text))
}

// Append adds already constructed commands.
func (tp *ToolPath) Append(cmds ...Command) {
	tp.cmds = append(tp.cmds, cmds...)
}

// Commands returns the recorded commands.
func (tp *ToolPath) Commands() []Command {
	return slices.Clone(tp.cmds)
}

// Len returns the number of recorded commands.
func (tp *ToolPath) Len() int { return len(tp.cmds) }
