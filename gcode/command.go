// Package gcode models machine motion and converts it to and from G-code
// text.
//
// Only a small command subset is emitted: G0 and G1 moves with X, Y, Z and
// F words, M3 and M5 spindle control, and ";" comments. The parser accepts
// any word-structured line so that foreign files survive a round trip.
package gcode

import "slices"

// Code is a command mnemonic.
type Code string

const (
	CodeRapid      Code = "G0"
	CodeLinear     Code = "G1"
	CodeSpindleOn  Code = "M3"
	CodeSpindleOff Code = "M5"
	CodeComment    Code = ";"
)

// Arg is one axis or parameter word of a command.
type Arg struct {
	Axis  byte
	Value float64
}

func X(v float64) Arg { return Arg{Axis: 'X', Value: v} }
func Y(v float64) Arg { return Arg{Axis: 'Y', Value: v} }
func Z(v float64) Arg { return Arg{Axis: 'Z', Value: v} }
func F(v float64) Arg { return Arg{Axis: 'F', Value: v} }

// Command is a single motion or state instruction. Commands are immutable:
// the constructors copy their arguments and accessors return copies.
type Command struct {
	code Code
	args []Arg
	text string
}

// Rapid returns a G0 move.
func Rapid(args ...Arg) Command {
	return Command{code: CodeRapid, args: slices.Clone(args)}
}

// Linear returns a G1 move.
func Linear(args ...Arg) Command {
	return Command{code: CodeLinear, args: slices.Clone(args)}
}

func SpindleOn() Command  { return Command{code: CodeSpindleOn} }
func SpindleOff() Command { return Command{code: CodeSpindleOff} }

// Comment returns a comment line carrying text.
func Comment(text string) Command {
	return Command{code: CodeComment, text: text}
}

func (c Command) Code() Code { return c.code }

// Args returns a copy of the command's arguments in order.
func (c Command) Args() []Arg { return slices.Clone(c.args) }

// Text returns the comment text.
func (c Command) Text() string { return c.text }

// Arg returns the value of the first argument for axis.
func (c Command) Arg(axis byte) (float64, bool) {
	for _, a := range c.args {
		if a.Axis == axis {
			return a.Value, true
		}
	}
	return 0, false
}

// IsMove reports whether c is a G0 or G1 move.
func (c Command) IsMove() bool {
	return c.code == CodeRapid || c.code == CodeLinear
}
