package gcode

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders v rounded to three decimals without trailing zeros.
func FormatNumber(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		// no "-0"
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Writer turns commands into text lines. It remembers the last feed rate
// written for rapid and for cutting moves and drops F words that would
// repeat it, so a Writer must see the commands of one program in order.
type Writer struct {
	last [2]float64
	seen [2]bool
}

// NewWriter returns a Writer with no feed state.
func NewWriter() *Writer { return &Writer{} }

// Line renders c as a single line of G-code.
func (w *Writer) Line(c Command) string {
	if c.code == CodeComment {
		return formatComment(c.text)
	}
	var b strings.Builder
	b.WriteString(string(c.code))
	ft := feedType(c.code)
	for _, a := range c.args {
		if a.Axis == 'F' && c.IsMove() {
			if w.seen[ft] && w.last[ft] == a.Value {
				continue
			}
			w.last[ft], w.seen[ft] = a.Value, true
		}
		b.WriteByte(' ')
		b.WriteByte(a.Axis)
		b.WriteString(FormatNumber(a.Value))
	}
	return b.String()
}

// Write renders all commands of tp, one per line, joined by newlines.
func Write(tp *ToolPath) string {
	w := NewWriter()
	lines := make([]string, 0, len(tp.cmds))
	for _, c := range tp.cmds {
		lines = append(lines, w.Line(c))
	}
	return strings.Join(lines, "\n")
}

var commentReplacer = strings.NewReplacer("\r", " ", "\n", " ")

func formatComment(text string) string {
	text = commentReplacer.Replace(text)
	if text == "" {
		return ";"
	}
	return "; " + text
}
