package gcode

import (
	"strconv"
	"strings"
)

// Machine types accepted as the object type discriminant.
const (
	TypeCNC   = "cnc"
	TypeLaser = "laser"
	Type3DP   = "3dp"
)

// SupportedType reports whether t is a known machine type.
func SupportedType(t string) bool {
	switch t {
	case TypeCNC, TypeLaser, Type3DP:
		return true
	}
	return false
}

type Metadata struct {
	Type string `json:"type"`
	Mode string `json:"mode"`
}

// Translation is the offset a consumer should apply when placing the
// tool path.
type Translation struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Object is the structured, replayable form of a G-code program.
type Object struct {
	Metadata    Metadata    `json:"metadata"`
	Data        []Line      `json:"data"`
	Params      any         `json:"params,omitempty"`
	Translation Translation `json:"translation"`
}

// ModelInfo describes the object a decoded program is wrapped in.
type ModelInfo struct {
	Type        string
	Mode        string
	Params      any
	Translation Translation
}

// Decode parses text line by line into an Object. Blank lines are kept as
// blank markers so the line count and order are preserved. Decode returns
// nil when info.Type is not a supported machine type.
func Decode(text string, info ModelInfo) *Object {
	if !SupportedType(info.Type) {
		return nil
	}
	raw := strings.Split(text, "\n")
	data := make([]Line, 0, len(raw))
	for _, s := range raw {
		data = append(data, ParseLine(s))
	}
	return &Object{
		Metadata:    Metadata{Type: info.Type, Mode: info.Mode},
		Data:        data,
		Params:      info.Params,
		Translation: info.Translation,
	}
}

// Encode renders the lines of o back to G-code text.
func Encode(o *Object) string {
	if o == nil {
		return ""
	}
	lines := make([]string, len(o.Data))
	for i, l := range o.Data {
		lines[i] = l.String()
	}
	return strings.Join(lines, "\n")
}

// Lines builds the structured form of cmds directly, with every argument
// present (no feed-rate elision).
func Lines(cmds []Command) []Line {
	out := make([]Line, 0, len(cmds))
	for _, c := range cmds {
		if c.code == CodeComment {
			out = append(out, Line{Comment: formatComment(c.text)})
			continue
		}
		code := string(c.code)
		l := Line{Words: make([]Word, 0, len(c.args)+1)}
		if v, err := strconv.ParseFloat(code[1:], 64); err == nil {
			l.Words = append(l.Words, NumberWord(code[:1], v))
		} else {
			l.Words = append(l.Words, Word{Code: code[:1], Text: code[1:]})
		}
		for _, a := range c.args {
			l.Words = append(l.Words, NumberWord(string(a.Axis), a.Value))
		}
		out = append(out, l)
	}
	return out
}
