package gcode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Word is one token of a G-code line: a single-character code followed by
// a value. Numeric words keep the text they were parsed from so that a
// decoded file re-encodes verbatim.
type Word struct {
	Code    string
	Value   float64
	Text    string
	Numeric bool
}

// NumberWord returns a numeric word formatted the way the writer does.
func NumberWord(code string, v float64) Word {
	return Word{Code: code, Value: v, Text: FormatNumber(v), Numeric: true}
}

func (w Word) String() string {
	if w.Numeric && w.Text == "" {
		return w.Code + FormatNumber(w.Value)
	}
	return w.Code + w.Text
}

// Line is the structured form of one line of G-code: its words in order,
// an optional trailing comment (including the ';'), or the blank marker.
type Line struct {
	Words   []Word
	Comment string
	Blank   bool

	// text is the source line of a parsed Line, less trailing whitespace.
	text string
}

// Get returns the first word with the given code.
func (l Line) Get(code string) (Word, bool) {
	for _, w := range l.Words {
		if w.Code == code {
			return w, true
		}
	}
	return Word{}, false
}

// String renders l as G-code text. A line from ParseLine renders as its
// source text, spacing included, unless its words or comment have since
// been changed.
func (l Line) String() string {
	if l.Blank {
		return ""
	}
	if l.text != "" {
		if p := ParseLine(l.text); p.Comment == l.Comment && slices.Equal(p.Words, l.Words) {
			return l.text
		}
	}
	parts := make([]string, 0, len(l.Words)+1)
	for _, w := range l.Words {
		parts = append(parts, w.String())
	}
	if l.Comment != "" {
		parts = append(parts, l.Comment)
	}
	return strings.Join(parts, " ")
}

// ParseLine splits a line of G-code into words and a trailing comment.
// Tokens whose value is not a finite number are kept as text.
func ParseLine(s string) Line {
	s = strings.TrimRight(s, "\r")
	l := Line{text: strings.TrimRight(s, " \t")}
	if i := strings.IndexByte(s, ';'); i >= 0 {
		l.Comment = strings.TrimRight(s[i:], " \t")
		s = s[:i]
	}
	for _, tok := range strings.Fields(s) {
		w := Word{Code: tok[:1], Text: tok[1:]}
		if v, err := strconv.ParseFloat(w.Text, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			w.Value, w.Numeric = v, true
		}
		l.Words = append(l.Words, w)
	}
	if len(l.Words) == 0 && l.Comment == "" {
		return Line{Blank: true}
	}
	return l
}

const (
	commentKey = "C"
	blankKey   = "N"
	blankValue = " "
)

// MarshalJSON writes l as an object whose keys follow the word order:
// {"G":1,"X":10}, {"C":"; note"} or the blank marker {"N":" "}. A code
// repeated on one line, as in "G1 G90 X1", is written once per word, so
// the object has duplicate keys. UnmarshalJSON keeps them all; decoders
// into a plain map keep only the last.
func (l Line) MarshalJSON() ([]byte, error) {
	if l.Blank {
		return []byte(`{"N":" "}`), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	field := func(key string, value []byte) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(value)
	}
	for _, w := range l.Words {
		var v []byte
		if w.Numeric && !math.IsNaN(w.Value) && !math.IsInf(w.Value, 0) {
			v = strconv.AppendFloat(nil, w.Value, 'f', -1, 64)
		} else if w.Numeric {
			v, _ = json.Marshal(w.String()[len(w.Code):])
		} else {
			v, _ = json.Marshal(w.Text)
		}
		field(w.Code, v)
	}
	if l.Comment != "" {
		v, _ := json.Marshal(l.Comment)
		field(commentKey, v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form written by MarshalJSON, keeping key
// order.
func (l *Line) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("gcode: line must be a JSON object, got %v", tok)
	}
	*l = Line{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key := kt.(string)
		vt, err := dec.Token()
		if err != nil {
			return err
		}
		switch v := vt.(type) {
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return fmt.Errorf("gcode: word %s: %w", key, err)
			}
			l.Words = append(l.Words, Word{Code: key, Value: f, Text: v.String(), Numeric: true})
		case string:
			if key == commentKey && strings.HasPrefix(v, ";") {
				l.Comment = v
			} else {
				l.Words = append(l.Words, Word{Code: key, Text: v})
			}
		default:
			return fmt.Errorf("gcode: word %s: unsupported value %v", key, vt)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	if len(l.Words) == 1 && l.Comment == "" && l.Words[0] == (Word{Code: blankKey, Text: blankValue}) {
		*l = Line{Blank: true}
	}
	return nil
}
