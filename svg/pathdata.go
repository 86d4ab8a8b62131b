package svg

import (
	"regexp"
	"strconv"

	"camcore/internal/logging"
)

var pathTokenRe = regexp.MustCompile(`[A-Za-z]|` + numberPattern)

// pathTokens is a cursor over the tokenized d attribute: single command
// letters and numbers.
type pathTokens struct {
	toks []string
	i    int
}

func tokenizePathData(d string) *pathTokens {
	return &pathTokens{toks: pathTokenRe.FindAllString(d, -1)}
}

func (t *pathTokens) more() bool { return t.i < len(t.toks) }

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// command consumes the next token if it is a command letter.
func (t *pathTokens) command() (byte, bool) {
	if !t.more() {
		return 0, false
	}
	tok := t.toks[t.i]
	if len(tok) != 1 || !isLetter(tok[0]) {
		return 0, false
	}
	t.i++
	return tok[0], true
}

func (t *pathTokens) number() (float64, bool) {
	if !t.more() || isLetter(t.toks[t.i][0]) {
		return 0, false
	}
	v, err := strconv.ParseFloat(t.toks[t.i], 64)
	if err != nil {
		return 0, false
	}
	t.i++
	return v, true
}

// numbers reads n numbers into dst; it consumes nothing when fewer are
// available.
func (t *pathTokens) numbers(dst []float64) bool {
	mark := t.i
	for k := range dst {
		v, ok := t.number()
		if !ok {
			t.i = mark
			return false
		}
		dst[k] = v
	}
	return true
}

// flag reads an arc flag. Flags may be packed against the following
// number ("a1 1 0 00 10 10"), so only the first digit of the token is taken
// and the rest stays in the stream.
func (t *pathTokens) flag() (bool, bool) {
	if !t.more() {
		return false, false
	}
	tok := t.toks[t.i]
	if tok[0] != '0' && tok[0] != '1' {
		return false, false
	}
	if len(tok) > 1 {
		t.toks[t.i] = tok[1:]
	} else {
		t.i++
	}
	return tok[0] == '1', true
}

func (t *pathTokens) arcArgs() (rx, ry, phi float64, large, sweep bool, p Point, ok bool) {
	mark := t.i
	// flag() may split tokens within the next five
	saved := append([]string(nil), t.toks[mark:min(mark+5, len(t.toks))]...)
	fail := func() (float64, float64, float64, bool, bool, Point, bool) {
		t.i = mark
		copy(t.toks[mark:], saved)
		return 0, 0, 0, false, false, Point{}, false
	}
	var head [3]float64
	if !t.numbers(head[:]) {
		return fail()
	}
	if large, ok = t.flag(); !ok {
		return fail()
	}
	if sweep, ok = t.flag(); !ok {
		return fail()
	}
	var end [2]float64
	if !t.numbers(end[:]) {
		return fail()
	}
	return head[0], head[1], head[2], large, sweep, Point{X: end[0], Y: end[1]}, true
}

// parsePathData walks the d attribute as a state machine over the path
// commands, driving b. Parsing stops at the first malformed command; the
// geometry built up to that point is kept.
func parsePathData(d string, b *pathBuilder) {
	t := tokenizePathData(d)
	var (
		cmd      byte
		prevCmd  byte
		lastCtrl Point
	)
	for t.more() {
		if c, ok := t.command(); ok {
			cmd = c
			if cmd == 'Z' || cmd == 'z' {
				b.closePath()
				prevCmd = cmd
				continue
			}
		} else if cmd == 0 || cmd == 'Z' || cmd == 'z' {
			logging.Logger().Warn("svg: path data without command", "d", truncate(d, 40))
			break
		}

		rel := cmd >= 'a'
		abs := func(x, y float64) Point {
			if rel {
				return Point{X: b.pos.X + x, Y: b.pos.Y + y}
			}
			return Point{X: x, Y: y}
		}

		var args [6]float64
		ok := true
		switch cmd {
		case 'M', 'm':
			if ok = t.numbers(args[:2]); ok {
				b.moveTo(abs(args[0], args[1]))
				// further pairs are implicit lineto
				if rel {
					cmd = 'l'
				} else {
					cmd = 'L'
				}
			}
		case 'L', 'l':
			if ok = t.numbers(args[:2]); ok {
				b.lineTo(abs(args[0], args[1]))
			}
		case 'H', 'h':
			if ok = t.numbers(args[:1]); ok {
				p := Point{X: args[0], Y: b.pos.Y}
				if rel {
					p.X += b.pos.X
				}
				b.lineTo(p)
			}
		case 'V', 'v':
			if ok = t.numbers(args[:1]); ok {
				p := Point{X: b.pos.X, Y: args[0]}
				if rel {
					p.Y += b.pos.Y
				}
				b.lineTo(p)
			}
		case 'C', 'c':
			if ok = t.numbers(args[:6]); ok {
				c1 := abs(args[0], args[1])
				c2 := abs(args[2], args[3])
				p := abs(args[4], args[5])
				b.cubicBezTo(c1, c2, p)
				lastCtrl = c2
			}
		case 'S', 's':
			if ok = t.numbers(args[:4]); ok {
				c1 := reflectControl(b.pos, lastCtrl, prevCmd, "CcSs")
				c2 := abs(args[0], args[1])
				p := abs(args[2], args[3])
				b.cubicBezTo(c1, c2, p)
				lastCtrl = c2
			}
		case 'Q', 'q':
			if ok = t.numbers(args[:4]); ok {
				c := abs(args[0], args[1])
				p := abs(args[2], args[3])
				b.quadBezTo(c, p)
				lastCtrl = c
			}
		case 'T', 't':
			if ok = t.numbers(args[:2]); ok {
				c := reflectControl(b.pos, lastCtrl, prevCmd, "QqTt")
				p := abs(args[0], args[1])
				b.quadBezTo(c, p)
				lastCtrl = c
			}
		case 'A', 'a':
			var (
				rx, ry, phi  float64
				large, sweep bool
				end          Point
			)
			if rx, ry, phi, large, sweep, end, ok = t.arcArgs(); ok {
				b.arcTo(rx, ry, phi, large, sweep, abs(end.X, end.Y))
			}
		default:
			logging.Logger().Warn("svg: unknown path command", "command", string(cmd))
			ok = false
		}
		if !ok {
			logging.Logger().Warn("svg: malformed path data", "command", string(cmd), "d", truncate(d, 40))
			break
		}
		prevCmd = cmd
	}
	b.commitPath(false)
}

// reflectControl mirrors the previous control point about the current point
// when the previous command belongs to the same curve family; otherwise the
// control point is the current point.
func reflectControl(pos, ctrl Point, prev byte, family string) Point {
	for i := 0; i < len(family); i++ {
		if family[i] == prev {
			return Point{X: 2*pos.X - ctrl.X, Y: 2*pos.Y - ctrl.Y}
		}
	}
	return pos
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
