package svg

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mpapenbr/iracelog-trackmap-go/pkg/geom"
)

// ErrInvalidPathData marks input that does not follow the svg path
// mini language.
var ErrInvalidPathData = errors.New("invalid path data")

type SegmentKind int

const (
	SegLine SegmentKind = iota
	SegQuad
	SegCubic
)

// Segment is one drawable piece of a path with all coordinates
// absolute. Quad segments use C1 as their only control point, Line
// segments ignore C1 and C2.
type Segment struct {
	Kind  SegmentKind
	Start geom.Point
	C1    geom.Point
	C2    geom.Point
	End   geom.Point
}

// Path is the parsed form of a d attribute. Moveto commands produce no
// segment, so a subpath boundary shows up as two consecutive segments
// whose End and Start do not connect.
type Path struct {
	Segments []Segment
}

func (p *Path) Empty() bool { return len(p.Segments) == 0 }

// OnlyLines reports whether the path consists of line segments
// exclusively. Used to recognize the start/finish marker, which is
// drawn without curve commands.
func (p *Path) OnlyLines() bool {
	for i := range p.Segments {
		if p.Segments[i].Kind != SegLine {
			return false
		}
	}
	return len(p.Segments) > 0
}

// ParsePath parses a d attribute into absolute segments. All commands
// of the mini language are supported (M/L/H/V/C/S/Q/T/A/Z, absolute
// and relative); arcs are converted to cubic segments while parsing.
//
//nolint:funlen,cyclop,gocognit // one case per path command
func ParsePath(d string) (*Path, error) {
	s := &pathScanner{data: d}
	ret := &Path{}
	var cur, subpathStart geom.Point
	var prevCubicCtrl, prevQuadCtrl geom.Point
	var prevCmd byte

	pair := func(rel bool) (geom.Point, error) {
		x, err := s.number()
		if err != nil {
			return geom.Point{}, err
		}
		y, err := s.number()
		if err != nil {
			return geom.Point{}, err
		}
		if rel {
			return cur.Add(geom.Point{X: x, Y: y}), nil
		}
		return geom.Point{X: x, Y: y}, nil
	}

	for !s.done() {
		cmd, explicit := s.command()
		if !explicit {
			// bare coordinates repeat the previous command; after a
			// moveto they continue as lineto
			switch prevCmd {
			case 0:
				return nil, fmt.Errorf(
					"%w: coordinates before first command", ErrInvalidPathData)
			case 'M':
				cmd = 'L'
			case 'm':
				cmd = 'l'
			case 'Z', 'z':
				return nil, fmt.Errorf(
					"%w: coordinates after closepath", ErrInvalidPathData)
			default:
				cmd = prevCmd
			}
		}
		rel := cmd >= 'a' && cmd <= 'z'
		if prevCmd == 0 && upperCmd(cmd) != 'M' {
			return nil, fmt.Errorf(
				"%w: path must start with moveto", ErrInvalidPathData)
		}

		switch upperCmd(cmd) {
		case 'M':
			p, err := pair(rel)
			if err != nil {
				return nil, err
			}
			cur, subpathStart = p, p
		case 'L':
			p, err := pair(rel)
			if err != nil {
				return nil, err
			}
			ret.Segments = append(ret.Segments, line(cur, p))
			cur = p
		case 'H':
			x, err := s.number()
			if err != nil {
				return nil, err
			}
			if rel {
				x += cur.X
			}
			p := geom.Point{X: x, Y: cur.Y}
			ret.Segments = append(ret.Segments, line(cur, p))
			cur = p
		case 'V':
			y, err := s.number()
			if err != nil {
				return nil, err
			}
			if rel {
				y += cur.Y
			}
			p := geom.Point{X: cur.X, Y: y}
			ret.Segments = append(ret.Segments, line(cur, p))
			cur = p
		case 'C':
			c1, err := pair(rel)
			if err != nil {
				return nil, err
			}
			c2, err := pair(rel)
			if err != nil {
				return nil, err
			}
			p, err := pair(rel)
			if err != nil {
				return nil, err
			}
			ret.Segments = append(ret.Segments,
				Segment{Kind: SegCubic, Start: cur, C1: c1, C2: c2, End: p})
			prevCubicCtrl = c2
			cur = p
		case 'S':
			c1 := reflectCtrl(cur, prevCubicCtrl, prevCmd, 'C', 'S')
			c2, err := pair(rel)
			if err != nil {
				return nil, err
			}
			p, err := pair(rel)
			if err != nil {
				return nil, err
			}
			ret.Segments = append(ret.Segments,
				Segment{Kind: SegCubic, Start: cur, C1: c1, C2: c2, End: p})
			prevCubicCtrl = c2
			cur = p
		case 'Q':
			c1, err := pair(rel)
			if err != nil {
				return nil, err
			}
			p, err := pair(rel)
			if err != nil {
				return nil, err
			}
			ret.Segments = append(ret.Segments,
				Segment{Kind: SegQuad, Start: cur, C1: c1, End: p})
			prevQuadCtrl = c1
			cur = p
		case 'T':
			c1 := reflectCtrl(cur, prevQuadCtrl, prevCmd, 'Q', 'T')
			p, err := pair(rel)
			if err != nil {
				return nil, err
			}
			ret.Segments = append(ret.Segments,
				Segment{Kind: SegQuad, Start: cur, C1: c1, End: p})
			prevQuadCtrl = c1
			cur = p
		case 'A':
			rx, err := s.number()
			if err != nil {
				return nil, err
			}
			ry, err := s.number()
			if err != nil {
				return nil, err
			}
			rot, err := s.number()
			if err != nil {
				return nil, err
			}
			large, err := s.flag()
			if err != nil {
				return nil, err
			}
			sweep, err := s.flag()
			if err != nil {
				return nil, err
			}
			p, err := pair(rel)
			if err != nil {
				return nil, err
			}
			ret.Segments = append(ret.Segments,
				arcSegments(cur, rx, ry, rot, large, sweep, p)...)
			cur = p
		case 'Z':
			if cur != subpathStart {
				ret.Segments = append(ret.Segments, line(cur, subpathStart))
			}
			cur = subpathStart
		default:
			return nil, fmt.Errorf(
				"%w: unknown command %q", ErrInvalidPathData, string(cmd))
		}
		prevCmd = cmd
	}
	return ret, nil
}

func line(from, to geom.Point) Segment {
	return Segment{Kind: SegLine, Start: from, End: to}
}

// reflectCtrl yields the implied control point for smooth commands:
// the previous control point mirrored at the current position, or the
// current position itself if the previous command was of another
// family.
func reflectCtrl(cur, prevCtrl geom.Point, prevCmd, fam1, fam2 byte) geom.Point {
	switch upperCmd(prevCmd) {
	case fam1, fam2:
		return cur.Scale(2).Sub(prevCtrl)
	default:
		return cur
	}
}

func upperCmd(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// pathScanner cursors through d attribute text. Numbers may be packed
// tightly ("1.5.5", "1-2") and arc flags may lack separators, so the
// scanner works on bytes instead of pre-split tokens.
type pathScanner struct {
	data string
	pos  int
}

func (s *pathScanner) skipSep() {
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case ' ', '\t', '\n', '\r', ',':
			s.pos++
		default:
			return
		}
	}
}

func (s *pathScanner) done() bool {
	s.skipSep()
	return s.pos >= len(s.data)
}

// command consumes the next command letter. Returns false when the
// next token is a number, leaving the position untouched.
func (s *pathScanner) command() (byte, bool) {
	s.skipSep()
	if s.pos >= len(s.data) {
		return 0, false
	}
	c := s.data[s.pos]
	if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
		s.pos++
		return c, true
	}
	return 0, false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

//nolint:cyclop // number grammar
func (s *pathScanner) number() (float64, error) {
	s.skipSep()
	start := s.pos
	if s.pos < len(s.data) && (s.data[s.pos] == '+' || s.data[s.pos] == '-') {
		s.pos++
	}
	digits := false
	for s.pos < len(s.data) && isDigit(s.data[s.pos]) {
		s.pos++
		digits = true
	}
	if s.pos < len(s.data) && s.data[s.pos] == '.' {
		s.pos++
		for s.pos < len(s.data) && isDigit(s.data[s.pos]) {
			s.pos++
			digits = true
		}
	}
	if !digits {
		return 0, fmt.Errorf(
			"%w: expected number at offset %d", ErrInvalidPathData, start)
	}
	if s.pos < len(s.data) && (s.data[s.pos] == 'e' || s.data[s.pos] == 'E') {
		mark := s.pos
		s.pos++
		if s.pos < len(s.data) && (s.data[s.pos] == '+' || s.data[s.pos] == '-') {
			s.pos++
		}
		expDigits := false
		for s.pos < len(s.data) && isDigit(s.data[s.pos]) {
			s.pos++
			expDigits = true
		}
		if !expDigits {
			s.pos = mark
		}
	}
	ret, err := strconv.ParseFloat(s.data[start:s.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q at offset %d",
			ErrInvalidPathData, s.data[start:s.pos], start)
	}
	return ret, nil
}

// flag reads an arc flag, which is a single 0 or 1 and may directly
// precede the next number.
func (s *pathScanner) flag() (bool, error) {
	s.skipSep()
	if s.pos < len(s.data) {
		switch s.data[s.pos] {
		case '0':
			s.pos++
			return false, nil
		case '1':
			s.pos++
			return true, nil
		}
	}
	return false, fmt.Errorf(
		"%w: expected arc flag at offset %d", ErrInvalidPathData, s.pos)
}
