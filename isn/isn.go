package isn

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/nholt/anchorite/bitboard"
	"github.com/nholt/anchorite/isola"
)

type Tag struct {
	Name  string
	Value string
}

type Op interface {
	op()

	Source() string
}

type opCommon struct {
	src string
}

func (o opCommon) Source() string {
	return o.src
}

func (o opCommon) op() {}

type MoveNumber struct {
	opCommon
	Number int
}

type Move struct {
	opCommon
	Move      isola.Move
	Modifiers string
}

type Comment struct {
	opCommon
	Comment string
}

type GameOver struct {
	opCommon
	End isola.WinDetails
}

// An ISN is one recorded game: header tags, then moves interleaved
// with move numbers, comments, and at most one result.
type ISN struct {
	Tags []Tag
	Ops  []Op
}

func ParseISN(r io.Reader) (*ISN, error) {
	buf := bufio.NewReader(r)
	var game ISN
	if err := readTags(buf, &game); err != nil && err != io.EOF {
		return nil, err
	}
	if err := readMoves(buf, &game); err != nil && err != io.EOF {
		return nil, err
	}
	return &game, nil
}

func (g *ISN) FindTag(name string) string {
	for _, t := range g.Tags {
		if t.Name == name {
			return t.Value
		}
	}
	return ""
}

// InitialPosition reconstructs the position the game started from,
// either the IPS tag or a fresh board of the tagged size.
func (g *ISN) InitialPosition() (*isola.Position, error) {
	if ips := g.FindTag("IPS"); ips != "" {
		return ParseIPS(ips)
	}
	cfg := isola.Config{Width: isola.DefaultWidth, Height: isola.DefaultHeight}
	if s := g.FindTag("Width"); s != "" {
		w, e := strconv.Atoi(s)
		if e != nil {
			return nil, fmt.Errorf("bad width: %s", s)
		}
		cfg.Width = w
	}
	if s := g.FindTag("Height"); s != "" {
		h, e := strconv.Atoi(s)
		if e != nil {
			return nil, fmt.Errorf("bad height: %s", s)
		}
		cfg.Height = h
	}
	if cfg.Width < 2 || cfg.Width > 26 || cfg.Height < 2 ||
		cfg.Width*cfg.Height > bitboard.MaxCells {
		return nil, fmt.Errorf("bad size board: %dx%d", cfg.Width, cfg.Height)
	}
	return isola.New(cfg), nil
}

// Result returns the recorded game result, if any.
func (g *ISN) Result() (isola.WinDetails, bool) {
	for _, op := range g.Ops {
		if o, ok := op.(*GameOver); ok {
			return o.End, true
		}
	}
	return isola.WinDetails{}, false
}

// AddMoves appends ms as numbered move ops, continuing from the
// record's initial position when one is tagged.
func (g *ISN) AddMoves(ms []isola.Move) {
	ply := 0
	if p, err := g.InitialPosition(); err == nil {
		ply = p.MoveNumber()
	}
	for i, m := range ms {
		if ply%2 == 0 || i == 0 {
			g.Ops = append(g.Ops, &MoveNumber{Number: ply/2 + 1})
		}
		g.Ops = append(g.Ops, &Move{Move: m})
		ply++
	}
}

// AddResult appends the result op.
func (g *ISN) AddResult(d isola.WinDetails) {
	g.Ops = append(g.Ops, &GameOver{End: d})
}

func readTags(r *bufio.Reader, game *ISN) error {
	for {
		if e := skipWS(r); e != nil {
			return e
		}
		c, e := r.ReadByte()
		if e != nil {
			return e
		}
		if c != '[' {
			return r.UnreadByte()
		}
		line, e := r.ReadString(']')
		if e != nil {
			return e
		}
		line = line[:len(line)-1]
		bits := strings.SplitN(line, " ", 2)
		if len(bits) != 2 {
			return errors.New("bad tag")
		}
		game.Tags = append(game.Tags, Tag{
			Name:  bits[0],
			Value: strings.Trim(bits[1], "\""),
		})
	}
}

var results = map[string]isola.WinDetails{
	"I-0": {Winner: isola.White, Reason: isola.WinByIsolation},
	"0-I": {Winner: isola.Black, Reason: isola.WinByIsolation},
	"T-0": {Winner: isola.White, Reason: isola.WinOnTime},
	"0-T": {Winner: isola.Black, Reason: isola.WinOnTime},
	"1-0": {Winner: isola.White, Reason: isola.WinByResignation},
	"0-1": {Winner: isola.Black, Reason: isola.WinByResignation},
}

func readMoves(r *bufio.Reader, game *ISN) error {
	s := bufio.NewScanner(r)
	s.Split(splitMoves)
	for s.Scan() {
		tok := s.Text()
		common := opCommon{tok}
		switch {
		case tok[0] == '{':
			game.Ops = append(game.Ops, &Comment{common, tok[1 : len(tok)-1]})
		case tok[len(tok)-1] == '.':
			n, e := strconv.Atoi(tok[:len(tok)-1])
			if e != nil {
				return e
			}
			game.Ops = append(game.Ops, &MoveNumber{common, n})
		default:
			if end, ok := results[tok]; ok {
				game.Ops = append(game.Ops, &GameOver{common, end})
				continue
			}
			trimmed := strings.TrimRight(tok, "?!'")
			move, e := ParseMove(trimmed)
			if e != nil {
				return e
			}
			game.Ops = append(game.Ops, &Move{common, move, tok[len(trimmed):]})
		}
	}
	return s.Err()
}

func splitMoves(buf []byte, atEOF bool) (int, []byte, error) {
	start := 0
	for start < len(buf) && unicode.IsSpace(rune(buf[start])) {
		start++
	}
	if start == len(buf) {
		return start, nil, nil
	}
	if buf[start] == '{' {
		for i := start; i < len(buf); i++ {
			if buf[i] == '}' {
				return i + 1, buf[start : i+1], nil
			}
		}
	} else {
		for i := start; i < len(buf); i++ {
			if unicode.IsSpace(rune(buf[i])) {
				return i + 1, buf[start:i], nil
			}
		}
	}
	if atEOF {
		return len(buf), buf[start:], nil
	}
	return start, nil, nil
}

func skipWS(r *bufio.Reader) error {
	for {
		c, e := r.ReadByte()
		if e != nil {
			return e
		}
		if !unicode.IsSpace(rune(c)) {
			return r.UnreadByte()
		}
	}
}

func FormatResult(d isola.WinDetails) string {
	switch {
	case d.Reason == isola.WinByIsolation && d.Winner == isola.White:
		return "I-0"
	case d.Reason == isola.WinByIsolation && d.Winner == isola.Black:
		return "0-I"
	case d.Reason == isola.WinOnTime && d.Winner == isola.White:
		return "T-0"
	case d.Reason == isola.WinOnTime && d.Winner == isola.Black:
		return "0-T"
	case d.Winner == isola.White:
		return "1-0"
	default:
		return "0-1"
	}
}

func (g *ISN) Render() string {
	var out bytes.Buffer
	for _, tag := range g.Tags {
		fmt.Fprintf(&out, "[%s \"%s\"]\n",
			tag.Name, strings.Replace(tag.Value, "\"", "", -1),
		)
	}
	out.WriteString("\n")

	for _, op := range g.Ops {
		switch o := op.(type) {
		case *MoveNumber:
			fmt.Fprintf(&out, "\n%d.", o.Number)
		case *Move:
			fmt.Fprintf(&out, " %s%s", FormatMove(o.Move), o.Modifiers)
		case *Comment:
			fmt.Fprintf(&out, " {%s}", o.Comment)
		case *GameOver:
			fmt.Fprintf(&out, "\n%s\n", FormatResult(o.End))
		}
	}
	return out.String()
}
