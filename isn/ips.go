package isn

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nholt/anchorite/bitboard"
	"github.com/nholt/anchorite/isola"
)

// ParseIPS reads an Isola position string: board rows from the top
// down joined by "/", with "." open, "x" blocked, and "1"/"2" the
// tokens, then the player to move and the full-move number. For
// example "...../..x../.1.2./..... 2 7".
func ParseIPS(ips string) (*isola.Position, error) {
	words := strings.Split(ips, " ")
	if len(words) != 3 {
		return nil, errors.New("bad IPS: wrong number of words")
	}
	turn, err := strconv.Atoi(words[1])
	if err != nil || (turn != 1 && turn != 2) {
		return nil, fmt.Errorf("bad turn: %s", words[1])
	}
	moveno, err := strconv.Atoi(words[2])
	if err != nil || moveno < 1 {
		return nil, fmt.Errorf("bad move: %s", words[2])
	}
	ply := 2*(moveno-1) + (turn - 1)

	rows := strings.Split(words[0], "/")
	h := len(rows)
	if h < 2 {
		return nil, fmt.Errorf("bad size board: %d rows", h)
	}
	w := len(rows[0])
	if w < 2 || w > 26 || w*h > bitboard.MaxCells {
		return nil, fmt.Errorf("bad size board: %dx%d", w, h)
	}
	var blocked bitboard.Mask
	var white, black isola.Move
	nw, nb := 0, 0
	for ri, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("row %d bad length: %d", ri, len(row))
		}
		y := h - 1 - ri
		for x := 0; x < w; x++ {
			switch row[x] {
			case '.':
			case 'x':
				blocked = blocked.Set(uint(y*w + x))
			case '1':
				white = isola.Move{X: int8(x), Y: int8(y)}
				nw++
			case '2':
				black = isola.Move{X: int8(x), Y: int8(y)}
				nb++
			default:
				return nil, fmt.Errorf("bad cell: %q", row[x])
			}
		}
	}
	if nw != 1 || nb != 1 {
		return nil, fmt.Errorf("want one token per player, have %d white and %d black", nw, nb)
	}
	return isola.FromState(isola.Config{Width: w, Height: h}, blocked, white, black, ply)
}

func FormatIPS(p *isola.Position) string {
	wx, wy := p.Token(isola.White)
	bx, by := p.Token(isola.Black)
	var rows []string
	for y := p.Height() - 1; y >= 0; y-- {
		row := make([]byte, p.Width())
		for x := 0; x < p.Width(); x++ {
			switch {
			case x == wx && y == wy:
				row[x] = '1'
			case x == bx && y == by:
				row[x] = '2'
			case p.Blocked(x, y):
				row[x] = 'x'
			default:
				row[x] = '.'
			}
		}
		rows = append(rows, string(row))
	}
	var toMove string
	if p.ToMove() == isola.White {
		toMove = "1"
	} else {
		toMove = "2"
	}
	return fmt.Sprintf("%s %s %d", strings.Join(rows, "/"), toMove, p.MoveNumber()/2+1)
}
