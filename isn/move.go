// Package isn reads and writes Isola Standard Notation: algebraic
// moves ("c2"), position strings, and whole game records.
package isn

import (
	"errors"
	"regexp"

	"github.com/nholt/anchorite/isola"
)

var moveRE = regexp.MustCompile(`^([a-z])([1-9][0-9]?)$`)

func ParseMove(move string) (isola.Move, error) {
	groups := moveRE.FindStringSubmatch(move)
	if groups == nil {
		return isola.Move{}, errors.New("illegal move")
	}
	x := groups[1][0] - 'a'
	rank := int(groups[2][0] - '0')
	if len(groups[2]) == 2 {
		rank = 10*rank + int(groups[2][1]-'0')
	}
	return isola.Move{X: int8(x), Y: int8(rank - 1)}, nil
}

func FormatMove(m isola.Move) string {
	out := []byte{byte('a' + m.X)}
	rank := int(m.Y) + 1
	if rank >= 10 {
		out = append(out, byte('0'+rank/10))
	}
	out = append(out, byte('0'+rank%10))
	return string(out)
}

func FormatMoves(ms []isola.Move) string {
	var out []byte
	for i, m := range ms {
		if i != 0 {
			out = append(out, ' ')
		}
		out = append(out, FormatMove(m)...)
	}
	return string(out)
}
