package isola

import (
	"errors"

	"github.com/nholt/anchorite/bitboard"
)

// A Move names the cell the player to move jumps their token to.
type Move struct {
	X, Y int8
}

var (
	ErrOutOfBounds    = errors.New("move out of bounds")
	ErrNotAKnightMove = errors.New("not a knight move")
	ErrBlocked        = errors.New("destination is blocked")
	ErrOccupied       = errors.New("destination is occupied")
)

// Move applies m for the player to move and returns the resulting
// position. The mover's old cell becomes blocked for the rest of the
// game.
func (p *Position) Move(m Move) (Position, error) {
	if !p.inBounds(m) {
		return Position{}, ErrOutOfBounds
	}
	c := &p.cfg.c
	i := bitboard.Index(c, uint(m.X), uint(m.Y))
	from := p.token(p.ToMove())
	if !c.Knight[from].Test(i) {
		return Position{}, ErrNotAKnightMove
	}
	if p.blocked.Test(i) {
		return Position{}, ErrBlocked
	}
	if i == uint(p.white) || i == uint(p.black) {
		return Position{}, ErrOccupied
	}

	next := *p
	next.blocked = next.blocked.Set(from)
	if p.ToMove() == White {
		next.white = uint8(i)
	} else {
		next.black = uint8(i)
	}
	next.move++
	return next, nil
}

// AllMoves appends every legal move for the player to move onto moves
// and returns the result. Moves come out in cell order, lowest index
// first, so the ordering is stable for a given position.
func (p *Position) AllMoves(moves []Move) []Move {
	m := p.libertyMask(p.ToMove())
	for !m.Empty() {
		var i uint
		i, m = m.Next()
		x, y := bitboard.Coords(&p.cfg.c, i)
		moves = append(moves, Move{X: int8(x), Y: int8(y)})
	}
	return moves
}
