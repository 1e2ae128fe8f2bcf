package isn

import (
	"fmt"

	"github.com/nholt/anchorite/isola"
)

// An Iterator replays a game record position by position. Each Next
// reports the position before the pending move; PeekMove is the move
// about to be played.
type Iterator struct {
	isn *ISN
	i   int

	err  error
	over bool

	position *isola.Position
	isnMove  int
	move     isola.Move
	pending  bool
}

func (g *ISN) Iterator() *Iterator {
	pos, err := g.InitialPosition()
	return &Iterator{
		isn:      g,
		position: pos,
		err:      err,
	}
}

func (i *Iterator) Err() error {
	return i.err
}

func (i *Iterator) apply() bool {
	next, e := i.position.Move(i.move)
	if e != nil {
		i.err = e
		return false
	}
	*i.position = next
	i.pending = false
	return true
}

func (i *Iterator) Next() bool {
	if i.err != nil || i.over {
		return false
	}

	if i.pending {
		if !i.apply() {
			return false
		}
		if ok, _ := i.position.GameOver(); ok {
			return true
		}
	}

	for i.i < len(i.isn.Ops) {
		op := i.isn.Ops[i.i]
		i.i++
		switch o := op.(type) {
		case *MoveNumber:
			i.isnMove = o.Number
		case *Move:
			i.move = o.Move
			i.pending = true
			return true
		}
	}
	i.over = true
	if i.pending {
		return i.apply()
	}
	return true
}

// PositionAtMove replays the record to the position just before the
// given numbered move with color to play. Number 0 yields the position
// after the last recorded move.
func (g *ISN) PositionAtMove(number int, color isola.Color) (*isola.Position, error) {
	it := g.Iterator()
	for it.Next() {
		if number != 0 && it.ISNMove() == number && it.Position().ToMove() == color {
			p := *it.Position()
			return &p, nil
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	if number == 0 {
		p := *it.Position()
		return &p, nil
	}
	return nil, fmt.Errorf("no move %d for %s", number, color)
}

func (i *Iterator) Position() *isola.Position {
	return i.position
}

func (i *Iterator) ISNMove() int {
	return i.isnMove
}

func (i *Iterator) PeekMove() isola.Move {
	return i.move
}
