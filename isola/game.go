package isola

import (
	"errors"

	"github.com/nholt/anchorite/bitboard"
)

type Config struct {
	Width  int
	Height int

	c bitboard.Constants
}

const (
	DefaultWidth  = 11
	DefaultHeight = 9
)

// New constructs the initial position for a game: an empty board with
// white's token centered on the bottom row and black's centered on the
// top row, white to move.
func New(g Config) *Position {
	if g.Width == 0 {
		g.Width = DefaultWidth
	}
	if g.Height == 0 {
		g.Height = DefaultHeight
	}
	if g.Width < 2 || g.Height < 2 {
		panic("isola: board too small")
	}
	g.c = bitboard.Precompute(uint(g.Width), uint(g.Height))
	p := &Position{
		cfg:   &g,
		white: uint8(bitboard.Index(&g.c, uint(g.Width/2), 0)),
		black: uint8(bitboard.Index(&g.c, uint(g.Width/2), uint(g.Height-1))),
		move:  0,
	}
	return p
}

// A Position is one state of the game. It is a small value; search
// code copies it by assignment and never mutates a state it was
// handed.
type Position struct {
	cfg     *Config
	white   uint8
	black   uint8
	blocked bitboard.Mask
	move    int
}

// FromState initializes a Position with the given blocked cells, token
// locations, and move number.
func FromState(g Config, blocked bitboard.Mask, white, black Move, move int) (*Position, error) {
	p := New(Config{Width: g.Width, Height: g.Height})
	c := &p.cfg.c
	if !p.inBounds(white) || !p.inBounds(black) {
		return nil, errors.New("token out of bounds")
	}
	wi := bitboard.Index(c, uint(white.X), uint(white.Y))
	bi := bitboard.Index(c, uint(black.X), uint(black.Y))
	if wi == bi {
		return nil, errors.New("tokens on the same cell")
	}
	if blocked.Test(wi) || blocked.Test(bi) {
		return nil, errors.New("token on a blocked cell")
	}
	if !blocked.AndNot(c.Mask).Empty() {
		return nil, errors.New("blocked cell out of bounds")
	}
	p.white = uint8(wi)
	p.black = uint8(bi)
	p.blocked = blocked
	p.move = move
	return p, nil
}

func (p *Position) Width() int {
	return p.cfg.Width
}

func (p *Position) Height() int {
	return p.cfg.Height
}

func (p *Position) ToMove() Color {
	if p.move%2 == 0 {
		return White
	}
	return Black
}

func (p *Position) MoveNumber() int {
	return p.move
}

// Token returns the coordinates of the named player's token.
func (p *Position) Token(c Color) (x, y int) {
	i := uint(p.white)
	if c == Black {
		i = uint(p.black)
	}
	cx, cy := bitboard.Coords(&p.cfg.c, i)
	return int(cx), int(cy)
}

func (p *Position) Blocked(x, y int) bool {
	return p.blocked.Test(bitboard.Index(&p.cfg.c, uint(x), uint(y)))
}

func (p *Position) BlockedMask() bitboard.Mask {
	return p.blocked
}

func (p *Position) inBounds(m Move) bool {
	return m.X >= 0 && int(m.X) < p.cfg.Width &&
		m.Y >= 0 && int(m.Y) < p.cfg.Height
}

func (p *Position) token(c Color) uint {
	if c == Black {
		return uint(p.black)
	}
	return uint(p.white)
}

// libertyMask is the set of cells the named player could jump to from
// here: knight destinations that are neither blocked nor under a
// token.
func (p *Position) libertyMask(c Color) bitboard.Mask {
	occ := p.blocked.Set(uint(p.white)).Set(uint(p.black))
	return p.cfg.c.Knight[p.token(c)].AndNot(occ)
}

// Liberties counts the moves available to the named player from this
// position, whether or not it is their turn.
func (p *Position) Liberties(c Color) int {
	return p.libertyMask(c).Popcount()
}

// Reach counts the cells the named player could eventually visit by
// chaining knight jumps, were the opponent to stand still. It bounds
// the territory still open to that player.
func (p *Position) Reach(c Color) int {
	occ := p.blocked.Set(uint(p.white)).Set(uint(p.black))
	open := p.cfg.c.Mask.AndNot(occ)
	return bitboard.KnightFlood(&p.cfg.c, open, p.libertyMask(c)).Popcount()
}

// GameOver returns whether the game is over and, if it is, the winner.
// The game ends when the player to move has no moves; that player
// loses.
func (p *Position) GameOver() (over bool, winner Color) {
	if p.libertyMask(p.ToMove()).Empty() {
		return true, p.ToMove().Flip()
	}
	return false, NoColor
}

type WinReason int

const (
	WinByIsolation WinReason = iota
	WinOnTime
	WinByResignation
)

type WinDetails struct {
	Winner Color
	Reason WinReason
}

func (p *Position) WinDetails() WinDetails {
	over, c := p.GameOver()
	if !over {
		panic("WinDetails on a game not over")
	}
	return WinDetails{Winner: c, Reason: WinByIsolation}
}

const (
	WinUtility  float64 = 1
	LossUtility float64 = -1
)

// Utility scores a finished game from the named player's perspective.
// It panics if the game is not over.
func (p *Position) Utility(who Color) float64 {
	over, winner := p.GameOver()
	if !over {
		panic("Utility on a game not over")
	}
	if winner == who {
		return WinUtility
	}
	return LossUtility
}
