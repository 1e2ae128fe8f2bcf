// Package cli plays games on a terminal, rendering the board between
// moves.
package cli

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/nholt/anchorite/isn"
	"github.com/nholt/anchorite/isola"
)

// A Player picks a move at p. Unlike ai.IsolaPlayer there is no
// deadline; interactive players take as long as they like.
type Player interface {
	GetMove(p *isola.Position) isola.Move
}

type Glyphs struct {
	White   string
	Black   string
	Blocked string
	Open    string
}

var DefaultGlyphs = Glyphs{
	White:   "1",
	Black:   "2",
	Blocked: "x",
	Open:    ".",
}

var UnicodeGlyphs = Glyphs{
	White:   "♘",
	Black:   "♞",
	Blocked: "■",
	Open:    "·",
}

type CLI struct {
	moves []isola.Move
	p     *isola.Position

	Config isola.Config
	Glyphs *Glyphs
	Out    io.Writer
	White  Player
	Black  Player
}

func (c *CLI) Play() *isola.Position {
	c.moves = nil
	c.p = isola.New(c.Config)
	for {
		c.render()
		if ok, _ := c.p.GameOver(); ok {
			d := c.p.WinDetails()
			fmt.Fprintf(c.Out, "Game Over! %s wins", d.Winner)
			switch d.Reason {
			case isola.WinByIsolation:
				fmt.Fprintf(c.Out, " by isolation")
			case isola.WinOnTime:
				fmt.Fprintf(c.Out, " on time")
			}
			fmt.Fprintf(c.Out, "\nliberties: white=%d black=%d\n",
				c.p.Liberties(isola.White),
				c.p.Liberties(isola.Black))
			return c.p
		}
		var m isola.Move
		if c.p.ToMove() == isola.White {
			m = c.White.GetMove(c.p)
		} else {
			m = c.Black.GetMove(c.p)
		}
		p, e := c.p.Move(m)
		if e != nil {
			fmt.Fprintln(c.Out, "illegal move:", e)
		} else {
			if c.p.ToMove() == isola.White {
				fmt.Fprintf(c.Out, "%d. %s", c.p.MoveNumber()/2+1, isn.FormatMove(m))
			} else {
				fmt.Fprintf(c.Out, "%d. ... %s", c.p.MoveNumber()/2+1, isn.FormatMove(m))
			}
			c.p = &p
			c.moves = append(c.moves, m)
		}
	}
}

func (c *CLI) Moves() []isola.Move {
	return c.moves
}

func (c *CLI) render() {
	RenderBoard(c.Glyphs, c.Out, c.p)
}

// RenderBoard draws p with rank and file labels, top row first.
// Colors degrade to plain glyphs when out is not a terminal.
func RenderBoard(g *Glyphs, out io.Writer, p *isola.Position) {
	if g == nil {
		g = &DefaultGlyphs
	}
	o := termenv.NewOutput(out)
	white := o.String(g.White).Foreground(termenv.ANSIBrightCyan).Bold().String()
	black := o.String(g.Black).Foreground(termenv.ANSIBrightYellow).Bold().String()
	blocked := o.String(g.Blocked).Faint().String()

	fmt.Fprintln(out)
	fmt.Fprintf(out, "[%s to play]\n", p.ToMove())
	wx, wy := p.Token(isola.White)
	bx, by := p.Token(isola.Black)
	for y := p.Height() - 1; y >= 0; y-- {
		fmt.Fprintf(out, "%2d.", y+1)
		for x := 0; x < p.Width(); x++ {
			var cell string
			switch {
			case x == wx && y == wy:
				cell = white
			case x == bx && y == by:
				cell = black
			case p.Blocked(x, y):
				cell = blocked
			default:
				cell = g.Open
			}
			fmt.Fprintf(out, "  %s", cell)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "   ")
	for x := 0; x < p.Width(); x++ {
		fmt.Fprintf(out, "  %c", 'a'+x)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "liberties: white=%d black=%d\n",
		p.Liberties(isola.White),
		p.Liberties(isola.Black))
}
