package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/nholt/anchorite/isn"
	"github.com/nholt/anchorite/isola"
)

func NewCLIPlayer(out io.Writer, in *bufio.Reader) Player {
	return &cliPlayer{out, in}
}

type cliPlayer struct {
	out io.Writer
	in  *bufio.Reader
}

func (c *cliPlayer) GetMove(p *isola.Position) isola.Move {
	for {
		fmt.Fprintf(c.out, "%s> ", p.ToMove())
		line, err := c.in.ReadString('\n')
		if err != nil {
			panic(err)
		}
		m, err := isn.ParseMove(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintln(c.out, "parse error: ", err)
			continue
		}
		if _, err := p.Move(m); err != nil {
			fmt.Fprintln(c.out, "illegal move: ", err)
			continue
		}
		return m
	}
}
