// Package iei implements the Isola Engine Interface, a UCI-style line
// protocol for driving an engine over a pipe. The Engine side serves
// the protocol on an io stream; the Client side runs an engine as a
// subprocess and plays it like any other player.
package iei

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nholt/anchorite/ai"
	"github.com/nholt/anchorite/bitboard"
	"github.com/nholt/anchorite/isn"
	"github.com/nholt/anchorite/isola"
)

type Engine struct {
	// ConfigFactory builds the search configuration when a game
	// starts. Nil means a depth-unlimited search driven purely by
	// the clock.
	ConfigFactory func(width, height int) ai.MinimaxConfig

	in  *bufio.Reader
	out io.Writer

	mm     *ai.MinimaxAI
	pos    *isola.Position
	width  int
	height int
}

func NewEngine(in io.Reader, out io.Writer) *Engine {
	return &Engine{
		in:     bufio.NewReader(in),
		out:    out,
		width:  isola.DefaultWidth,
		height: isola.DefaultHeight,
	}
}

func (e *Engine) Run(ctx context.Context) error {
	for {
		line, err := e.in.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line = line[:len(line)-1]
		if line == "" {
			continue
		}
		words := strings.Split(line, " ")
		switch words[0] {
		case "iei":
			fmt.Fprintln(e.out, "id name Anchorite")
			fmt.Fprintln(e.out, "id author Nathan Holt")
			fmt.Fprintln(e.out, "ieiok")
		case "quit":
			return nil
		case "ieinewgame":
			if err := e.newGame(words); err != nil {
				return err
			}
		case "position":
			e.pos, err = parsePosition(e.width, e.height, words)
			if err != nil {
				return fmt.Errorf("parse position: %w", err)
			}
		case "go":
			if err := e.analyze(ctx, words); err != nil {
				log.Error().Msgf("[iei] go: %v", err)
			}
		case "stop":
		case "isready":
			fmt.Fprintln(e.out, "readyok")
		default:
			return fmt.Errorf("unknown command: %q", line)
		}
	}
}

func (e *Engine) newGame(words []string) error {
	e.mm = nil
	e.pos = nil
	e.width, e.height = isola.DefaultWidth, isola.DefaultHeight
	if len(words) == 1 {
		return nil
	}
	if len(words) != 3 {
		return errors.New("ieinewgame: expected WIDTH HEIGHT")
	}
	w, err := strconv.Atoi(words[1])
	if err != nil {
		return fmt.Errorf("bad width: %s", words[1])
	}
	h, err := strconv.Atoi(words[2])
	if err != nil {
		return fmt.Errorf("bad height: %s", words[2])
	}
	if w < 2 || w > 26 || h < 2 || w*h > bitboard.MaxCells {
		return fmt.Errorf("bad size: %dx%d", w, h)
	}
	e.width, e.height = w, h
	return nil
}

func parsePosition(width, height int, words []string) (*isola.Position, error) {
	var pos *isola.Position
	words = words[1:]
	if len(words) == 0 {
		return nil, errors.New("not enough arguments")
	}
	switch words[0] {
	case "startpos":
		words = words[1:]
		pos = isola.New(isola.Config{Width: width, Height: height})
	case "ips":
		// ips ROWS TURN MOVE
		if len(words) < 4 {
			return nil, errors.New("position ips: not enough arguments")
		}
		var err error
		pos, err = isn.ParseIPS(strings.Join(words[1:4], " "))
		if err != nil {
			return nil, fmt.Errorf("parse IPS: %w", err)
		}
		words = words[4:]
		if pos.Width() != width || pos.Height() != height {
			return nil, fmt.Errorf("ips has wrong size: got %dx%d, configured for %dx%d",
				pos.Width(), pos.Height(), width, height)
		}
	default:
		return nil, fmt.Errorf("unknown initial position: %q", words[0])
	}
	if len(words) == 0 {
		return pos, nil
	}
	if words[0] != "moves" {
		return nil, errors.New("position: expected `moves'")
	}
	words = words[1:]
	for _, w := range words {
		move, err := isn.ParseMove(w)
		if err != nil {
			return nil, fmt.Errorf("parse move %q: %w", w, err)
		}
		next, err := pos.Move(move)
		if err != nil {
			return nil, fmt.Errorf("move %q: %w", w, err)
		}
		pos = &next
	}
	return pos, nil
}

func (e *Engine) analyze(ctx context.Context, words []string) error {
	if e.pos == nil {
		return errors.New("no position provided")
	}
	if e.mm == nil {
		var cfg ai.MinimaxConfig
		if e.ConfigFactory != nil {
			cfg = e.ConfigFactory(e.width, e.height)
		}
		e.mm = ai.NewMinimax(cfg)
	}
	words = words[1:]
	var movetime, wtime, btime, winc, binc time.Duration
	for len(words) > 0 {
		if len(words) < 2 {
			return fmt.Errorf("go %s: expected a value", words[0])
		}
		ms, err := strconv.ParseUint(words[1], 10, 64)
		if err != nil {
			return fmt.Errorf("go %s: bad value %q", words[0], words[1])
		}
		d := time.Duration(ms) * time.Millisecond
		switch words[0] {
		case "movetime":
			movetime = d
		case "wtime":
			wtime = d
		case "btime":
			btime = d
		case "winc":
			winc = d
		case "binc":
			binc = d
		default:
			return fmt.Errorf("go: unknown option %q", words[0])
		}
		words = words[2:]
	}
	game, inc := wtime, winc
	if e.pos.ToMove() == isola.Black {
		game, inc = btime, binc
	}

	ctx, cancel := context.WithTimeout(ctx, calcBudget(movetime, game, inc))
	defer cancel()

	pv, val, stats := e.mm.Analyze(ctx, e.pos)
	if len(pv) == 0 {
		return errors.New("no legal moves")
	}
	var pvs strings.Builder
	for _, m := range pv {
		pvs.WriteString(" ")
		pvs.WriteString(isn.FormatMove(m))
	}
	fmt.Fprintf(e.out, "info depth %d time %d nodes %d score cp %d pv%s\n",
		stats.Depth,
		stats.Elapsed/time.Millisecond,
		stats.Visited,
		val,
		pvs.String(),
	)
	fmt.Fprintf(e.out, "bestmove %s\n", isn.FormatMove(pv[0]))
	return nil
}
