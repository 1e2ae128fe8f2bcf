package iei

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/nholt/anchorite/clock"
	"github.com/nholt/anchorite/isn"
	"github.com/nholt/anchorite/isola"
)

type Client struct {
	cmd *exec.Cmd

	stdinPipe  io.WriteCloser
	stdoutPipe io.ReadCloser

	read  *bufio.Reader
	write io.Writer

	gameid int
}

func NewClient(cmdline []string) (*Client, error) {
	cmd := &exec.Cmd{
		Args: cmdline,
	}
	if path, err := exec.LookPath(cmdline[0]); err != nil {
		return nil, err
	} else {
		cmd.Path = path
	}

	cl := &Client{
		cmd: cmd,
	}

	if stdin, err := cmd.StdinPipe(); err != nil {
		cl.Close()
		return nil, err
	} else {
		cl.stdinPipe = stdin
		cl.write = stdin
	}

	if stdout, err := cmd.StdoutPipe(); err != nil {
		cl.Close()
		return nil, err
	} else {
		cl.stdoutPipe = stdout
		cl.read = bufio.NewReader(stdout)
	}

	err := cl.cmd.Start()
	if err != nil {
		cl.Close()
		return nil, err
	}

	if _, err := cl.sendCommand("iei", "ieiok"); err != nil {
		cl.Close()
		return nil, err
	}

	return cl, nil
}

// NewGame resets the engine for a fresh game on the given board.
// Players from earlier games become dead.
func (c *Client) NewGame(width, height int) (*Player, error) {
	c.gameid += 1
	if _, err := c.sendCommand(fmt.Sprintf("ieinewgame %d %d", width, height), ""); err != nil {
		return nil, err
	}
	return &Player{
		client: c,
		gameid: c.gameid,
	}, nil
}

func (c *Client) Close() {
	if c.write != nil {
		c.sendCommand("quit", "")
	}
	if c.stdinPipe != nil {
		c.stdinPipe.Close()
	}
	if c.stdoutPipe != nil {
		c.stdoutPipe.Close()
	}
	c.cmd.Wait()
}

func (c *Client) sendCommand(cmd string, expect string) ([]string, error) {
	if _, err := fmt.Fprintln(c.write, cmd); err != nil {
		return nil, err
	}
	if expect == "" {
		return nil, nil
	}

	for {
		line, err := c.read.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = line[:len(line)-1]
		words := strings.Split(line, " ")
		if words[0] == expect {
			return words, nil
		}
	}
}

// A Player relays moves through a Client. It satisfies ai.IsolaPlayer;
// match drivers that track clocks or need protocol errors surfaced
// call IEIGetMove directly.
type Player struct {
	client *Client
	gameid int
}

func (p *Player) GetMove(ctx context.Context, pos *isola.Position) isola.Move {
	m, err := p.IEIGetMove(ctx, pos, nil)
	if err != nil {
		panic(fmt.Sprintf("iei: get move: %v", err))
	}
	return m
}

// IEIGetMove asks the engine for a move at pos. With a time control it
// sends both clocks and lets the engine budget for itself; otherwise
// any ctx deadline becomes a movetime.
func (p *Player) IEIGetMove(ctx context.Context, pos *isola.Position, tc *clock.Control) (isola.Move, error) {
	if p.gameid != p.client.gameid {
		return isola.Move{}, errors.New("get move on a dead player")
	}
	ips := isn.FormatIPS(pos)
	if _, err := p.client.sendCommand(fmt.Sprintf("position ips %s", ips), ""); err != nil {
		return isola.Move{}, fmt.Errorf("send position: %w", err)
	}
	goCmd := "go"
	if tc != nil {
		goCmd = fmt.Sprintf("go wtime %s btime %s winc %s binc %s",
			formatTime(tc.White), formatTime(tc.Black),
			formatTime(tc.WInc), formatTime(tc.BInc))
	} else if deadline, ok := ctx.Deadline(); ok {
		goCmd = fmt.Sprintf("go movetime %s", formatTime(time.Until(deadline)))
	}
	bestmove, err := p.client.sendCommand(goCmd, "bestmove")
	if err != nil {
		return isola.Move{}, err
	}
	if len(bestmove) != 2 {
		return isola.Move{}, fmt.Errorf("bad bestmove: %q", strings.Join(bestmove, " "))
	}
	mv, err := isn.ParseMove(bestmove[1])
	if err != nil {
		return isola.Move{}, fmt.Errorf("parse bestmove %q: %w", bestmove[1], err)
	}
	return mv, nil
}
