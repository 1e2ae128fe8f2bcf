package iei

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nholt/anchorite/clock"
	"github.com/nholt/anchorite/isn"
	"github.com/nholt/anchorite/isntest"
	"github.com/nholt/anchorite/isola"
)

func TestCalcBudget(t *testing.T) {
	cases := []struct {
		Move   time.Duration
		Game   time.Duration
		Inc    time.Duration
		Expect time.Duration
	}{
		{0, 3 * time.Second, 3 * time.Second, 0},
		{time.Second, 3 * time.Second, 3 * time.Second, time.Second},
		{5 * time.Second, 3 * time.Second, 3 * time.Second, 0},
		{0, 0, 0, clock.DefaultLimit},
		{2 * time.Second, 0, 0, 2 * time.Second},
		{0, 10 * time.Second, 100 * time.Millisecond, 1100 * time.Millisecond},
	}
	for _, tc := range cases {
		got := calcBudget(tc.Move, tc.Game, tc.Inc)
		if tc.Expect != 0 {
			assert.Equal(t, tc.Expect, got)
		}
		if tc.Game != 0 {
			assert.Less(t, int64(got), int64(tc.Game))
		}
		if tc.Move != 0 {
			assert.LessOrEqual(t, int64(got), int64(tc.Move))
		}
	}
}

func TestParsePosition(t *testing.T) {
	pos, err := parsePosition(5, 5, strings.Split("position startpos moves d3 e4", " "))
	require.NoError(t, err)
	want := isntest.Play(5, 5, "d3 e4")
	assert.Equal(t, isn.FormatIPS(want), isn.FormatIPS(pos))

	pos, err = parsePosition(5, 5, strings.Split("position ips ....2/...../..x../...../1.... 2 3 moves c4", " "))
	require.NoError(t, err)
	assert.Equal(t, isola.White, pos.ToMove())
	x, y := pos.Token(isola.Black)
	assert.Equal(t, [2]int{2, 3}, [2]int{x, y})

	bad := []string{
		"position",
		"position nonsense",
		"position ips ....2/...../1.... 2 3",
		"position startpos moves a9",
		"position startpos moves d3 d3",
		"position startpos d3",
	}
	for _, tc := range bad {
		_, err := parsePosition(5, 5, strings.Split(tc, " "))
		assert.Error(t, err, "parse %q", tc)
	}
}

func TestEngineScript(t *testing.T) {
	script := strings.Join([]string{
		"iei",
		"isready",
		"ieinewgame 5 5",
		"position startpos moves d3 e4",
		"go movetime 50",
		"quit",
	}, "\n") + "\n"
	var out bytes.Buffer
	e := NewEngine(strings.NewReader(script), &out)
	require.NoError(t, e.Run(context.Background()))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 6)
	assert.Equal(t, "id name Anchorite", lines[0])
	assert.Equal(t, "ieiok", lines[2])
	assert.Equal(t, "readyok", lines[3])

	info := lines[len(lines)-2]
	best := lines[len(lines)-1]
	assert.True(t, strings.HasPrefix(info, "info depth "), "info line: %q", info)
	require.True(t, strings.HasPrefix(best, "bestmove "), "bestmove line: %q", best)

	m, err := isn.ParseMove(strings.TrimPrefix(best, "bestmove "))
	require.NoError(t, err)
	pos := isntest.Play(5, 5, "d3 e4")
	_, err = pos.Move(m)
	assert.NoError(t, err, "bestmove %s is not legal", strings.TrimPrefix(best, "bestmove "))
}

func TestEngineBadCommand(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(strings.NewReader("flarp\n"), &out)
	assert.Error(t, e.Run(context.Background()))
}
