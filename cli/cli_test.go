package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nholt/anchorite/ai"
	"github.com/nholt/anchorite/isntest"
	"github.com/nholt/anchorite/isola"
)

type aiPlayer struct {
	p ai.IsolaPlayer
}

func (a *aiPlayer) GetMove(pos *isola.Position) isola.Move {
	return a.p.GetMove(context.Background(), pos)
}

func TestPlayToCompletion(t *testing.T) {
	var out bytes.Buffer
	c := &CLI{
		Config: isola.Config{Width: 5, Height: 5},
		Out:    &out,
		White:  &aiPlayer{ai.NewRandom(1)},
		Black:  &aiPlayer{ai.NewRandom(2)},
	}
	p := c.Play()
	over, winner := p.GameOver()
	require.True(t, over)
	assert.NotEqual(t, isola.NoColor, winner)
	assert.NotEmpty(t, c.Moves())
	assert.Contains(t, out.String(), "[white to play]")
	assert.Contains(t, out.String(), "Game Over!")
	assert.Contains(t, out.String(), "wins by isolation")
}

func TestRenderBoard(t *testing.T) {
	var out bytes.Buffer
	p := isntest.Position("....2/...../..x../...../1.... 2 3")
	RenderBoard(nil, &out, p)
	s := out.String()
	assert.Contains(t, s, "[black to play]")
	lines := strings.Split(s, "\n")
	require.GreaterOrEqual(t, len(lines), 8)
	// ranks top down, then the file footer
	assert.Equal(t, " 5.  .  .  .  .  2", lines[2])
	assert.Equal(t, " 3.  .  .  x  .  .", lines[4])
	assert.Equal(t, " 1.  1  .  .  .  .", lines[6])
	assert.Equal(t, "     a  b  c  d  e", lines[7])
	assert.Contains(t, s, "liberties: white=2 black=2")
}
