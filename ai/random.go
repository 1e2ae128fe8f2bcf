package ai

import (
	"context"
	"time"

	"golang.org/x/exp/rand"

	"github.com/nholt/anchorite/isola"
)

type RandomAI struct {
	r *rand.Rand
}

func NewRandom(seed int64) *RandomAI {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomAI{
		r: rand.New(rand.NewSource(uint64(seed))),
	}
}

func (r *RandomAI) GetMove(ctx context.Context, p *isola.Position) isola.Move {
	var buf [8]isola.Move
	moves := p.AllMoves(buf[:0])
	if len(moves) == 0 {
		return isola.Move{}
	}
	return moves[r.r.Intn(len(moves))]
}
