package ai

import (
	"context"
	"time"

	"golang.org/x/exp/rand"

	"github.com/nholt/anchorite/isola"
)

// GreedyAI plays the move with the best evaluation one ply ahead,
// breaking ties uniformly at random.
type GreedyAI struct {
	r        *rand.Rand
	evaluate EvaluationFunc
}

func NewGreedy(seed int64, evaluate EvaluationFunc) *GreedyAI {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if evaluate == nil {
		evaluate = DefaultEvaluate
	}
	return &GreedyAI{
		r:        rand.New(rand.NewSource(uint64(seed))),
		evaluate: evaluate,
	}
}

func (g *GreedyAI) GetMove(ctx context.Context, p *isola.Position) isola.Move {
	var buf [8]isola.Move
	moves := p.AllMoves(buf[:0])
	if len(moves) == 0 {
		return isola.Move{}
	}
	best := moves[0]
	val := MinEval - 1
	i := 0
	for _, m := range moves {
		child, e := p.Move(m)
		if e != nil {
			continue
		}
		v := -g.evaluate(&child)
		if v > val {
			best = m
			val = v
			i = 1
		} else if v == val {
			i++
			if g.r.Intn(i) == 0 {
				best = m
			}
		}
	}
	return best
}
