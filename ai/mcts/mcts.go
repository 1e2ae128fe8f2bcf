package mcts

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/nholt/anchorite/clock"
	"github.com/nholt/anchorite/isn"
	"github.com/nholt/anchorite/isola"
)

type MCTSConfig struct {
	Debug int
	Limit time.Duration
	C     float64
	Seed  int64

	// Cycles bounds the number of search cycles. Zero means search
	// until the time budget runs out.
	Cycles int

	// Buffer is held back from the deadline so the in-flight cycle
	// can finish. Zero means clock.DefaultBuffer.
	Buffer time.Duration
}

type MonteCarloAI struct {
	cfg MCTSConfig

	r     *rand.Rand
	arena []node
}

// A knight has at most eight destinations.
const maxMoves = 8

// A node lives in the search arena and refers to its parent and
// children by index. moves holds the legal moves at pos; the first
// nchild of them have been expanded, child i through moves[i].
type node struct {
	pos    isola.Position
	parent int32

	visits int
	reward float64

	nmoves int8
	nchild int8

	moves    [maxMoves]isola.Move
	children [maxMoves]int32
}

func NewMonteCarlo(cfg MCTSConfig) *MonteCarloAI {
	mc := &MonteCarloAI{cfg: cfg}
	if mc.cfg.C == 0 {
		mc.cfg.C = math.Sqrt2
	}
	if mc.cfg.Limit == 0 {
		mc.cfg.Limit = clock.DefaultLimit
	}
	if mc.cfg.Buffer == 0 {
		mc.cfg.Buffer = clock.DefaultBuffer
	}
	if mc.cfg.Seed == 0 {
		mc.cfg.Seed = time.Now().UnixNano()
	}
	mc.r = rand.New(rand.NewSource(uint64(mc.cfg.Seed)))
	return mc
}

// GetMove runs select, expand, rollout, backprop cycles until the
// budget derived from ctx (capped at cfg.Limit) runs out, then plays
// the root move with the best mean reward. Ties prefer the more
// visited child, then the earlier move in generation order. With no
// completed cycle the answer is the first legal move.
func (mc *MonteCarloAI) GetMove(ctx context.Context, p *isola.Position) isola.Move {
	var buf [maxMoves]isola.Move
	moves := p.AllMoves(buf[:0])
	if len(moves) == 0 {
		return isola.Move{}
	}

	budget := clock.FromContext(ctx, mc.cfg.Buffer)
	if !budget.Limited() || budget.Remaining() > mc.cfg.Limit {
		budget = clock.New(mc.cfg.Limit, mc.cfg.Buffer)
	}

	if mc.arena == nil {
		mc.arena = make([]node, 0, 1024)
	}
	mc.arena = mc.arena[:0]
	root := node{pos: *p, parent: -1, nmoves: int8(len(moves))}
	copy(root.moves[:], moves)
	mc.arena = append(mc.arena, root)

	cycles := 0
	for mc.cfg.Cycles == 0 || cycles < mc.cfg.Cycles {
		if budget.Expired() || ctx.Err() != nil {
			break
		}
		leaf := mc.pick()
		r := mc.rollout(mc.arena[leaf].pos)
		mc.backprop(leaf, r)
		cycles++
	}

	best := moves[0]
	bestMean := math.Inf(-1)
	bestVisits := 0
	rt := &mc.arena[0]
	for i := int8(0); i < rt.nchild; i++ {
		c := &mc.arena[rt.children[i]]
		mean := c.reward / float64(c.visits)
		if mc.cfg.Debug > 2 {
			log.Debug().Msgf("[mcts][%s]: n=%d q=%.3f",
				isn.FormatMove(rt.moves[i]), c.visits, mean)
		}
		if mean > bestMean || (mean == bestMean && c.visits > bestVisits) {
			best = rt.moves[i]
			bestMean = mean
			bestVisits = c.visits
		}
	}
	if mc.cfg.Debug > 0 {
		log.Debug().Msgf("[mcts] cycles=%d nodes=%d best=%s q=%.3f",
			cycles, len(mc.arena), isn.FormatMove(best), bestMean)
	}
	return best
}

// pick descends from the root by upper confidence bound while nodes
// are fully expanded, and stops at the first node with an untried
// move, expanding it. A node with no moves ends the descent.
func (mc *MonteCarloAI) pick() int32 {
	n := int32(0)
	for {
		nd := &mc.arena[n]
		if nd.nmoves == 0 {
			return n
		}
		if nd.nchild < nd.nmoves {
			return mc.expand(n)
		}
		n = mc.bestChild(n)
	}
}

func (mc *MonteCarloAI) expand(n int32) int32 {
	nd := &mc.arena[n]
	child, _ := nd.pos.Move(nd.moves[nd.nchild])

	var nn node
	nn.pos = child
	nn.parent = n
	nn.nmoves = int8(len(child.AllMoves(nn.moves[:0])))

	ci := int32(len(mc.arena))
	mc.arena = append(mc.arena, nn)
	// the append may have moved the arena
	nd = &mc.arena[n]
	nd.children[nd.nchild] = ci
	nd.nchild++
	return ci
}

func (mc *MonteCarloAI) bestChild(n int32) int32 {
	nd := &mc.arena[n]
	logN := math.Log(float64(nd.visits))
	best := nd.children[0]
	bestScore := math.Inf(-1)
	for i := int8(0); i < nd.nchild; i++ {
		c := &mc.arena[nd.children[i]]
		s := c.reward/float64(c.visits) +
			mc.cfg.C*math.Sqrt(logN/float64(c.visits))
		if s > bestScore {
			best = nd.children[i]
			bestScore = s
		}
	}
	return best
}

// rollout plays uniformly random moves from pos until the game ends.
// The reward is scored for the player whose move created pos: +1 when
// they win the playout, -1 when they lose it.
func (mc *MonteCarloAI) rollout(pos isola.Position) float64 {
	mover := pos.ToMove()
	var buf [maxMoves]isola.Move
	for {
		ms := pos.AllMoves(buf[:0])
		if len(ms) == 0 {
			// pos.ToMove() is isolated and loses
			if pos.ToMove() == mover {
				return isola.WinUtility
			}
			return isola.LossUtility
		}
		pos, _ = pos.Move(ms[mc.r.Intn(len(ms))])
	}
}

// backprop adds the reward along the path back to the root, flipping
// its sign at each level so every node accumulates reward from the
// perspective of the player who moved into it.
func (mc *MonteCarloAI) backprop(n int32, r float64) {
	for n >= 0 {
		nd := &mc.arena[n]
		nd.visits++
		nd.reward += r
		n = nd.parent
		r = -r
	}
}
