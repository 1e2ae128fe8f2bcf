package ai

import (
	"bytes"
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nholt/anchorite/clock"
	"github.com/nholt/anchorite/isn"
	"github.com/nholt/anchorite/isola"
)

const (
	MaxEval      int64 = 1 << 30
	MinEval            = -MaxEval
	WinThreshold       = 1 << 29

	// A game never outlasts the board, so neither can the search.
	maxDepth = 128

	// A knight has at most eight destinations.
	maxBranch = 8
)

type MinimaxConfig struct {
	Depth int
	Debug int

	// NoPrune disables the alpha-beta cutoff, searching the full
	// game tree to each depth. Scores are unchanged; only the node
	// counts differ.
	NoPrune bool

	// Buffer is held back from the context deadline so the search
	// answers before the driver's hard limit. Zero means
	// clock.DefaultBuffer.
	Buffer time.Duration

	Evaluate EvaluationFunc
}

type MinimaxAI struct {
	cfg MinimaxConfig

	st       Stats
	evaluate EvaluationFunc

	stack [maxDepth]struct {
		moves [maxBranch]isola.Move
		pv    [maxDepth]isola.Move
	}

	cancel *int32
}

type Stats struct {
	Depth     int
	Generated uint64
	Evaluated uint64
	Terminal  uint64
	Visited   uint64
	CutNodes  uint64
	Elapsed   time.Duration
}

func NewMinimax(cfg MinimaxConfig) *MinimaxAI {
	m := &MinimaxAI{cfg: cfg}
	if m.cfg.Depth == 0 {
		m.cfg.Depth = maxDepth
	}
	if m.cfg.Buffer == 0 {
		m.cfg.Buffer = clock.DefaultBuffer
	}
	m.evaluate = cfg.Evaluate
	if m.evaluate == nil {
		m.evaluate = DefaultEvaluate
	}
	return m
}

func formatpv(ms []isola.Move) string {
	var out bytes.Buffer
	out.WriteString("[")
	for i, m := range ms {
		if i != 0 {
			out.WriteString(" ")
		}
		out.WriteString(isn.FormatMove(m))
	}
	out.WriteString("]")
	return out.String()
}

func (m *MinimaxAI) GetMove(ctx context.Context, p *isola.Position) isola.Move {
	ms, _, _ := m.Analyze(ctx, p)
	if len(ms) == 0 {
		return isola.Move{}
	}
	return ms[0]
}

// Analyze deepens an alpha-beta search one ply at a time until the
// budget derived from ctx runs out, and returns the principal
// variation and score of the last completed depth. Before the first
// depth completes the fallback answer is the first legal move, so a
// hopeless budget still yields a legal move.
func (m *MinimaxAI) Analyze(ctx context.Context, p *isola.Position) ([]isola.Move, int64, Stats) {
	var cancel int32
	m.cancel = &cancel
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			atomic.StoreInt32(&cancel, 1)
		case <-done:
		}
	}()

	budget := clock.FromContext(ctx, m.cfg.Buffer)
	if budget.Limited() {
		t := time.AfterFunc(budget.Remaining(), func() {
			atomic.StoreInt32(&cancel, 1)
		})
		defer t.Stop()
	}

	var ms []isola.Move
	var v int64
	var buf [maxBranch]isola.Move
	if all := p.AllMoves(buf[:0]); len(all) > 0 {
		ms = append(ms, all[0])
	}

	top := time.Now()
	var prevEval uint64
	var branchSum uint64
	for i := 1; i <= m.cfg.Depth; i++ {
		m.st = Stats{Depth: i}
		start := time.Now()
		next, nv := m.minimax(p, 0, i, ms, MinEval-1, MaxEval+1)
		if next == nil || atomic.LoadInt32(m.cancel) != 0 {
			break
		}
		ms = append(ms[:0], next...)
		v = nv
		timeUsed := time.Since(top)
		timeMove := time.Since(start)
		if m.cfg.Debug > 0 {
			log.Debug().Msgf("[minimax] deepen: depth=%d val=%d pv=%s time=%s total=%s evaluated=%d branch=%d",
				i, v, formatpv(ms),
				timeMove,
				timeUsed,
				m.st.Evaluated,
				m.st.Evaluated/(prevEval+1),
			)
		}
		if i > 1 {
			branchSum += m.st.Evaluated / (prevEval + 1)
		}
		prevEval = m.st.Evaluated
		if v > WinThreshold || v < -WinThreshold {
			break
		}
		if budget.Limited() && i != m.cfg.Depth {
			branch := uint64(maxBranch)
			if i > 2 {
				// conservatively double the measured growth to
				// allow for uneven depths
				branch = 2 * branchSum / uint64(i-1)
			}
			if time.Duration(branch)*timeMove > budget.Remaining() {
				if m.cfg.Debug > 0 {
					log.Debug().Msgf("[minimax] time cutoff: depth=%d used=%s",
						i, timeUsed)
				}
				break
			}
		}
	}
	m.st.Elapsed = time.Since(top)
	r := make([]isola.Move, len(ms))
	copy(r, ms)
	return r, v, m.st
}

func (ai *MinimaxAI) minimax(
	p *isola.Position,
	ply, depth int,
	pv []isola.Move,
	α, β int64) ([]isola.Move, int64) {
	over, _ := p.GameOver()
	if depth == 0 || over {
		ai.st.Evaluated++
		if over {
			ai.st.Terminal++
		}
		return nil, ai.evaluate(p)
	}

	ai.st.Visited++

	moves := p.AllMoves(ai.stack[ply].moves[:0])
	ai.st.Generated += uint64(len(moves))
	// Search the previous iteration's move first, except at the
	// root, where the move order decides ties and must stay fixed.
	if ply > 0 && len(pv) > 0 {
		for i, m := range moves {
			if i > 0 && m == pv[0] {
				moves[0], moves[i] = moves[i], moves[0]
				break
			}
		}
	}

	best := ai.stack[ply].pv[:0]
	for _, m := range moves {
		child, e := p.Move(m)
		if e != nil {
			continue
		}
		var newpv []isola.Move
		if len(pv) > 0 && m == pv[0] {
			newpv = pv[1:]
		}
		ms, v := ai.minimax(&child, ply+1, depth-1, newpv, -β, -α)
		v = -v

		if len(best) == 0 {
			best = append(best[:0], m)
			best = append(best, ms...)
		}
		if v > α {
			best = append(best[:0], m)
			best = append(best, ms...)
			α = v
			if α >= β && !ai.cfg.NoPrune {
				ai.st.CutNodes++
				break
			}
		}
		if atomic.LoadInt32(ai.cancel) != 0 {
			return nil, 0
		}
	}

	return best, α
}
