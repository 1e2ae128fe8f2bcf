package ai

import (
	"context"
	"flag"
	"testing"
	"time"

	"github.com/nholt/anchorite/isn"
	"github.com/nholt/anchorite/isntest"
	"github.com/nholt/anchorite/isola"
)

var depth = flag.Int("depth", 4, "minimax search depth to benchmark")

func BenchmarkMinimax(b *testing.B) {
	cfg := isola.Config{}
	p := isola.New(cfg)
	ai := NewMinimax(MinimaxConfig{Depth: *depth})

	for i := 0; i < b.N; i++ {
		m := ai.GetMove(context.Background(), p)
		next, e := p.Move(m)
		if e != nil {
			b.Fatal("bad move", e)
		}
		*p = next
		if over, _ := p.GameOver(); over {
			p = isola.New(cfg)
		}
	}
}

func TestRegression(t *testing.T) {
	p := isntest.Play(11, 9, "g3 g7 h5 e6 i7 c7")
	ai := NewMinimax(MinimaxConfig{Depth: 3})
	m := ai.GetMove(context.Background(), p)
	if _, e := p.Move(m); e != nil {
		t.Fatalf("ai returned illegal move: %s: %s", isn.FormatMove(m), e)
	}
}

func TestForcedWin(t *testing.T) {
	// e2 occupies black's last liberty.
	p := isntest.Position("......./..1...2 1 1")
	ai := NewMinimax(MinimaxConfig{Depth: 3})
	ms, v, _ := ai.Analyze(context.Background(), p)
	if len(ms) == 0 || ms[0] != isntest.Move("e2") {
		t.Fatalf("pv=%s", isn.FormatMoves(ms))
	}
	if v < WinThreshold {
		t.Errorf("v=%d, want a win score", v)
	}
}

func TestRootTieBreak(t *testing.T) {
	// The opening is mirror symmetric, so a2 ties e2 and b3 ties d3.
	// Ties must resolve to the earliest move in generation order.
	p := isola.New(isola.Config{Width: 5, Height: 5})
	for d := 1; d <= 4; d++ {
		ai := NewMinimax(MinimaxConfig{Depth: d})
		ms, _, _ := ai.Analyze(context.Background(), p)
		if len(ms) == 0 {
			t.Fatalf("depth %d: no pv", d)
		}
		if m := ms[0]; m != isntest.Move("a2") && m != isntest.Move("b3") {
			t.Errorf("depth %d: played %s, not the first of its tie",
				d, isn.FormatMove(m))
		}
	}
}

func TestNoPrune(t *testing.T) {
	p := isntest.Play(5, 5, "d3 e4")
	ab := NewMinimax(MinimaxConfig{Depth: 4})
	full := NewMinimax(MinimaxConfig{Depth: 4, NoPrune: true})

	msA, vA, stA := ab.Analyze(context.Background(), p)
	msF, vF, stF := full.Analyze(context.Background(), p)

	if vA != vF {
		t.Errorf("scores differ: %d != %d", vA, vF)
	}
	if len(msA) == 0 || len(msF) == 0 || msA[0] != msF[0] {
		t.Errorf("moves differ: %s != %s",
			isn.FormatMoves(msA), isn.FormatMoves(msF))
	}
	if stA.Visited > stF.Visited {
		t.Errorf("pruned search visited more nodes: %d > %d",
			stA.Visited, stF.Visited)
	}
	if stF.CutNodes != 0 {
		t.Errorf("unpruned search cut %d nodes", stF.CutNodes)
	}
	if stA.CutNodes == 0 {
		t.Errorf("pruned search cut nothing")
	}
}

func TestExpiredBudget(t *testing.T) {
	p := isola.New(isola.Config{})
	ctx, cancel := context.WithDeadline(context.Background(),
		time.Now().Add(-time.Second))
	defer cancel()
	m := NewMinimax(MinimaxConfig{}).GetMove(ctx, p)
	if _, e := p.Move(m); e != nil {
		t.Fatalf("illegal fallback %s: %v", isn.FormatMove(m), e)
	}
}

func TestTerminalRoot(t *testing.T) {
	p := isntest.Position("..1.2/x.x.. 2 1")
	ai := NewMinimax(MinimaxConfig{Depth: 2})
	ms, _, _ := ai.Analyze(context.Background(), p)
	if len(ms) != 0 {
		t.Errorf("pv from a finished game: %s", isn.FormatMoves(ms))
	}
	if m := ai.GetMove(context.Background(), p); m != (isola.Move{}) {
		t.Errorf("move from a finished game: %s", isn.FormatMove(m))
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	p := isntest.Play(11, 9, "g3 g7 h5 e6")
	ms1, v1, _ := NewMinimax(MinimaxConfig{Depth: 3}).Analyze(context.Background(), p)
	ms2, v2, _ := NewMinimax(MinimaxConfig{Depth: 3}).Analyze(context.Background(), p)
	if v1 != v2 || isn.FormatMoves(ms1) != isn.FormatMoves(ms2) {
		t.Errorf("v=%d pv=%s != v=%d pv=%s",
			v1, isn.FormatMoves(ms1), v2, isn.FormatMoves(ms2))
	}
}
