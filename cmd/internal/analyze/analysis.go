package analyze

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/nholt/anchorite/ai"
	"github.com/nholt/anchorite/ai/mcts"
	"github.com/nholt/anchorite/cli"
	"github.com/nholt/anchorite/isn"
	"github.com/nholt/anchorite/isola"
)

type Analyzer interface {
	Analyze(ctx context.Context, p *isola.Position)
}

type minimaxAnalysis struct {
	cmd *Command
	cfg ai.MinimaxConfig
	ai  *ai.MinimaxAI
}

func (m *minimaxAnalysis) Analyze(ctx context.Context, p *isola.Position) {
	if !m.cmd.quiet {
		cli.RenderBoard(nil, os.Stdout, p)
		if m.cmd.explain {
			ai.ExplainScore(os.Stdout, p)
		}
	}
	if m.cmd.eval {
		evaluate := m.cfg.Evaluate
		if evaluate == nil {
			evaluate = ai.DefaultEvaluate
		}
		val := evaluate(p)
		if p.ToMove() == isola.Black {
			val = -val
		}
		fmt.Printf(" Val=%d\n", val)
		return
	}
	pv, val, st := m.ai.Analyze(ctx, p)
	fmt.Printf("AI analysis:\n")
	fmt.Printf(" pv=")
	for _, mv := range pv {
		fmt.Printf("%s ", isn.FormatMove(mv))
	}
	fmt.Printf("\n")
	fmt.Printf(" value=%d depth=%d evaluated=%d time=%s\n",
		val, st.Depth, st.Evaluated, st.Elapsed)
	fmt.Printf(" ips=%s\n", isn.FormatIPS(p))
	fmt.Println()

	if len(pv) == 0 || m.cmd.quiet {
		return
	}

	for _, mv := range pv {
		n, e := p.Move(mv)
		if e != nil {
			log.Error().Msgf("illegal move in pv: %s: %v", isn.FormatMove(mv), e)
			if val < ai.WinThreshold && val > -ai.WinThreshold {
				log.Fatal().Msg("illegal move in non-terminal pv!")
			}
			return
		}
		p = &n
	}

	fmt.Println("Resulting position:")
	cli.RenderBoard(nil, os.Stdout, p)
	if m.cmd.explain {
		ai.ExplainScore(os.Stdout, p)
	}
	fmt.Println()
	fmt.Println()
}

type monteCarloAnalysis struct {
	cmd *Command
	ai  *mcts.MonteCarloAI
}

func (m *monteCarloAnalysis) Analyze(ctx context.Context, p *isola.Position) {
	if !m.cmd.quiet {
		cli.RenderBoard(nil, os.Stdout, p)
	}
	mv := m.ai.GetMove(ctx, p)
	fmt.Printf("AI analysis:\n")
	fmt.Printf(" move=%s\n", isn.FormatMove(mv))
	fmt.Printf(" ips=%s\n", isn.FormatIPS(p))
}
