package analyze

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/nholt/anchorite/ai"
	"github.com/nholt/anchorite/ai/mcts"
	"github.com/nholt/anchorite/cmd/internal/opt"
	"github.com/nholt/anchorite/isn"
	"github.com/nholt/anchorite/isola"
)

type Command struct {
	/* Global options / output options */
	ips        string
	quiet      bool
	monteCarlo bool
	cpuProfile string
	memProfile string

	/* Options to select which position(s) to analyze */
	move      int
	all       bool
	black     bool
	white     bool
	variation string

	/* Options which apply to all engines */
	timeLimit time.Duration

	/* Options for the minimax engine */
	eval    bool
	explain bool
	mmopt   opt.Minimax

	/* UCT options */
	uopt opt.UCT
}

func (*Command) Name() string     { return "analyze" }
func (*Command) Synopsis() string { return "Evaluate a position from a game record" }
func (*Command) Usage() string {
	return `analyze [options] FILE.isn

Evaluate a position from a game record using a configurable engine.

By default evaluates the final position in the file; use -move and
-white/-black to select a different position, and -variation to play
additional moves prior to analysis. -ips analyzes a bare position
instead of a file.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.ips, "ips", "", "analyze a position in IPS notation")
	flags.BoolVar(&c.quiet, "quiet", false, "don't print board diagrams")
	flags.BoolVar(&c.monteCarlo, "uct", false, "use the Monte Carlo evaluator")

	flags.StringVar(&c.cpuProfile, "cpuprofile", "", "write CPU profile")
	flags.StringVar(&c.memProfile, "memprofile", "", "write memory profile")

	flags.IntVar(&c.move, "move", 0, "move number to analyze")
	flags.BoolVar(&c.all, "all", false, "analyze all positions in the record")
	flags.BoolVar(&c.black, "black", false, "only analyze black's moves")
	flags.BoolVar(&c.white, "white", false, "only analyze white's moves")
	flags.StringVar(&c.variation, "variation", "", "apply the listed moves after the given position")

	flags.DurationVar(&c.timeLimit, "limit", time.Minute, "limit of how much time to use")
	flags.BoolVar(&c.eval, "evaluate", false, "only show static evaluation")
	flags.BoolVar(&c.explain, "explain", false, "explain scoring")

	c.mmopt.AddFlags(flags)
	c.uopt.AddFlags(flags)
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.cpuProfile != "" {
		f, e := os.OpenFile(c.cpuProfile, os.O_WRONLY|os.O_CREATE, 0644)
		if e != nil {
			log.Fatal().Msgf("open cpu-profile: %s: %v", c.cpuProfile, e)
		}
		pprof.StartCPUProfile(f)
		defer f.Close()
		defer pprof.StopCPUProfile()
	}
	if c.memProfile != "" {
		f, e := os.OpenFile(c.memProfile, os.O_WRONLY|os.O_CREATE, 0644)
		if e != nil {
			log.Fatal().Msgf("open memory profile: %s: %v", c.memProfile, e)
		}
		defer func() {
			pprof.Lookup("allocs").WriteTo(f, 0)
			f.Close()
		}()
	}

	if c.ips != "" {
		p, e := isn.ParseIPS(c.ips)
		if e != nil {
			log.Fatal().Msgf("parse IPS: %v", e)
		}
		if c.variation != "" {
			p, e = applyVariation(p, c.variation)
			if e != nil {
				log.Fatal().Msgf("-variation: %v", e)
			}
		}
		c.analyze(p)
		return subcommands.ExitSuccess
	}

	f, e := os.Open(flag.Arg(0))
	if e != nil {
		log.Fatal().Msgf("open: %v", e)
	}
	parsed, e := isn.ParseISN(f)
	f.Close()
	if e != nil {
		log.Fatal().Msgf("parse: %v", e)
	}
	color := isola.NoColor
	switch {
	case c.white && c.black:
		log.Fatal().Msg("-white and -black are exclusive")
	case c.white:
		color = isola.White
	case c.black:
		color = isola.Black
	case c.move != 0:
		color = isola.White
	}

	if !c.all {
		p, e := parsed.PositionAtMove(c.move, color)
		if e != nil {
			log.Fatal().Msgf("find move: %v", e)
		}

		if c.variation != "" {
			p, e = applyVariation(p, c.variation)
			if e != nil {
				log.Fatal().Msgf("-variation: %v", e)
			}
		}

		c.analyze(p)
	} else {
		w, b := c.buildAnalysis(), c.buildAnalysis()
		it := parsed.Iterator()
		for it.Next() {
			p := it.Position()
			if over, _ := p.GameOver(); over {
				break
			}
			m := it.PeekMove()
			switch {
			case p.ToMove() == isola.White && color != isola.Black:
				fmt.Printf("%d. %s\n", p.MoveNumber()/2+1, isn.FormatMove(m))
				c.analyzeWith(w, p)
			case p.ToMove() == isola.Black && color != isola.White:
				fmt.Printf("%d. ... %s\n", p.MoveNumber()/2+1, isn.FormatMove(m))
				c.analyzeWith(b, p)
			}
		}
		if e := it.Err(); e != nil {
			log.Fatal().Msgf("%d: %v", it.ISNMove(), e)
		}
	}
	return subcommands.ExitSuccess
}

func applyVariation(p *isola.Position, variant string) (*isola.Position, error) {
	ms := strings.Split(variant, " ")
	for _, moveStr := range ms {
		m, e := isn.ParseMove(moveStr)
		if e != nil {
			return nil, e
		}
		next, e := p.Move(m)
		if e != nil {
			return nil, fmt.Errorf("bad move `%s': %v", moveStr, e)
		}
		p = &next
	}
	return p, nil
}

func (c *Command) buildAnalysis() Analyzer {
	if c.monteCarlo {
		return &monteCarloAnalysis{
			cmd: c,
			ai: mcts.NewMonteCarlo(mcts.MCTSConfig{
				Seed:   c.mmopt.Seed,
				Debug:  c.mmopt.Debug,
				Limit:  c.timeLimit,
				C:      c.uopt.C,
				Cycles: c.uopt.Cycles,
				Buffer: c.mmopt.Buffer,
			}),
		}
	}
	cfg := c.mmopt.BuildConfig()
	return &minimaxAnalysis{cmd: c, cfg: cfg, ai: ai.NewMinimax(cfg)}
}

func (c *Command) analyze(p *isola.Position) {
	c.analyzeWith(c.buildAnalysis(), p)
}

func (c *Command) analyzeWith(analysis Analyzer, p *isola.Position) {
	ctx := context.Background()
	if c.timeLimit != 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, c.timeLimit)
		defer cancel()
	}
	analysis.Analyze(ctx, p)
}
