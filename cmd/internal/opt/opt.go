package opt

import (
	"encoding/json"
	"flag"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nholt/anchorite/ai"
	"github.com/nholt/anchorite/clock"
)

// Minimax collects the flags shared by every command that runs the
// depth-limited searcher.
type Minimax struct {
	Seed    int64
	Debug   int
	Depth   int
	Prune   bool
	Buffer  time.Duration
	Weights string
}

func (o *Minimax) AddFlags(flags *flag.FlagSet) {
	flags.IntVar(&o.Debug, "debug", 1, "debug level")
	flags.Int64Var(&o.Seed, "seed", 0, "specify a seed")
	flags.IntVar(&o.Depth, "depth", 0, "search depth (0 searches until the clock runs out)")
	flags.BoolVar(&o.Prune, "prune", true, "alpha-beta pruning")
	flags.DurationVar(&o.Buffer, "buffer", clock.DefaultBuffer, "hold back this much of every time budget")
	flags.StringVar(&o.Weights, "weights", "", "JSON-encoded evaluation weights")
}

func (o *Minimax) BuildConfig() ai.MinimaxConfig {
	var w ai.Weights
	if o.Weights == "" {
		w = ai.DefaultWeights
	} else {
		e := json.Unmarshal([]byte(o.Weights), &w)
		if e != nil {
			log.Fatal().Msgf("parse weights: %v", e)
		}
	}
	return ai.MinimaxConfig{
		Depth:   o.Depth,
		Debug:   o.Debug,
		NoPrune: !o.Prune,
		Buffer:  o.Buffer,

		Evaluate: ai.MakeEvaluator(&w),
	}
}

// UCT collects the Monte Carlo searcher's flags, namespaced so they
// can share a FlagSet with the Minimax bundle.
type UCT struct {
	C      float64
	Cycles int
}

func (o *UCT) AddFlags(flags *flag.FlagSet) {
	flags.Float64Var(&o.C, "uct.c", 0, "UCT exploration constant (0 uses sqrt 2)")
	flags.IntVar(&o.Cycles, "uct.cycles", 0, "fixed number of search cycles (0 uses the clock)")
}
