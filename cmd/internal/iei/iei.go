package iei

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/nholt/anchorite/ai"
	"github.com/nholt/anchorite/cmd/internal/opt"
	"github.com/nholt/anchorite/iei"
)

type Command struct {
	opt opt.Minimax
}

func (*Command) Name() string     { return "iei" }
func (*Command) Synopsis() string { return "Launch the engine in iei mode" }
func (*Command) Usage() string {
	return `iei

Launch the engine in iei mode, a UCI-like line protocol suitable for
being driven by an external GUI or match controller.

`
}

func (c *Command) SetFlags(fs *flag.FlagSet) {
	c.opt.AddFlags(fs)
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine := iei.NewEngine(os.Stdin, os.Stdout)
	engine.ConfigFactory = func(width, height int) ai.MinimaxConfig {
		return c.opt.BuildConfig()
	}
	if err := engine.Run(ctx); err != nil {
		log.Error().Msgf("iei: %v", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
