package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nholt/anchorite/cmd/internal/analyze"
	ieicmd "github.com/nholt/anchorite/cmd/internal/iei"
	"github.com/nholt/anchorite/cmd/internal/importisn"
	"github.com/nholt/anchorite/cmd/internal/play"
	"github.com/nholt/anchorite/cmd/internal/report"
	"github.com/nholt/anchorite/cmd/internal/selfplay"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&play.Command{}, "")
	subcommands.Register(&selfplay.Command{}, "")
	subcommands.Register(&analyze.Command{}, "")
	subcommands.Register(&ieicmd.Command{}, "")
	subcommands.Register(&importisn.Command{}, "")
	subcommands.Register(&report.Command{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
