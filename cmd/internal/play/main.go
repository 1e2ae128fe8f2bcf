package play

import (
	"bufio"
	"context"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/nholt/anchorite/ai"
	"github.com/nholt/anchorite/ai/mcts"
	"github.com/nholt/anchorite/cli"
	"github.com/nholt/anchorite/isn"
	"github.com/nholt/anchorite/isola"
)

type Command struct {
	white  string
	black  string
	width  int
	height int
	debug  int
	limit  time.Duration
	out    string

	unicode bool
}

func (*Command) Name() string     { return "play" }
func (*Command) Synopsis() string { return "Play Isola from the command line" }
func (*Command) Usage() string {
	return `play

Play Isola on the command line, against a human or an AI. Players are
human, random[:seed], greedy[:seed], minimax[:depth], alphabeta[:depth]
or uct[:limit].
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.white, "white", "human", "white player")
	flags.StringVar(&c.black, "black", "human", "black player")
	flags.IntVar(&c.width, "width", isola.DefaultWidth, "board width")
	flags.IntVar(&c.height, "height", isola.DefaultHeight, "board height")
	flags.IntVar(&c.debug, "debug", 0, "debug level")
	flags.DurationVar(&c.limit, "limit", time.Second, "ai time limit per move")
	flags.StringVar(&c.out, "out", "", "write the game record to file")

	flags.BoolVar(&c.unicode, "unicode", false, "render board with utf8 glyphs")
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in := bufio.NewReader(os.Stdin)
	st := &cli.CLI{
		Config: isola.Config{Width: c.width, Height: c.height},
		Out:    os.Stdout,
		White:  c.parsePlayer(in, c.white),
		Black:  c.parsePlayer(in, c.black),
		Glyphs: glyphs(c.unicode),
	}
	final := st.Play()
	if c.out != "" {
		g := &isn.ISN{}
		g.Tags = []isn.Tag{
			{Name: "Width", Value: strconv.Itoa(c.width)},
			{Name: "Height", Value: strconv.Itoa(c.height)},
			{Name: "White", Value: c.white},
			{Name: "Black", Value: c.black},
		}
		g.AddMoves(st.Moves())
		if over, _ := final.GameOver(); over {
			g.AddResult(final.WinDetails())
		}
		os.WriteFile(c.out, []byte(g.Render()), 0644)
	}

	return subcommands.ExitSuccess
}

func glyphs(unicode bool) *cli.Glyphs {
	if unicode {
		return &cli.UnicodeGlyphs
	}
	return &cli.DefaultGlyphs
}

type aiWrapper struct {
	limit time.Duration
	p     ai.IsolaPlayer
}

func (a *aiWrapper) GetMove(p *isola.Position) isola.Move {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(a.limit))
	defer cancel()
	return a.p.GetMove(ctx, p)
}

func (c *Command) parsePlayer(in *bufio.Reader, s string) cli.Player {
	if s == "human" {
		return cli.NewCLIPlayer(os.Stdout, in)
	}
	if strings.HasPrefix(s, "random") {
		return &aiWrapper{c.limit, ai.NewRandom(c.parseSeed(s, "random"))}
	}
	if strings.HasPrefix(s, "greedy") {
		return &aiWrapper{c.limit, ai.NewGreedy(c.parseSeed(s, "greedy"), nil)}
	}
	if strings.HasPrefix(s, "minimax") || strings.HasPrefix(s, "alphabeta") {
		name := "alphabeta"
		if strings.HasPrefix(s, "minimax") {
			name = "minimax"
		}
		var depth int
		if len(s) > len(name) {
			i, err := strconv.Atoi(s[len(name)+1:])
			if err != nil {
				log.Fatal().Msgf("player %q: %v", s, err)
			}
			depth = i
		}
		p := ai.NewMinimax(ai.MinimaxConfig{
			Depth:   depth,
			Debug:   c.debug,
			NoPrune: name == "minimax",
		})
		return &aiWrapper{c.limit, p}
	}
	if strings.HasPrefix(s, "uct") || strings.HasPrefix(s, "mcts") {
		limit := c.limit
		if i := strings.IndexByte(s, ':'); i >= 0 {
			var err error
			limit, err = time.ParseDuration(s[i+1:])
			if err != nil {
				log.Fatal().Msgf("player %q: %v", s, err)
			}
		}
		p := mcts.NewMonteCarlo(mcts.MCTSConfig{
			Limit: limit,
			Debug: c.debug,
		})
		return &aiWrapper{limit, p}
	}
	log.Fatal().Msgf("unparseable player: %s", s)
	return nil
}

func (c *Command) parseSeed(s, name string) int64 {
	if len(s) <= len(name) {
		return 0
	}
	i, err := strconv.ParseInt(s[len(name)+1:], 10, 64)
	if err != nil {
		log.Fatal().Msgf("player %q: %v", s, err)
	}
	return i
}
