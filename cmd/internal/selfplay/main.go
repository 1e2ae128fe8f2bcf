package selfplay

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path"
	"runtime/pprof"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/nholt/anchorite/clock"
	"github.com/nholt/anchorite/isn"
	"github.com/nholt/anchorite/isola"
	"github.com/nholt/anchorite/logs"
)

type Command struct {
	width  int
	height int
	p1     string
	p2     string
	seed   int64

	games  int
	cutoff int
	swap   bool

	initial  string
	openings string

	debug   int
	limit   time.Duration
	tc      time.Duration
	inc     time.Duration
	perturb float64

	threads int

	out     string
	summary string
	db      string
	verbose bool

	memProfile string
}

func (*Command) Name() string     { return "selfplay" }
func (*Command) Synopsis() string { return "Play two agents against each other and report results" }
func (*Command) Usage() string {
	return `selfplay [flags]

Player specs are NAME[:ARG]: random[:seed], greedy[:seed],
minimax[:depth], alphabeta[:depth], uct[:limit], or "iei:CMDLINE" to
drive an external engine over the iei protocol.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.IntVar(&c.width, "width", isola.DefaultWidth, "board width")
	flags.IntVar(&c.height, "height", isola.DefaultHeight, "board height")
	flags.StringVar(&c.p1, "p1", "alphabeta", "player1 spec")
	flags.StringVar(&c.p2, "p2", "uct", "player2 spec")

	flags.Int64Var(&c.seed, "seed", 0, "starting random seed")
	flags.IntVar(&c.games, "games", 10, "number of games to play per opening/color")
	flags.IntVar(&c.cutoff, "cutoff", 200, "cut games off after how many plies")
	flags.BoolVar(&c.swap, "swap", true, "swap colors each game")
	flags.StringVar(&c.initial, "initial", "", "isn file to start games at the end of")
	flags.StringVar(&c.openings, "openings", "", "file of openings, 1/line in IPS")
	flags.IntVar(&c.debug, "debug", 0, "debug level")
	flags.DurationVar(&c.limit, "limit", 0, "hard wall clock limit per move")
	flags.DurationVar(&c.tc, "time", 0, "game clock per player")
	flags.DurationVar(&c.inc, "inc", 0, "increment per move")
	flags.Float64Var(&c.perturb, "perturb", 0, "perturb evaluation weights by this fraction per game")
	flags.IntVar(&c.threads, "threads", 4, "number of parallel threads")
	flags.StringVar(&c.out, "out", "", "directory to write game records to")
	flags.StringVar(&c.summary, "summary", "", "write summary JSON file")
	flags.StringVar(&c.db, "db", "", "record games into a sqlite database")
	flags.BoolVar(&c.verbose, "v", false, "verbose output")
	flags.StringVar(&c.memProfile, "mem-profile", "", "write memory profile")
}

func readOpenings(path string) ([]*isola.Position, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []*isola.Position
	r := bufio.NewScanner(f)
	for r.Scan() {
		line := r.Text()
		pos, err := isn.ParseIPS(line)
		if err != nil {
			return nil, fmt.Errorf("parse IPS: %q: %w", line, err)
		}
		out = append(out, pos)
	}
	return out, r.Err()
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.memProfile != "" {
		defer func() {
			f, e := os.OpenFile(c.memProfile,
				os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
			if e != nil {
				log.Error().Msgf("open memory profile: %v", e)
				return
			}
			pprof.Lookup("heap").WriteTo(f, 0)
		}()
	}

	if c.seed == 0 {
		c.seed = time.Now().Unix()
	}
	if c.limit == 0 && c.tc == 0 {
		c.limit = clock.DefaultLimit
	}

	var openings []*isola.Position
	if c.initial != "" {
		f, e := os.Open(c.initial)
		if e != nil {
			log.Fatal().Msgf("-initial: %v", e)
		}
		g, e := isn.ParseISN(f)
		f.Close()
		if e != nil {
			log.Fatal().Msgf("parse %s: %v", c.initial, e)
		}
		p, e := g.PositionAtMove(0, isola.NoColor)
		if e != nil {
			log.Fatal().Msgf("replay %s: %v", c.initial, e)
		}
		openings = []*isola.Position{p}
	}
	if c.openings != "" {
		var e error
		openings, e = readOpenings(c.openings)
		if e != nil {
			log.Fatal().Msgf("-openings: %v", e)
		}
	}
	if len(openings) == 0 {
		openings = []*isola.Position{isola.New(isola.Config{Width: c.width, Height: c.height})}
	}

	cfg := &Config{
		Width:       c.width,
		Height:      c.height,
		Debug:       c.debug,
		Swap:        c.swap,
		Games:       c.games,
		Threads:     c.threads,
		Seed:        c.seed,
		Cutoff:      c.cutoff,
		Limit:       c.limit,
		TimeControl: c.tc,
		Increment:   c.inc,
		Perturb:     c.perturb,
		Initial:     openings,
		Verbose:     c.verbose,
		P1:          c.p1,
		P2:          c.p2,
	}

	st := Simulate(cfg)

	if c.out != "" {
		if c.summary == "" {
			c.summary = path.Join(c.out, "summary.json")
		}
		for _, r := range st.Games {
			writeGame(c.out, &r)
		}
	}
	if c.summary != "" {
		if err := c.writeSummary(c.summary, &st); err != nil {
			log.Error().Msgf("writing summary: %v", err)
		}
	}
	if c.db != "" {
		if err := c.recordGames(c.db, &st); err != nil {
			log.Error().Msgf("recording games: %v", err)
		}
	}

	log.Info().Msgf("done games=%d seed=%d cutoff=%d white=%d black=%d limit=%s",
		len(st.Games), c.seed, st.Cutoff, st.White, st.Black, c.limit)
	log.Info().Msgf("p1.wins=%d (%d isolation/%d time) p2.wins=%d (%d isolation/%d time)",
		st.Players[0].Wins, st.Players[0].IsolationWins, st.Players[0].TimeWins,
		st.Players[1].Wins, st.Players[1].IsolationWins, st.Players[1].TimeWins)
	tw := tabwriter.NewWriter(os.Stderr, 2, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\twhite\tblack\tsum\n")
	fmt.Fprintf(tw, "p1\t%d\t%d\t%d\n", st.Players[0].WhiteWins, st.Players[0].BlackWins, st.Players[0].Wins)
	fmt.Fprintf(tw, "p2\t%d\t%d\t%d\n", st.Players[1].WhiteWins, st.Players[1].BlackWins, st.Players[1].Wins)
	fmt.Fprintf(tw, "sum\t%d\t%d\t%d\n",
		st.Players[0].WhiteWins+st.Players[1].WhiteWins,
		st.Players[0].BlackWins+st.Players[1].BlackWins,
		st.Players[0].Wins+st.Players[1].Wins,
	)
	tw.Flush()

	a, b := int64(st.Players[0].Wins), int64(st.Players[1].Wins)
	if a < b {
		a, b = b, a
	}
	log.Info().Msgf("p[one-sided]=%f", binomTest(a, b, 0.5))

	return subcommands.ExitSuccess
}

// playerNames resolves which spec played white and which black.
func playerNames(r *Result) (white, black string) {
	white, black = r.spec.c.P1, r.spec.c.P2
	if r.spec.p1color != isola.White {
		white, black = black, white
	}
	return white, black
}

func writeGame(d string, r *Result) {
	os.MkdirAll(d, 0755)
	white, black := playerNames(r)
	g := &isn.ISN{}
	g.Tags = []isn.Tag{
		{Name: "Width", Value: strconv.Itoa(r.Position.Width())},
		{Name: "Height", Value: strconv.Itoa(r.Position.Height())},
		{Name: "White", Value: white},
		{Name: "Black", Value: black},
	}
	if r.Initial.MoveNumber() != 0 {
		g.Tags = append(g.Tags, isn.Tag{
			Name: "IPS", Value: isn.FormatIPS(r.Initial)})
	}
	g.AddMoves(r.Moves)
	if r.Winner != isola.NoColor {
		g.AddResult(isola.WinDetails{Winner: r.Winner, Reason: r.Reason})
	}
	isnPath := path.Join(d, fmt.Sprintf("%d-%d.isn", r.spec.oi, r.spec.i))
	os.WriteFile(isnPath, []byte(g.Render()), 0644)
}

func (c *Command) recordGames(db string, st *Stats) error {
	repo, err := logs.Open(db)
	if err != nil {
		return err
	}
	defer repo.Close()
	now := time.Now()
	day := now.Format("2006-01-02")
	base, err := repo.NextID(day)
	if err != nil {
		return err
	}
	var games []*logs.Game
	for i, r := range st.Games {
		white, black := playerNames(&r)
		var result, winner string
		if r.Winner != isola.NoColor {
			result = isn.FormatResult(isola.WinDetails{Winner: r.Winner, Reason: r.Reason})
			winner = r.Winner.String()
		}
		games = append(games, &logs.Game{
			Day:       day,
			ID:        base + i,
			Timestamp: now,
			Width:     r.Position.Width(),
			Height:    r.Position.Height(),
			Player1:   white,
			Player2:   black,
			Result:    result,
			Winner:    winner,
			Moves:     len(r.Moves),
		})
	}
	return repo.InsertGames(games)
}

type Summary struct {
	Cmdline []string
	Player1 string
	Player2 string
	Limit   time.Duration
	Stats   *Stats
}

func (c *Command) writeSummary(path string, stats *Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	summary := Summary{
		Cmdline: os.Args,
		Player1: c.p1,
		Player2: c.p2,
		Limit:   c.limit,
		Stats:   stats,
	}

	bs, err := json.MarshalIndent(&summary, "", "  ")
	if err != nil {
		return err
	}
	f.Write(bs)
	return nil
}
