package selfplay

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/nholt/anchorite/clock"
	"github.com/nholt/anchorite/isn"
	"github.com/nholt/anchorite/isola"
)

type Config struct {
	Games int

	Verbose bool

	Initial []*isola.Position

	P1, P2 string

	Width  int
	Height int

	Debug int

	Swap        bool
	Threads     int
	Seed        int64
	Cutoff      int
	Limit       time.Duration
	TimeControl time.Duration
	Increment   time.Duration

	Perturb float64
}

type Stats struct {
	Players [2]struct {
		Wins          int
		WhiteWins     int
		BlackWins     int
		IsolationWins int
		TimeWins      int
	}
	White, Black int
	Cutoff       int

	Games []Result `json:"-"`
}

func (s *Stats) Count() int {
	return s.White + s.Black + s.Cutoff
}

type gameSpec struct {
	c       *Config
	opening *isola.Position
	oi      int
	i       int
	r       *rand.Rand
	p1color isola.Color
}

type Result struct {
	spec     gameSpec
	Initial  *isola.Position
	Position *isola.Position
	Moves    []isola.Move
	Winner   isola.Color
	Reason   isola.WinReason
}

func Simulate(c *Config) Stats {
	var st Stats
	rc := make(chan Result)
	go startGames(c, rc)
	for r := range rc {
		if c.Verbose {
			log.Info().Msgf("[selfplay] game n=%d/%d plies=%d p1=%s winner=%s",
				r.spec.oi, r.spec.i, len(r.Moves), r.spec.p1color, r.Winner)
		}
		if r.Winner == isola.White {
			st.White++
		} else if r.Winner == isola.Black {
			st.Black++
		} else {
			st.Cutoff++
		}
		if r.Winner != isola.NoColor {
			pst := &st.Players[0]
			if r.Winner == r.spec.p1color.Flip() {
				pst = &st.Players[1]
			}
			if r.Winner == isola.White {
				pst.WhiteWins++
			} else {
				pst.BlackWins++
			}
			pst.Wins++
			switch r.Reason {
			case isola.WinOnTime:
				pst.TimeWins++
			default:
				pst.IsolationWins++
			}
		}
		st.Games = append(st.Games, r)
	}

	return st
}

func startGames(c *Config, rc chan<- Result) {
	defer close(rc)
	gc := make(chan gameSpec)
	grp := errgroup.Group{}
	grp.Go(func() error {
		defer close(gc)
		r := rand.New(rand.NewSource(uint64(c.Seed)))
		for pi, pos := range c.Initial {
			n := c.Games
			if c.Swap {
				n *= 2
			}
			for g := 0; g < n; g++ {
				var p1color isola.Color
				if g%2 == 0 || !c.Swap {
					p1color = isola.White
				} else {
					p1color = isola.Black
				}

				gc <- gameSpec{
					opening: pos,
					c:       c,
					oi:      pi,
					i:       g,
					p1color: p1color,
					r:       rand.New(rand.NewSource(r.Uint64())),
				}
			}
		}
		return nil
	})
	for i := 0; i < c.Threads; i++ {
		grp.Go(func() error {
			return worker(c, gc, rc)
		})
	}
	if err := grp.Wait(); err != nil {
		log.Fatal().Msgf("[selfplay] %v", err)
	}
}

func worker(c *Config, games <-chan gameSpec, out chan<- Result) error {
	e1, err := newEngine(c, c.P1)
	if err != nil {
		return fmt.Errorf("starting %q: %w", c.P1, err)
	}
	defer e1.Close()
	e2, err := newEngine(c, c.P2)
	if err != nil {
		return fmt.Errorf("starting %q: %w", c.P2, err)
	}
	defer e2.Close()

	for g := range games {
		r, err := playGame(e1, e2, &g)
		if err != nil {
			return err
		}
		out <- r
	}
	return nil
}

func playGame(e1, e2 *engine, g *gameSpec) (Result, error) {
	white, err := e1.NewGame(g)
	if err != nil {
		return Result{}, fmt.Errorf("new game [%s]: %w", e1.name, err)
	}
	black, err := e2.NewGame(g)
	if err != nil {
		return Result{}, fmt.Errorf("new game [%s]: %w", e2.name, err)
	}
	if g.p1color != isola.White {
		white, black = black, white
	}

	var tc *clock.Control
	if g.c.TimeControl != 0 {
		tc = clock.NewControl(g.c.TimeControl, g.c.Increment)
	}

	var ms []isola.Move
	p := g.opening
	var winner isola.Color
	reason := isola.WinByIsolation
	over, w := p.GameOver()
	if over {
		winner = w
	}
	for i := 0; i < g.c.Cutoff && !over; i++ {
		mover := white
		if p.ToMove() == isola.Black {
			mover = black
		}
		ctx := context.Background()
		var cancel context.CancelFunc
		if g.c.Limit != 0 {
			ctx, cancel = context.WithTimeout(ctx, g.c.Limit)
		}
		before := time.Now()
		m, err := mover.GameMove(ctx, p, tc)
		if cancel != nil {
			cancel()
		}
		if err != nil {
			return Result{}, fmt.Errorf("get move: %w", err)
		}
		if tc != nil && !tc.Deduct(p.ToMove(), time.Since(before)) {
			winner = p.ToMove().Flip()
			reason = isola.WinOnTime
			break
		}

		next, err := p.Move(m)
		if err != nil {
			return Result{}, fmt.Errorf("illegal move %s at %s: %w",
				isn.FormatMove(m), isn.FormatIPS(p), err)
		}
		p = &next
		ms = append(ms, m)
		if over, w = p.GameOver(); over {
			winner = w
		}
	}

	return Result{
		spec:     *g,
		Initial:  g.opening,
		Position: p,
		Moves:    ms,
		Winner:   winner,
		Reason:   reason,
	}, nil
}
