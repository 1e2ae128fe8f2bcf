package selfplay

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/rand"

	"github.com/nholt/anchorite/ai"
	"github.com/nholt/anchorite/ai/mcts"
	"github.com/nholt/anchorite/clock"
	"github.com/nholt/anchorite/iei"
	"github.com/nholt/anchorite/isola"
)

// An AIFactory builds one side's player for a single game. Factories
// live for the whole match; the seed varies per game so stochastic
// agents do not replay the same line.
type AIFactory interface {
	GetPlayer(seed int64) ai.IsolaPlayer
	String() string
}

type RandomFactory struct {
	seed int64
}

func (f *RandomFactory) GetPlayer(seed int64) ai.IsolaPlayer {
	if f.seed != 0 {
		seed = f.seed
	}
	return ai.NewRandom(seed)
}

func (f *RandomFactory) String() string {
	return "random"
}

type GreedyFactory struct {
	seed    int64
	perturb float64
}

func (f *GreedyFactory) GetPlayer(seed int64) ai.IsolaPlayer {
	if f.seed != 0 {
		seed = f.seed
	}
	if f.perturb != 0 {
		r := rand.New(rand.NewSource(uint64(seed)))
		w := perturbWeights(r, f.perturb, ai.DefaultWeights)
		return ai.NewGreedy(seed, ai.MakeEvaluator(&w))
	}
	return ai.NewGreedy(seed, nil)
}

func (f *GreedyFactory) String() string {
	return "greedy"
}

type MinimaxFactory struct {
	cfg     ai.MinimaxConfig
	perturb float64
}

func (f *MinimaxFactory) GetPlayer(seed int64) ai.IsolaPlayer {
	cfg := f.cfg
	if f.perturb != 0 {
		r := rand.New(rand.NewSource(uint64(seed)))
		w := perturbWeights(r, f.perturb, ai.ReachWeights)
		cfg.Evaluate = ai.MakeEvaluator(&w)
	}
	return ai.NewMinimax(cfg)
}

func (f *MinimaxFactory) String() string {
	name := "alphabeta"
	if f.cfg.NoPrune {
		name = "minimax"
	}
	if f.cfg.Depth != 0 {
		return fmt.Sprintf("%s@%d", name, f.cfg.Depth)
	}
	return name
}

type MCTSFactory struct {
	cfg mcts.MCTSConfig
}

func (f *MCTSFactory) GetPlayer(seed int64) ai.IsolaPlayer {
	cfg := f.cfg
	if cfg.Seed == 0 {
		cfg.Seed = seed
	}
	return mcts.NewMonteCarlo(cfg)
}

func (f *MCTSFactory) String() string {
	return fmt.Sprintf("uct@%s", f.cfg.Limit)
}

// buildFactory parses a player spec of the form NAME[:ARG]. The arg is
// a seed for the stochastic agents, a depth for the tree searchers,
// and a per-move duration for uct.
func buildFactory(c *Config, spec string) (AIFactory, error) {
	name, arg := spec, ""
	if i := strings.IndexByte(spec, ':'); i >= 0 {
		name, arg = spec[:i], spec[i+1:]
	}
	switch name {
	case "random":
		seed, err := parseSeed(arg)
		if err != nil {
			return nil, err
		}
		return &RandomFactory{seed: seed}, nil
	case "greedy":
		seed, err := parseSeed(arg)
		if err != nil {
			return nil, err
		}
		return &GreedyFactory{seed: seed, perturb: c.Perturb}, nil
	case "minimax", "alphabeta":
		var depth int
		if arg != "" {
			var err error
			depth, err = strconv.Atoi(arg)
			if err != nil {
				return nil, fmt.Errorf("bad depth %q: %w", arg, err)
			}
		}
		return &MinimaxFactory{
			cfg: ai.MinimaxConfig{
				Depth:   depth,
				Debug:   c.Debug,
				NoPrune: name == "minimax",
			},
			perturb: c.Perturb,
		}, nil
	case "uct", "mcts":
		limit := c.Limit
		if arg != "" {
			var err error
			limit, err = time.ParseDuration(arg)
			if err != nil {
				return nil, fmt.Errorf("bad limit %q: %w", arg, err)
			}
		}
		if limit == 0 {
			limit = clock.DefaultLimit
		}
		return &MCTSFactory{
			cfg: mcts.MCTSConfig{
				Debug: c.Debug,
				Limit: limit,
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown player %q", spec)
}

func parseSeed(arg string) (int64, error) {
	if arg == "" {
		return 0, nil
	}
	seed, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad seed %q: %w", arg, err)
	}
	return seed, nil
}

func perturbWeights(r *rand.Rand, p float64, w ai.Weights) ai.Weights {
	v := reflect.Indirect(reflect.ValueOf(&w))
	typ := v.Type()
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).Type.Kind() != reflect.Int {
			continue
		}
		f := v.Field(i)
		adj := r.NormFloat64() * p
		f.SetInt(int64(float64(f.Int()) * (1 + adj)))
	}
	return w
}

// An engine binds one side of the match for a single worker. In-process
// specs hold a factory; "iei:" specs hold the engine subprocess.
type engine struct {
	name    string
	factory AIFactory
	client  *iei.Client
}

func newEngine(c *Config, spec string) (*engine, error) {
	if rest, ok := strings.CutPrefix(spec, "iei:"); ok {
		cl, err := iei.NewClient(strings.Fields(rest))
		if err != nil {
			return nil, err
		}
		return &engine{name: spec, client: cl}, nil
	}
	f, err := buildFactory(c, spec)
	if err != nil {
		return nil, err
	}
	return &engine{name: f.String(), factory: f}, nil
}

func (e *engine) NewGame(g *gameSpec) (gamePlayer, error) {
	if e.client != nil {
		p, err := e.client.NewGame(g.opening.Width(), g.opening.Height())
		if err != nil {
			return nil, err
		}
		return &remotePlayer{p: p}, nil
	}
	return &localPlayer{p: e.factory.GetPlayer(g.r.Int63())}, nil
}

func (e *engine) Close() {
	if e.client != nil {
		e.client.Close()
	}
}

// A gamePlayer is one side of one game in progress.
type gamePlayer interface {
	GameMove(ctx context.Context, p *isola.Position, tc *clock.Control) (isola.Move, error)
}

type localPlayer struct {
	p ai.IsolaPlayer
}

func (l *localPlayer) GameMove(ctx context.Context, p *isola.Position, tc *clock.Control) (isola.Move, error) {
	if tc != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, tc.MoveBudget(p.ToMove()))
		defer cancel()
	}
	return l.p.GetMove(ctx, p), nil
}

type remotePlayer struct {
	p *iei.Player
}

func (r *remotePlayer) GameMove(ctx context.Context, p *isola.Position, tc *clock.Control) (isola.Move, error) {
	return r.p.IEIGetMove(ctx, p, tc)
}
