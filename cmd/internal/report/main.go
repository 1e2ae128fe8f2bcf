package report

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/nholt/anchorite/logs"
)

type Command struct {
	db     string
	player string
	html   string
}

func (*Command) Name() string     { return "report" }
func (*Command) Synopsis() string { return "Summarize results from the match log" }
func (*Command) Usage() string {
	return `report [-db FILE] [-player NAME] [-html FILE]

Aggregate win rates per pairing from the sqlite match log. -player
prints one player's per-day record instead; -html renders the pairing
chart to an HTML file.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.db, "db", "anchorite.db", "match database")
	flags.StringVar(&c.player, "player", "", "report one player's per-day record")
	flags.StringVar(&c.html, "html", "", "write a win-rate chart to FILE")
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	repo, err := logs.Open(c.db)
	if err != nil {
		log.Fatal().Msgf("open %s: %v", c.db, err)
	}
	defer repo.Close()

	if c.player != "" {
		days, err := repo.PlayerDays(c.player)
		if err != nil {
			log.Fatal().Msgf("query: %v", err)
		}
		tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "day\tgames\twins\tlosses\n")
		for _, d := range days {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", d.Day, d.Games, d.Wins, d.Losses)
		}
		tw.Flush()
		return subcommands.ExitSuccess
	}

	games, err := repo.Games()
	if err != nil {
		log.Fatal().Msgf("query: %v", err)
	}
	pairings := aggregate(games)

	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "pairing\tgames\tfirst\tsecond\tundecided\n")
	for _, p := range pairings {
		fmt.Fprintf(tw, "%s vs %s\t%d\t%d\t%d\t%d\n",
			p.A, p.B, p.Games, p.WinsA, p.WinsB, p.Other)
	}
	tw.Flush()

	if c.html != "" {
		if err := renderChart(c.html, pairings); err != nil {
			log.Fatal().Msgf("render %s: %v", c.html, err)
		}
		log.Info().Msgf("wrote %s", c.html)
	}

	return subcommands.ExitSuccess
}

// A pairing accumulates results between two players, named in lexical
// order so both color assignments land in one bucket.
type pairing struct {
	A, B  string
	Games int
	WinsA int
	WinsB int
	Other int
}

func aggregate(games []logs.Game) []*pairing {
	m := make(map[string]*pairing)
	for _, g := range games {
		a, b := g.Player1, g.Player2
		if a > b {
			a, b = b, a
		}
		key := a + "\x00" + b
		p := m[key]
		if p == nil {
			p = &pairing{A: a, B: b}
			m[key] = p
		}
		p.Games++

		var winName string
		switch g.Winner {
		case "white":
			winName = g.Player1
		case "black":
			winName = g.Player2
		}
		switch winName {
		case "":
			p.Other++
		case p.A:
			p.WinsA++
		default:
			p.WinsB++
		}
	}
	out := make([]*pairing, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

func renderChart(path string, pairings []*pairing) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Wins by pairing",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	var axis []string
	var first, second, other []opts.BarData
	for _, p := range pairings {
		axis = append(axis, p.A+" vs "+p.B)
		first = append(first, opts.BarData{Value: p.WinsA})
		second = append(second, opts.BarData{Value: p.WinsB})
		other = append(other, opts.BarData{Value: p.Other})
	}
	bar.SetXAxis(axis)
	bar.AddSeries("first player", first)
	bar.AddSeries("second player", second)
	bar.AddSeries("undecided", other)

	page := components.NewPage()
	page.AddCharts(bar)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}
