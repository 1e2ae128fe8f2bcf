package importisn

import (
	"context"
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/nholt/anchorite/isn"
	"github.com/nholt/anchorite/isola"
	"github.com/nholt/anchorite/logs"
)

type Command struct {
	db string
}

func (*Command) Name() string     { return "import" }
func (*Command) Synopsis() string { return "Import game records into the match log" }
func (*Command) Usage() string {
	return `import [-db FILE] FILE.isn ...

Import game records into the sqlite match log. Arguments are .isn
files or directories to scan for them.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.db, "db", "anchorite.db", "database to import into")
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if len(flag.Args()) == 0 {
		log.Error().Msg("must supply files or directories to import")
		return subcommands.ExitUsageError
	}

	var paths []string
	for _, arg := range flag.Args() {
		err := filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, ".isn") {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			log.Fatal().Msgf("%s: %v", arg, err)
		}
	}

	repo, err := logs.Open(c.db)
	if err != nil {
		log.Fatal().Msgf("open %s: %v", c.db, err)
	}
	defer repo.Close()

	perDay := make(map[string]int)
	var games []*logs.Game
	for _, path := range paths {
		g, err := importOne(repo, perDay, path)
		if err != nil {
			log.Error().Msgf("could not import %s: %v", path, err)
			continue
		}
		games = append(games, g)
	}
	if err := repo.InsertGames(games); err != nil {
		log.Fatal().Msgf("insert: %v", err)
	}
	log.Info().Msgf("imported %d of %d games into %s", len(games), len(paths), c.db)

	return subcommands.ExitSuccess
}

func importOne(repo *logs.Repository, perDay map[string]int, path string) (*logs.Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	record, err := isn.ParseISN(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	final, err := record.PositionAtMove(0, isola.NoColor)
	if err != nil {
		return nil, err
	}

	when := timestamp(record, path)
	day := when.Format("2006-01-02")
	if _, seen := perDay[day]; !seen {
		next, err := repo.NextID(day)
		if err != nil {
			return nil, err
		}
		perDay[day] = next
	}
	id := perDay[day]
	perDay[day]++

	moves := 0
	for _, op := range record.Ops {
		if _, ok := op.(*isn.Move); ok {
			moves++
		}
	}

	var result, winner string
	d, ok := record.Result()
	if !ok {
		if over, _ := final.GameOver(); over {
			d, ok = final.WinDetails(), true
		}
	}
	if ok {
		result = isn.FormatResult(d)
		winner = d.Winner.String()
	}

	return &logs.Game{
		Day:       day,
		ID:        id,
		Timestamp: when,
		Width:     final.Width(),
		Height:    final.Height(),
		Player1:   playerTag(record, "White", "Player1"),
		Player2:   playerTag(record, "Black", "Player2"),
		Result:    result,
		Winner:    winner,
		Moves:     moves,
	}, nil
}

// timestamp prefers a Date tag and falls back to the file's mtime.
func timestamp(record *isn.ISN, path string) time.Time {
	if s := record.FindTag("Date"); s != "" {
		for _, layout := range []string{"2006-01-02", "2006.01.02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	if st, err := os.Stat(path); err == nil {
		return st.ModTime()
	}
	return time.Now()
}

func playerTag(record *isn.ISN, names ...string) string {
	for _, n := range names {
		if v := record.FindTag(n); v != "" {
			return v
		}
	}
	return "unknown"
}
