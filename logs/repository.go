// Package logs records finished games in a sqlite database for later
// reporting.
package logs

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3" // repository assumes sqlite
)

type Repository struct {
	db *sqlx.DB
}

type Game struct {
	Day       string    `db:"day"`
	ID        int       `db:"id"`
	Timestamp time.Time `db:"time"`
	Width     int       `db:"width"`
	Height    int       `db:"height"`
	Player1   string    `db:"player1"`
	Player2   string    `db:"player2"`
	Result    string    `db:"result"`
	Winner    string    `db:"winner"`
	Moves     int       `db:"moves"`
}

// A PlayerDay aggregates one player's games on one day, counted over
// both colors.
type PlayerDay struct {
	Day    string `db:"day"`
	Player string `db:"player"`
	Games  int    `db:"games"`
	Wins   int    `db:"wins"`
	Losses int    `db:"losses"`
}

func Open(db string) (*Repository, error) {
	sql, err := sqlx.Open("sqlite3", db)
	if err != nil {
		return nil, err
	}
	if _, err := sql.Exec(createGameTable); err != nil {
		sql.Close()
		return nil, fmt.Errorf("create game table: %v", err)
	}
	if _, err := sql.Exec(createPlayerView); err != nil {
		sql.Close()
		return nil, fmt.Errorf("create player_games view: %v", err)
	}
	return &Repository{db: sql}, nil
}

func (r *Repository) InsertGame(g *Game) error {
	_, err := r.db.NamedExec(insertStmt, g)
	return err
}

func (r *Repository) InsertGames(gs []*Game) error {
	txn, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer txn.Rollback()
	for _, g := range gs {
		if _, e := txn.NamedExec(insertStmt, g); e != nil {
			return e
		}
	}
	return txn.Commit()
}

func (r *Repository) CountGames() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM games`)
	return n, err
}

// NextID returns the first unused game id for day.
func (r *Repository) NextID(day string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COALESCE(MAX(id)+1, 0) FROM games WHERE day = ?`, day)
	return n, err
}

// Games returns every recorded game, oldest day first.
func (r *Repository) Games() ([]Game, error) {
	cur, err := r.db.Queryx(selectGames)
	if err != nil {
		return nil, err
	}
	defer cur.Close()
	var out []Game
	for cur.Next() {
		var g Game
		if err := cur.StructScan(&g); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, cur.Err()
}

// PlayerDays returns the named player's per-day record across both
// colors.
func (r *Repository) PlayerDays(player string) ([]PlayerDay, error) {
	var out []PlayerDay
	err := r.db.Select(&out, selectPlayerDays, player)
	return out, err
}

func (r *Repository) Close() {
	r.db.Close()
}
