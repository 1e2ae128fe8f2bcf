package logs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository(t *testing.T) {
	repo, err := Open(":memory:")
	require.NoError(t, err)
	defer repo.Close()

	now := time.Now()
	require.NoError(t, repo.InsertGame(&Game{
		Day: "2025-11-03", ID: 1, Timestamp: now,
		Width: 11, Height: 9,
		Player1: "alphabeta:4", Player2: "uct",
		Result: "0-I", Winner: "black", Moves: 31,
	}))
	require.NoError(t, repo.InsertGames([]*Game{
		{
			Day: "2025-11-04", ID: 1, Timestamp: now,
			Width: 11, Height: 9,
			Player1: "uct", Player2: "greedy",
			Result: "I-0", Winner: "white", Moves: 27,
		},
		{
			Day: "2025-11-04", ID: 2, Timestamp: now,
			Width: 5, Height: 5,
			Player1: "greedy", Player2: "uct",
			Result: "I-0", Winner: "white", Moves: 15,
		},
	}))

	n, err := repo.CountGames()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	games, err := repo.Games()
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.Equal(t, "alphabeta:4", games[0].Player1)
	assert.Equal(t, "black", games[0].Winner)
	assert.Equal(t, 5, games[2].Width)

	days, err := repo.PlayerDays("uct")
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, PlayerDay{Day: "2025-11-03", Player: "uct", Games: 1, Wins: 1, Losses: 0}, days[0])
	assert.Equal(t, PlayerDay{Day: "2025-11-04", Player: "uct", Games: 2, Wins: 1, Losses: 1}, days[1])

	next, err := repo.NextID("2025-11-04")
	require.NoError(t, err)
	assert.Equal(t, 3, next)
	next, err = repo.NextID("2025-11-05")
	require.NoError(t, err)
	assert.Equal(t, 0, next)
}
