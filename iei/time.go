package iei

import (
	"strconv"
	"time"

	"github.com/nholt/anchorite/clock"
)

func formatTime(d time.Duration) string {
	ms := d / time.Millisecond
	if ms < 0 {
		ms = 0
	}
	return strconv.FormatUint(uint64(ms), 10)
}

// calcBudget converts the driver's time words into a single budget for
// this move. An explicit movetime wins when it fits inside the
// remaining game clock. With only a game clock we spend a tenth of it
// plus the increment, never more than half of what is left.
func calcBudget(move, game, inc time.Duration) time.Duration {
	if move != 0 && (game == 0 || move < game) {
		return move
	}
	if game == 0 {
		return clock.DefaultLimit
	}
	budget := game/10 + inc
	if budget >= game {
		budget = game / 2
	}
	return budget
}
