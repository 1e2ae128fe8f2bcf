// Package clock converts the driver's "time remaining" signal into
// absolute deadlines that search code can poll cheaply.
package clock

import (
	"context"
	"time"

	"github.com/nholt/anchorite/isola"
)

const (
	// DefaultLimit is the per-move wall clock granted when the driver
	// does not specify one.
	DefaultLimit = 150 * time.Millisecond

	// DefaultBuffer is held back from every budget so that finishing
	// the in-flight node expansion or rollout, plus returning up the
	// stack, cannot overrun the driver's hard limit.
	DefaultBuffer = 10 * time.Millisecond
)

// A Budget is the absolute deadline for one move decision, computed
// once when the decision starts. The zero Budget never expires.
type Budget struct {
	deadline time.Time
}

// New starts a budget of the given remaining wall clock, holding back
// buffer. A remaining value at or below buffer yields a budget that is
// already expired; callers fall back to their cheapest legal answer.
func New(remaining, buffer time.Duration) Budget {
	return Budget{deadline: time.Now().Add(remaining - buffer)}
}

// FromContext derives a budget from ctx's deadline, holding back
// buffer. A context with no deadline yields the never-expiring budget.
func FromContext(ctx context.Context, buffer time.Duration) Budget {
	d, ok := ctx.Deadline()
	if !ok {
		return Budget{}
	}
	return Budget{deadline: d.Add(-buffer)}
}

func (b Budget) Deadline() time.Time {
	return b.deadline
}

// Limited reports whether the budget carries a deadline at all.
func (b Budget) Limited() bool {
	return !b.deadline.IsZero()
}

func (b Budget) Expired() bool {
	if b.deadline.IsZero() {
		return false
	}
	return !time.Now().Before(b.deadline)
}

// Remaining reports the time left on the budget, never negative. The
// never-expiring budget reports a very large value.
func (b Budget) Remaining() time.Duration {
	if b.deadline.IsZero() {
		return time.Duration(1<<63 - 1)
	}
	d := time.Until(b.deadline)
	if d < 0 {
		return 0
	}
	return d
}

// Context bounds ctx by this budget's deadline.
func (b Budget) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.deadline.IsZero() {
		return context.WithCancel(ctx)
	}
	return context.WithDeadline(ctx, b.deadline)
}

// A Control tracks both players' remaining clocks across a game.
type Control struct {
	White time.Duration
	Black time.Duration
	WInc  time.Duration
	BInc  time.Duration
}

// NewControl gives both players the same starting clock and increment.
func NewControl(limit, inc time.Duration) *Control {
	return &Control{White: limit, Black: limit, WInc: inc, BInc: inc}
}

func (c *Control) Remaining(who isola.Color) time.Duration {
	if who == isola.Black {
		return c.Black
	}
	return c.White
}

// MoveBudget is a per-move allowance from who's bank: a tenth of the
// remaining clock plus the increment, capped at half the bank so one
// long think cannot flag the game by itself.
func (c *Control) MoveBudget(who isola.Color) time.Duration {
	rem, inc := c.White, c.WInc
	if who == isola.Black {
		rem, inc = c.Black, c.BInc
	}
	if rem == 0 {
		return 0
	}
	budget := rem/10 + inc
	if budget >= rem {
		budget = rem / 2
	}
	return budget
}

// Deduct charges used against who's clock and, if any time is left,
// applies their increment. It returns false when the flag fell.
func (c *Control) Deduct(who isola.Color, used time.Duration) bool {
	rem, inc := &c.White, c.WInc
	if who == isola.Black {
		rem, inc = &c.Black, c.BInc
	}
	*rem -= used
	if *rem < 0 {
		*rem = 0
		return false
	}
	*rem += inc
	return true
}
