package ai

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nholt/anchorite/isola"
)

type EvaluationFunc func(p *isola.Position) int64

type Weights struct {
	OwnLiberties int
	OppLiberties int

	OwnReach int
	OppReach int
}

var DefaultWeights = Weights{
	OwnLiberties: 1,
	OppLiberties: -1,
}

// ReachWeights also scores the territory either token can still tour,
// which separates positions the liberty count alone cannot.
var ReachWeights = Weights{
	OwnLiberties: 4,
	OppLiberties: -4,
	OwnReach:     1,
	OppReach:     -1,
}

func MakeEvaluator(w *Weights) EvaluationFunc {
	ws := *w
	return func(p *isola.Position) int64 {
		return evaluate(&ws, p)
	}
}

var DefaultEvaluate = MakeEvaluator(&DefaultWeights)

// evaluate scores p for the player to move. Finished games score at
// the win margin, shaded by move number so that quicker wins and
// slower losses come out ahead.
func evaluate(w *Weights, p *isola.Position) int64 {
	if over, winner := p.GameOver(); over {
		if winner == p.ToMove() {
			return MaxEval - int64(p.MoveNumber())
		}
		return MinEval + int64(p.MoveNumber())
	}
	me := p.ToMove()
	v := int64(w.OwnLiberties*p.Liberties(me) + w.OppLiberties*p.Liberties(me.Flip()))
	if w.OwnReach != 0 || w.OppReach != 0 {
		v += int64(w.OwnReach*p.Reach(me) + w.OppReach*p.Reach(me.Flip()))
	}
	return v
}

func ExplainScore(out io.Writer, p *isola.Position) {
	tw := tabwriter.NewWriter(out, 4, 8, 1, '\t', 0)
	fmt.Fprintf(tw, "\twhite\tblack\n")
	wx, wy := p.Token(isola.White)
	bx, by := p.Token(isola.Black)
	fmt.Fprintf(tw, "token\t(%d,%d)\t(%d,%d)\n", wx, wy, bx, by)
	fmt.Fprintf(tw, "liberties\t%d\t%d\n", p.Liberties(isola.White), p.Liberties(isola.Black))
	fmt.Fprintf(tw, "reach\t%d\t%d\n", p.Reach(isola.White), p.Reach(isola.Black))
	fmt.Fprintf(tw, "blocked\t%d cells\n", p.BlockedMask().Popcount())
	tw.Flush()
}
