package ai

import (
	"context"

	"github.com/nholt/anchorite/isola"
)

// An IsolaPlayer picks moves. GetMove must return a move legal at p,
// and when ctx carries a deadline it must return strictly before that
// deadline; the match driver counts a late answer as a forfeit.
type IsolaPlayer interface {
	GetMove(ctx context.Context, p *isola.Position) isola.Move
}
