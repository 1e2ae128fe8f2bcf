package isola

import (
	"testing"

	"github.com/nholt/anchorite/bitboard"
)

func TestAllMoves(t *testing.T) {
	p := New(Config{Width: 5, Height: 5})
	moves := p.AllMoves(nil)
	want := []Move{{0, 1}, {4, 1}, {1, 2}, {3, 2}}
	if len(moves) != len(want) {
		t.Fatalf("AllMoves=%v != %v", moves, want)
	}
	for i, m := range moves {
		if m != want[i] {
			t.Fatalf("AllMoves=%v != %v", moves, want)
		}
	}

	// stable across calls
	again := p.AllMoves(nil)
	for i, m := range again {
		if m != moves[i] {
			t.Fatalf("AllMoves not stable: %v != %v", again, moves)
		}
	}

	// appends to an existing buffer
	buf := make([]Move, 0, 8)
	buf = append(buf, Move{9, 9})
	buf = p.AllMoves(buf)
	if len(buf) != 5 || buf[0] != (Move{9, 9}) || buf[1] != (Move{0, 1}) {
		t.Fatalf("AllMoves(buf)=%v", buf)
	}
}

func TestAllMovesExcludesTokens(t *testing.T) {
	cfg := Config{Width: 5, Height: 5}
	// black sits on one of white's knight destinations
	p, err := FromState(cfg, bitboard.Mask{}, Move{2, 0}, Move{3, 2}, 0)
	if err != nil {
		t.Fatal("FromState:", err)
	}
	for _, m := range p.AllMoves(nil) {
		if m == (Move{3, 2}) {
			t.Errorf("AllMoves includes black's cell")
		}
	}
	if got := len(p.AllMoves(nil)); got != 3 {
		t.Errorf("len(AllMoves)=%d", got)
	}
}

func TestMove(t *testing.T) {
	p := New(Config{Width: 5, Height: 5})
	next, err := p.Move(Move{3, 2})
	if err != nil {
		t.Fatal("Move:", err)
	}

	// the original position is untouched
	if x, y := p.Token(White); x != 2 || y != 0 {
		t.Errorf("original white moved: (%d,%d)", x, y)
	}
	if !p.BlockedMask().Empty() {
		t.Errorf("original blocked mask changed")
	}
	if p.MoveNumber() != 0 {
		t.Errorf("original move number changed")
	}

	// the new position differs in exactly three ways
	if x, y := next.Token(White); x != 3 || y != 2 {
		t.Errorf("white = (%d,%d)", x, y)
	}
	if next.BlockedMask() != bitboard.Bit(2) {
		t.Errorf("blocked = %v", next.BlockedMask())
	}
	if next.ToMove() != Black {
		t.Errorf("to move = %s", next.ToMove())
	}
	if next.MoveNumber() != 1 {
		t.Errorf("move number = %d", next.MoveNumber())
	}
	if x, y := next.Token(Black); x != 2 || y != 4 {
		t.Errorf("black moved: (%d,%d)", x, y)
	}
}

func TestMoveErrors(t *testing.T) {
	cfg := Config{Width: 5, Height: 5}
	p, err := FromState(cfg, bitboard.Bit(11), Move{2, 0}, Move{3, 2}, 0)
	if err != nil {
		t.Fatal("FromState:", err)
	}
	cases := []struct {
		m   Move
		err error
	}{
		{Move{-1, 0}, ErrOutOfBounds},
		{Move{5, 2}, ErrOutOfBounds},
		{Move{2, 1}, ErrNotAKnightMove},
		{Move{1, 2}, ErrBlocked},
		{Move{3, 2}, ErrOccupied},
	}
	for _, tc := range cases {
		if _, err := p.Move(tc.m); err != tc.err {
			t.Errorf("Move(%v): err=%v != %v", tc.m, err, tc.err)
		}
	}
}

func TestMoveUntilOver(t *testing.T) {
	// play random-ish games on a tiny board and check that every game
	// ends with the loser out of moves and the board only growing
	p := New(Config{Width: 4, Height: 4})
	var buf []Move
	seen := 0
	for {
		over, winner := p.GameOver()
		buf = p.AllMoves(buf[:0])
		if over {
			if len(buf) != 0 {
				t.Fatalf("game over with %d moves", len(buf))
			}
			if winner != p.ToMove().Flip() {
				t.Fatalf("winner=%s to-move=%s", winner, p.ToMove())
			}
			break
		}
		if len(buf) == 0 {
			t.Fatal("no moves but game not over")
		}
		next, err := p.Move(buf[seen%len(buf)])
		if err != nil {
			t.Fatal("Move:", err)
		}
		if next.BlockedMask().Popcount() != p.BlockedMask().Popcount()+1 {
			t.Fatal("blocked set did not grow by one")
		}
		*p = next
		seen++
		if seen > 16*16 {
			t.Fatal("game did not terminate")
		}
	}
}

func BenchmarkAllMoves(b *testing.B) {
	p := New(Config{})
	var buf [8]Move
	for i := 0; i < b.N; i++ {
		p.AllMoves(buf[:0])
	}
}

func BenchmarkMove(b *testing.B) {
	p := New(Config{})
	m := p.AllMoves(nil)[0]
	for i := 0; i < b.N; i++ {
		if _, err := p.Move(m); err != nil {
			b.Fatal(err)
		}
	}
}
