package isola

import (
	"testing"

	"github.com/nholt/anchorite/bitboard"
)

func TestNew(t *testing.T) {
	p := New(Config{})
	if p.Width() != DefaultWidth || p.Height() != DefaultHeight {
		t.Errorf("default size = %dx%d", p.Width(), p.Height())
	}
	if x, y := p.Token(White); x != 5 || y != 0 {
		t.Errorf("white start = (%d,%d)", x, y)
	}
	if x, y := p.Token(Black); x != 5 || y != 8 {
		t.Errorf("black start = (%d,%d)", x, y)
	}
	if p.ToMove() != White {
		t.Errorf("to move = %s", p.ToMove())
	}
	if p.MoveNumber() != 0 {
		t.Errorf("move number = %d", p.MoveNumber())
	}
	if !p.BlockedMask().Empty() {
		t.Errorf("new board has blocked cells")
	}
	if over, _ := p.GameOver(); over {
		t.Errorf("new board is over")
	}
}

func TestFromState(t *testing.T) {
	cfg := Config{Width: 5, Height: 5}
	p, err := FromState(cfg, bitboard.Bit(12), Move{0, 0}, Move{4, 4}, 3)
	if err != nil {
		t.Fatal("FromState:", err)
	}
	if x, y := p.Token(White); x != 0 || y != 0 {
		t.Errorf("white = (%d,%d)", x, y)
	}
	if p.ToMove() != Black {
		t.Errorf("to move = %s", p.ToMove())
	}
	if !p.Blocked(2, 2) || p.Blocked(1, 2) {
		t.Errorf("blocked mask wrong")
	}

	bad := []struct {
		desc    string
		blocked bitboard.Mask
		white   Move
		black   Move
	}{
		{"white out of bounds", bitboard.Mask{}, Move{5, 0}, Move{4, 4}},
		{"black out of bounds", bitboard.Mask{}, Move{0, 0}, Move{0, -1}},
		{"same cell", bitboard.Mask{}, Move{2, 2}, Move{2, 2}},
		{"white on blocked", bitboard.Bit(0), Move{0, 0}, Move{4, 4}},
		{"blocked off board", bitboard.Bit(30), Move{0, 0}, Move{4, 4}},
	}
	for _, tc := range bad {
		if _, err := FromState(cfg, tc.blocked, tc.white, tc.black, 0); err == nil {
			t.Errorf("FromState(%s): no error", tc.desc)
		}
	}
}

func TestGameOver(t *testing.T) {
	// white in the corner with both knight escapes blocked
	cfg := Config{Width: 5, Height: 5}
	blocked := bitboard.Bit(7).Or(bitboard.Bit(11))
	p, err := FromState(cfg, blocked, Move{0, 0}, Move{4, 4}, 0)
	if err != nil {
		t.Fatal("FromState:", err)
	}
	over, winner := p.GameOver()
	if !over || winner != Black {
		t.Errorf("over=%v winner=%s", over, winner)
	}
	if got := p.Utility(Black); got != WinUtility {
		t.Errorf("Utility(black)=%v", got)
	}
	if got := p.Utility(White); got != LossUtility {
		t.Errorf("Utility(white)=%v", got)
	}

	// same cells but black to move: black still has moves
	p, err = FromState(cfg, blocked, Move{0, 0}, Move{4, 4}, 1)
	if err != nil {
		t.Fatal("FromState:", err)
	}
	if over, _ := p.GameOver(); over {
		t.Errorf("black has moves but game is over")
	}
}

func TestUtilityPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Utility on a live game did not panic")
		}
	}()
	p := New(Config{Width: 5, Height: 5})
	p.Utility(White)
}

func TestLiberties(t *testing.T) {
	cfg := Config{Width: 5, Height: 5}
	p, err := FromState(cfg, bitboard.Bit(9), Move{1, 0}, Move{2, 2}, 0)
	if err != nil {
		t.Fatal("FromState:", err)
	}
	// white's jump to (2,2) is barred by black's token
	if got := p.Liberties(White); got != 2 {
		t.Errorf("Liberties(white)=%d", got)
	}
	// black loses (4,1) to the blocked cell and (1,0) to white's token
	if got := p.Liberties(Black); got != 6 {
		t.Errorf("Liberties(black)=%d", got)
	}
}

func TestReach(t *testing.T) {
	// on 3x3 the knight cells form one cycle; the two tokens cut two
	// cells out of it and the center is unreachable outright
	p, err := FromState(Config{Width: 3, Height: 3}, bitboard.Mask{}, Move{0, 0}, Move{2, 2}, 0)
	if err != nil {
		t.Fatal("FromState:", err)
	}
	if got := p.Reach(White); got != 6 {
		t.Errorf("Reach(white)=%d", got)
	}
	if got := p.Reach(Black); got != 6 {
		t.Errorf("Reach(black)=%d", got)
	}

	// a cornered token with blocked escapes reaches nothing
	blocked := bitboard.Bit(7).Or(bitboard.Bit(11))
	dead, err := FromState(Config{Width: 5, Height: 5}, blocked, Move{0, 0}, Move{4, 4}, 0)
	if err != nil {
		t.Fatal("FromState:", err)
	}
	if got := dead.Reach(White); got != 0 {
		t.Errorf("Reach(cornered white)=%d", got)
	}
}

func TestColor(t *testing.T) {
	if White.Flip() != Black || Black.Flip() != White || NoColor.Flip() != NoColor {
		t.Error("Flip")
	}
	if White.String() != "white" || Black.String() != "black" {
		t.Error("String")
	}
}
