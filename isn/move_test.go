package isn

import (
	"testing"

	"github.com/nholt/anchorite/isola"
)

func TestParseMove(t *testing.T) {
	cases := []struct {
		in  string
		out isola.Move
	}{
		{"a1", isola.Move{X: 0, Y: 0}},
		{"f1", isola.Move{X: 5, Y: 0}},
		{"k9", isola.Move{X: 10, Y: 8}},
		{"a10", isola.Move{X: 0, Y: 9}},
		{"b12", isola.Move{X: 1, Y: 11}},
	}
	for _, tc := range cases {
		got, err := ParseMove(tc.in)
		if err != nil {
			t.Errorf("ParseMove(%s): err=%v", tc.in, err)
			continue
		}
		if got != tc.out {
			t.Errorf("ParseMove(%s)=%v not %v", tc.in, got, tc.out)
		}
		if back := FormatMove(got); back != tc.in {
			t.Errorf("FormatMove(%v)=%s not %s", got, back, tc.in)
		}
	}

	bad := []string{"", "1a", "a0", "A1", "aa1", "a-1", "a1x"}
	for _, in := range bad {
		if m, err := ParseMove(in); err == nil {
			t.Errorf("ParseMove(%s)=%v, want error", in, m)
		}
	}
}

func TestFormatMoves(t *testing.T) {
	ms := []isola.Move{{X: 5, Y: 0}, {X: 6, Y: 2}, {X: 0, Y: 9}}
	if got := FormatMoves(ms); got != "f1 g3 a10" {
		t.Errorf("FormatMoves=%q", got)
	}
	if got := FormatMoves(nil); got != "" {
		t.Errorf("FormatMoves(nil)=%q", got)
	}
}
