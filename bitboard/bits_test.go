package bitboard

import (
	"testing"
)

func TestPrecompute(t *testing.T) {
	c := Precompute(5, 5)
	if c.Mask != (Mask{Lo: 1<<25 - 1}) {
		t.Errorf("c.Mask(5x5): %x", c.Mask.Lo)
	}
	if got := c.Edge.Popcount(); got != 16 {
		t.Errorf("c.Edge(5x5): %d cells", got)
	}

	c = Precompute(11, 9)
	if c.Mask.Popcount() != 99 {
		t.Errorf("c.Mask(11x9): %d cells", c.Mask.Popcount())
	}
	if c.Mask != (Mask{Lo: ^uint64(0), Hi: 1<<35 - 1}) {
		t.Errorf("c.Mask(11x9): %x,%x", c.Mask.Lo, c.Mask.Hi)
	}
	if got := c.Edge.Popcount(); got != 2*11+2*9-4 {
		t.Errorf("c.Edge(11x9): %d cells", got)
	}
}

func TestKnightTables(t *testing.T) {
	cases := []struct {
		w, h uint
		x, y uint
		out  []uint
	}{
		// corner of a 5x5: two destinations
		{5, 5, 0, 0, []uint{7, 11}},
		// center of a 5x5: all eight
		{5, 5, 2, 2, []uint{1, 3, 5, 9, 15, 19, 21, 23}},
		// edge cell
		{5, 5, 0, 2, []uint{1, 7, 17, 21}},
		// center of the default 11x9 board
		{11, 9, 5, 4, []uint{26, 28, 36, 40, 58, 62, 70, 72}},
	}
	for _, tc := range cases {
		c := Precompute(tc.w, tc.h)
		m := c.Knight[Index(&c, tc.x, tc.y)]
		var got []uint
		for !m.Empty() {
			var i uint
			i, m = m.Next()
			got = append(got, i)
		}
		if len(got) != len(tc.out) {
			t.Errorf("Knight[%dx%d](%d,%d)=%v != %v",
				tc.w, tc.h, tc.x, tc.y, got, tc.out)
			continue
		}
		for i, v := range got {
			if v != tc.out[i] {
				t.Errorf("Knight[%dx%d](%d,%d)=%v != %v",
					tc.w, tc.h, tc.x, tc.y, got, tc.out)
				break
			}
		}
	}
}

func TestKnightSymmetric(t *testing.T) {
	c := Precompute(11, 9)
	for i := uint(0); i < c.Width*c.Height; i++ {
		m := c.Knight[i]
		for !m.Empty() {
			var j uint
			j, m = m.Next()
			if !c.Knight[j].Test(i) {
				t.Errorf("Knight[%d] reaches %d but not back", i, j)
			}
		}
	}
}

func TestMaskOps(t *testing.T) {
	m := Bit(3).Or(Bit(70)).Or(Bit(127))
	if m.Popcount() != 3 {
		t.Errorf("Popcount=%d", m.Popcount())
	}
	if !m.Test(70) || m.Test(71) {
		t.Error("Test(70/71)")
	}
	m = m.Clear(70)
	if m.Test(70) {
		t.Error("Clear(70)")
	}
	m = m.Set(70)
	if !m.Test(70) {
		t.Error("Set(70)")
	}

	i, rest := m.Next()
	if i != 3 {
		t.Errorf("Next=%d", i)
	}
	i, rest = rest.Next()
	if i != 70 {
		t.Errorf("Next=%d", i)
	}
	i, rest = rest.Next()
	if i != 127 {
		t.Errorf("Next=%d", i)
	}
	if !rest.Empty() {
		t.Error("rest not empty")
	}
	i, _ = rest.Next()
	if i != MaxCells {
		t.Errorf("Next on empty=%d", i)
	}

	a := Bit(1).Or(Bit(2))
	b := Bit(2).Or(Bit(3))
	if a.And(b) != Bit(2) {
		t.Error("And")
	}
	if a.AndNot(b) != Bit(1) {
		t.Error("AndNot")
	}
}

func TestKnightFlood(t *testing.T) {
	// the 3x3 knight graph is an 8-cycle around an isolated center
	c := Precompute(3, 3)
	if got := KnightFlood(&c, c.Mask, Bit(4)); got != Bit(4) {
		t.Errorf("flood from center = %v", got)
	}
	if got := KnightFlood(&c, c.Mask, Bit(0)); got != c.Mask.Clear(4) {
		t.Errorf("flood from corner = %v", got)
	}

	// growing once from a corner adds exactly its two destinations
	if got := KnightGrow(&c, c.Mask, Bit(0)); got != Bit(0).Or(Bit(5)).Or(Bit(7)) {
		t.Errorf("grow from corner = %v", got)
	}

	// the constraint mask cuts the cycle
	within := c.Mask.Clear(7).Clear(5)
	if got := KnightFlood(&c, within, Bit(0)); got != Bit(0) {
		t.Errorf("flood with cut cycle = %v", got)
	}
}

func TestDimensions(t *testing.T) {
	cases := []struct {
		w, h  uint
		cells []uint
		ow    int
		oh    int
	}{
		{5, 5, nil, 0, 0},
		{5, 5, []uint{12}, 1, 1},
		{5, 5, []uint{0, 4}, 5, 1},
		{5, 5, []uint{6, 18}, 3, 3},
		{11, 9, []uint{0, 98}, 11, 9},
	}
	for _, tc := range cases {
		c := Precompute(tc.w, tc.h)
		var m Mask
		for _, i := range tc.cells {
			m = m.Set(i)
		}
		w, h := Dimensions(&c, m)
		if w != tc.ow || h != tc.oh {
			t.Errorf("Dimensions(%dx%d, %v) = (%d,%d) != (%d,%d)",
				tc.w, tc.h, tc.cells, w, h, tc.ow, tc.oh)
		}
	}
}
