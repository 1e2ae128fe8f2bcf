package bitboard

import "math/bits"

// MaxCells is the largest board this package can represent: two
// 64-bit words, one bit per cell.
const MaxCells = 128

// Mask is a set of cells on a Width x Height board. Cell (x, y) is
// bit y*Width + x, counted from Lo's least significant bit.
type Mask struct {
	Lo, Hi uint64
}

func Bit(i uint) Mask {
	if i < 64 {
		return Mask{Lo: 1 << i}
	}
	return Mask{Hi: 1 << (i - 64)}
}

func (m Mask) Test(i uint) bool {
	if i < 64 {
		return m.Lo&(1<<i) != 0
	}
	return m.Hi&(1<<(i-64)) != 0
}

func (m Mask) Set(i uint) Mask {
	if i < 64 {
		m.Lo |= 1 << i
	} else {
		m.Hi |= 1 << (i - 64)
	}
	return m
}

func (m Mask) Clear(i uint) Mask {
	if i < 64 {
		m.Lo &^= 1 << i
	} else {
		m.Hi &^= 1 << (i - 64)
	}
	return m
}

func (m Mask) Or(o Mask) Mask {
	return Mask{m.Lo | o.Lo, m.Hi | o.Hi}
}

func (m Mask) And(o Mask) Mask {
	return Mask{m.Lo & o.Lo, m.Hi & o.Hi}
}

func (m Mask) AndNot(o Mask) Mask {
	return Mask{m.Lo &^ o.Lo, m.Hi &^ o.Hi}
}

func (m Mask) Empty() bool {
	return m.Lo == 0 && m.Hi == 0
}

func (m Mask) Popcount() int {
	return bits.OnesCount64(m.Lo) + bits.OnesCount64(m.Hi)
}

// Next pops the lowest set cell. It returns that cell's index and the
// mask without it; calling Next on an empty mask returns (MaxCells, m).
func (m Mask) Next() (uint, Mask) {
	if m.Lo != 0 {
		i := uint(bits.TrailingZeros64(m.Lo))
		m.Lo &= m.Lo - 1
		return i, m
	}
	if m.Hi != 0 {
		i := uint(bits.TrailingZeros64(m.Hi))
		m.Hi &= m.Hi - 1
		return 64 + i, m
	}
	return MaxCells, m
}

// Constants holds the precomputed tables for one board geometry.
type Constants struct {
	Width, Height uint
	Mask          Mask
	Edge          Mask
	Knight        [MaxCells]Mask
}

var knightOffsets = [8][2]int{
	{1, 2}, {2, 1}, {2, -1}, {1, -2},
	{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}

func Precompute(w, h uint) Constants {
	if w == 0 || h == 0 || w*h > MaxCells {
		panic("Precompute: bad dimensions")
	}
	c := Constants{Width: w, Height: h}
	for y := uint(0); y < h; y++ {
		for x := uint(0); x < w; x++ {
			i := Index(&c, x, y)
			c.Mask = c.Mask.Set(i)
			if x == 0 || x == w-1 || y == 0 || y == h-1 {
				c.Edge = c.Edge.Set(i)
			}
			for _, d := range knightOffsets {
				tx, ty := int(x)+d[0], int(y)+d[1]
				if tx < 0 || ty < 0 || tx >= int(w) || ty >= int(h) {
					continue
				}
				c.Knight[i] = c.Knight[i].Set(Index(&c, uint(tx), uint(ty)))
			}
		}
	}
	return c
}

// KnightGrow expands seed by one knight jump from every set cell,
// constrained to within.
func KnightGrow(c *Constants, within, seed Mask) Mask {
	next := seed
	m := seed
	for !m.Empty() {
		var i uint
		i, m = m.Next()
		next = next.Or(c.Knight[i])
	}
	return next.And(within)
}

// KnightFlood closes seed under knight jumps constrained to within.
func KnightFlood(c *Constants, within, seed Mask) Mask {
	for {
		next := KnightGrow(c, within, seed)
		if next == seed {
			return next
		}
		seed = next
	}
}

func Index(c *Constants, x, y uint) uint {
	return y*c.Width + x
}

func Coords(c *Constants, i uint) (x, y uint) {
	return i % c.Width, i / c.Width
}

// Dimensions returns the width and height of the bounding box of the
// set cells.
func Dimensions(c *Constants, m Mask) (w, h int) {
	if m.Empty() {
		return 0, 0
	}
	minx, miny := int(c.Width), int(c.Height)
	maxx, maxy := -1, -1
	for !m.Empty() {
		var i uint
		i, m = m.Next()
		x, y := Coords(c, i)
		if int(x) < minx {
			minx = int(x)
		}
		if int(x) > maxx {
			maxx = int(x)
		}
		if int(y) < miny {
			miny = int(y)
		}
		if int(y) > maxy {
			maxy = int(y)
		}
	}
	return maxx - minx + 1, maxy - miny + 1
}
