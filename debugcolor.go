// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vtex

import "math"

// bitReversePageColor synthesizes a deterministic RGBA8 color from a
// PageId by bit-reversing its pageX, pageY and mipLevel bytes into R, G
// and B; alpha is always 255 and textureIndex does not affect the color
// (spec.md §4.2,
// DebugPageFile: "synthesizes a deterministic color per PageId
// (bit-reversed bytes of the id components)"). Bit-reversal spreads
// nearby page coordinates across the color wheel so adjacent debug tiles
// are visually distinct.
func bitReversePageColor(id PageId) (r, g, b, a uint8) {
	r = reverseByte(uint8(id.PageX()))
	g = reverseByte(uint8(id.PageY()))
	b = reverseByte(uint8(id.MipLevel()))
	a = 255
	return
}

func reverseByte(b uint8) uint8 {
	var out uint8
	for i := 0; i < 8; i++ {
		out <<= 1
		out |= b & 1
		b >>= 1
	}
	return out
}

// hslColor converts HSL (h in [0,360), s and l in [0,1]) to RGB8, used by
// VirtualTexture.purgeCache's optional debug gradient repaint of cache
// slots. Grounded on the standard HSL-to-RGB conversion the teacher's
// color package implements for its own gradient brushes.
func hslColor(h, s, l float64) (r, g, b uint8) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 360

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h*6, 2)-1))
	m := l - c/2

	var rf, gf, bf float64
	switch {
	case h < 1.0/6:
		rf, gf, bf = c, x, 0
	case h < 2.0/6:
		rf, gf, bf = x, c, 0
	case h < 3.0/6:
		rf, gf, bf = 0, c, x
	case h < 4.0/6:
		rf, gf, bf = 0, x, c
	case h < 5.0/6:
		rf, gf, bf = x, 0, c
	default:
		rf, gf, bf = c, 0, x
	}

	return to8(rf + m), to8(gf + m), to8(bf + m)
}

func to8(v float64) uint8 {
	v *= 255
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
