package vtex

import "testing"

func TestReverseByte(t *testing.T) {
	cases := map[uint8]uint8{
		0x00: 0x00,
		0xFF: 0xFF,
		0x01: 0x80,
		0x80: 0x01,
	}
	for in, want := range cases {
		if got := reverseByte(in); got != want {
			t.Errorf("reverseByte(%#x) = %#x, want %#x", in, got, want)
		}
	}
}

func TestBitReversePageColorDeterministic(t *testing.T) {
	id := MakePageId(3, 5, 1, 0)
	r1, g1, b1, a1 := bitReversePageColor(id)
	r2, g2, b2, a2 := bitReversePageColor(id)
	if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
		t.Error("bitReversePageColor should be deterministic for the same id")
	}
	if a1 != 255 {
		t.Error("debug colors should be fully opaque")
	}
}

func TestHSLColorPrimaries(t *testing.T) {
	r, g, b := hslColor(0, 1, 0.5)
	if r < 200 || g > 50 || b > 50 {
		t.Errorf("hue 0 should be near-red, got (%d,%d,%d)", r, g, b)
	}
}
