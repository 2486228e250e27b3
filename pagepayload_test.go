package vtex

import "testing"

func TestPagePayloadSetGetPixel(t *testing.T) {
	p := NewPagePayload(8)
	p.SetPixel(3, 4, 10, 20, 30, 40)
	r, g, b, a := p.GetPixel(3, 4)
	if r != 10 || g != 20 || b != 30 || a != 40 {
		t.Errorf("got (%d,%d,%d,%d)", r, g, b, a)
	}
	r, g, b, a = p.GetPixel(-1, 0)
	if r != 0 || g != 0 || b != 0 || a != 0 {
		t.Error("out of range read should be zero")
	}
}

func TestPagePayloadZero(t *testing.T) {
	p := NewPagePayload(4)
	p.SetPixel(0, 0, 1, 2, 3, 4)
	p.Zero()
	for _, v := range p.Data() {
		if v != 0 {
			t.Fatal("Zero left a nonzero byte")
		}
	}
}

func TestPagePayloadDownsample2x2Uniform(t *testing.T) {
	p := NewPagePayload(4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			p.SetPixel(x, y, 100, 150, 200, 255)
		}
	}
	half := NewPagePayload(2)
	p.Downsample2x2(half)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			r, g, b, a := half.GetPixel(x, y)
			if r != 100 || g != 150 || b != 200 || a != 255 {
				t.Errorf("uniform downsample mismatch at (%d,%d): got (%d,%d,%d,%d)", x, y, r, g, b, a)
			}
		}
	}
}

func TestPagePayloadDownsample2x2Rounding(t *testing.T) {
	p := NewPagePayload(2)
	p.SetPixel(0, 0, 0, 0, 0, 0)
	p.SetPixel(1, 0, 1, 0, 0, 0)
	p.SetPixel(0, 1, 1, 0, 0, 0)
	p.SetPixel(1, 1, 1, 0, 0, 0)
	half := NewPagePayload(1)
	p.Downsample2x2(half)
	r, _, _, _ := half.GetPixel(0, 0)
	// (0+1+1+1+2)>>2 = 5>>2 = 1
	if r != 1 {
		t.Errorf("expected rounded average 1, got %d", r)
	}
}

func TestPagePayloadDrawBorder(t *testing.T) {
	p := NewPagePayload(8)
	p.DrawBorder(1, 255, 0, 0, 255)
	r, _, _, _ := p.GetPixel(1, 1)
	if r != 255 {
		t.Error("border pixel not drawn")
	}
	r, _, _, _ = p.GetPixel(4, 4)
	if r != 0 {
		t.Error("interior pixel should be untouched")
	}
}
