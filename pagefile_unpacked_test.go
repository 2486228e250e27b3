package vtex

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPagePNG(t *testing.T, dir string, level, x, y, size int, fill color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for py := 0; py < size; py++ {
		for px := 0; px < size; px++ {
			img.Set(px, py, fill)
		}
	}
	path := filepath.Join(dir, "L0_"+itoa(x)+"_"+itoa(y)+".png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func TestUnpackedPageFileLoadsPNG(t *testing.T) {
	dir := t.TempDir()
	writeTestPagePNG(t, dir, 0, 2, 3, 8, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	dims := []LevelDims{{PagesX: 4, PagesY: 4}}
	f := NewUnpackedPageFile(dir, dims, 8, DebugOverlayConfig{})

	p := NewPagePayload(8)
	f.LoadPage(MakePageId(2, 3, 0, 0), &PageRequestDataPacket{Payload: p})

	r, g, b, a := p.GetPixel(0, 0)
	if r != 10 || g != 20 || b != 30 || a != 255 {
		t.Errorf("got (%d,%d,%d,%d), want (10,20,30,255)", r, g, b, a)
	}
}

func TestUnpackedPageFileMissingFileSoftFails(t *testing.T) {
	dir := t.TempDir()
	dims := []LevelDims{{PagesX: 4, PagesY: 4}}
	f := NewUnpackedPageFile(dir, dims, 8, DebugOverlayConfig{})

	p := NewPagePayload(8)
	p.SetPixel(0, 0, 9, 9, 9, 9)
	f.LoadPage(MakePageId(0, 0, 0, 0), &PageRequestDataPacket{Payload: p})

	r, g, b, a := p.GetPixel(0, 0)
	if r != 0 || g != 0 || b != 0 || a != 0 {
		t.Error("missing page file should zero-fill the payload, not leave stale pixels")
	}
}
