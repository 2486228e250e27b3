// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/vtex"
	"github.com/gogpu/vtex/internal/resample"
)

// Config holds the offline builder's resolved CLI options (spec.md §6).
type Config struct {
	InputPath, OutputPath string

	Filter resample.Named

	PageSize    int
	ContentSize int
	BorderSize  int
	MaxLevels   int

	FlipVSrc     bool
	FlipVTiles   bool
	StopOn1Mip   bool
	AddDebugInfo bool
	DumpImages   bool
	Verbose      bool
}

// Run decodes cfg.InputPath, builds the full mip chain and page
// directory, and writes cfg.OutputPath as a VTFF file.
func Run(cfg Config) error {
	kernel, err := resample.ByName(cfg.Filter)
	if err != nil {
		return err
	}

	src, err := decodeImage(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("vtffbuild: decode %q: %w", cfg.InputPath, err)
	}
	if cfg.FlipVSrc {
		src = flipVertical(src)
	}

	levels, err := buildMipChain(src, kernel, cfg)
	if err != nil {
		return err
	}

	if cfg.DumpImages {
		if err := dumpLevelImages(levels, cfg.OutputPath); err != nil {
			return fmt.Errorf("vtffbuild: dump images: %w", err)
		}
	}

	dims := make([]vtex.LevelDims, len(levels))
	pages := make([][][]byte, len(levels))
	for i, lvl := range levels {
		dims[i] = lvl.dims
		pages[i] = tileLevel(lvl, cfg)
		if cfg.Verbose {
			vtex.Logger().Info("tiled mip level", "level", i, "pagesX", lvl.dims.PagesX, "pagesY", lvl.dims.PagesY)
		}
	}

	out, err := os.Create(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("vtffbuild: create %q: %w", cfg.OutputPath, err)
	}
	defer out.Close()

	if err := vtex.WriteVTFF(out, cfg.PageSize, cfg.ContentSize, cfg.BorderSize, dims, pages); err != nil {
		return fmt.Errorf("vtffbuild: write VTFF: %w", err)
	}
	return nil
}

// mipLevel is one level of the mip chain: its page-grid dims and the
// fully resolved RGBA canvas those pages are cut from.
type mipLevel struct {
	dims   vtex.LevelDims
	canvas *image.RGBA
}

// buildMipChain resizes src to the level-0 canvas (padded up to a
// power-of-two page grid in both axes), then repeatedly halves it with
// the same kernel until the page grid reaches 1x1 (or cfg.StopOn1Mip
// triggers early on the first axis to do so) or cfg.MaxLevels is hit.
func buildMipChain(src image.Image, kernel xdraw.Interpolator, cfg Config) ([]mipLevel, error) {
	b := src.Bounds()
	pagesX0 := nextPowerOfTwo(ceilDiv(b.Dx(), cfg.ContentSize))
	pagesY0 := nextPowerOfTwo(ceilDiv(b.Dy(), cfg.ContentSize))
	if pagesX0 < 1 {
		pagesX0 = 1
	}
	if pagesY0 < 1 {
		pagesY0 = 1
	}

	canvas0 := resizeTo(src, pagesX0*cfg.ContentSize, pagesY0*cfg.ContentSize, cfg.Filter, kernel)
	levels := []mipLevel{{dims: vtex.LevelDims{PagesX: pagesX0, PagesY: pagesY0}, canvas: canvas0}}

	for len(levels) < cfg.MaxLevels {
		prev := levels[len(levels)-1]
		if prev.dims.PagesX == 1 && prev.dims.PagesY == 1 {
			break
		}
		if cfg.StopOn1Mip && (prev.dims.PagesX == 1 || prev.dims.PagesY == 1) {
			break
		}

		nextX := halvePages(prev.dims.PagesX)
		nextY := halvePages(prev.dims.PagesY)
		canvas := resizeTo(prev.canvas, nextX*cfg.ContentSize, nextY*cfg.ContentSize, cfg.Filter, kernel)
		levels = append(levels, mipLevel{dims: vtex.LevelDims{PagesX: nextX, PagesY: nextY}, canvas: canvas})
	}
	return levels, nil
}

func halvePages(n int) int {
	if n <= 1 {
		return 1
	}
	return n / 2
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// resizeTo scales src to exactly w x h using name/kernel. Filters with a
// cacheable weight table (everything but tri/cubic) go through
// resample.Scale, which reuses the same per-(filter, axis-length) weight
// table across every mip level and across the X/Y axes of square grids
// instead of recomputing it on every call. tri and cubic fall back to the
// interpolator's own Scale, matching the teacher's
// xdraw.CatmullRom.Scale(dst, dr, src, sr, xdraw.Over, nil) call shape in
// text/draw_emoji.go.
func resizeTo(src image.Image, w, h int, name resample.Named, kernel xdraw.Interpolator) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if k, ok := resample.KernelOf(name); ok {
		resample.Scale(dst, name, k, src)
		return dst
	}
	kernel.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

// tileLevel cuts lvl.canvas into pageSize x pageSize pages. Each page's
// interior ContentSize x ContentSize region is sampled directly; its
// BorderSize-pixel border wraps around the level canvas so adjacent
// tiles filter seamlessly across the wrap-addressed virtual texture
// (spec.md glossary: "borders exist only to support correct filtering
// across tile edges").
func tileLevel(lvl mipLevel, cfg Config) [][]byte {
	cw := lvl.dims.PagesX * cfg.ContentSize
	ch := lvl.dims.PagesY * cfg.ContentSize

	pages := make([][]byte, 0, lvl.dims.PagesX*lvl.dims.PagesY)
	for py := 0; py < lvl.dims.PagesY; py++ {
		for px := 0; px < lvl.dims.PagesX; px++ {
			payload := vtex.NewPagePayload(cfg.PageSize)
			for y := -cfg.BorderSize; y < cfg.ContentSize+cfg.BorderSize; y++ {
				sy := wrap(py*cfg.ContentSize+y, ch)
				for x := -cfg.BorderSize; x < cfg.ContentSize+cfg.BorderSize; x++ {
					sx := wrap(px*cfg.ContentSize+x, cw)
					r, g, b, a := lvl.canvas.RGBAAt(sx, sy).R, lvl.canvas.RGBAAt(sx, sy).G, lvl.canvas.RGBAAt(sx, sy).B, lvl.canvas.RGBAAt(sx, sy).A
					payload.SetPixel(x+cfg.BorderSize, y+cfg.BorderSize, r, g, b, a)
				}
			}

			id := vtex.MakePageId(px, py, 0, 0)
			if cfg.AddDebugInfo {
				vtex.ApplyDebugOverlay(vtex.DebugOverlayConfig{
					Enabled:     true,
					BorderSize:  cfg.BorderSize,
					BorderColor: [4]uint8{255, 0, 255, 255},
				}, id, payload)
			}
			if cfg.FlipVTiles {
				flipPayloadVertical(payload)
			}
			pages = append(pages, payload.Data())
		}
	}
	return pages
}

func wrap(v, n int) int {
	if n <= 0 {
		return 0
	}
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

func flipPayloadVertical(p *vtex.PagePayload) {
	n := p.PageSize()
	for y := 0; y < n/2; y++ {
		oy := n - 1 - y
		for x := 0; x < n; x++ {
			r1, g1, b1, a1 := p.GetPixel(x, y)
			r2, g2, b2, a2 := p.GetPixel(x, oy)
			p.SetPixel(x, y, r2, g2, b2, a2)
			p.SetPixel(x, oy, r1, g1, b1, a1)
		}
	}
}

func flipVertical(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		sy := b.Max.Y - 1 - (y - b.Min.Y)
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, y, src.At(x, sy))
		}
	}
	return dst
}

func dumpLevelImages(levels []mipLevel, outputPath string) error {
	base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	for i, lvl := range levels {
		f, err := os.Create(fmt.Sprintf("%s_mip%d.png", base, i))
		if err != nil {
			return err
		}
		err = png.Encode(f, lvl.canvas)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
