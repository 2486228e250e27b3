// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gputex

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
)

// RenderTarget is where the page-id feedback pass writes. PageResolver
// reads it back synchronously once per frame (spec.md §4.6); the
// runtime never writes to it directly, that's the renderer's job as an
// external collaborator.
type RenderTarget interface {
	Width() int
	Height() int
	Format() gputypes.TextureFormat
	TextureView() TextureView
	// Pixels returns direct access to RGBA8 pixel data, nil for
	// GPU-only targets that haven't been read back yet.
	Pixels() []byte
	Stride() int
}

// PixmapTarget is a CPU-backed RenderTarget, the default destination
// for the feedback pass in headless tests and the offline builder's
// diagnostics. Grounded on the teacher's render.PixmapTarget.
type PixmapTarget struct {
	img *image.RGBA
}

// NewPixmapTarget allocates a zeroed width x height RGBA8 target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (t *PixmapTarget) Width() int  { return t.img.Bounds().Dx() }
func (t *PixmapTarget) Height() int { return t.img.Bounds().Dy() }

func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

func (t *PixmapTarget) TextureView() TextureView { return nil }
func (t *PixmapTarget) Pixels() []byte           { return t.img.Pix }
func (t *PixmapTarget) Stride() int              { return t.img.Stride }

// Image returns the underlying *image.RGBA; the feedback pass (an
// external renderer) writes PageId-encoded pixels directly into it.
func (t *PixmapTarget) Image() *image.RGBA { return t.img }

// Clear fills the target with c, used to reset the feedback attachment
// to the "no page" sentinel (0xFF,0xFF,0xFF,0xFF) before each pass.
func (t *PixmapTarget) Clear(c color.Color) {
	r, g, b, a := c.RGBA()
	rgba := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
	bounds := t.img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			t.img.SetRGBA(x, y, rgba)
		}
	}
}

func (t *PixmapTarget) SetPixel(x, y int, c color.Color) { t.img.Set(x, y, c) }
func (t *PixmapTarget) GetPixel(x, y int) color.Color    { return t.img.At(x, y) }

// TextureTarget wraps a Texture (a GPU-backed page table or indirection
// texture) as a RenderTarget for symmetry with PixmapTarget; Pixels
// returns nil since readback requires an explicit GPU copy the host
// renderer performs, not this package.
type TextureTarget struct {
	tex Texture
}

func NewTextureTarget(tex Texture) *TextureTarget { return &TextureTarget{tex: tex} }

func (t *TextureTarget) Width() int                    { return int(t.tex.Width()) }
func (t *TextureTarget) Height() int                    { return int(t.tex.Height()) }
func (t *TextureTarget) Format() gputypes.TextureFormat { return t.tex.Format() }
func (t *TextureTarget) TextureView() TextureView       { return t.tex.CreateView() }
func (t *TextureTarget) Pixels() []byte                 { return nil }
func (t *TextureTarget) Stride() int                    { return int(t.tex.Width()) * 4 }

var (
	_ RenderTarget = (*PixmapTarget)(nil)
	_ RenderTarget = (*TextureTarget)(nil)
)
