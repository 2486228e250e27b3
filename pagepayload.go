// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vtex

// DefaultPageSize is the side length, in pixels, of one page including its
// border. 128x128 RGBA8 pixels is the spec's default tile size.
const DefaultPageSize = 128

// DefaultBorderSize is the width, in pixels, of the border surrounding the
// page content on each side.
const DefaultBorderSize = 4

// DefaultPageContentSize is the inner content region: pageSize - 2*border.
const DefaultPageContentSize = DefaultPageSize - 2*DefaultBorderSize

// PagePayload is a raw RGBA8 page: exactly pageSize*pageSize pixels, 4
// bytes each, row-major. It is the unit of data that moves from a
// PageFile through a PageProvider worker to the ready queue and finally
// onto the GPU.
type PagePayload struct {
	pageSize int
	data     []uint8
}

// NewPagePayload allocates a zero-filled payload for the given page size.
func NewPagePayload(pageSize int) *PagePayload {
	return &PagePayload{
		pageSize: pageSize,
		data:     make([]uint8, pageSize*pageSize*4),
	}
}

// PageSize returns the page side length in pixels.
func (p *PagePayload) PageSize() int { return p.pageSize }

// Data returns the raw RGBA8 bytes, row-major, 4 bytes per pixel.
func (p *PagePayload) Data() []uint8 { return p.data }

// Zero clears the payload to all-zero bytes, used on the soft-fail path
// when a page load fails.
func (p *PagePayload) Zero() {
	for i := range p.data {
		p.data[i] = 0
	}
}

// SetPixel writes one RGBA8 pixel. Out-of-range coordinates are ignored.
func (p *PagePayload) SetPixel(x, y int, r, g, b, a uint8) {
	if x < 0 || x >= p.pageSize || y < 0 || y >= p.pageSize {
		return
	}
	i := (y*p.pageSize + x) * 4
	p.data[i+0] = r
	p.data[i+1] = g
	p.data[i+2] = b
	p.data[i+3] = a
}

// GetPixel reads one RGBA8 pixel. Out-of-range coordinates return zero.
func (p *PagePayload) GetPixel(x, y int) (r, g, b, a uint8) {
	if x < 0 || x >= p.pageSize || y < 0 || y >= p.pageSize {
		return 0, 0, 0, 0
	}
	i := (y*p.pageSize + x) * 4
	return p.data[i+0], p.data[i+1], p.data[i+2], p.data[i+3]
}

// DrawBorder draws a 1-pixel rectangular border around the page content
// area, used by the optional debug overlay (spec.md §4.2).
func (p *PagePayload) DrawBorder(border int, r, g, b, a uint8) {
	n := p.pageSize
	if border < 0 || border >= n/2 {
		return
	}
	top, bottom := border, n-1-border
	left, right := border, n-1-border
	for x := left; x <= right; x++ {
		p.SetPixel(x, top, r, g, b, a)
		p.SetPixel(x, bottom, r, g, b, a)
	}
	for y := top; y <= bottom; y++ {
		p.SetPixel(left, y, r, g, b, a)
		p.SetPixel(right, y, r, g, b, a)
	}
}

// Downsample2x2 writes a box-filter-downsampled copy of p into dst, which
// must be exactly half p's side length. Each output pixel averages a 2x2
// neighborhood of the input, rounding with +2 before the right-shift by 2
// (spec.md §4.9), matching the teacher's integer-averaging conventions
// elsewhere in the pack's GPU texture code.
func (p *PagePayload) Downsample2x2(dst *PagePayload) {
	half := p.pageSize / 2
	if dst.pageSize != half {
		return
	}
	for y := 0; y < half; y++ {
		for x := 0; x < half; x++ {
			sx, sy := x*2, y*2
			r0, g0, b0, a0 := p.GetPixel(sx, sy)
			r1, g1, b1, a1 := p.GetPixel(sx+1, sy)
			r2, g2, b2, a2 := p.GetPixel(sx, sy+1)
			r3, g3, b3, a3 := p.GetPixel(sx+1, sy+1)
			dst.SetPixel(x, y,
				avg4(r0, r1, r2, r3),
				avg4(g0, g1, g2, g3),
				avg4(b0, b1, b2, b3),
				avg4(a0, a1, a2, a3),
			)
		}
	}
}

func avg4(a, b, c, d uint8) uint8 {
	return uint8((uint16(a) + uint16(b) + uint16(c) + uint16(d) + 2) >> 2)
}
