// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vtex

import "github.com/gogpu/vtex/gputex"

// PageTable is the physical GPU surface backing one PageFile: a
// gridSize x gridSize grid of pageSize-pixel RGBA8 pages, with exactly
// two mip levels. Level 1 is always a box-filter downsample of whatever
// was last uploaded to level 0 at that slot; there is no finer
// filtering across pages because adjacent cache slots are unrelated in
// virtual-texture space (spec.md §3, §4.9).
type PageTable struct {
	pageSize int
	gridSize int
	tex      gputex.Texture
}

// NewPageTable wraps tex (created by the host application's
// TextureFactory from gputex.DefaultPageTableDescriptor) as a PageTable
// of the given geometry.
func NewPageTable(tex gputex.Texture, gridSize, pageSize int) *PageTable {
	return &PageTable{tex: tex, gridSize: gridSize, pageSize: pageSize}
}

// Texture returns the underlying GPU texture, for a renderer to bind.
func (t *PageTable) Texture() gputex.Texture { return t.tex }

// Upload writes payload verbatim to level 0 at coord's pixel origin,
// and a box-filtered half-size copy to level 1 at the corresponding
// half-resolution origin (spec.md §4.9).
func (t *PageTable) Upload(coord CachePageCoord, payload *PagePayload) {
	x0 := uint32(int(coord.X) * t.pageSize)
	y0 := uint32(int(coord.Y) * t.pageSize)
	t.tex.UploadRegion(0, x0, y0, uint32(t.pageSize), uint32(t.pageSize), payload.Data())

	half := NewPagePayload(t.pageSize / 2)
	payload.Downsample2x2(half)
	t.tex.UploadRegion(1, x0/2, y0/2, uint32(t.pageSize/2), uint32(t.pageSize/2), half.Data())
}
