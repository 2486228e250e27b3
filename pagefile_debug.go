// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vtex

import "github.com/gogpu/vtex/cache"

// DebugPageFile performs no IO: it synthesizes a deterministic color per
// PageId from bitReversePageColor and, optionally, the (level,x,y) debug
// overlay (spec.md §4.2). Used for diagnostics and soak tests where a
// real .vtff file isn't available.
//
// Synthesized colors are memoized in a cache.PageColorCache (cache/
// pagecolor.go), not because recomputing a bit reversal is expensive,
// but to exercise the same sharded-LRU shape the teacher's cache/
// sharded.go uses for any per-key memoization, at a size that
// comfortably exceeds the distinct PageIds any soak test will touch.
type DebugPageFile struct {
	pageSize  int
	levelDims []LevelDims
	overlay   DebugOverlayConfig
	colors    *cache.PageColorCache
}

// NewDebugPageFile builds a synthetic PageFile with the given per-level
// page-grid dimensions (mirroring what a real VTFF file would report)
// and page size.
func NewDebugPageFile(levelDims []LevelDims, pageSize int, overlay DebugOverlayConfig) *DebugPageFile {
	return &DebugPageFile{
		pageSize:  pageSize,
		levelDims: append([]LevelDims(nil), levelDims...),
		overlay:   overlay,
		colors:    cache.NewPageColorCache(4096),
	}
}

func (f *DebugPageFile) LevelDims() []LevelDims { return f.levelDims }
func (f *DebugPageFile) PageSize() int          { return f.pageSize }
func (f *DebugPageFile) Close() error           { return nil }

// Purge drops every memoized color. Called by VirtualTexture.purgeCache
// on any PageFile implementing this method (spec.md §4.8): once the real
// page cache is purged, a page id may be reassigned to a different
// physical slot, and its old synthesized color should not linger.
func (f *DebugPageFile) Purge() { f.colors.Purge() }

func (f *DebugPageFile) LoadPage(id PageId, packet *PageRequestDataPacket) {
	packet.PageId = id

	col, ok := f.colors.Get(uint32(id))
	if !ok {
		r, g, b, a := bitReversePageColor(id)
		col = cache.Color{r, g, b, a}
		f.colors.Set(uint32(id), col)
	}

	n := packet.Payload.PageSize()
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			packet.Payload.SetPixel(x, y, col[0], col[1], col[2], col[3])
		}
	}

	drawOverlay(f.overlay, id, packet.Payload)
}

var _ PageFile = (*DebugPageFile)(nil)
