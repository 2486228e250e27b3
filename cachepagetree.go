// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vtex

// LevelDims gives the page-grid extents of one mip level, as reported by
// the backing PageFile.
type LevelDims struct {
	PagesX, PagesY int
}

// CachePageTree is a per-VirtualTexture sparse index from (mipLevel, x, y)
// to one of three states: nil (Unavailable), inFlightMarker (InFlight), or
// a pointer to the owning CacheEntry (Cached). It is stored as a single
// contiguous slice with a per-level base offset, grounded on spec.md
// §4.3's "one contiguous allocation with per-level stride tables" — the
// same flattening technique the teacher's atlas.go uses for its shelf
// table, adapted here to a fixed-size pointer array rather than a
// growable rect list.
type CachePageTree struct {
	dims   []LevelDims
	base   []int // per-level offset into slots
	slots  []*CacheEntry
}

// NewCachePageTree builds a tree sized to hold every (level, x, y) cell
// named by dims. The tree owns no CacheEntry values; it only ever
// references entries from the pool handed to it by set().
func NewCachePageTree(dims []LevelDims) *CachePageTree {
	t := &CachePageTree{
		dims: append([]LevelDims(nil), dims...),
		base: make([]int, len(dims)),
	}
	total := 0
	for i, d := range t.dims {
		t.base[i] = total
		total += d.PagesX * d.PagesY
	}
	t.slots = make([]*CacheEntry, total)
	return t
}

// NumLevels returns the number of mip levels the tree was built with.
func (t *CachePageTree) NumLevels() int { return len(t.dims) }

// Dims returns the page-grid extents of the given level.
func (t *CachePageTree) Dims(level int) LevelDims { return t.dims[level] }

func (t *CachePageTree) index(level, x, y int) int {
	if level < 0 || level >= len(t.dims) {
		panic("vtex: CachePageTree: level out of range")
	}
	d := t.dims[level]
	if x < 0 || x >= d.PagesX || y < 0 || y >= d.PagesY {
		panic("vtex: CachePageTree: (x,y) out of range for level")
	}
	return t.base[level] + y*d.PagesX + x
}

// get returns the slot value at (level, x, y): nil, inFlightMarker, or a
// live *CacheEntry.
func (t *CachePageTree) get(level, x, y int) *CacheEntry {
	return t.slots[t.index(level, x, y)]
}

// set stores entry (nil, inFlightMarker, or a pool entry) at (level, x,
// y). (level, x, y) must be in range; out of range is a programmer error
// per spec.md §4.3.
func (t *CachePageTree) set(level, x, y int, entry *CacheEntry) {
	t.slots[t.index(level, x, y)] = entry
}

// reset zeros every slot, used by PageCacheMgr.purgeCache.
func (t *CachePageTree) reset() {
	for i := range t.slots {
		t.slots[i] = nil
	}
}
