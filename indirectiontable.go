// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vtex

import (
	"math/bits"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vtex/gputex"
)

// IndirectionFormat selects one of the two indirection-table packings.
// Chosen at library initialization and immutable thereafter (spec.md
// §4.7, §6).
type IndirectionFormat int

const (
	// IndirectionRgba8888 packs cachePageX, cachePageY and a 16-bit
	// scale into 4 bytes per entry.
	IndirectionRgba8888 IndirectionFormat = iota
	// IndirectionRgb565 packs the same information into 2 bytes per
	// entry, at reduced scale precision.
	IndirectionRgb565
)

// PageIndirectionTable maps virtual page coordinates at every mip level
// to physical cache slots. Filtering is fixed: nearest for both
// minification (explicit mip selection) and magnification; addressing
// wraps in both axes (spec.md §4.7) — those sampler parameters are the
// renderer's concern, not this type's, since the GPU sampler itself is
// out of scope.
type PageIndirectionTable struct {
	format IndirectionFormat
	dims   []LevelDims

	rgba8888 [][]byte   // per level, 4 bytes per entry, row-major
	rgb565   [][]uint16 // per level, 1 uint16 per entry, row-major

	virtPagesWideLevel0 int
	log2VirtPagesWide   int

	textures []gputex.Texture // per level, created by the host TextureFactory
}

// NewPageIndirectionTable allocates a table sized to dims (normally a
// VirtualTexture's PageFile-reported per-level dimensions) in the given
// format, creating one texture per level on device via factory.
func NewPageIndirectionTable(format IndirectionFormat, dims []LevelDims, device gputex.DeviceHandle, factory TextureFactory) *PageIndirectionTable {
	t := &PageIndirectionTable{
		format:              format,
		dims:                append([]LevelDims(nil), dims...),
		virtPagesWideLevel0: dims[0].PagesX,
		log2VirtPagesWide:   bits.Len(uint(dims[0].PagesX)) - 1,
	}

	// The GPU-side texture format is RGBA8Unorm either way: Rgb565's 2
	// bytes/entry are packed manually into that texture's byte stream
	// by upload() below, since gputypes has no native 16-bit indirection
	// format to declare.
	gpuFormat := gputypes.TextureFormatRGBA8Unorm

	switch format {
	case IndirectionRgba8888:
		t.rgba8888 = make([][]byte, len(dims))
		for i, d := range dims {
			t.rgba8888[i] = make([]byte, d.PagesX*d.PagesY*4)
		}
	case IndirectionRgb565:
		t.rgb565 = make([][]uint16, len(dims))
		for i, d := range dims {
			t.rgb565[i] = make([]uint16, d.PagesX*d.PagesY)
		}
	}

	t.textures = make([]gputex.Texture, len(dims))
	for i, d := range dims {
		t.textures[i] = factory(device, gputex.DefaultIndirectionTableDescriptor(d.PagesX, d.PagesY, gpuFormat))
	}
	return t
}

// Format returns the table's packing.
func (t *PageIndirectionTable) Format() IndirectionFormat { return t.format }

// Texture returns the GPU texture backing one mip level.
func (t *PageIndirectionTable) Texture(level int) gputex.Texture { return t.textures[level] }

func (t *PageIndirectionTable) scaleRgba8888(level int) uint16 {
	return uint16((t.virtPagesWideLevel0 * 16) >> level)
}

func (t *PageIndirectionTable) writeEntry(level, x, y int, coord CachePageCoord) {
	d := t.dims[level]
	idx := y*d.PagesX + x
	switch t.format {
	case IndirectionRgba8888:
		scale := t.scaleRgba8888(level)
		e := t.rgba8888[level][idx*4 : idx*4+4]
		e[0] = coord.X
		e[1] = coord.Y
		e[2] = byte(scale >> 8)
		e[3] = byte(scale & 0xFF)
	case IndirectionRgb565:
		scaleField := uint16(t.log2VirtPagesWide-level) & 0x3F
		entry := (uint16(coord.X)*2)<<11&0xF800 | scaleField<<5&0x07E0 | (uint16(coord.Y)*2)&0x001F
		t.rgb565[level][idx] = entry
	}
}

func (t *PageIndirectionTable) readEntry(level, x, y int) (raw4 [4]byte, raw2 uint16) {
	d := t.dims[level]
	idx := y*d.PagesX + x
	switch t.format {
	case IndirectionRgba8888:
		e := t.rgba8888[level][idx*4 : idx*4+4]
		copy(raw4[:], e)
	case IndirectionRgb565:
		raw2 = t.rgb565[level][idx]
	}
	return
}

func (t *PageIndirectionTable) writeRaw(level, x, y int, raw4 [4]byte, raw2 uint16) {
	d := t.dims[level]
	idx := y*d.PagesX + x
	switch t.format {
	case IndirectionRgba8888:
		copy(t.rgba8888[level][idx*4:idx*4+4], raw4[:])
	case IndirectionRgb565:
		t.rgb565[level][idx] = raw2
	}
}

// clear zeroes every level, so a pass that finds no cache entry for a
// virtual page at the coarsest level does not carry over a stale
// cell from a previous frame (spec.md §3's "no stale cells" invariant).
func (t *PageIndirectionTable) clear() {
	for i := range t.dims {
		switch t.format {
		case IndirectionRgba8888:
			for j := range t.rgba8888[i] {
				t.rgba8888[i][j] = 0
			}
		case IndirectionRgb565:
			for j := range t.rgb565[i] {
				t.rgb565[i][j] = 0
			}
		}
	}
}

// upsampleLevel fills dstLevel (finer, dstLevel = srcLevel-1) by
// point-sampling srcLevel, dividing indices by 2, per spec.md §3/§4.7.
func (t *PageIndirectionTable) upsampleLevel(dstLevel, srcLevel int) {
	d := t.dims[dstLevel]
	for y := 0; y < d.PagesY; y++ {
		for x := 0; x < d.PagesX; x++ {
			raw4, raw2 := t.readEntry(srcLevel, x/2, y/2)
			t.writeRaw(dstLevel, x, y, raw4, raw2)
		}
	}
}

// updateIndirectionTexture rebuilds every level from coarsest to
// finest: writes real cache entries for level L, then upsamples into
// level L-1, which the next loop iteration may overwrite with L-1's own
// cache entries (spec.md §4.7).
func (t *PageIndirectionTable) updateIndirectionTexture(mgr *PageCacheMgr) {
	t.clear()

	numLevels := len(t.dims)
	byLevel := make([][]*CacheEntry, numLevels)
	mgr.forEachEntry(func(e *CacheEntry) {
		level := e.pageId.MipLevel()
		if level >= 0 && level < numLevels {
			byLevel[level] = append(byLevel[level], e)
		}
	})

	for level := numLevels - 1; level >= 0; level-- {
		for _, e := range byLevel[level] {
			t.writeEntry(level, e.pageId.PageX(), e.pageId.PageY(), e.cacheCoord)
		}
		if level > 0 {
			t.upsampleLevel(level-1, level)
		}
	}

	t.upload()
}

func (t *PageIndirectionTable) upload() {
	for level, d := range t.dims {
		switch t.format {
		case IndirectionRgba8888:
			t.textures[level].UploadRegion(0, 0, 0, uint32(d.PagesX), uint32(d.PagesY), t.rgba8888[level])
		case IndirectionRgb565:
			raw := make([]byte, len(t.rgb565[level])*2)
			for i, v := range t.rgb565[level] {
				raw[i*2] = byte(v)
				raw[i*2+1] = byte(v >> 8)
			}
			t.textures[level].UploadRegion(0, 0, 0, uint32(d.PagesX), uint32(d.PagesY), raw)
		}
	}
}
