// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vtex

import (
	"fmt"
	"io"
)

// WriteVTFF writes a complete VTFF file (spec.md §6): the fixed header,
// one MipLevelInfo + row-major PageInfo directory per level, then every
// page's raw RGBA8 pixels concatenated at the offsets the directory
// declares. dims and pages must have the same length (one entry per mip
// level, finest first); pages[level] must have exactly
// dims[level].PagesX*dims[level].PagesY entries, each pageSize*pageSize*4
// bytes. This is the "reader/writer" component spec.md §2 names; the
// offline builder (cmd/vtffbuild) is the only caller today, but the
// function is exported so any tool that already has tiled pixel data in
// memory can produce a .vtff without reimplementing the format.
func WriteVTFF(w io.Writer, pageSize, contentSize, borderSize int, dims []LevelDims, pages [][][]byte) error {
	if len(dims) == 0 {
		return fmt.Errorf("vtex: WriteVTFF: no mip levels")
	}
	if len(dims) != len(pages) {
		return fmt.Errorf("vtex: WriteVTFF: %d level dims but %d page levels", len(dims), len(pages))
	}
	if len(dims) > maxMipMapLevels {
		return fmt.Errorf("%w: got %d", ErrMipMapCountOutOfRange, len(dims))
	}

	wantContentSize := pageSize - 2*borderSize
	if contentSize != wantContentSize {
		return fmt.Errorf("%w: pageContentSize=%d, pageSize=%d, borderSize=%d", ErrPageSizeMismatch, contentSize, pageSize, borderSize)
	}
	pageBytes := uint32(pageSize * pageSize * 4)

	levels := make([]vtffMipLevelInfo, len(dims))
	pageInfos := make([][]vtffPageInfo, len(dims))

	offset := uint64(vtffHeaderSize)
	for i, d := range dims {
		if !isPowerOfTwo(d.PagesX) || !isPowerOfTwo(d.PagesY) {
			return fmt.Errorf("%w: level %d has %dx%d pages", ErrPageCountNotPowerOfTwo, i, d.PagesX, d.PagesY)
		}
		n := d.PagesX * d.PagesY
		if len(pages[i]) != n {
			return fmt.Errorf("vtex: WriteVTFF: level %d has %d pages, want %d", i, len(pages[i]), n)
		}
		levels[i] = vtffMipLevelInfo{
			WidthInPixels:  uint32(d.PagesX * pageSize),
			HeightInPixels: uint32(d.PagesY * pageSize),
			NumPagesX:      uint16(d.PagesX),
			NumPagesY:      uint16(d.PagesY),
		}
		offset += mipLevelInfoSize
		offset += uint64(n) * pageInfoSize
	}

	for i := range dims {
		pis := make([]vtffPageInfo, len(pages[i]))
		for p, pix := range pages[i] {
			if uint32(len(pix)) != pageBytes {
				return fmt.Errorf("vtex: WriteVTFF: level %d page %d is %d bytes, want %d", i, p, len(pix), pageBytes)
			}
			pis[p] = vtffPageInfo{FileOffset: offset, SizeInBytes: pageBytes}
			offset += uint64(pageBytes)
		}
		pageInfos[i] = pis
	}

	header := vtffHeader{
		Magic:           vtffMagic,
		Version:         vtffVersion,
		PixelFormat:     pixelFormatRgbaU8,
		NumMipMapLevels: uint32(len(dims)),
		PageContentSize: uint32(contentSize),
		PageSize:        uint32(pageSize),
		BorderSize:      uint32(borderSize),
	}
	if err := writeVTFFHeader(w, header, levels, pageInfos); err != nil {
		return err
	}

	for i := range dims {
		for p, pix := range pages[i] {
			if _, err := w.Write(pix); err != nil {
				return fmt.Errorf("vtex: WriteVTFF: write level %d page %d: %w", i, p, err)
			}
		}
	}
	return nil
}
