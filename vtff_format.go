// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vtex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// VTFF binary layout constants (spec.md §6).
const (
	vtffMagic   = 0x56544646 // ASCII "VTFF", the u32 value spec.md §6 names
	vtffVersion = 4

	pixelFormatRgbaU8 = 2

	vtffHeaderSize       = 28
	mipLevelInfoSize     = 12
	pageInfoSize         = 12
	maxMipMapLevels      = 16
)

// Sentinel errors for VTFF file-format validation (spec.md §7 class 2:
// fatal during PageFile construction). Wrapped with %w at each layer,
// grounded on the teacher's fmt.Errorf("%w: ...") style.
var (
	ErrBadMagic               = errors.New("vtex: bad VTFF magic")
	ErrUnsupportedVersion     = errors.New("vtex: unsupported VTFF version")
	ErrUnsupportedPixelFormat = errors.New("vtex: unsupported VTFF pixel format")
	ErrMipMapCountOutOfRange  = errors.New("vtex: mipmap level count out of range")
	ErrPageCountNotPowerOfTwo = errors.New("vtex: page count is not a power of two")
	ErrPageSizeMismatch       = errors.New("vtex: unexpected VTFF page size configuration")
	ErrPageInfoSizeMismatch   = errors.New("vtex: page directory entry declares the wrong byte size")
)

// vtffHeader is the fixed 28-byte header.
type vtffHeader struct {
	Magic           uint32
	Version         uint32
	PixelFormat     uint32
	NumMipMapLevels uint32
	PageContentSize uint32
	PageSize        uint32
	BorderSize      uint32
}

// vtffMipLevelInfo describes one mip level's page grid.
type vtffMipLevelInfo struct {
	WidthInPixels  uint32
	HeightInPixels uint32
	NumPagesX      uint16
	NumPagesY      uint16
}

// vtffPageInfo locates one page's pixel blob within the file.
type vtffPageInfo struct {
	FileOffset  uint64
	SizeInBytes uint32
}

func isPowerOfTwo(n int) bool { return n > 0 && n&(n-1) == 0 }

// writeVTFFHeader writes the header and, for each level, its
// MipLevelInfo followed by its row-major PageInfo directory. pageInfos
// must have one entry per level sized numPagesX*numPagesY. Used both by
// cmd/vtffbuild (writer) and by vtff_format_test.go's round-trip test.
func writeVTFFHeader(w io.Writer, h vtffHeader, levels []vtffMipLevelInfo, pageInfos [][]vtffPageInfo) error {
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("vtex: write VTFF header: %w", err)
	}
	for i, lvl := range levels {
		if err := binary.Write(w, binary.LittleEndian, lvl); err != nil {
			return fmt.Errorf("vtex: write VTFF level %d info: %w", i, err)
		}
		for _, pi := range pageInfos[i] {
			if err := binary.Write(w, binary.LittleEndian, pi); err != nil {
				return fmt.Errorf("vtex: write VTFF level %d page info: %w", i, err)
			}
		}
	}
	return nil
}

// readVTFFHeader parses and validates the header plus the full
// directory (MipLevelInfo + PageInfo per level). This is pass one of
// the VTFF two-pass directory read (spec.md §4.2): it validates magic,
// version, pixel format, level count, and page-count powers of two, but
// does not yet check declared PageInfo byte sizes against pageSize —
// that per-page size check is pass two, driven by the caller with
// pageSize known.
func readVTFFHeader(r io.Reader) (vtffHeader, []vtffMipLevelInfo, [][]vtffPageInfo, error) {
	var h vtffHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return h, nil, nil, fmt.Errorf("vtex: read VTFF header: %w", err)
	}
	if h.Magic != vtffMagic {
		return h, nil, nil, fmt.Errorf("%w: got %#x", ErrBadMagic, h.Magic)
	}
	if h.Version != vtffVersion {
		return h, nil, nil, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, h.Version, vtffVersion)
	}
	if h.PixelFormat != pixelFormatRgbaU8 {
		return h, nil, nil, fmt.Errorf("%w: got %d", ErrUnsupportedPixelFormat, h.PixelFormat)
	}
	if h.NumMipMapLevels < 1 || h.NumMipMapLevels > maxMipMapLevels {
		return h, nil, nil, fmt.Errorf("%w: got %d", ErrMipMapCountOutOfRange, h.NumMipMapLevels)
	}
	wantContentSize := h.PageSize - 2*h.BorderSize
	if h.PageContentSize != wantContentSize {
		return h, nil, nil, fmt.Errorf("%w: pageContentSize=%d, pageSize=%d, borderSize=%d", ErrPageSizeMismatch, h.PageContentSize, h.PageSize, h.BorderSize)
	}

	levels := make([]vtffMipLevelInfo, h.NumMipMapLevels)
	pageInfos := make([][]vtffPageInfo, h.NumMipMapLevels)
	for i := range levels {
		if err := binary.Read(r, binary.LittleEndian, &levels[i]); err != nil {
			return h, nil, nil, fmt.Errorf("vtex: read VTFF level %d info: %w", i, err)
		}
		nx, ny := int(levels[i].NumPagesX), int(levels[i].NumPagesY)
		if !isPowerOfTwo(nx) || !isPowerOfTwo(ny) {
			return h, nil, nil, fmt.Errorf("%w: level %d has %dx%d pages", ErrPageCountNotPowerOfTwo, i, nx, ny)
		}
		pis := make([]vtffPageInfo, nx*ny)
		for p := range pis {
			if err := binary.Read(r, binary.LittleEndian, &pis[p]); err != nil {
				return h, nil, nil, fmt.Errorf("vtex: read VTFF level %d page %d info: %w", i, p, err)
			}
		}
		pageInfos[i] = pis
	}
	return h, levels, pageInfos, nil
}

// validatePageInfoSizes is pass two of the two-pass directory read:
// every PageInfo must declare exactly pageSize^2*4 bytes for RgbaU8.
func validatePageInfoSizes(pageInfos [][]vtffPageInfo, pageSize int) error {
	want := uint32(pageSize * pageSize * 4)
	for level, pis := range pageInfos {
		for p, pi := range pis {
			if pi.SizeInBytes != want {
				return fmt.Errorf("%w: level %d page %d declares %d bytes, want %d", ErrPageInfoSizeMismatch, level, p, pi.SizeInBytes, want)
			}
		}
	}
	return nil
}
