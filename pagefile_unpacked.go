// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vtex

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// UnpackedPageFile reads one PNG per page, loose on disk, named
// "L<level>_<x>_<y>.png" under a root directory. It exercises the same
// PageFile contract as VTFFPageFile (soft-fail on any IO error) without
// a binary directory, for development workflows that haven't run
// cmd/vtffbuild yet.
type UnpackedPageFile struct {
	root      string
	pageSize  int
	levelDims []LevelDims
	overlay   DebugOverlayConfig
}

// NewUnpackedPageFile returns an UnpackedPageFile rooted at dir, serving
// pages of the given per-level dimensions and size. It performs no IO at
// construction; pages are read lazily by LoadPage.
func NewUnpackedPageFile(dir string, levelDims []LevelDims, pageSize int, overlay DebugOverlayConfig) *UnpackedPageFile {
	return &UnpackedPageFile{
		root:      dir,
		pageSize:  pageSize,
		levelDims: append([]LevelDims(nil), levelDims...),
		overlay:   overlay,
	}
}

func (f *UnpackedPageFile) LevelDims() []LevelDims { return f.levelDims }
func (f *UnpackedPageFile) PageSize() int          { return f.pageSize }
func (f *UnpackedPageFile) Close() error           { return nil }

func (f *UnpackedPageFile) pagePath(id PageId) string {
	return filepath.Join(f.root, fmt.Sprintf("L%d_%d_%d.png", id.MipLevel(), id.PageX(), id.PageY()))
}

func (f *UnpackedPageFile) LoadPage(id PageId, packet *PageRequestDataPacket) {
	packet.PageId = id

	level := id.MipLevel()
	if level < 0 || level >= len(f.levelDims) {
		packet.Payload.Zero()
		Logger().Warn("unpacked page load: level out of range", "pageId", uint32(id))
		return
	}
	d := f.levelDims[level]
	if id.PageX() >= d.PagesX || id.PageY() >= d.PagesY {
		packet.Payload.Zero()
		Logger().Warn("unpacked page load: coord out of range", "pageId", uint32(id))
		return
	}

	file, err := os.Open(f.pagePath(id))
	if err != nil {
		packet.Payload.Zero()
		Logger().Warn("unpacked page load: open failed", "pageId", uint32(id), "err", err)
		return
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		packet.Payload.Zero()
		Logger().Warn("unpacked page load: decode failed", "pageId", uint32(id), "err", err)
		return
	}

	n := packet.Payload.PageSize()
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if x >= bounds.Dx() || y >= bounds.Dy() {
				continue
			}
			var r, g, b, a uint8
			if ok {
				i := rgba.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
				r, g, b, a = rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2], rgba.Pix[i+3]
			} else {
				cr, cg, cb, ca := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				r, g, b, a = uint8(cr>>8), uint8(cg>>8), uint8(cb>>8), uint8(ca>>8)
			}
			packet.Payload.SetPixel(x, y, r, g, b, a)
		}
	}

	drawOverlay(f.overlay, id, packet.Payload)
}

var _ PageFile = (*UnpackedPageFile)(nil)
