// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vtex

import (
	"errors"
	"fmt"

	"github.com/gogpu/vtex/gputex"
)

// ErrNoPageFiles is returned by NewVirtualTexture when WithPageFiles was
// not supplied or supplied empty.
var ErrNoPageFiles = errors.New("vtex: VirtualTexture requires at least one PageFile")

// ErrPageFileDimensionMismatch is returned when the supplied PageFiles
// do not all report identical per-level dimensions (spec.md §4.8).
var ErrPageFileDimensionMismatch = errors.New("vtex: PageFiles report mismatched per-level dimensions")

// VirtualTexture is the per-texture façade: one or more PageFiles (each
// with its own PageTable), one shared or owned PageIndirectionTable, one
// PageCacheMgr, and the stable textureIndex assigned at registration
// (spec.md §4.8).
type VirtualTexture struct {
	pageFiles   []PageFile
	pageTables  []*PageTable
	indirection *PageIndirectionTable
	cache       *PageCacheMgr
	textureIndex int

	device  gputex.DeviceHandle
	overlay DebugOverlayConfig

	levelDims []LevelDims
}

// NewVirtualTexture validates opts, opens no new IO itself (PageFiles
// are opened by their own constructors), allocates one PageTable per
// PageFile, shares or creates the indirection table, and registers with
// provider and resolver under one stable textureIndex.
func NewVirtualTexture(provider *PageProvider, resolver *PageResolver, opts ...VTOption) (*VirtualTexture, error) {
	cfg := vtConfig{device: gputex.NullDeviceHandle{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(cfg.pageFiles) == 0 {
		return nil, ErrNoPageFiles
	}

	levelDims := cfg.pageFiles[0].LevelDims()
	for i, pf := range cfg.pageFiles[1:] {
		if !sameLevelDims(pf.LevelDims(), levelDims) {
			return nil, fmt.Errorf("%w: file %d", ErrPageFileDimensionMismatch, i+1)
		}
	}
	pageSize := cfg.pageFiles[0].PageSize()

	vt := &VirtualTexture{
		pageFiles: cfg.pageFiles,
		device:    cfg.device,
		overlay:   cfg.debugOverlay,
		levelDims: levelDims,
		cache:     NewPageCacheMgr(NewCachePageTree(levelDims)),
	}

	vt.pageTables = make([]*PageTable, len(cfg.pageFiles))
	for i := range cfg.pageFiles {
		tex := globalConfig.textureFactory(vt.device, gputex.DefaultPageTableDescriptor(CacheGridSize, pageSize))
		vt.pageTables[i] = NewPageTable(tex, CacheGridSize, pageSize)
	}

	if cfg.indirection != nil {
		vt.indirection = cfg.indirection
	} else {
		vt.indirection = NewPageIndirectionTable(globalConfig.indirectionFormat, levelDims, vt.device, globalConfig.textureFactory)
	}

	vt.textureIndex = provider.register(vt)
	resolver.register(vt, vt.textureIndex)

	Logger().Info("registered VirtualTexture", "textureIndex", vt.textureIndex, "pageFiles", len(vt.pageFiles))
	return vt, nil
}

func sameLevelDims(a, b []LevelDims) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TextureIndex returns the stable index assigned at registration.
func (vt *VirtualTexture) TextureIndex() int { return vt.textureIndex }

// Cache returns the owned PageCacheMgr, for diagnostics.
func (vt *VirtualTexture) Cache() *PageCacheMgr { return vt.cache }

// Indirection returns the owned or shared PageIndirectionTable.
func (vt *VirtualTexture) Indirection() *PageIndirectionTable { return vt.indirection }

// frameUpdate drains this texture's completions out of readyQueue: for
// each packet whose textureIndex matches and fileId == 0, it confirms
// the page is still wanted, accommodates a cache slot, uploads to page
// table 0, then finds and uploads any matching fileId 1..N packets at
// the same slot. If updateIndirectionFlag, the indirection texture is
// rebuilt from the cache's current contents (spec.md §4.8).
func (vt *VirtualTexture) frameUpdate(readyQueue []PageRequestDataPacket, updateIndirectionFlag bool) {
	consumed := make([]bool, len(readyQueue))

	for i, packet := range readyQueue {
		if consumed[i] || packet.PageId.TextureIndex() != vt.textureIndex || packet.FileIdWithinTexture != 0 {
			continue
		}
		consumed[i] = true

		if !vt.cache.stillWantPage(packet.PageId) {
			continue // stale completion: purged or superseded
		}
		coord := vt.cache.accommodatePage(packet.PageId)
		vt.pageTables[0].Upload(coord, packet.Payload)

		for j := i + 1; j < len(readyQueue); j++ {
			other := readyQueue[j]
			if consumed[j] || other.PageId != packet.PageId || other.FileIdWithinTexture == 0 {
				continue
			}
			if other.FileIdWithinTexture < len(vt.pageTables) {
				vt.pageTables[other.FileIdWithinTexture].Upload(coord, other.Payload)
			}
			consumed[j] = true
		}
	}

	if updateIndirectionFlag {
		vt.indirection.updateIndirectionTexture(vt.cache)
	}
}

// purger is implemented by PageFile variants that memoize synthesized
// content keyed by PageId and need to drop it when the owning
// VirtualTexture's page cache is purged, so a stale memo can't outlive
// the real cache slot it described (DebugPageFile's synthesized colors).
type purger interface {
	Purge()
}

// purgeCache purges the cache manager, purges any PageFile that
// memoizes content keyed by PageId, and, if repaintDebugGradient,
// overwrites every physical cache slot with an HSL debug gradient
// before rebuilding the indirection texture — a supplemental diagnostic
// this domain's purge operation offers beyond spec.md's bare
// PageCacheMgr.purgeCache (spec.md §4.8).
func (vt *VirtualTexture) purgeCache(repaintDebugGradient bool) {
	vt.cache.purgeCache()
	for _, pf := range vt.pageFiles {
		if p, ok := pf.(purger); ok {
			p.Purge()
		}
	}

	if repaintDebugGradient {
		pageSize := vt.pageFiles[0].PageSize()
		for i := 0; i < CachePoolSize; i++ {
			coord := CachePageCoord{X: uint8(i % CacheGridSize), Y: uint8(i / CacheGridSize)}
			hue := float64(i) / float64(CachePoolSize) * 360
			r, g, b := hslColor(hue, 0.6, 0.5)
			payload := NewPagePayload(pageSize)
			for y := 0; y < pageSize; y++ {
				for x := 0; x < pageSize; x++ {
					payload.SetPixel(x, y, r, g, b, 255)
				}
			}
			vt.pageTables[0].Upload(coord, payload)
		}
	}

	vt.indirection.updateIndirectionTexture(vt.cache)
}

// replacePageFile swaps the PageFile (and, transitively, any previously
// loaded content) at the given sub-texture index, closing the old one.
// Used when hot-reloading a texture asset; the cache is left intact, so
// previously resident pages simply age out via normal LRU replacement
// rather than all being evicted at once.
func (vt *VirtualTexture) replacePageFile(index int, newFile PageFile) error {
	if index < 0 || index >= len(vt.pageFiles) {
		return fmt.Errorf("vtex: replacePageFile: index %d out of range", index)
	}
	if !sameLevelDims(newFile.LevelDims(), vt.levelDims) {
		return fmt.Errorf("%w: replacement file", ErrPageFileDimensionMismatch)
	}
	old := vt.pageFiles[index]
	vt.pageFiles[index] = newFile
	return old.Close()
}

// Close closes every backing PageFile (spec.md §3's "opened once at VT
// construction and closed at destruction").
func (vt *VirtualTexture) Close() error {
	var firstErr error
	for _, pf := range vt.pageFiles {
		if err := pf.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
