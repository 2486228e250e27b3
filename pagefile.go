// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vtex

// PageRequestDataPacket is an in-flight or completed load: the requested
// PageId, which sub-texture file it came from within its VirtualTexture
// (0 = primary, 1..N = co-located diffuse/normal/specular siblings), and
// the loaded pixels (spec.md §3).
type PageRequestDataPacket struct {
	PageId             PageId
	FileIdWithinTexture int
	Payload            *PagePayload
}

// PageFile produces the raw RGBA8 bytes of one page given its PageId.
// Implementations must fail soft: on any error they zero-fill the
// packet's payload, log, and return rather than propagating the error,
// so the streaming pipeline stays live (spec.md §4.2, §7 class 3).
type PageFile interface {
	// LoadPage fills packet.Payload with id's pixels and sets
	// packet.PageId = id. LevelDims reports this file's per-level page
	// grid, used to size a VirtualTexture's CachePageTree.
	LoadPage(id PageId, packet *PageRequestDataPacket)
	LevelDims() []LevelDims
	PageSize() int
	// Close releases any OS resources (the VTFF variant's file handle).
	Close() error
}

// DebugOverlayConfig controls the optional (level, x, y) text label and
// colored border spec.md §4.2 allows any PageFile variant to draw onto a
// loaded page, after its pixels are produced.
type DebugOverlayConfig struct {
	Enabled     bool
	BorderSize  int
	BorderColor [4]uint8
}

// drawOverlay applies cfg to payload for the given id, in place. Shared
// by every PageFile variant so the overlay looks identical regardless of
// backing store.
func drawOverlay(cfg DebugOverlayConfig, id PageId, payload *PagePayload) {
	if !cfg.Enabled {
		return
	}
	payload.DrawBorder(cfg.BorderSize, cfg.BorderColor[0], cfg.BorderColor[1], cfg.BorderColor[2], cfg.BorderColor[3])
	drawCoordLabel(payload, cfg.BorderSize, id.PageX(), id.PageY(), id.MipLevel())
}

// ApplyDebugOverlay exposes drawOverlay to cmd/vtffbuild's --add_debug_info
// pass, so the offline builder stamps the same (level,x,y) label and
// border a runtime PageFile would draw, rather than reimplementing it.
func ApplyDebugOverlay(cfg DebugOverlayConfig, id PageId, payload *PagePayload) {
	drawOverlay(cfg, id, payload)
}
