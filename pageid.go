// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vtex

// PageId packs (pageX, pageY, mipLevel, textureIndex) into a 32-bit word,
// one byte per field, low-to-high byte order. It is the unit of identity
// the whole streaming pipeline threads through: feedback pixels, cache
// lookups, provider requests, and completion packets all carry a PageId.
type PageId uint32

// NoPage is the sentinel PageId meaning "no page" / background. All four
// byte fields are 0xFF.
const NoPage PageId = 0xFFFFFFFF

// MakePageId packs the four fields into a PageId. Each input is masked to
// its low 8 bits, so out-of-range values are clamped by truncation rather
// than rejected.
func MakePageId(pageX, pageY, mipLevel, textureIndex int) PageId {
	return PageId(uint32(pageX&0xFF) |
		uint32(pageY&0xFF)<<8 |
		uint32(mipLevel&0xFF)<<16 |
		uint32(textureIndex&0xFF)<<24)
}

// PageX extracts the pageX byte.
func (id PageId) PageX() int { return int(uint32(id) & 0xFF) }

// PageY extracts the pageY byte.
func (id PageId) PageY() int { return int(uint32(id) >> 8 & 0xFF) }

// MipLevel extracts the mipLevel byte.
func (id PageId) MipLevel() int { return int(uint32(id) >> 16 & 0xFF) }

// TextureIndex extracts the textureIndex byte.
func (id PageId) TextureIndex() int { return int(uint32(id) >> 24 & 0xFF) }

// IsNone reports whether id is the sentinel "no page" value.
func (id PageId) IsNone() bool { return id == NoPage }

// WithTextureIndex returns a copy of id with its textureIndex field
// replaced. Used by PageResolver when it must route a feedback-pixel id
// (whose textureIndex names a registered VirtualTexture) without
// disturbing the other fields.
func (id PageId) WithTextureIndex(textureIndex int) PageId {
	return MakePageId(id.PageX(), id.PageY(), id.MipLevel(), textureIndex)
}
