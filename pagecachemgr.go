// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vtex

// CacheGridSize is the physical cache's side length in pages: a fixed
// 16x16 grid of 256 slots (spec.md §3, §4.4).
const CacheGridSize = 16

// CachePoolSize is the fixed number of CacheEntry records in the pool.
// Entries are never allocated or freed after NewPageCacheMgr returns.
const CachePoolSize = CacheGridSize * CacheGridSize

// PageLookupResult is the outcome of PageCacheMgr.lookupPage.
type PageLookupResult int

const (
	// Unavailable means no load has been dispatched for the page; the
	// caller must fire one.
	Unavailable PageLookupResult = iota
	// InFlight means a load was already dispatched and has not completed.
	InFlight
	// Cached means the page is resident in a physical slot.
	Cached
)

func (r PageLookupResult) String() string {
	switch r {
	case Unavailable:
		return "Unavailable"
	case InFlight:
		return "InFlight"
	case Cached:
		return "Cached"
	default:
		return "PageLookupResult(?)"
	}
}

// PageCacheStats mirrors the per-frame and lifetime counters spec.md §4.4
// names: totalFrameRequests, newFrameRequests, reFrameRequests,
// hitFrameRequests, servicedRequests, droppedRequests.
type PageCacheStats struct {
	TotalFrameRequests uint64
	NewFrameRequests   uint64
	ReFrameRequests    uint64
	HitFrameRequests   uint64
	ServicedRequests   uint64
	DroppedRequests    uint64
}

// PageCacheMgr is the centerpiece cache: a fixed 256-entry pool of
// physical slots, a doubly-linked MRU-to-LRU chain over that pool, and a
// CachePageTree shared with the owning VirtualTexture (spec.md §4.4).
//
// The intrusive doubly-linked list embedded directly on pool entries,
// rather than a wrapping container/list.Element, is grounded on
// text/glyph_cache.go's glyphShard: addToFront/moveToFront/remove/
// removeTail here are the same four operations, adapted from a
// map-sharded, growable cache to this spec's single flat, fixed-size
// pool (no map: identity is the tree, not a hash lookup by PageId).
type PageCacheMgr struct {
	entries [CachePoolSize]CacheEntry
	mru, lru *CacheEntry

	tree *CachePageTree

	stats PageCacheStats
}

// NewPageCacheMgr allocates the fixed 256-entry pool with row-major
// cacheCoord assignment and links it into one initial MRU-to-LRU chain,
// sharing tree with the owning VirtualTexture.
func NewPageCacheMgr(tree *CachePageTree) *PageCacheMgr {
	m := &PageCacheMgr{tree: tree}
	m.linkPool()
	return m
}

// linkPool assigns each entry's fixed cacheCoord in row-major order and
// relinks the pool into one MRU-to-LRU chain running from the last index
// (MRU head) down to index 0 (LRU tail), so the first accommodatePage
// after construction or purgeCache takes the first row-major slot.
func (m *PageCacheMgr) linkPool() {
	for i := range m.entries {
		e := &m.entries[i]
		e.pageId = NoPage
		e.cacheCoord = CachePageCoord{X: uint8(i % CacheGridSize), Y: uint8(i / CacheGridSize)}
		e.prev = nil
		e.next = nil
	}
	for i := range m.entries {
		e := &m.entries[i]
		if i < CachePoolSize-1 {
			e.prev = &m.entries[i+1]
		}
		if i > 0 {
			e.next = &m.entries[i-1]
		}
	}
	m.mru = &m.entries[CachePoolSize-1]
	m.lru = &m.entries[0]
}

// Stats returns a snapshot of the lifetime and per-frame counters.
func (m *PageCacheMgr) Stats() PageCacheStats { return m.stats }

// ResetFrameStats zeros the per-frame counters (totalFrameRequests,
// newFrameRequests, reFrameRequests, hitFrameRequests), leaving the
// lifetime counters (servicedRequests, droppedRequests) untouched. The
// resolver calls this once at the start of each frame's analysis pass.
func (m *PageCacheMgr) ResetFrameStats() {
	m.stats.TotalFrameRequests = 0
	m.stats.NewFrameRequests = 0
	m.stats.ReFrameRequests = 0
	m.stats.HitFrameRequests = 0
}

// sanitizePageId clamps level to numLevels-1, then clamps x,y to that
// level's extents, preserving textureIndex (spec.md §4.4, §8).
func (m *PageCacheMgr) sanitizePageId(id PageId) PageId {
	numLevels := m.tree.NumLevels()
	level := id.MipLevel()
	if level > numLevels-1 {
		level = numLevels - 1
	}
	if level < 0 {
		level = 0
	}
	dims := m.tree.Dims(level)
	x, y := id.PageX(), id.PageY()
	if x >= dims.PagesX {
		x = dims.PagesX - 1
	}
	if y >= dims.PagesY {
		y = dims.PagesY - 1
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return MakePageId(x, y, level, id.TextureIndex())
}

// lookupPage reports the residency state of id, sanitizing it first
// against this cache's CachePageTree. Always increments
// totalFrameRequests. The returned PageId is the sanitized id callers
// should use for any follow-up addPageRequest/notifyDroppedRequest call.
func (m *PageCacheMgr) lookupPage(id PageId) (PageLookupResult, PageId) {
	id = m.sanitizePageId(id)
	m.stats.TotalFrameRequests++

	level, x, y := id.MipLevel(), id.PageX(), id.PageY()
	slot := m.tree.get(level, x, y)

	switch slot {
	case nil:
		m.tree.set(level, x, y, inFlightMarker)
		m.stats.NewFrameRequests++
		return Unavailable, id
	case inFlightMarker:
		m.stats.ReFrameRequests++
		return InFlight, id
	default:
		m.stats.HitFrameRequests++
		m.moveToFront(slot)
		return Cached, id
	}
}

// stillWantPage returns true only when id's tree slot still equals the
// InFlight sentinel. A completing worker calls this to confirm the
// request was not invalidated by an intervening purgeCache.
func (m *PageCacheMgr) stillWantPage(id PageId) bool {
	id = m.sanitizePageId(id)
	return m.tree.get(id.MipLevel(), id.PageX(), id.PageY()) == inFlightMarker
}

// accommodatePage allocates a physical slot for id by evicting the
// current LRU tail, publishing id into both the slot and the tree, and
// moving the slot to the MRU head. Must only be called on the main
// thread when a loaded payload is about to be uploaded (spec.md §4.4).
func (m *PageCacheMgr) accommodatePage(id PageId) CachePageCoord {
	id = m.sanitizePageId(id)

	victim := m.lru
	if victim.pageId != NoPage {
		old := victim.pageId
		m.tree.set(old.MipLevel(), old.PageX(), old.PageY(), nil)
	}

	m.moveToFront(victim)

	victim.pageId = id
	m.tree.set(id.MipLevel(), id.PageX(), id.PageY(), victim)

	m.stats.ServicedRequests++
	return victim.cacheCoord
}

// notifyDroppedRequest clears id's tree slot from InFlight back to null
// and bumps droppedRequests. Called when PageProvider.addPageRequest
// refuses a request.
func (m *PageCacheMgr) notifyDroppedRequest(id PageId) {
	id = m.sanitizePageId(id)
	level, x, y := id.MipLevel(), id.PageX(), id.PageY()
	if m.tree.get(level, x, y) == inFlightMarker {
		m.tree.set(level, x, y, nil)
	}
	m.stats.DroppedRequests++
}

// purgeCache zeros the tree, re-links the pool as one fresh MRU-to-LRU
// chain, invalidates every PageId, and resets all stats.
func (m *PageCacheMgr) purgeCache() {
	m.tree.reset()
	m.linkPool()
	m.stats = PageCacheStats{}
}

// forEachEntry calls fn for every pool entry currently holding a valid
// PageId, in no particular order. Used by PageIndirectionTable.
// updateIndirectionTexture to rebuild the indirection table from the
// cache's current contents.
func (m *PageCacheMgr) forEachEntry(fn func(*CacheEntry)) {
	for i := range m.entries {
		e := &m.entries[i]
		if e.pageId != NoPage {
			fn(e)
		}
	}
}

// moveToFront splices entry to the MRU head, preserving chain integrity
// including the case where entry was the current LRU tail (spec.md
// §4.4). Grounded on glyphShard.moveToFront/addToFront/remove.
func (m *PageCacheMgr) moveToFront(entry *CacheEntry) {
	if entry == m.mru {
		return
	}
	m.unlink(entry)
	entry.prev = nil
	entry.next = m.mru
	if m.mru != nil {
		m.mru.prev = entry
	}
	m.mru = entry
	if m.lru == nil {
		m.lru = entry
	}
}

// unlink removes entry from the chain without touching its own
// prev/next, which the caller overwrites immediately after.
func (m *PageCacheMgr) unlink(entry *CacheEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		m.mru = entry.next
	}
	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		m.lru = entry.prev
	}
}
