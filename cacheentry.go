// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vtex

// CachePageCoord is a pair of 8-bit indices into the physical cache grid
// (spec.md §3, 16x16 slots).
type CachePageCoord struct {
	X, Y uint8
}

// CacheEntry is one physical slot of the fixed 256-entry pool. Entries are
// never allocated or freed at runtime; cacheCoord is fixed at construction
// and never changes for the lifetime of the process (spec.md §3).
type CacheEntry struct {
	pageId    PageId
	cacheCoord CachePageCoord

	prev, next *CacheEntry
}

// PageId returns the logical page currently resident in this slot, or
// NoPage if the slot holds no page (never populated, or reset by
// purgeCache).
func (e *CacheEntry) PageId() PageId { return e.pageId }

// CacheCoord returns the slot's fixed physical coordinate.
func (e *CacheEntry) CacheCoord() CachePageCoord { return e.cacheCoord }

// inFlightMarker is the distinguished sentinel pointer used by
// CachePageTree to mean "a load for this (level,x,y) has been dispatched
// but has not completed". It deliberately aliases no pool entry, so an
// InFlight tree slot can never be mistaken for a Cached one and consumes
// no physical slot (spec.md §3, §4.4).
var inFlightMarker = &CacheEntry{}
