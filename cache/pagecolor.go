package cache

import (
	"sync"
	"sync/atomic"
)

// Default configuration constants.
const (
	// ShardCount is the number of shards PageColorCache splits its
	// entries across, kept at the teacher's sharded-cache width
	// (cache/sharded.go in the teacher) for the same contention-
	// spreading reason.
	ShardCount = 16

	// DefaultColorCacheCapacity is the per-shard entry limit
	// NewPageColorCache falls back to when capacity <= 0.
	DefaultColorCacheCapacity = 256

	shardMask = ShardCount - 1
)

// Color is a packed RGBA8 value. It shares vtex's debugColor's
// underlying [4]uint8 array type so callers convert between the two
// with a plain conversion; cache cannot import vtex (vtex imports
// cache), so the two can't be unified by name.
type Color [4]uint8

// colorEntry is one shard's cached value plus its LRU list node.
type colorEntry struct {
	value Color
	node  *lruNode[uint32]
}

// colorShard is one of PageColorCache's 16 independently-locked shards.
type colorShard struct {
	mu      sync.RWMutex
	entries map[uint32]*colorEntry
	lru     *lruList[uint32]
}

// PageColorCache memoizes one synthesized Color per 32-bit page id
// (vtex.PageId, passed through as its raw uint32 form) across 16
// mutex-per-shard buckets with intrusive LRU eviction and atomic hit/
// miss/eviction counters. Grounded on the teacher's cache/sharded.go
// shape, narrowed from a generic ShardedCache[K,V] to the single key/
// value pair DebugPageFile's color memoization actually needs: the
// shard key comes directly from id's own byte lanes (PageId already
// spreads pageX, pageY, mipLevel and textureIndex across four distinct
// bytes, spec.md §3's packing) instead of a separate Hasher[K]
// callback, and Purge resets the whole cache in one pass so a
// VirtualTexture's debug colors can be tied to the same purge lifecycle
// as its real page cache (see DebugPageFile.Purge).
type PageColorCache struct {
	shards   [ShardCount]*colorShard
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewPageColorCache creates a cache with the given per-shard capacity
// (DefaultColorCacheCapacity if capacity <= 0).
func NewPageColorCache(capacity int) *PageColorCache {
	if capacity <= 0 {
		capacity = DefaultColorCacheCapacity
	}
	c := &PageColorCache{capacity: capacity}
	for i := range c.shards {
		c.shards[i] = &colorShard{
			entries: make(map[uint32]*colorEntry),
			lru:     newLRUList[uint32](),
		}
	}
	return c
}

// shardFor XOR-folds id's four byte lanes into a shard index, instead
// of hashing through a generic Hasher[K] callback: PageId already
// spreads its fields across four distinct bytes, so the fold is a free
// shard selector with no separate hash function to carry around.
func (c *PageColorCache) shardFor(id uint32) *colorShard {
	folded := byte(id) ^ byte(id>>8) ^ byte(id>>16) ^ byte(id>>24)
	return c.shards[folded&shardMask]
}

// Get retrieves the memoized color for id, moving it to the front of
// its shard's LRU list on a hit.
func (c *PageColorCache) Get(id uint32) (Color, bool) {
	shard := c.shardFor(id)

	shard.mu.RLock()
	_, exists := shard.entries[id]
	shard.mu.RUnlock()
	if !exists {
		c.misses.Add(1)
		return Color{}, false
	}

	shard.mu.Lock()
	entry, ok := shard.entries[id]
	if !ok {
		shard.mu.Unlock()
		c.misses.Add(1)
		return Color{}, false
	}
	shard.lru.MoveToFront(entry.node)
	value := entry.value
	shard.mu.Unlock()

	c.hits.Add(1)
	return value, true
}

// Set stores value for id, evicting the shard's least recently used
// entry first if that would exceed capacity.
func (c *PageColorCache) Set(id uint32, value Color) {
	shard := c.shardFor(id)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	if existing, ok := shard.entries[id]; ok {
		existing.value = value
		shard.lru.MoveToFront(existing.node)
		return
	}

	for shard.lru.Len() >= c.capacity {
		oldest, ok := shard.lru.RemoveOldest()
		if !ok {
			break
		}
		delete(shard.entries, oldest)
		c.evictions.Add(1)
	}

	node := shard.lru.PushFront(id)
	shard.entries[id] = &colorEntry{value: value, node: node}
}

// Purge clears every shard and resets the hit/miss/eviction counters.
// DebugPageFile calls this from its own Purge, which VirtualTexture's
// purgeCache invokes on every PageFile that implements it (spec.md
// §4.8): a stale synthesized color for a page id that has since been
// reassigned to a different physical cache slot would otherwise linger
// past the purge that invalidated it.
func (c *PageColorCache) Purge() {
	for _, shard := range c.shards {
		shard.mu.Lock()
		shard.entries = make(map[uint32]*colorEntry)
		shard.lru.Clear()
		shard.mu.Unlock()
	}
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// Len returns the total number of memoized colors across all shards.
func (c *PageColorCache) Len() int {
	total := 0
	for _, shard := range c.shards {
		shard.mu.RLock()
		total += len(shard.entries)
		shard.mu.RUnlock()
	}
	return total
}

// Capacity returns the per-shard capacity.
func (c *PageColorCache) Capacity() int { return c.capacity }

// TotalCapacity returns the total capacity across all shards.
func (c *PageColorCache) TotalCapacity() int { return c.capacity * ShardCount }

// Stats returns a snapshot of the cache's lifetime counters.
func (c *PageColorCache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return Stats{
		Len:           c.Len(),
		Capacity:      c.capacity,
		TotalCapacity: c.capacity * ShardCount,
		Hits:          hits,
		Misses:        misses,
		HitRate:       hitRate,
		Evictions:     c.evictions.Load(),
	}
}
