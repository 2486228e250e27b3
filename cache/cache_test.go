package cache

import (
	"sync"
	"testing"
)

// PageColorCache tests

func TestNewPageColorCache(t *testing.T) {
	c := NewPageColorCache(100)
	if c == nil {
		t.Fatal("NewPageColorCache returned nil")
	}
	if c.Capacity() != 100 {
		t.Errorf("expected capacity 100, got %d", c.Capacity())
	}
	if c.TotalCapacity() != 100*ShardCount {
		t.Errorf("expected total capacity %d, got %d", 100*ShardCount, c.TotalCapacity())
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}

func TestNewPageColorCacheDefaultsCapacity(t *testing.T) {
	c := NewPageColorCache(0)
	if c.Capacity() != DefaultColorCacheCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultColorCacheCapacity, c.Capacity())
	}
}

func TestPageColorCacheGetSet(t *testing.T) {
	c := NewPageColorCache(10)

	c.Set(1, Color{1, 2, 3, 4})

	val, ok := c.Get(1)
	if !ok {
		t.Error("expected key 1 to exist")
	}
	if val != (Color{1, 2, 3, 4}) {
		t.Errorf("expected {1,2,3,4}, got %v", val)
	}

	_, ok = c.Get(999)
	if ok {
		t.Error("expected nonexistent key to not exist")
	}
}

func TestPageColorCacheSetOverwrites(t *testing.T) {
	c := NewPageColorCache(10)

	c.Set(1, Color{1, 2, 3, 4})
	c.Set(1, Color{5, 6, 7, 8})

	val, ok := c.Get(1)
	if !ok || val != (Color{5, 6, 7, 8}) {
		t.Errorf("expected overwritten value {5,6,7,8}, got %v (ok=%v)", val, ok)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry after overwrite, got %d", c.Len())
	}
}

func TestPageColorCacheEviction(t *testing.T) {
	c := NewPageColorCache(4)

	// Fill beyond per-shard capacity; with 16 shards and capacity 4,
	// this is enough entries that at least one shard overflows.
	for i := uint32(0); i < 200; i++ {
		c.Set(i, Color{byte(i)})
	}

	stats := c.Stats()
	if stats.Evictions == 0 {
		t.Error("expected some evictions after overfilling shards")
	}
}

func TestPageColorCacheStats(t *testing.T) {
	c := NewPageColorCache(10)

	c.Set(1, Color{1})
	c.Set(2, Color{2})

	c.Get(1) // hit
	c.Get(1) // hit
	c.Get(3) // miss

	stats := c.Stats()
	if stats.Len != 2 {
		t.Errorf("expected Len=2, got %d", stats.Len)
	}
	if stats.Hits != 2 {
		t.Errorf("expected Hits=2, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("expected Misses=1, got %d", stats.Misses)
	}
}

func TestPageColorCachePurgeClearsEntriesAndStats(t *testing.T) {
	c := NewPageColorCache(10)

	c.Set(1, Color{1})
	c.Get(1)
	c.Get(999)

	c.Purge()

	if c.Len() != 0 {
		t.Errorf("expected 0 entries after purge, got %d", c.Len())
	}
	stats := c.Stats()
	if stats.Hits != 0 || stats.Misses != 0 || stats.Evictions != 0 {
		t.Errorf("expected all counters 0 after purge, got hits=%d misses=%d evictions=%d",
			stats.Hits, stats.Misses, stats.Evictions)
	}
	if _, ok := c.Get(1); ok {
		t.Error("expected key 1 to be gone after purge")
	}
}

func TestPageColorCacheShardForXORFolding(t *testing.T) {
	c := NewPageColorCache(10)
	// 0x01020304 folds to 0x01^0x02^0x03^0x04 = 0x04.
	id := uint32(0x01020304)
	want := c.shards[0x04&shardMask]
	if got := c.shardFor(id); got != want {
		t.Error("shardFor did not XOR-fold id's byte lanes as expected")
	}
}

func TestPageColorCacheConcurrent(t *testing.T) {
	c := NewPageColorCache(100)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(uint32(n*100+j), Color{byte(n)})
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Get(uint32(n*100 + j))
			}
		}(i)
	}
	wg.Wait()

	if c.Len() == 0 {
		t.Error("expected non-empty cache after concurrent operations")
	}
}

// LRU list tests

func TestLRUList(t *testing.T) {
	l := newLRUList[string]()

	if l.Len() != 0 {
		t.Errorf("expected empty list, got %d", l.Len())
	}

	n1 := l.PushFront("a")
	n2 := l.PushFront("b")
	n3 := l.PushFront("c")

	if l.Len() != 3 {
		t.Errorf("expected 3 elements, got %d", l.Len())
	}

	oldest, ok := l.Oldest()
	if !ok || oldest != "a" {
		t.Errorf("expected oldest to be 'a', got %v", oldest)
	}

	l.MoveToFront(n1)
	oldest, _ = l.Oldest()
	if oldest != "b" {
		t.Errorf("expected oldest to be 'b' after moving 'a', got %v", oldest)
	}

	l.Remove(n2)
	if l.Len() != 2 {
		t.Errorf("expected 2 elements after remove, got %d", l.Len())
	}

	removed, ok := l.RemoveOldest()
	if !ok || removed != "c" {
		t.Errorf("expected to remove 'c', got %v", removed)
	}

	if l.Len() != 1 {
		t.Errorf("expected 1 element, got %d", l.Len())
	}

	l.Clear()
	if l.Len() != 0 {
		t.Errorf("expected empty list after clear, got %d", l.Len())
	}

	_ = n3
}

func TestLRUListEmptyOperations(t *testing.T) {
	l := newLRUList[int]()

	_, ok := l.RemoveOldest()
	if ok {
		t.Error("expected RemoveOldest to return false on empty list")
	}

	_, ok = l.Oldest()
	if ok {
		t.Error("expected Oldest to return false on empty list")
	}

	l.Remove(nil)       // Should not panic
	l.MoveToFront(nil)  // Should not panic
}
