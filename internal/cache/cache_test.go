package cache

import "testing"

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](10)
	if _, ok := c.Get("a"); ok {
		t.Fatal("Get on empty cache returned ok=true")
	}
	c.Set("a", 1)
	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Fatalf("Get(%q) = (%d, %v), want (1, true)", "a", v, ok)
	}
}

func TestCacheGetOrCreateCallsOnce(t *testing.T) {
	c := New[string, int](10)
	calls := 0
	create := func() int {
		calls++
		return 42
	}
	for i := 0; i < 3; i++ {
		if v := c.GetOrCreate("k", create); v != 42 {
			t.Errorf("GetOrCreate = %d, want 42", v)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int, int](4)
	for i := 0; i < 4; i++ {
		c.Set(i, i)
	}
	// Touch 0 so it is no longer the least recently used.
	c.Get(0)
	c.Set(4, 4) // triggers eviction back to 75% of softLimit = 3.

	if _, ok := c.Get(0); !ok {
		t.Error("most recently touched entry was evicted")
	}
	if _, ok := c.Get(1); ok {
		t.Error("least recently used entry 1 survived eviction")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New[string, int](10)
	c.Set("a", 1)
	if !c.Delete("a") {
		t.Error("Delete(a) = false, want true")
	}
	if c.Delete("a") {
		t.Error("second Delete(a) = true, want false")
	}

	c.Set("b", 2)
	c.Set("c", 3)
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}
