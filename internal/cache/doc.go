// Package cache provides a generic, soft-limit LRU cache for low- to
// moderate-contention callers that don't need per-shard locking (see
// PageColorCache in the sibling, unrelated-by-import "cache" package at
// the module root for that).
//
// # Cache[K, V]
//
// A simple thread-safe LRU cache. When it exceeds its soft limit, the
// least recently used 25% of entries are evicted via an intrusive
// doubly-linked list.
//
//	c := cache.New[string, int](100)
//	c.Set("key", 42)
//	value, ok := c.Get("key")
//
// # Thread Safety
//
// Cache is safe for concurrent use and must not be copied after creation
// (it holds a mutex).
package cache
