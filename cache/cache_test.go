package cache

import (
	"strconv"
	"sync"
	"testing"
)

func TestNewSharded(t *testing.T) {
	c := NewSharded[string, int](100, StringHasher)
	if c == nil {
		t.Fatal("NewSharded returned nil")
	}
	if c.Capacity() != 100 {
		t.Errorf("expected capacity 100, got %d", c.Capacity())
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}

func TestNewShardedDefaultCapacity(t *testing.T) {
	c := NewSharded[string, int](0, StringHasher)
	if c.Capacity() != DefaultCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultCapacity, c.Capacity())
	}
}

func TestCacheGetSet(t *testing.T) {
	c := NewSharded[string, int](10, StringHasher)

	// Set a value
	c.Set("key1", 42)

	// Get existing key
	val, ok := c.Get("key1")
	if !ok {
		t.Error("expected key1 to exist")
	}
	if val != 42 {
		t.Errorf("expected 42, got %d", val)
	}

	// Get non-existing key
	_, ok = c.Get("nonexistent")
	if ok {
		t.Error("expected nonexistent key to not exist")
	}
}

func TestCacheUpdate(t *testing.T) {
	c := NewSharded[string, int](10, StringHasher)

	c.Set("key", 1)
	c.Set("key", 2)

	val, ok := c.Get("key")
	if !ok || val != 2 {
		t.Errorf("expected updated value 2, got %d (ok=%v)", val, ok)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry after update, got %d", c.Len())
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := NewSharded[string, int](10, StringHasher)
	createCalled := 0

	// First call should create
	val := c.GetOrCreate("key1", func() int {
		createCalled++
		return 100
	})
	if val != 100 {
		t.Errorf("expected 100, got %d", val)
	}
	if createCalled != 1 {
		t.Errorf("expected create called once, got %d", createCalled)
	}

	// Second call should return cached value without creating
	val = c.GetOrCreate("key1", func() int {
		createCalled++
		return 200
	})
	if val != 100 {
		t.Errorf("expected cached 100, got %d", val)
	}
	if createCalled != 1 {
		t.Errorf("expected create still called once, got %d", createCalled)
	}
}

func TestCacheDelete(t *testing.T) {
	c := NewSharded[string, int](10, StringHasher)

	c.Set("key", 1)
	if !c.Delete("key") {
		t.Error("expected Delete to report removal")
	}
	if c.Delete("key") {
		t.Error("expected Delete of missing key to report false")
	}
	if _, ok := c.Get("key"); ok {
		t.Error("expected key to be gone after Delete")
	}
}

func TestCacheEviction(t *testing.T) {
	// Capacity 2 per shard with an identity-style hasher pinning all keys
	// to one shard makes eviction deterministic.
	c := NewSharded[uint64, int](2, func(uint64) uint64 { return 0 })

	c.Set(1, 1)
	c.Set(2, 2)
	c.Set(3, 3) // evicts key 1, the oldest

	if _, ok := c.Get(1); ok {
		t.Error("expected key 1 to be evicted")
	}
	if _, ok := c.Get(2); !ok {
		t.Error("expected key 2 to survive")
	}
	if _, ok := c.Get(3); !ok {
		t.Error("expected key 3 to survive")
	}

	stats := c.Stats()
	if stats.Evictions != 1 {
		t.Errorf("expected 1 eviction, got %d", stats.Evictions)
	}
}

func TestCacheLRUOrder(t *testing.T) {
	c := NewSharded[uint64, int](2, func(uint64) uint64 { return 0 })

	c.Set(1, 1)
	c.Set(2, 2)
	// Touch key 1 so key 2 becomes the eviction candidate.
	if _, ok := c.Get(1); !ok {
		t.Fatal("expected key 1 to exist")
	}
	c.Set(3, 3)

	if _, ok := c.Get(2); ok {
		t.Error("expected key 2 to be evicted after key 1 was touched")
	}
	if _, ok := c.Get(1); !ok {
		t.Error("expected key 1 to survive")
	}
}

func TestCacheStats(t *testing.T) {
	c := NewSharded[string, int](10, StringHasher)

	c.Set("a", 1)
	c.Get("a")       // hit
	c.Get("missing") // miss

	stats := c.Stats()
	if stats.Hits != 1 {
		t.Errorf("expected 1 hit, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("expected 1 miss, got %d", stats.Misses)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("expected hit rate 0.5, got %v", stats.HitRate)
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := NewSharded[string, int](100, StringHasher)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := "key" + strconv.Itoa(j%25)
				c.GetOrCreate(key, func() int { return worker*1000 + j })
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() == 0 {
		t.Error("expected entries after concurrent access")
	}
}

func TestLRUListMoveToFrontNil(t *testing.T) {
	l := newLRUList[string]()
	l.PushFront("a")

	l.MoveToFront(nil) // must be a no-op, not a panic

	if l.Len() != 1 {
		t.Errorf("expected 1 node after nil MoveToFront, got %d", l.Len())
	}
	key, ok := l.RemoveOldest()
	if !ok || key != "a" {
		t.Errorf("RemoveOldest() = (%q, %v), want (\"a\", true)", key, ok)
	}
}
