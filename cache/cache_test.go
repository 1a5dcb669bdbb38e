package cache

import (
	"fmt"
	"sync"
	"testing"
)

// oneShard forces every key into a single shard so eviction order is
// observable.
func oneShard(string) uint64 { return 0 }

func TestGetSet(t *testing.T) {
	c := NewSharded[string, int](8, StringHasher)

	if _, ok := c.Get("a"); ok {
		t.Fatal("Get on empty cache reported a hit")
	}
	c.Set("a", 1)
	c.Set("b", 2)

	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Fatalf("Get(a) = %d, %v, want 1, true", v, ok)
	}
	if got := c.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
}

func TestSetUpdatesExisting(t *testing.T) {
	c := NewSharded[string, int](8, StringHasher)
	c.Set("a", 1)
	c.Set("a", 2)

	if got := c.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
	if v, _ := c.Get("a"); v != 2 {
		t.Fatalf("Get(a) = %d, want 2", v)
	}
}

func TestEvictionOrder(t *testing.T) {
	c := NewSharded[string, int](2, oneShard)
	c.Set("a", 1)
	c.Set("b", 2)

	// Touching a makes b the eviction candidate.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("Get(a) missed")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b survived eviction")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a was evicted despite being recently used")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("c missing after insert")
	}
	if st := c.Stats(); st.Evictions != 1 {
		t.Fatalf("Evictions = %d, want 1", st.Evictions)
	}
}

func TestGetOrCreateComputesOnce(t *testing.T) {
	c := NewSharded[string, int](8, StringHasher)

	calls := 0
	create := func() int {
		calls++
		return 42
	}
	if v := c.GetOrCreate("k", create); v != 42 {
		t.Fatalf("GetOrCreate = %d, want 42", v)
	}
	if v := c.GetOrCreate("k", create); v != 42 {
		t.Fatalf("GetOrCreate = %d, want 42", v)
	}
	if calls != 1 {
		t.Fatalf("create ran %d times, want 1", calls)
	}
}

func TestDelete(t *testing.T) {
	c := NewSharded[string, int](8, StringHasher)
	c.Set("a", 1)

	if !c.Delete("a") {
		t.Fatal("Delete(a) = false, want true")
	}
	if c.Delete("a") {
		t.Fatal("second Delete(a) = true, want false")
	}
	if got := c.Len(); got != 0 {
		t.Fatalf("Len() = %d, want 0", got)
	}
}

func TestClear(t *testing.T) {
	c := NewSharded[string, int](8, StringHasher)
	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	c.Clear()

	if got := c.Len(); got != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", got)
	}
	if _, ok := c.Get("k3"); ok {
		t.Fatal("entry survived Clear")
	}
}

func TestStats(t *testing.T) {
	c := NewSharded[string, int](8, StringHasher)
	c.Set("a", 1)

	c.Get("a")
	c.Get("a")
	c.Get("missing")

	st := c.Stats()
	if st.Hits != 2 {
		t.Fatalf("Hits = %d, want 2", st.Hits)
	}
	if st.Misses != 1 {
		t.Fatalf("Misses = %d, want 1", st.Misses)
	}
	if st.Len != 1 {
		t.Fatalf("Len = %d, want 1", st.Len)
	}
}

func TestNonPositiveCapacity(t *testing.T) {
	c := NewSharded[uint64, string](0, Uint64Hasher)
	c.Set(7, "x")
	if v, ok := c.Get(7); !ok || v != "x" {
		t.Fatalf("Get(7) = %q, %v, want x, true", v, ok)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := NewSharded[string, int](64, StringHasher)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%32)
				c.Set(key, g*1000+i)
				c.Get(key)
				c.GetOrCreate(key, func() int { return i })
			}
		}(g)
	}
	wg.Wait()

	if got := c.Len(); got != 32 {
		t.Fatalf("Len() = %d, want 32", got)
	}
}
