package memorycache

import (
	"context"
	"testing"
	"time"
)

func newTestCache(maxEntries int, ttl time.Duration) *Cache {
	return New(&Config{
		MaxEntries:    maxEntries,
		TTL:           ttl,
		EnableMetrics: true,
	})
}

func TestCache_SetGet(t *testing.T) {
	c := newTestCache(10, time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, "elfos", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, ok := c.Get(ctx, "elfos")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c := newTestCache(10, time.Minute)

	if _, ok := c.Get(context.Background(), "orcs"); ok {
		t.Error("expected cache miss")
	}
}

func TestCache_SetOverwrites(t *testing.T) {
	c := newTestCache(10, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "anoes", 6)
	c.Set(ctx, "anoes", 7)

	count, ok := c.Get(ctx, "anoes")
	if !ok || count != 7 {
		t.Errorf("Get = (%d, %v), want (7, true)", count, ok)
	}
	if got := c.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	c := newTestCache(10, 10*time.Millisecond)
	ctx := context.Background()

	c.Set(ctx, "homens", 9)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get(ctx, "homens"); ok {
		t.Error("expected expired entry to miss")
	}
	if got := c.Len(); got != 0 {
		t.Errorf("Len() = %d after expiry read, want 0", got)
	}
}

func TestCache_Delete(t *testing.T) {
	c := newTestCache(10, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "elfos", 3)
	if err := c.Delete(ctx, "elfos"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := c.Get(ctx, "elfos"); ok {
		t.Error("expected miss after delete")
	}
}

func TestCache_Clear(t *testing.T) {
	c := newTestCache(10, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "elfos", 3)
	c.Set(ctx, "anoes", 7)

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Len(); got != 0 {
		t.Errorf("Len() = %d after clear, want 0", got)
	}
}

func TestCache_LRUEviction(t *testing.T) {
	c := newTestCache(2, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "elfos", 3)
	c.Set(ctx, "anoes", 7)

	// Touch elfos so anoes becomes least recently used.
	c.Get(ctx, "elfos")

	c.Set(ctx, "homens", 9)

	if _, ok := c.Get(ctx, "anoes"); ok {
		t.Error("expected least recently used key to be evicted")
	}
	if _, ok := c.Get(ctx, "elfos"); !ok {
		t.Error("expected recently used key to survive eviction")
	}
	if _, ok := c.Get(ctx, "homens"); !ok {
		t.Error("expected newest key to be present")
	}
}

func TestCache_Metrics(t *testing.T) {
	c := newTestCache(10, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "elfos", 3)
	c.Get(ctx, "elfos")
	c.Get(ctx, "orcs")

	m := c.Metrics()
	if m.Hits != 1 {
		t.Errorf("Hits = %d, want 1", m.Hits)
	}
	if m.Misses != 1 {
		t.Errorf("Misses = %d, want 1", m.Misses)
	}
	if m.KeysAdded != 1 {
		t.Errorf("KeysAdded = %d, want 1", m.KeysAdded)
	}
	if got := m.HitRate(); got != 0.5 {
		t.Errorf("HitRate() = %v, want 0.5", got)
	}
}
