package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemoryCacheHitMiss(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	// Miss
	_, ok := c.Get(ctx, "perm:u1:org1")
	if ok {
		t.Fatal("expected cache miss")
	}

	// Set + Hit
	if err := c.Set(ctx, "perm:u1:org1", []byte(`["invoice:read"]`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok := c.Get(ctx, "perm:u1:org1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(got) != `["invoice:read"]` {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	if err := c.Set(ctx, "perm:u1:all", []byte("[]"), time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get(ctx, "perm:u1:all"); ok {
		t.Fatal("expected cache miss after TTL expiry")
	}
}

func TestMemoryCacheDefaultTTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithDefaultTTL(time.Millisecond))

	// Non-positive TTL falls back to the default.
	if err := c.Set(ctx, "perm:u1:all", []byte("[]"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get(ctx, "perm:u1:all"); ok {
		t.Fatal("expected entry to expire via default TTL")
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	_ = c.Set(ctx, "perm:u1:org1", []byte("[]"), time.Minute)
	_ = c.Set(ctx, "perm:u1:all", []byte("[]"), time.Minute)
	_ = c.Set(ctx, "perm:u2:org1", []byte("[]"), time.Minute)

	if err := c.Delete(ctx, "perm:u1:org1", "perm:u1:all", "perm:missing"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, ok := c.Get(ctx, "perm:u1:org1"); ok {
		t.Fatal("perm:u1:org1 should be deleted")
	}
	if _, ok := c.Get(ctx, "perm:u1:all"); ok {
		t.Fatal("perm:u1:all should be deleted")
	}
	if _, ok := c.Get(ctx, "perm:u2:org1"); !ok {
		t.Fatal("perm:u2:org1 should still be cached")
	}
}

func TestMemoryCacheMaxSize(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithMaxSize(2))

	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("perm:u%d:all", i)
		if err := c.Set(ctx, key, []byte("[]"), time.Minute); err != nil {
			t.Fatalf("set: %v", err)
		}
	}

	if size := c.Len(); size > 2 {
		t.Fatalf("expected max 2 entries, got %d", size)
	}
}
