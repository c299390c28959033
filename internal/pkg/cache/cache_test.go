package cache

import (
	"context"
	"testing"
	"time"

	"github.com/yigit/syllabus/internal/config"
)

func TestSetAndGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	if err := c.Set(ctx, "key1", []byte("value1"), time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, ok, err := c.Get(ctx, "key1")
	if err != nil || !ok || string(val) != "value1" {
		t.Fatalf("expected value1, got %q, exists=%v, err=%v", val, ok, err)
	}
}

func TestExpiration(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	start := time.Now()
	c.now = func() time.Time { return start }
	_ = c.Set(ctx, "key1", []byte("value1"), 100*time.Millisecond)

	c.now = func() time.Time { return start.Add(150 * time.Millisecond) }
	if _, ok, _ := c.Get(ctx, "key1"); ok {
		t.Fatalf("expected expired key to return false")
	}
}

func TestExpiredEntriesAreEvicted(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	start := time.Now()
	c.now = func() time.Time { return start }
	_ = c.Set(ctx, "session:revoked:a", []byte("1"), time.Second)
	_ = c.Set(ctx, "session:revoked:b", []byte("1"), time.Second)
	_ = c.Set(ctx, "session:revoked:c", []byte("1"), time.Hour)

	c.now = func() time.Time { return start.Add(2 * time.Second) }
	if _, ok, _ := c.Get(ctx, "session:revoked:a"); ok {
		t.Fatal("expected expired key to return false")
	}
	if _, ok := c.items["session:revoked:a"]; ok {
		t.Error("expired key was not removed on read")
	}

	c.now = func() time.Time { return start.Add(2 * sweepInterval) }
	_ = c.Set(ctx, "session:revoked:d", []byte("1"), time.Hour)
	if _, ok := c.items["session:revoked:b"]; ok {
		t.Error("expired key was not swept on write")
	}
	if len(c.items) != 2 {
		t.Errorf("items = %d, want the two live keys", len(c.items))
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	_ = c.Set(ctx, "key1", []byte("value1"), time.Second)
	c.Delete("key1")
	if _, ok, _ := c.Get(ctx, "key1"); ok {
		t.Fatalf("expected deleted key to return false")
	}
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	_ = c.Set(ctx, "owner:1:versions", []byte("a"), time.Second)
	_ = c.Set(ctx, "owner:1:other", []byte("b"), time.Second)
	_ = c.Set(ctx, "owner:12:versions", []byte("c"), time.Second)
	_ = c.Invalidate(ctx, "owner:1:")

	_, ok1, _ := c.Get(ctx, "owner:1:versions")
	_, ok2, _ := c.Get(ctx, "owner:1:other")
	_, ok3, _ := c.Get(ctx, "owner:12:versions")
	if ok1 || ok2 {
		t.Fatalf("expected owner:1 keys to be invalidated")
	}
	if !ok3 {
		t.Fatalf("expected owner:12 key to still exist")
	}
}

func TestNopNeverHits(t *testing.T) {
	ctx := context.Background()
	var s Store = Nop{}
	_ = s.Set(ctx, "k", []byte("v"), time.Minute)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("Nop store returned a value")
	}
}

func TestNewSelectsDriver(t *testing.T) {
	if s, err := New(config.CacheConfig{Driver: "memory"}); err != nil {
		t.Fatalf("New(memory): %v", err)
	} else if _, ok := s.(*Memory); !ok {
		t.Errorf("New(memory) = %T", s)
	}
	if s, err := New(config.CacheConfig{Driver: "none"}); err != nil {
		t.Fatalf("New(none): %v", err)
	} else if _, ok := s.(Nop); !ok {
		t.Errorf("New(none) = %T", s)
	}
	if _, err := New(config.CacheConfig{Driver: "memcached"}); err == nil {
		t.Error("New accepted an unknown driver")
	}
	if _, err := New(config.CacheConfig{Driver: "redis", RedisURL: "not a url"}); err == nil {
		t.Error("New accepted an invalid redis url")
	}
}
