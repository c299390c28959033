package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yigit/syllabus/internal/config"
)

// Store caches opaque values by key. Invalidate drops every key sharing a prefix.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, prefix string) error
}

// New builds the store selected by the cache configuration
func New(cfg config.CacheConfig) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemory(), nil
	case "none":
		return Nop{}, nil
	case "redis":
		return NewRedis(cfg.RedisURL)
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Driver)
	}
}

// Entry represents a cached value with expiration
type Entry struct {
	Value     []byte
	ExpiresAt time.Time
}

// sweepInterval bounds how often Set scans for expired entries
const sweepInterval = time.Minute

// Memory is a simple in-memory cache with TTL. Expired entries are dropped
// when read and by a periodic sweep on write.
type Memory struct {
	mu        sync.RWMutex
	items     map[string]*Entry
	now       func() time.Time
	nextSweep time.Time
}

// NewMemory creates a new in-memory cache
func NewMemory() *Memory {
	return &Memory{items: map[string]*Entry{}, now: time.Now}
}

// Set stores a value in the cache with a given TTL
func (c *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if !now.Before(c.nextSweep) {
		c.sweepLocked(now)
	}
	c.items[key] = &Entry{
		Value:     append([]byte(nil), value...),
		ExpiresAt: now.Add(ttl),
	}
	return nil
}

func (c *Memory) sweepLocked(now time.Time) {
	for key, entry := range c.items {
		if now.After(entry.ExpiresAt) {
			delete(c.items, key)
		}
	}
	c.nextSweep = now.Add(sweepInterval)
}

// Get retrieves a value from the cache if it hasn't expired
func (c *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, exists := c.items[key]
	c.mu.RUnlock()
	if !exists {
		return nil, false, nil
	}

	now := c.now()
	if now.After(entry.ExpiresAt) {
		c.mu.Lock()
		if current, ok := c.items[key]; ok && now.After(current.ExpiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.Value, true, nil
}

// Delete removes a key from the cache
func (c *Memory) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Invalidate removes all items matching a prefix
func (c *Memory) Invalidate(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
	return nil
}

// Nop never stores anything
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Invalidate(context.Context, string) error                 { return nil }
