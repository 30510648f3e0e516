// Package cache provides backends for the Aegis permission-set cache.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/xraph/aegis"
)

// Compile-time interface check.
var _ aegis.Cache = (*Memory)(nil)

// Memory is an in-memory byte-blob cache with TTL-based expiration.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]*entry
	defaultTTL time.Duration
	maxSize    int
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryOption configures the memory cache.
type MemoryOption func(*Memory)

// WithDefaultTTL sets the TTL used when Set receives a non-positive one.
func WithDefaultTTL(ttl time.Duration) MemoryOption {
	return func(m *Memory) { m.defaultTTL = ttl }
}

// WithMaxSize sets the maximum number of cache entries.
func WithMaxSize(n int) MemoryOption {
	return func(m *Memory) { m.maxSize = n }
}

// NewMemory creates a new in-memory cache.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries:    make(map[string]*entry),
		defaultTTL: 5 * time.Minute,
		maxSize:    10000,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the cached blob for key, if present and unexpired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the given TTL.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	// Evict if at capacity.
	if len(m.entries) >= m.maxSize {
		m.evictExpired()
		if len(m.entries) >= m.maxSize {
			// Evict one arbitrary entry.
			m.evictOne()
		}
	}

	m.entries[key] = &entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes the given keys. Missing keys are ignored.
func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

// Len returns the number of live entries, expired included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// evictExpired removes all expired entries. Must hold write lock.
func (m *Memory) evictExpired() {
	now := time.Now()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}

// evictOne removes one arbitrary entry. Must hold write lock.
func (m *Memory) evictOne() {
	for k := range m.entries {
		delete(m.entries, k)
		return
	}
}
