package client

import (
	"context"
	"strings"
	"sync"
)

// Key identifies a cached query as an ordered list of segments, for example
// {"/api/factories", "7"}. Invalidation matches whole leading segments.
type Key []string

// HasPrefix reports whether every segment of prefix equals the matching
// leading segment of k.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

func (k Key) String() string {
	return strings.Join(k, " > ")
}

// Cache stores raw response payloads by Key. Implementations must be safe
// for concurrent use.
type Cache interface {
	Get(ctx context.Context, key Key) ([]byte, bool, error)
	Set(ctx context.Context, key Key, value []byte) error
	// Invalidate drops prefix itself and every key below it.
	Invalidate(ctx context.Context, prefix Key) error
}

type memoryEntry struct {
	key   Key
	value []byte
}

// MemoryCache is the in-process Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func memoryKey(k Key) string {
	return strings.Join(k, "\x00")
}

func (m *MemoryCache) Get(_ context.Context, key Key) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[memoryKey(key)]
	if !ok {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key Key, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	k := append(Key(nil), key...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[memoryKey(k)] = memoryEntry{key: k, value: stored}
	return nil
}

func (m *MemoryCache) Invalidate(_ context.Context, prefix Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.entries {
		if e.key.HasPrefix(prefix) {
			delete(m.entries, id)
		}
	}
	return nil
}

// Len reports the number of cached entries.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
