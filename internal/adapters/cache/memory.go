// Package cache contains implementations of the secondary.Cache port:
// an in-process map, a Redis-backed store and a pass-through no-op.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/example/pledge/internal/ports/secondary"
)

type memoryEntry struct {
	value   []byte
	expires time.Time
	tags    []string
}

// Memory is a process-wide tag-invalidated cache.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
	tags    map[string]map[string]struct{} // tag -> keys
	gen     uint64                         // bumped by every Invalidate
}

// NewMemory creates an in-memory cache. A ttl of zero keeps entries until
// they are invalidated.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
		tags:    make(map[string]map[string]struct{}),
	}
}

// Fetch returns the cached value or loads and stores it.
func (m *Memory) Fetch(ctx context.Context, key string, tags []string, load func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	gen := m.gen
	m.mu.RUnlock()
	if ok && (e.expires.IsZero() || m.now().Before(e.expires)) {
		return e.value, nil
	}

	value, err := load(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// An invalidation ran while loading; the value may predate it.
	if m.gen != gen {
		return value, nil
	}
	entry := memoryEntry{value: value, tags: tags}
	if m.ttl > 0 {
		entry.expires = m.now().Add(m.ttl)
	}
	m.entries[key] = entry
	for _, tag := range tags {
		if m.tags[tag] == nil {
			m.tags[tag] = make(map[string]struct{})
		}
		m.tags[tag][key] = struct{}{}
	}
	return value, nil
}

// Invalidate drops every key stored under any of the tags.
func (m *Memory) Invalidate(_ context.Context, tags ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	for _, tag := range tags {
		for key := range m.tags[tag] {
			m.dropKey(key)
		}
		delete(m.tags, tag)
	}
	return nil
}

// dropKey removes key and its membership in other tags. Caller holds mu.
func (m *Memory) dropKey(key string) {
	e, ok := m.entries[key]
	if !ok {
		return
	}
	delete(m.entries, key)
	for _, tag := range e.tags {
		if keys := m.tags[tag]; keys != nil {
			delete(keys, key)
			if len(keys) == 0 {
				delete(m.tags, tag)
			}
		}
	}
}

// size returns the number of cached keys.
func (m *Memory) size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

var _ secondary.Cache = (*Memory)(nil)
