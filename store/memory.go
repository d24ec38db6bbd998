package store

import (
	"context"
	"sync"
	"time"
)

// TimeNowFn is used for expiration, tests may override it
var TimeNowFn = time.Now

type entry struct {
	value   []byte
	expires time.Time
}

type inMemory struct {
	mu      sync.RWMutex
	storage map[string]entry
}

func NewMemoryCache() TrackingCache {
	return &inMemory{}
}

func (m *inMemory) Get(_ context.Context, com, num, variant string) ([]byte, bool, error) {
	key := Key("", com, num, variant)

	m.mu.RLock()
	e, ok := m.storage[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expires.After(TimeNowFn()) {
		m.mu.Lock()
		delete(m.storage, key)
		m.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *inMemory) Put(_ context.Context, com, num, variant string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storage == nil {
		// create on first use
		m.storage = make(map[string]entry)
	}
	m.storage[Key("", com, num, variant)] = entry{
		value:   value,
		expires: TimeNowFn().Add(ttl),
	}
	return nil
}

func (m *inMemory) Delete(_ context.Context, com, num, variant string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storage != nil {
		delete(m.storage, Key("", com, num, variant))
	}
	return nil
}
