package storage_memory

import (
	"sync"
	"time"
)

type kvEntry struct {
	value     string
	count     int64
	expiresAt time.Time
}

// KV is the redis driver's in-memory twin, used in -memory mode and tests.
type KV struct {
	mu      sync.Mutex
	entries map[string]*kvEntry
	now     func() time.Time
}

func NewKV() *KV {
	return &KV{
		entries: make(map[string]*kvEntry),
		now:     time.Now,
	}
}

func (kv *KV) Set(key string, value string, ttl time.Duration) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	e := &kvEntry{value: value}
	if ttl > 0 {
		e.expiresAt = kv.now().Add(ttl)
	}
	kv.entries[key] = e
	return nil
}

func (kv *KV) Get(key string) (string, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	e := kv.live(key)
	if e == nil {
		return "", nil
	}
	return e.value, nil
}

func (kv *KV) Delete(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.entries, key)
	return nil
}

func (kv *KV) IncrWithin(key string, window time.Duration) (int64, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	e := kv.live(key)
	if e == nil {
		e = &kvEntry{expiresAt: kv.now().Add(window)}
		kv.entries[key] = e
	}
	e.count++
	return e.count, nil
}

// live drops an expired entry and returns nil for it. Callers hold kv.mu.
func (kv *KV) live(key string) *kvEntry {
	e, ok := kv.entries[key]
	if !ok {
		return nil
	}
	if !e.expiresAt.IsZero() && kv.now().After(e.expiresAt) {
		delete(kv.entries, key)
		return nil
	}
	return e
}
