package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps values for the lifetime of the process
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	prefix string
}

func NewMemoryStore(prefix string) *MemoryStore {
	return &MemoryStore{values: make(map[string]string), prefix: prefix}
}

func (ms *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	value, ok := ms.values[ms.prefix+key]
	return value, ok, nil
}

func (ms *MemoryStore) Set(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.values[ms.prefix+key] = value
	return nil
}

// Keys lists the stored keys, prefix included
func (ms *MemoryStore) Keys() []string {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	keys := make([]string, 0, len(ms.values))
	for key := range ms.values {
		keys = append(keys, key)
	}
	return keys
}
