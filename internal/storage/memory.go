package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryKV keeps items in process memory. It backs --ephemeral runs and
// tests; FailWrites and FailRemoves simulate a store that rejects writes.
type MemoryKV struct {
	mu    sync.Mutex
	items map[string]string

	FailWrites  bool
	FailRemoves bool
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string]string)}
}

func (m *MemoryKV) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryKV) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return fmt.Errorf("storage.MemoryKV.SetItem %q: quota exceeded: %w", key, ErrStorageUnavailable)
	}
	m.items[key] = value
	return nil
}

func (m *MemoryKV) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRemoves {
		return fmt.Errorf("storage.MemoryKV.RemoveItem %q: %w", key, ErrStorageUnavailable)
	}
	delete(m.items, key)
	return nil
}

// Len returns the number of stored items.
func (m *MemoryKV) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
