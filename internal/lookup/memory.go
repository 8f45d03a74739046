package lookup

import (
	"context"
	"slices"
	"sync"
)

// Memory is an in-process Service.
type Memory struct {
	mu    sync.RWMutex
	moves map[Key][]string
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{moves: make(map[Key][]string)}
}

func (m *Memory) Lookup(_ context.Context, key Key) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	hexes, ok := m.moves[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(hexes), nil
}

func (m *Memory) Store(_ context.Context, key Key, hexes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moves[key] = slices.Clone(hexes)
	return nil
}

func (m *Memory) Close() error { return nil }
