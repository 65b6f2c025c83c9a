package manager

import (
	"context"
	"sort"
	"sync"
)

type memRegistry struct {
	mu    sync.Mutex
	games map[uint64]struct{}
}

// NewMemoryRegistry 内存版登记表，仅供测试与单机部署
func NewMemoryRegistry() Registry {
	return &memRegistry{games: make(map[uint64]struct{})}
}

func (m *memRegistry) Add(ctx context.Context, gameID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[gameID] = struct{}{}
	return nil
}

func (m *memRegistry) Remove(ctx context.Context, gameID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, gameID)
	return nil
}

func (m *memRegistry) List(ctx context.Context) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]uint64, 0, len(m.games))
	for id := range m.games {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
