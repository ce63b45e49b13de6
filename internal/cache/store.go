package cache

import (
	"context"
	"sync"
	"time"

	"github.com/smallbiznis/wasafinance/internal/clock"
)

// Store holds encoded collection snapshots. Every key carries a generation
// counter; a write only lands when the caller saw the current generation.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Generation(ctx context.Context, key string) (uint64, error)
	SetIfGeneration(ctx context.Context, key string, generation uint64, value []byte, ttl time.Duration) (bool, error)
	Invalidate(ctx context.Context, key string) error
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

type memoryStore struct {
	clock       clock.Clock
	mu          sync.Mutex
	entries     map[string]memoryEntry
	generations map[string]uint64
}

func NewMemoryStore(clk clock.Clock) Store {
	if clk == nil {
		clk = clock.NewSystemClock()
	}
	return &memoryStore{
		clock:       clk,
		entries:     make(map[string]memoryEntry),
		generations: make(map[string]uint64),
	}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !m.clock.Now().Before(entry.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), entry.value...), true, nil
}

func (m *memoryStore) Generation(_ context.Context, key string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[key], nil
}

func (m *memoryStore) SetIfGeneration(_ context.Context, key string, generation uint64, value []byte, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generations[key] != generation {
		return false, nil
	}
	m.entries[key] = memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: m.clock.Now().Add(ttl),
	}
	return true, nil
}

func (m *memoryStore) Invalidate(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations[key]++
	delete(m.entries, key)
	return nil
}
