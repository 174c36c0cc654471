package cache

import (
	"context"
	"time"

	"mentor-booking/internal/pkg/clock"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultMaxEntries = 10000

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a bounded LRU with per-entry TTL. Expired entries are dropped lazily on read.
type Memory struct {
	entries *lru.Cache[string, entry]
	clock   clock.Clock
}

func NewMemory(maxEntries int, clk clock.Clock) (*Memory, error) {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	entries, err := lru.New[string, entry](maxEntries)
	if err != nil {
		return nil, err
	}
	return &Memory{entries: entries, clock: clk}, nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := m.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !m.clock.Now().Before(e.expiresAt) {
		m.entries.Remove(key)
		return nil, false, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	m.entries.Add(key, entry{value: stored, expiresAt: m.clock.Now().Add(ttl)})
	return nil
}

func (m *Memory) Del(_ context.Context, key string) error {
	m.entries.Remove(key)
	return nil
}

func (m *Memory) Len() int {
	return m.entries.Len()
}
