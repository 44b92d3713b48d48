package store

import (
	"context"
	"sync"
)

// Memory keeps best times for the life of the process.
type Memory struct {
	mu    sync.Mutex
	times map[string]int
}

func NewMemory() *Memory {
	return &Memory{times: make(map[string]int)}
}

func (m *Memory) Best(_ context.Context, preset string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seconds, ok := m.times[preset]
	return seconds, ok, nil
}

func (m *Memory) Record(_ context.Context, preset string, seconds int) (bool, error) {
	if err := validate(seconds); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.times[preset]; ok && seconds >= prev {
		return false, nil
	}
	m.times[preset] = seconds
	return true, nil
}

func (m *Memory) Close() error { return nil }
