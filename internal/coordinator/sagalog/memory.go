package sagalog

import (
	"context"
	"sync"
)

// Memory keeps the trail in process. Used when no SAGA_LOG_PATH is set and
// in tests.
type Memory struct {
	mu      sync.Mutex
	entries map[string][]*SagaLog
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]*SagaLog)}
}

func (m *Memory) Save(ctx context.Context, entry *SagaLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *entry
	m.entries[entry.SagaID] = append(m.entries[entry.SagaID], &cp)
	return nil
}

func (m *Memory) ListBySaga(ctx context.Context, sagaID string) ([]*SagaLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	src := m.entries[sagaID]
	out := make([]*SagaLog, len(src))
	for i, e := range src {
		cp := *e
		out[i] = &cp
	}
	return out, nil
}
