package memory

import (
	"context"
	"sync"
	"time"
)

// MemoryTokenRepo is an in-process valid refresh-token set. It does not
// survive a restart and does not synchronize across instances; production
// deployments use the Redis-backed registry instead.
type MemoryTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

func NewMemoryTokenRepo() *MemoryTokenRepo {
	return &MemoryTokenRepo{tokens: make(map[string]time.Time)}
}

func (m *MemoryTokenRepo) Register(_ context.Context, jti string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[jti] = expiresAt
	return nil
}

func (m *MemoryTokenRepo) IsValid(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.tokens[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(exp) {
		delete(m.tokens, jti)
		return false, nil
	}
	return true, nil
}

func (m *MemoryTokenRepo) Revoke(_ context.Context, jti string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, jti)
	return nil
}
