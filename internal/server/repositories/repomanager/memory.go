package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/subcheck/internal/server/repositories/tokens"
)

// MemoryRepositoryManager keeps tokens in process memory. Units of work are
// serialized but not rolled back on error.
type MemoryRepositoryManager struct {
	mu     sync.Mutex
	tokens *tokens.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{tokens: tokens.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Ping(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Tokens() tokens.Repository { return m.tokens }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repo tokens.Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, m.tokens)
}

func (m *MemoryRepositoryManager) Close() error { return nil }
