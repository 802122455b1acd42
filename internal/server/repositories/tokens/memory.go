package tokens

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/subcheck/internal/common"
	"github.com/dmitrijs2005/subcheck/internal/server/models"
)

// MemoryRepository keeps tokens in a map keyed by token value. It is safe
// for concurrent use; returned records are copies.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	tokens map[string]models.Token
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tokens: make(map[string]models.Token)}
}

func (r *MemoryRepository) Create(ctx context.Context, token *models.Token) (*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[token.Token]; ok {
		return nil, common.ErrorAlreadyExists
	}

	r.nextID++
	token.ID = r.nextID

	stored := *token
	if token.Expires != nil {
		t := token.Expires.UTC()
		stored.Expires = &t
	}
	r.tokens[token.Token] = stored
	return token, nil
}

func (r *MemoryRepository) Find(ctx context.Context, value string) (*models.Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.tokens[value]
	if !ok {
		return nil, common.ErrorNotFound
	}

	token := stored
	if stored.Expires != nil {
		t := *stored.Expires
		token.Expires = &t
	}
	return &token, nil
}

func (r *MemoryRepository) Exists(ctx context.Context, value string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.tokens[value]
	return ok, nil
}

// Len returns the number of stored tokens.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tokens)
}
