// Package repomanager opens the configured token store and vends repositories
// bound to it, together with schema migrations and transactional units of work.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/subcheck/internal/server/repositories/tokens"
)

// RepositoryManager is the storage handle injected into the services.
type RepositoryManager interface {
	// RunMigrations brings the schema up to date. No-op for stores without a schema.
	RunMigrations(ctx context.Context) error
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
	// Tokens returns a repository bound to the store itself.
	Tokens() tokens.Repository
	// WithTx runs fn with a repository bound to a single unit of work.
	WithTx(ctx context.Context, fn func(ctx context.Context, repo tokens.Repository) error) error
	// Close releases the underlying connection pool.
	Close() error
}
