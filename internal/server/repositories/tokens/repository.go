// Package tokens declares the storage contract for subscription tokens and
// its PostgreSQL, SQLite and in-memory implementations.
package tokens

import (
	"context"

	"github.com/dmitrijs2005/subcheck/internal/server/models"
)

// Repository stores subscription tokens. Records are only created and read.
type Repository interface {
	// Create inserts token and fills in its ID. A duplicate token value
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, token *models.Token) (*models.Token, error)

	// Find returns the record whose token equals value exactly, or
	// common.ErrorNotFound.
	Find(ctx context.Context, value string) (*models.Token, error)

	// Exists reports whether a record with the given token value is stored.
	Exists(ctx context.Context, value string) (bool, error)
}
