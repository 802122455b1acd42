package tokens

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/subcheck/internal/common"
	"github.com/dmitrijs2005/subcheck/internal/dbx"
	"github.com/dmitrijs2005/subcheck/internal/server/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository implements Repository for the local file store.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, token *models.Token) (*models.Token, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tokens (token, active, expires) VALUES (?, ?, ?)`,
		token.Token, token.Active, nullTime(token.Expires))
	if err != nil {
		var sqliteErr *sqlite.Error
		// extended codes keep the primary code in the low byte
		if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("failed to insert token: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read token id: %w", err)
	}
	token.ID = id
	return token, nil
}

func (r *SQLiteRepository) Find(ctx context.Context, value string) (*models.Token, error) {
	return scanToken(r.db.QueryRowContext(ctx,
		`SELECT id, token, active, expires FROM tokens WHERE token = ?`, value))
}

func (r *SQLiteRepository) Exists(ctx context.Context, value string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tokens WHERE token = ?`, value).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return n > 0, nil
}
