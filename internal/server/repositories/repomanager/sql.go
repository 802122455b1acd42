package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/subcheck/internal/dbx"
	"github.com/dmitrijs2005/subcheck/internal/server/migrations"
	"github.com/dmitrijs2005/subcheck/internal/server/repositories/tokens"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager serves both SQL dialects; only the goose dialect, the
// migrations directory and the repository constructor differ.
type SQLRepositoryManager struct {
	db        *sql.DB
	dialect   string
	dir       string
	newTokens func(db dbx.DBTX) tokens.Repository
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(db *sql.DB) *SQLRepositoryManager {
	return &SQLRepositoryManager{
		db:      db,
		dialect: "pgx",
		dir:     migrations.PostgresDir,
		newTokens: func(db dbx.DBTX) tokens.Repository {
			return tokens.NewPostgresRepository(db)
		},
	}
}

// NewSQLiteRepositoryManager constructs a RepositoryManager for the local file store.
func NewSQLiteRepositoryManager(db *sql.DB) *SQLRepositoryManager {
	return &SQLRepositoryManager{
		db:      db,
		dialect: "sqlite3",
		dir:     migrations.SQLiteDir,
		newTokens: func(db dbx.DBTX) tokens.Repository {
			return tokens.NewSQLiteRepository(db)
		},
	}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations of the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, m.dir)
}

func (m *SQLRepositoryManager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *SQLRepositoryManager) Tokens() tokens.Repository {
	return m.newTokens(m.db)
}

func (m *SQLRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repo tokens.Repository) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, m.newTokens(tx))
	})
}

func (m *SQLRepositoryManager) Close() error {
	return m.db.Close()
}
