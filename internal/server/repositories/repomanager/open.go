package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/subcheck/internal/common"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Options selects and locates the token store.
type Options struct {
	// Kind is one of the common.Storage* values. The zero value picks
	// PostgreSQL when DSN is set and SQLite otherwise.
	Kind       string
	DSN        string
	SQLitePath string
}

// ResolveKind returns the concrete storage kind for o.
func (o Options) ResolveKind() string {
	if o.Kind != common.StorageAuto {
		return o.Kind
	}
	if o.DSN != "" {
		return common.StoragePostgres
	}
	return common.StorageSQLite
}

// Open connects to the selected store and applies migrations.
func Open(ctx context.Context, o Options) (RepositoryManager, error) {
	var m RepositoryManager

	switch kind := o.ResolveKind(); kind {
	case common.StoragePostgres:
		db, err := sql.Open("pgx", o.DSN)
		if err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}
		m = NewPostgresRepositoryManager(db)
	case common.StorageSQLite:
		db, err := sql.Open("sqlite", sqliteDSN(o.SQLitePath))
		if err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}
		if o.SQLitePath == ":memory:" {
			// every connection would otherwise get its own empty database
			db.SetMaxOpenConns(1)
		}
		m = NewSQLiteRepositoryManager(db)
	case common.StorageMemory:
		m = NewMemoryRepositoryManager()
	default:
		return nil, fmt.Errorf("unsupported storage %q", kind)
	}

	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}

func sqliteDSN(path string) string {
	if path == ":memory:" {
		return path
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)"
}
