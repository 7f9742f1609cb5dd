package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ledgerCollectionsDDL is valid for both PostgreSQL and SQLite. The payload
// column is JSONB on PostgreSQL.
var ledgerCollectionsDDL = map[string]string{
	"postgres": `CREATE TABLE IF NOT EXISTS ledger_collections (
    key        TEXT PRIMARY KEY,
    payload    JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	"sqlite": `CREATE TABLE IF NOT EXISTS ledger_collections (
    key        TEXT PRIMARY KEY,
    payload    TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
}

// EnsureLedgerSchema creates the ledger_collections table when missing.
func EnsureLedgerSchema(ctx context.Context, db *sqlx.DB) error {
	ddl, ok := ledgerCollectionsDDL[db.DriverName()]
	if !ok {
		return fmt.Errorf("unsupported driver %q", db.DriverName())
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create ledger_collections: %w", err)
	}
	return nil
}
