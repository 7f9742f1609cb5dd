package database

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestEnsureLedgerSchemaPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS ledger_collections")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, EnsureLedgerSchema(context.Background(), sqlx.NewDb(db, "postgres")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureLedgerSchemaUnknownDriver(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	require.Error(t, EnsureLedgerSchema(context.Background(), sqlx.NewDb(db, "mysql")))
}

func TestNewSQLiteCreatesDatabase(t *testing.T) {
	path := t.TempDir() + "/nested/ledger.db"
	db, err := NewSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, EnsureLedgerSchema(context.Background(), db))
	_, err = db.Exec(`INSERT INTO ledger_collections (key, payload) VALUES (?, ?)`, "diplomaBooks", "[]")
	require.NoError(t, err)
}
