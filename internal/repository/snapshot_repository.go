package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/vanbang-api/internal/models"
)

// SnapshotRepository stores each ledger collection as one JSON row of the
// ledger_collections table. It serves PostgreSQL and SQLite alike.
type SnapshotRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSnapshotRepository constructs the repository.
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

type collectionRow struct {
	Key     string `db:"key"`
	Payload []byte `db:"payload"`
}

// Load reads every stored collection.
func (r *SnapshotRepository) Load(ctx context.Context) (models.Snapshot, error) {
	const query = `SELECT key, payload FROM ledger_collections`
	var rows []collectionRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return models.Snapshot{}, fmt.Errorf("load ledger collections: %w", err)
	}
	raw := make(map[string][]byte, len(rows))
	for _, row := range rows {
		raw[row.Key] = row.Payload
	}
	snapshot, err := models.DecodeCollections(raw)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("decode ledger collections: %w", err)
	}
	return snapshot, nil
}

// Save upserts the given collections (all when none are named) in one transaction.
func (r *SnapshotRepository) Save(ctx context.Context, snapshot models.Snapshot, collections ...models.Collection) (err error) {
	payloads, err := snapshot.EncodeCollections(collections...)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger save tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := tx.Rebind(`INSERT INTO ledger_collections (key, payload, updated_at)
VALUES (?, ?, ?)
ON CONFLICT (key)
DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`)
	now := r.now()
	for _, c := range models.AllCollections {
		payload, ok := payloads[c]
		if !ok {
			continue
		}
		if _, err = tx.ExecContext(ctx, query, string(c), string(payload), now); err != nil {
			return fmt.Errorf("upsert collection %s: %w", c, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger save: %w", err)
	}
	return nil
}

// Ping checks database connectivity for readiness probes.
func (r *SnapshotRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
