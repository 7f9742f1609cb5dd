// Package bootstrap wires the ledger and its persistence for the server and ledgerctl.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/vanbang-api/internal/ledger"
	"github.com/noah-isme/vanbang-api/internal/models"
	"github.com/noah-isme/vanbang-api/internal/repository"
	"github.com/noah-isme/vanbang-api/pkg/config"
	"github.com/noah-isme/vanbang-api/pkg/database"
)

// Store is the persistence selected by STORAGE_DRIVER.
type Store struct {
	Driver string
	Ledger ledger.Store

	// File is set for the file driver and backs the snapshot watcher.
	File *repository.SnapshotFileRepository

	db *sqlx.DB
}

// OpenStore opens the configured store. The caller must Close it.
func OpenStore(ctx context.Context, cfg config.StorageConfig, dbCfg config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Driver {
	case config.StorageDriverMemory:
		return &Store{Driver: cfg.Driver, Ledger: repository.NewMemorySnapshotRepository(models.Snapshot{})}, nil
	case config.StorageDriverFile, "":
		file, err := repository.NewSnapshotFileRepository(cfg.SnapshotFile, logger)
		if err != nil {
			return nil, fmt.Errorf("open snapshot file: %w", err)
		}
		return &Store{Driver: config.StorageDriverFile, Ledger: file, File: file}, nil
	case config.StorageDriverPostgres:
		db, err := database.NewPostgres(ctx, dbCfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return newSQLStore(ctx, cfg.Driver, db)
	case config.StorageDriverSQLite:
		db, err := database.NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return newSQLStore(ctx, cfg.Driver, db)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func newSQLStore(ctx context.Context, driver string, db *sqlx.DB) (*Store, error) {
	if err := database.EnsureLedgerSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure ledger schema: %w", err)
	}
	return &Store{Driver: driver, Ledger: repository.NewSnapshotRepository(db), db: db}, nil
}

// Ping reports whether the backing store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.db != nil {
		return s.db.PingContext(ctx)
	}
	if s.File != nil {
		_, err := os.Stat(filepath.Dir(s.File.Path()))
		return err
	}
	return nil
}

// Close releases database connections.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// OpenLedger opens the store and loads the ledger from it.
func OpenLedger(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...ledger.Option) (*ledger.Ledger, *Store, error) {
	store, err := OpenStore(ctx, cfg.Storage, cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}

	opts = append([]ledger.Option{ledger.WithLogger(logger)}, opts...)
	l := ledger.New(store.Ledger, opts...)
	if err := l.Load(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return l, store, nil
}
