package repository

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/noah-isme/vanbang-api/internal/models"
	"github.com/noah-isme/vanbang-api/pkg/storage"
)

// SnapshotFileRepository keeps the whole ledger in one JSON document on disk,
// the same shape the export endpoint produces.
type SnapshotFileRepository struct {
	storage *storage.LocalStorage
	name    string
	logger  *zap.Logger

	mu          sync.Mutex
	lastWritten [sha256.Size]byte

	debounce time.Duration
}

// NewSnapshotFileRepository opens (creating the directory of) the snapshot at path.
func NewSnapshotFileRepository(path string, logger *zap.Logger) (*SnapshotFileRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dir, name := filepath.Split(filepath.Clean(path))
	if dir == "" {
		dir = "."
	}
	local, err := storage.NewLocalStorage(dir)
	if err != nil {
		return nil, err
	}
	return &SnapshotFileRepository{storage: local, name: name, logger: logger, debounce: 200 * time.Millisecond}, nil
}

// Path returns the snapshot location.
func (r *SnapshotFileRepository) Path() string {
	return r.storage.Path(r.name)
}

// Load reads the snapshot. A missing file is an empty ledger.
func (r *SnapshotFileRepository) Load(context.Context) (models.Snapshot, error) {
	data, err := r.storage.Read(r.name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			empty := models.Snapshot{}
			empty.Normalize()
			return empty, nil
		}
		return models.Snapshot{}, err
	}

	r.mu.Lock()
	r.lastWritten = sha256.Sum256(data)
	r.mu.Unlock()

	if len(bytes.TrimSpace(data)) == 0 {
		empty := models.Snapshot{}
		empty.Normalize()
		return empty, nil
	}
	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", r.name, err)
	}
	return snapshot, nil
}

// Save rewrites the whole document atomically; the collection list is ignored
// because the file always holds every collection.
func (r *SnapshotFileRepository) Save(_ context.Context, snapshot models.Snapshot, _ ...models.Collection) error {
	snapshot.Normalize()
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.storage.SaveAtomic(r.name, data); err != nil {
		return err
	}
	r.lastWritten = sha256.Sum256(data)
	return nil
}

// Watch calls onChange whenever another process rewrites the snapshot. Writes
// made through this repository are recognised by checksum and skipped. It
// blocks until ctx is cancelled.
func (r *SnapshotFileRepository) Watch(ctx context.Context, onChange func(context.Context)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create snapshot watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck

	// Atomic renames replace the inode, so the directory is watched.
	target := r.Path()
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	r.logger.Info("watching ledger snapshot", zap.String("path", target))

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(r.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("snapshot watcher error", zap.Error(err))
		case <-timer.C:
			if r.changedExternally() {
				r.logger.Info("ledger snapshot changed on disk", zap.String("path", target))
				onChange(ctx)
			}
		}
	}
}

func (r *SnapshotFileRepository) changedExternally() bool {
	data, err := r.storage.Read(r.name)
	if err != nil {
		return false
	}
	sum := sha256.Sum256(data)
	r.mu.Lock()
	defer r.mu.Unlock()
	return sum != r.lastWritten
}
