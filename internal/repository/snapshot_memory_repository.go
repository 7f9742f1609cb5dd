package repository

import (
	"context"
	"sync"

	"github.com/noah-isme/vanbang-api/internal/models"
)

// MemorySnapshotRepository keeps the snapshot in process memory.
type MemorySnapshotRepository struct {
	mu       sync.RWMutex
	snapshot models.Snapshot
	saves    int
}

// NewMemorySnapshotRepository returns a store seeded with initial.
func NewMemorySnapshotRepository(initial models.Snapshot) *MemorySnapshotRepository {
	return &MemorySnapshotRepository{snapshot: initial.Clone()}
}

// Load implements ledger.Store.
func (r *MemorySnapshotRepository) Load(context.Context) (models.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot.Clone(), nil
}

// Save implements ledger.Store.
func (r *MemorySnapshotRepository) Save(_ context.Context, snapshot models.Snapshot, _ ...models.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot = snapshot.Clone()
	r.saves++
	return nil
}

// Saves reports how many writes were accepted.
func (r *MemorySnapshotRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}
