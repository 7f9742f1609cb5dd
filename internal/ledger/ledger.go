// Package ledger owns the diploma register state: books, graduation decisions,
// field templates, diploma entries and the lookup log.
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/vanbang-api/internal/models"
	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
)

// Store persists ledger collections. Save receives the full staged snapshot and
// the collections that changed; an empty list means every collection.
type Store interface {
	Load(ctx context.Context) (models.Snapshot, error)
	Save(ctx context.Context, snapshot models.Snapshot, collections ...models.Collection) error
}

// Observer receives the outcome of every persistence write.
type Observer interface {
	ObservePersist(operation string, duration time.Duration, err error)
}

// Option customises a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithIDGenerator overrides identifier generation.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) {
		if newID != nil {
			l.newID = newID
		}
	}
}

// WithObserver registers a persistence observer.
func WithObserver(observer Observer) Option {
	return func(l *Ledger) {
		l.observer = observer
	}
}

// Ledger is the in-memory diploma register. Mutations are staged on a copy of
// the state, written through the Store and only then made visible.
type Ledger struct {
	mu       sync.RWMutex
	state    models.Snapshot
	store    Store
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
	observer Observer
}

// New builds an empty ledger backed by store. A nil store keeps state in memory only.
func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	l.state.Normalize()
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load replaces the in-memory state with what the store holds.
func (l *Ledger) Load(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	snapshot, err := l.store.Load(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ledger state")
	}
	snapshot.Normalize()

	l.mu.Lock()
	l.state = snapshot
	l.mu.Unlock()
	return nil
}

// Reload re-reads the store, typically after another process rewrote it.
func (l *Ledger) Reload(ctx context.Context) error {
	if err := l.Load(ctx); err != nil {
		l.logger.Warn("ledger reload failed", zap.Error(err))
		return err
	}
	l.mu.RLock()
	books, entries := len(l.state.DiplomaBooks), len(l.state.DiplomaInformations)
	l.mu.RUnlock()
	l.logger.Info("ledger reloaded", zap.Int("books", books), zap.Int("entries", entries))
	return nil
}

// mutation edits the staged snapshot and names the collections it touched.
type mutation func(staged *models.Snapshot) ([]models.Collection, error)

func (l *Ledger) apply(ctx context.Context, operation string, fn mutation) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	staged := l.state.Clone()
	collections, err := fn(&staged)
	if err != nil {
		return err
	}
	if err := l.persist(ctx, operation, staged, collections); err != nil {
		return err
	}
	l.state = staged
	return nil
}

func (l *Ledger) persist(ctx context.Context, operation string, staged models.Snapshot, collections []models.Collection) error {
	if l.store == nil {
		return nil
	}
	start := time.Now()
	err := l.store.Save(ctx, staged, collections...)
	if l.observer != nil {
		l.observer.ObservePersist(operation, time.Since(start), err)
	}
	if err != nil {
		l.logger.Error("ledger write failed",
			zap.String("operation", operation),
			zap.Any("collections", collections),
			zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrPersistenceWrite.Code, appErrors.ErrPersistenceWrite.Status, appErrors.ErrPersistenceWrite.Message)
	}
	return nil
}

func (l *Ledger) read(fn func(state *models.Snapshot)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn(&l.state)
}

// ExportAll returns a deep copy of every collection.
func (l *Ledger) ExportAll() models.Snapshot {
	var out models.Snapshot
	l.read(func(state *models.Snapshot) {
		out = state.Clone()
	})
	return out
}

// ImportAll replaces every collection wholesale. References are not checked;
// use Verify to inspect the imported state.
func (l *Ledger) ImportAll(ctx context.Context, snapshot models.Snapshot) error {
	incoming := snapshot.Clone()
	return l.apply(ctx, "import_all", func(staged *models.Snapshot) ([]models.Collection, error) {
		*staged = incoming
		return models.AllCollections, nil
	})
}

// Statistics computes ledger totals and the per-year diploma histogram.
func (l *Ledger) Statistics() models.DiplomaStatistics {
	stats := models.DiplomaStatistics{DiplomasByYear: map[int]int{}}
	l.read(func(state *models.Snapshot) {
		yearByBook := make(map[string]int, len(state.DiplomaBooks))
		for _, b := range state.DiplomaBooks {
			yearByBook[b.ID] = b.Year
		}
		for _, e := range state.DiplomaInformations {
			if year, ok := yearByBook[e.DiplomaBookID]; ok {
				stats.DiplomasByYear[year]++
			}
		}
		stats.TotalDiplomas = len(state.DiplomaInformations)
		stats.TotalBooks = len(state.DiplomaBooks)
		stats.TotalDecisions = len(state.GraduationDecisions)
		stats.TotalLookups = len(state.DiplomaLookupRecords)
	})
	stats.GeneratedAt = l.now()
	return stats
}
