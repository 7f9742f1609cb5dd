package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/vanbang-api/internal/ledger"
	"github.com/noah-isme/vanbang-api/internal/models"
	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
)

func newMemoryLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	var mu sync.Mutex
	seq := 0
	return ledger.New(nil,
		ledger.WithClock(func() time.Time { return time.Date(2025, time.July, 1, 8, 0, 0, 0, time.UTC) }),
		ledger.WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			seq++
			return fmt.Sprintf("id-%03d", seq)
		}),
	)
}

type invalidatorStub struct {
	calls int
}

func (s *invalidatorStub) Invalidate(context.Context) { s.calls++ }

type memoryCacheRepo struct {
	mu      sync.Mutex
	items   map[string][]byte
	deletes []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{items: map[string][]byte{}}
}

func (r *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	raw, ok := r.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (r *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = raw
	return nil
}

func (r *memoryCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range r.items {
		if strings.HasPrefix(key, prefix) {
			delete(r.items, key)
		}
	}
	return nil
}

// seedRegister creates one book, one decision and the given student names.
func seedRegister(t *testing.T, l *ledger.Ledger, year int, names ...string) (models.DiplomaBook, models.GraduationDecision, []models.DiplomaEntry) {
	t.Helper()
	ctx := context.Background()
	book, err := l.AddBook(ctx, models.DiplomaBook{Year: year})
	require.NoError(t, err)
	decision, err := l.AddDecision(ctx, models.GraduationDecision{
		DecisionNumber: fmt.Sprintf("%d/QD-DHCT", year),
		IssuanceDate:   models.NewDate(year, time.June, 15),
		DiplomaBookID:  book.ID,
	})
	require.NoError(t, err)
	entries := make([]models.DiplomaEntry, 0, len(names))
	for i, name := range names {
		entry, err := l.AddEntry(ctx, models.DiplomaEntry{
			DecisionID:          decision.ID,
			DiplomaSerialNumber: fmt.Sprintf("SN%d-%03d", year, i+1),
			StudentID:           fmt.Sprintf("B%d%03d", year%100, i+1),
			FullName:            name,
			DateOfBirth:         models.NewDate(2001, time.March, i+1),
		}, book.ID)
		require.NoError(t, err)
		entries = append(entries, entry)
	}
	return book, decision, entries
}
