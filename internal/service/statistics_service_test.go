package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/vanbang-api/internal/models"
)

func TestStatisticsServiceCachesUntilInvalidated(t *testing.T) {
	l := newMemoryLedger(t)
	_, _, entries := seedRegister(t, l, 2024, "Nguyen Van An", "Le Thi Binh")
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)
	svc := NewStatisticsService(l, cache, time.Minute, nil)
	ctx := context.Background()

	stats, hit, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, stats.TotalDiplomas)
	assert.Equal(t, map[int]int{2024: 2}, stats.DiplomasByYear)

	_, err = l.RecordLookup(ctx, entries[0].ID, "kiosk")
	require.NoError(t, err)

	cached, hit, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 0, cached.TotalLookups)

	svc.Invalidate(ctx)
	assert.Equal(t, []string{statisticsCacheKey + "*"}, repo.deletes)

	fresh, hit, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, fresh.TotalLookups)
}

func TestStatisticsServiceWithoutCache(t *testing.T) {
	l := newMemoryLedger(t)
	seedRegister(t, l, 2023, "A")
	seedRegister(t, l, 2024, "B", "C")
	svc := NewStatisticsService(l, nil, time.Minute, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats, hit, err := svc.Get(context.Background())
			assert.NoError(t, err)
			assert.False(t, hit)
			assert.Equal(t, 3, stats.TotalDiplomas)
			assert.Equal(t, 2, stats.TotalBooks)
		}()
	}
	wg.Wait()
	svc.Invalidate(context.Background())
}

type racingStatisticsSource struct {
	calls  int
	during func()
}

func (s *racingStatisticsSource) Statistics() models.DiplomaStatistics {
	s.calls++
	if s.calls == 1 && s.during != nil {
		s.during()
	}
	return models.DiplomaStatistics{TotalDiplomas: s.calls}
}

func TestStatisticsServiceDoesNotCacheAcrossInvalidation(t *testing.T) {
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)
	source := &racingStatisticsSource{}
	svc := NewStatisticsService(source, cache, time.Minute, nil)
	ctx := context.Background()
	source.during = func() { svc.Invalidate(ctx) }

	stale, hit, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, stale.TotalDiplomas)
	assert.Empty(t, repo.items)

	fresh, hit, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, fresh.TotalDiplomas)

	cached, hit, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 2, cached.TotalDiplomas)
	assert.Equal(t, 2, source.calls)
}
