package service

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/noah-isme/vanbang-api/internal/models"
)

const statisticsCacheKey = "vanbang:statistics"

// StatisticsService serves ledger statistics through the cache. Concurrent
// misses share one computation. A computation that overlaps an invalidation
// is returned to its callers but never cached.
type StatisticsService struct {
	source     statisticsSource
	cache      *CacheService
	ttl        time.Duration
	group      singleflight.Group
	generation atomic.Uint64
	logger     *zap.Logger
}

// NewStatisticsService constructs a StatisticsService.
func NewStatisticsService(source statisticsSource, cache *CacheService, ttl time.Duration, logger *zap.Logger) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{source: source, cache: cache, ttl: ttl, logger: logger}
}

// Get returns the statistics and whether they came from the cache.
func (s *StatisticsService) Get(ctx context.Context) (models.DiplomaStatistics, bool, error) {
	var cached models.DiplomaStatistics
	hit, err := s.cache.Get(ctx, statisticsCacheKey, &cached)
	if err == nil && hit {
		return cached, true, nil
	}

	gen := s.generation.Load()
	value, _, _ := s.group.Do(statisticsCacheKey+":"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		stats := s.source.Statistics()
		if s.generation.Load() != gen {
			return stats, nil
		}
		if err := s.cache.Set(ctx, statisticsCacheKey, stats, s.ttl); err != nil {
			s.logger.Warn("statistics cache write failed", zap.Error(err))
		}
		if s.generation.Load() != gen {
			s.drop(ctx)
		}
		return stats, nil
	})
	return value.(models.DiplomaStatistics), false, nil
}

// Invalidate drops the cached statistics and discards any computation in flight.
func (s *StatisticsService) Invalidate(ctx context.Context) {
	s.generation.Add(1)
	s.drop(ctx)
}

func (s *StatisticsService) drop(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, statisticsCacheKey+"*"); err != nil {
		s.logger.Warn("statistics cache invalidation failed", zap.Error(err))
	}
}
