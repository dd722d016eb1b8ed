package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	"github.com/mentorlink/mentorlink-api/pkg/retry"
)

// MentorDataSource defines the interface for mentor directory fetching
type MentorDataSource interface {
	ListMentors(ctx context.Context) ([]*models.User, error)
}

const (
	allMentorsKey    = "mentors:all"
	cacheCheckPeriod = 10 * time.Second
	refreshTimeout   = 30 * time.Second
)

// MentorCache keeps the mentor directory in memory. Directory reads are the
// hottest path and tolerate a bounded staleness window; profile mutations
// invalidate eagerly.
type MentorCache struct {
	cache       *gocache.Cache
	dataSource  MentorDataSource
	mu          sync.RWMutex
	ready       bool
	ttl         time.Duration
	lastRefresh time.Time
}

// NewMentorCache creates a new mentor directory cache
func NewMentorCache(dataSource MentorDataSource, ttlSeconds int) *MentorCache {
	return &MentorCache{
		cache:      gocache.New(gocache.NoExpiration, cacheCheckPeriod),
		dataSource: dataSource,
		ttl:        time.Duration(ttlSeconds) * time.Second,
	}
}

// Initialize performs initial cache population (synchronous, blocks until ready).
// Should be called during application startup before accepting requests.
func (mc *MentorCache) Initialize() error {
	logger.Info("Initializing mentor cache...")
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	err := retry.Do(ctx, retry.CacheRefreshConfig(), "mentorCacheRefresh", func() error {
		return mc.refresh(ctx)
	})
	if err != nil {
		logger.Error("Failed to initialize mentor cache", zap.Error(err))
		return err
	}

	mc.mu.Lock()
	mc.ready = true
	mc.lastRefresh = time.Now()
	mc.mu.Unlock()

	logger.Info("Mentor cache initialized successfully",
		zap.Duration("duration", time.Since(start)))

	go mc.schedulePeriodicRefresh()

	return nil
}

// IsReady returns true if the cache has been successfully initialized
func (mc *MentorCache) IsReady() bool {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.ready
}

// GetAll returns the cached mentor directory
func (mc *MentorCache) GetAll() ([]*models.MentorSummary, error) {
	if !mc.IsReady() {
		return nil, fmt.Errorf("mentor cache not initialized")
	}

	data, found := mc.cache.Get(allMentorsKey)
	if !found {
		metrics.CacheMisses.WithLabelValues("mentors_all").Inc()
		return nil, fmt.Errorf("mentor directory not in cache")
	}

	metrics.CacheHits.WithLabelValues("mentors_all").Inc()

	mentors, ok := data.([]*models.MentorSummary)
	if !ok {
		return nil, fmt.Errorf("invalid cache entry type")
	}

	return mentors, nil
}

// Invalidate refreshes the directory immediately. Called after profile
// mutations so directory reads never serve a stale mentor for long.
func (mc *MentorCache) Invalidate() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		if err := mc.refresh(ctx); err != nil {
			logger.Warn("Mentor cache invalidation refresh failed", zap.Error(err))
			return
		}

		mc.mu.Lock()
		mc.lastRefresh = time.Now()
		mc.mu.Unlock()
	}()
}

// refresh fetches the full mentor set and swaps the cache entry
func (mc *MentorCache) refresh(ctx context.Context) error {
	start := time.Now()

	mentors, err := mc.dataSource.ListMentors(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch mentors: %w", err)
	}

	summaries := make([]*models.MentorSummary, 0, len(mentors))
	for _, m := range mentors {
		summaries = append(summaries, m.Summary())
	}

	mc.cache.Set(allMentorsKey, summaries, gocache.NoExpiration)

	metrics.CacheRefreshDuration.Observe(metrics.MeasureDuration(start))
	logger.Debug("Mentor cache refreshed",
		zap.Int("count", len(summaries)),
		zap.Duration("duration", time.Since(start)))

	return nil
}

// schedulePeriodicRefresh refreshes the directory every TTL interval
func (mc *MentorCache) schedulePeriodicRefresh() {
	ticker := time.NewTicker(mc.ttl)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		err := mc.refresh(ctx)
		cancel()

		if err != nil {
			logger.Warn("Periodic mentor cache refresh failed", zap.Error(err))
			continue
		}

		mc.mu.Lock()
		mc.lastRefresh = time.Now()
		mc.mu.Unlock()
	}
}
