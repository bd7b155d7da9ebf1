// Package cache provides in-memory caching for ranking results.
package cache

import (
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/deck-ranker/internal/metrics"
	"github.com/yourusername/deck-ranker/internal/models"
)

// RankingCache caches ranking results by request fingerprint
type RankingCache struct {
	cache     *gocache.Cache
	ttl       time.Duration
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewRankingCache creates a new ranking cache
func NewRankingCache(ttl time.Duration) *RankingCache {
	return &RankingCache{
		cache: gocache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Get retrieves a cached ranking, or nil on a miss
func (rc *RankingCache) Get(key string) *models.Ranking {
	result, found := rc.cache.Get(key)
	ranking, ok := result.(*models.Ranking)

	rc.mu.Lock()
	if found && ok {
		rc.hitCount++
	} else {
		rc.missCount++
	}
	ratio := rc.ratioLocked()
	rc.mu.Unlock()

	metrics.UpdateCacheHitRatio(ratio)
	if found && ok {
		return ranking
	}
	return nil
}

// Set stores a ranking
func (rc *RankingCache) Set(key string, ranking *models.Ranking) {
	rc.cache.Set(key, ranking, rc.ttl)
}

// InvalidateEnvironment removes every ranking scoped to the environment and
// every ranking computed across all environments
func (rc *RankingCache) InvalidateEnvironment(environmentID int64) {
	scoped := models.EnvironmentKeyPrefix(&environmentID)
	global := models.EnvironmentKeyPrefix(nil)
	for k := range rc.cache.Items() {
		if strings.HasPrefix(k, scoped) || strings.HasPrefix(k, global) {
			rc.cache.Delete(k)
		}
	}
}

// Clear flushes the entire cache
func (rc *RankingCache) Clear() {
	rc.cache.Flush()

	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.hitCount = 0
	rc.missCount = 0
}

// Stats returns cache statistics
func (rc *RankingCache) Stats() (hits, misses uint64, ratio float64) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.hitCount, rc.missCount, rc.ratioLocked()
}

func (rc *RankingCache) ratioLocked() float64 {
	total := rc.hitCount + rc.missCount
	if total == 0 {
		return 0
	}
	return float64(rc.hitCount) / float64(total)
}

// ItemCount returns the number of items in cache
func (rc *RankingCache) ItemCount() int {
	return rc.cache.ItemCount()
}
