package state

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/dealiq/internal/engine"
)

// Inputs are the values the user can nudge. Together with the deal they
// fully determine a ranking.
type Inputs struct {
	Price        float64
	InterestRate float64
	MonthlyRent  float64
	VacancyRate  float64
}

// Key identifies a set of inputs. Values are rounded so that nudging up and
// back down lands on the same entry despite float drift.
func (in Inputs) Key() string {
	return fmt.Sprintf("%.2f|%.6f|%.2f|%.6f", in.Price, in.InterestRate, in.MonthlyRent, in.VacancyRate)
}

type cached struct {
	ranking  *engine.Ranking
	storedAt time.Time
}

// RankingCache memoizes rankings for one deal by input key. It is safe for
// use from tea commands running on other goroutines.
type RankingCache struct {
	rankings map[string]cached
	mu       sync.RWMutex
	logger   *zap.Logger
	now      func() time.Time

	// Statistics (accessed atomically)
	hits   uint64
	misses uint64
	writes uint64
}

// NewRankingCache creates an empty cache.
func NewRankingCache(logger *zap.Logger) *RankingCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RankingCache{
		rankings: make(map[string]cached),
		logger:   logger,
		now:      time.Now,
	}
}

// Get returns the ranking stored for the inputs.
func (c *RankingCache) Get(in Inputs) (*engine.Ranking, bool) {
	c.mu.RLock()
	entry, ok := c.rankings[in.Key()]
	c.mu.RUnlock()

	if !ok {
		atomic.AddUint64(&c.misses, 1)
		return nil, false
	}
	atomic.AddUint64(&c.hits, 1)
	return entry.ranking, true
}

// Put stores a ranking. Nil rankings are ignored.
func (c *RankingCache) Put(in Inputs, r *engine.Ranking) {
	if r == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rankings[in.Key()] = cached{ranking: r, storedAt: c.now()}
	atomic.AddUint64(&c.writes, 1)
}

// Clear drops every entry, e.g. when a different deal is loaded.
func (c *RankingCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rankings = make(map[string]cached)
}

// Stats returns cache statistics
func (c *RankingCache) Stats() (entries, hits, misses, writes uint64) {
	c.mu.RLock()
	entries = uint64(len(c.rankings))
	c.mu.RUnlock()

	return entries, atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses), atomic.LoadUint64(&c.writes)
}

// CleanupStale removes entries older than maxAge and returns how many went.
func (c *RankingCache) CleanupStale(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-maxAge)
	removed := 0
	for key, entry := range c.rankings {
		if entry.storedAt.Before(cutoff) {
			delete(c.rankings, key)
			removed++
		}
	}

	if removed > 0 {
		c.logger.Debug("Cleaned up stale rankings",
			zap.Int("removed", removed),
			zap.Int("remaining", len(c.rankings)))
	}
	return removed
}

// StartCleanup runs CleanupStale every interval until the returned stop
// function is called.
func (c *RankingCache) StartCleanup(interval, maxAge time.Duration) (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.CleanupStale(maxAge)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
