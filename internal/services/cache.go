package services

import (
	"strings"
	"sync"
	"time"

	"github.com/bobby-s-dev/weather-dashboard/internal/models"
	"go.uber.org/zap"
)

type CacheItem struct {
	Data      *models.Bundle
	ExpiresAt time.Time
}

// BundleCache keeps fetched bundles per city for a fixed TTL.
type BundleCache struct {
	mu              sync.RWMutex
	items           map[string]CacheItem // normalised city -> bundle
	logger          *zap.Logger
	defaultDuration time.Duration
	maxSize         int
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
	hits            int
	misses          int
	now             func() time.Time
}

func NewBundleCache(defaultDuration time.Duration, maxSize int, logger *zap.Logger) *BundleCache {
	cache := &BundleCache{
		items:           make(map[string]CacheItem),
		logger:          logger,
		defaultDuration: defaultDuration,
		maxSize:         maxSize,
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
		now:             time.Now,
	}

	go cache.startCleanup()

	return cache
}

func cacheKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

func (c *BundleCache) Set(city string, bundle *models.Bundle) {
	if c.defaultDuration <= 0 || c.maxSize <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(city)
	// Evict if cache is too large
	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		c.evictOldest()
	}

	expiresAt := c.now().Add(c.defaultDuration)
	c.items[key] = CacheItem{
		Data:      bundle.Clone(),
		ExpiresAt: expiresAt,
	}

	c.logger.Debug("Bundle cached",
		zap.String("city", key),
		zap.Time("expires_at", expiresAt))
}

// Get returns a copy of the cached bundle for city.
func (c *BundleCache) Get(city string) (*models.Bundle, bool) {
	key := cacheKey(city)

	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[key]
	if !exists {
		c.misses++
		return nil, false
	}

	if c.now().After(item.ExpiresAt) {
		delete(c.items, key)
		c.misses++
		return nil, false
	}

	c.hits++
	return item.Data.Clone(), true
}

func (c *BundleCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, item := range c.items {
		if oldestKey == "" || item.ExpiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = item.ExpiresAt
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
		c.logger.Debug("Evicted oldest bundle from cache",
			zap.String("city", oldestKey))
	}
}

func (c *BundleCache) startCleanup() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *BundleCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expiredCount := 0

	for key, item := range c.items {
		if now.After(item.ExpiresAt) {
			delete(c.items, key)
			expiredCount++
		}
	}

	if expiredCount > 0 {
		c.logger.Debug("Cleaned expired cache items",
			zap.Int("count", expiredCount))
	}
}

func (c *BundleCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCleanup) })
}

func (c *BundleCache) GetStats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"items":            len(c.items),
		"hits":             c.hits,
		"misses":           c.misses,
		"max_size":         c.maxSize,
		"default_duration": c.defaultDuration.String(),
	}
}
