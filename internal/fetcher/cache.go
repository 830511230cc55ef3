package fetcher

import (
	"sync"
	"time"

	"news-carousel/internal/model"
)

// Cache holds the last assembled article list and when it was assembled.
// It is not keyed by request: one running instance is assumed to use one
// configuration.
type Cache interface {
	// Get returns the cached list and its timestamp. ok is false when the
	// cache holds no articles. A zero timestamp means freshness was revoked.
	Get() (articles []model.Article, fetchedAt time.Time, ok bool)
	// Set replaces the cached list wholesale.
	Set(articles []model.Article, fetchedAt time.Time)
	// Invalidate clears the timestamp and keeps the list.
	Invalidate()
}

// MemoryCache is the process-local Cache.
type MemoryCache struct {
	mu        sync.RWMutex
	articles  []model.Article
	fetchedAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Get() ([]model.Article, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.articles) == 0 {
		return nil, c.fetchedAt, false
	}
	return model.CloneArticles(c.articles), c.fetchedAt, true
}

func (c *MemoryCache) Set(articles []model.Article, fetchedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.articles = model.CloneArticles(articles)
	c.fetchedAt = fetchedAt
}

func (c *MemoryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchedAt = time.Time{}
}
