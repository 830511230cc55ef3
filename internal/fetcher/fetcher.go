package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"news-carousel/internal/model"
	"news-carousel/internal/newsapi"

	"golang.org/x/sync/singleflight"
)

// Upstream is the subset of the NewsAPI client used by the fetcher.
type Upstream interface {
	TopHeadlines(ctx context.Context, params map[string]string, page, pageSize int) (*newsapi.Response, error)
	Everything(ctx context.Context, params map[string]string, page, pageSize int) (*newsapi.Response, error)
}

// ClientFactory binds an Upstream to a credential.
type ClientFactory func(apiKey string) Upstream

const (
	DefaultMaxPages = 10
	DefaultTimeout  = 30 * time.Second
)

// Options tunes a Fetcher. Zero values select defaults.
type Options struct {
	Cache    Cache
	Now      func() time.Time
	MaxPages int
	Timeout  time.Duration
}

// Fetcher decides between cache and upstream, walks upstream pages until it
// has enough articles, and normalizes the result.
type Fetcher struct {
	newClient ClientFactory
	cache     Cache
	now       func() time.Time
	maxPages  int
	timeout   time.Duration
	group     singleflight.Group

	mu     sync.Mutex
	client Upstream
	active *RequestConfig
}

func New(newClient ClientFactory, opts Options) *Fetcher {
	f := &Fetcher{
		newClient: newClient,
		cache:     opts.Cache,
		now:       opts.Now,
		maxPages:  opts.MaxPages,
		timeout:   opts.Timeout,
	}
	if f.cache == nil {
		f.cache = NewMemoryCache()
	}
	if f.now == nil {
		f.now = time.Now
	}
	if f.maxPages <= 0 {
		f.maxPages = DefaultMaxPages
	}
	if f.timeout <= 0 {
		f.timeout = DefaultTimeout
	}
	return f
}

// NewWithClient returns a Fetcher backed by the NewsAPI client, rebinding it
// to the credential of each request.
func NewWithClient(base *newsapi.Client, opts Options) *Fetcher {
	return New(func(apiKey string) Upstream { return base.WithAPIKey(apiKey) }, opts)
}

// Fetch returns up to cfg.Count articles, from cache when it is fresh.
// Concurrent calls share one in-flight upstream walk.
func (f *Fetcher) Fetch(ctx context.Context, cfg RequestConfig) ([]model.Article, error) {
	cfg, err := cfg.Normalize()
	if err != nil {
		f.reset()
		slog.Error("fetcher: invalid request", "error", err)
		return nil, err
	}
	client := f.bind(cfg)

	// The flight outlives any single caller: a caller that gives up gets its
	// own context error while the others still receive the result.
	ch := f.group.DoChan("fetch", func() (any, error) {
		if articles, ok := f.fresh(cfg.Staleness); ok {
			slog.Debug("fetcher: serving cached articles", "count", len(articles))
			return articles, nil
		}
		return f.refresh(context.WithoutCancel(ctx), client, cfg)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		slog.Debug("fetcher: joined in-flight fetch")
	}
	return model.CloneArticles(res.Val.([]model.Article)), nil
}

// Cached returns the last assembled list regardless of freshness.
func (f *Fetcher) Cached() []model.Article {
	articles, _, _ := f.cache.Get()
	return articles
}

// Active returns the config bound by the last valid Fetch call.
func (f *Fetcher) Active() (RequestConfig, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active == nil {
		return RequestConfig{}, false
	}
	return *f.active, true
}

func (f *Fetcher) bind(cfg RequestConfig) Upstream {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.client = f.newClient(cfg.APIKey)
	f.active = &cfg
	return f.client
}

// reset drops the bound client and request so no stale credential is reused.
func (f *Fetcher) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.client = nil
	f.active = nil
}

func (f *Fetcher) fresh(staleness time.Duration) ([]model.Article, bool) {
	articles, fetchedAt, ok := f.cache.Get()
	if !ok || fetchedAt.IsZero() {
		return nil, false
	}
	if f.now().Sub(fetchedAt) > staleness {
		return nil, false
	}
	return articles, true
}

func (f *Fetcher) refresh(ctx context.Context, client Upstream, cfg RequestConfig) ([]model.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	articles, pages, err := f.collect(ctx, client, cfg)
	if err != nil {
		f.cache.Invalidate()
		slog.Error("fetcher: fetch failed", "mode", cfg.Mode, "pages", pages, "error", err)
		return nil, err
	}
	f.cache.Set(articles, f.now())
	slog.Info("fetcher: articles updated", "mode", cfg.Mode, "count", len(articles), "pages", pages, "duration", time.Since(start))
	return articles, nil
}

// collect walks pages until the target count is met, the upstream runs out,
// or the page ceiling is hit.
func (f *Fetcher) collect(ctx context.Context, client Upstream, cfg RequestConfig) ([]model.Article, int, error) {
	pageSize := min(cfg.Count, newsapi.MaxPageSize/2) * 2
	articles := make([]model.Article, 0, min(cfg.Count, pageSize))
	received := 0
	for page := 1; ; page++ {
		slog.Debug("fetcher: requesting page", "mode", cfg.Mode, "page", page, "page_size", pageSize, "query", cfg.Query)
		items, total, err := f.page(ctx, client, cfg, page, pageSize)
		if err != nil {
			return nil, page, err
		}
		received += len(items)
		for _, raw := range items {
			if len(articles) >= cfg.Count {
				break
			}
			if IsExcluded(raw.Author, cfg.ExcludeAuthors) {
				continue
			}
			articles = append(articles, Normalize(raw))
		}
		if len(articles) >= cfg.Count || received >= total || len(items) == 0 {
			return articles, page, nil
		}
		if page >= f.maxPages {
			slog.Warn("fetcher: page ceiling reached", "pages", page, "received", received, "total_results", total, "collected", len(articles))
			return articles, page, nil
		}
	}
}

func (f *Fetcher) page(ctx context.Context, client Upstream, cfg RequestConfig, page, pageSize int) ([]newsapi.Article, int, error) {
	if client == nil {
		return nil, 0, fmt.Errorf("fetcher: page %d: %w: no client bound", page, ErrUpstreamRequestFailed)
	}
	var (
		resp *newsapi.Response
		err  error
	)
	switch cfg.Mode {
	case ModeEverything:
		resp, err = client.Everything(ctx, cfg.Query, page, pageSize)
	default:
		resp, err = client.TopHeadlines(ctx, cfg.Query, page, pageSize)
	}
	if err != nil {
		if errors.Is(err, newsapi.ErrMalformed) {
			return nil, 0, fmt.Errorf("fetcher: page %d: %w: %w", page, ErrUpstreamMalformedResponse, err)
		}
		return nil, 0, fmt.Errorf("fetcher: page %d: %w: %w", page, ErrUpstreamRequestFailed, err)
	}
	if resp == nil || resp.Status == nil || resp.Articles == nil {
		return nil, 0, fmt.Errorf("fetcher: page %d: %w: missing status or articles", page, ErrUpstreamMalformedResponse)
	}
	if *resp.Status != "ok" {
		return nil, 0, fmt.Errorf("fetcher: page %d: %w: status=%s code=%s message=%s", page, ErrUpstreamRequestFailed, *resp.Status, resp.Code, resp.Message)
	}
	return *resp.Articles, resp.TotalResults, nil
}
