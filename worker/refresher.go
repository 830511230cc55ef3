package worker

import (
	"context"
	"log/slog"
	"time"

	"news-carousel/internal/fetcher"
	"news-carousel/internal/model"

	"github.com/robfig/cron/v3"
)

// ArticleFetcher is satisfied by *fetcher.Fetcher.
type ArticleFetcher interface {
	Fetch(ctx context.Context, cfg fetcher.RequestConfig) ([]model.Article, error)
}

// Publisher announces a fresh article list, e.g. over Redis pub/sub.
type Publisher interface {
	PublishArticles(ctx context.Context, articles []model.Article, ttl time.Duration) error
}

// Sink receives every successfully fetched list.
type Sink interface {
	Update(articles []model.Article)
}

// Refresher asks the fetcher for articles on a cron schedule and hands the
// result to the publisher and sinks. Failed runs are logged and retried on
// the next tick.
type Refresher struct {
	Fetcher   ArticleFetcher
	Payload   map[string]any // parsed on every run
	Schedule  string         // cron spec, e.g. "@every 1h"
	Publisher Publisher      // optional
	Sinks     []Sink
}

func (w *Refresher) Start(ctx context.Context) error {
	if w.Schedule == "" {
		w.Schedule = "@every 1h"
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(w.Schedule, func() { w.RunOnce(ctx) }); err != nil {
		return err
	}

	// initial run
	w.RunOnce(ctx)

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// RunOnce performs a single fetch cycle and reports whether it succeeded.
func (w *Refresher) RunOnce(ctx context.Context) bool {
	cfg, err := fetcher.ParseRequest(w.Payload)
	if err != nil {
		slog.Error("refresher: invalid request", "error", err)
		return false
	}
	articles, err := w.Fetcher.Fetch(ctx, cfg)
	if err != nil {
		slog.Error("refresher: fetch failed", "error", err)
		return false
	}
	slog.Info("refresher: sending articles", "count", len(articles))
	if w.Publisher != nil {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		ttl := 2 * cfg.Staleness
		if ttl < cfg.Staleness {
			ttl = 0 // overflowed; keep the snapshot without expiry
		}
		if err := w.Publisher.PublishArticles(pctx, articles, ttl); err != nil {
			slog.Error("refresher: publish failed", "error", err)
		}
		cancel()
	}
	for _, s := range w.Sinks {
		s.Update(model.CloneArticles(articles))
	}
	return true
}
