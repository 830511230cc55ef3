package cmd

import (
	"fmt"
	"time"

	"news-carousel/internal/config"
	"news-carousel/internal/fetcher"
	"news-carousel/internal/newsapi"
)

// newFetcher wires the NewsAPI client into an orchestrator from config.
func newFetcher(cfg config.NewsAPIConfig) (*fetcher.Fetcher, error) {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid newsapi.timeout %q: %w", cfg.Timeout, err)
	}
	client := newsapi.NewClient(cfg.BaseURL, cfg.APIKey, timeout)
	return fetcher.NewWithClient(client, fetcher.Options{
		MaxPages: cfg.MaxPages,
		Timeout:  timeout,
	}), nil
}
