package config

import (
	"fmt"
	"strings"
	"time"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`    // pub/sub channel for NEWS_UPDATED
	Snapshot string `mapstructure:"latest_key"` // key holding the latest article list
}

// NewsAPIConfig controls the upstream news source and the fetch pipeline.
type NewsAPIConfig struct {
	APIKey         string            `mapstructure:"api_key"`
	BaseURL        string            `mapstructure:"base_url"`
	Choice         string            `mapstructure:"choice"`    // headlines or everything
	PageSize       int               `mapstructure:"page_size"` // desired article count
	Query          map[string]string `mapstructure:"query"`
	ExcludeAuthors []string          `mapstructure:"exclude_authors"`
	FetchInterval  string            `mapstructure:"fetch_interval"` // staleness threshold, e.g. "1h"
	Schedule       string            `mapstructure:"schedule"`       // cron spec, e.g. "@every 1h"
	Timeout        string            `mapstructure:"timeout"`        // per-fetch deadline
	MaxPages       int               `mapstructure:"max_pages"`
}

// DisplayConfig controls the terminal carousel.
type DisplayConfig struct {
	DrawInterval string `mapstructure:"draw_interval"` // e.g. "30s"
	TimeFormat   string `mapstructure:"time_format"`   // relative or a Go layout
	Width        int    `mapstructure:"width"`
	Header       string `mapstructure:"header"`
	ShowLink     bool   `mapstructure:"show_link"`
	Language     string `mapstructure:"language"` // language for AI summaries
}

// OpenAIConfig enables optional AI one-line summaries on cards.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// Config is the top-level configuration structure.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Redis   RedisConfig   `mapstructure:"redis"`
	NewsAPI NewsAPIConfig `mapstructure:"newsapi"`
	Display DisplayConfig `mapstructure:"display"`
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Redis.Channel == "" {
		c.Redis.Channel = "news:updated"
	}
	if c.Redis.Snapshot == "" {
		c.Redis.Snapshot = "news:latest"
	}
	if c.NewsAPI.BaseURL == "" {
		c.NewsAPI.BaseURL = "https://newsapi.org"
	}
	if strings.TrimSpace(c.NewsAPI.Choice) == "" {
		c.NewsAPI.Choice = "headlines"
	}
	if c.NewsAPI.PageSize <= 0 {
		c.NewsAPI.PageSize = 20
	}
	if c.NewsAPI.FetchInterval == "" {
		c.NewsAPI.FetchInterval = "1h"
	}
	if c.NewsAPI.Schedule == "" {
		c.NewsAPI.Schedule = "@every " + c.NewsAPI.FetchInterval
	}
	if c.NewsAPI.Timeout == "" {
		c.NewsAPI.Timeout = "30s"
	}
	if c.NewsAPI.MaxPages <= 0 {
		c.NewsAPI.MaxPages = 10
	}
	if c.NewsAPI.Query == nil {
		c.NewsAPI.Query = map[string]string{}
	}
	if c.Display.DrawInterval == "" {
		c.Display.DrawInterval = "30s"
	}
	if c.Display.TimeFormat == "" {
		c.Display.TimeFormat = "relative"
	}
	if c.Display.Width <= 0 {
		c.Display.Width = 80
	}
	if c.Display.Header == "" {
		c.Display.Header = "News {.CurrentDate}"
	}
}

// Payload renders the NewsAPI section as the request payload understood by
// fetcher.ParseRequest. fetchInterval is carried in milliseconds.
func (c NewsAPIConfig) Payload() (map[string]any, error) {
	interval, err := time.ParseDuration(c.FetchInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid newsapi.fetch_interval %q: %w", c.FetchInterval, err)
	}
	query := make(map[string]any, len(c.Query))
	for k, v := range c.Query {
		query[k] = v
	}
	p := map[string]any{
		"apiKey":        c.APIKey,
		"choice":        c.Choice,
		"query":         query,
		"pageSize":      c.PageSize,
		"fetchInterval": interval.Milliseconds(),
	}
	if len(c.ExcludeAuthors) > 0 {
		p["excludeAuthors"] = append([]string(nil), c.ExcludeAuthors...)
	}
	return p, nil
}
