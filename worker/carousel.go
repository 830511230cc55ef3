package worker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"news-carousel/internal/ai"
	"news-carousel/internal/display"
	"news-carousel/internal/model"
)

// Carousel shows one article at a time and advances on its own ticker,
// independent of the fetch schedule.
type Carousel struct {
	Out        io.Writer
	Interval   time.Duration
	Options    display.Options
	Summarizer ai.Summarizer // optional
	Language   string
	Now        func() time.Time

	mu        sync.Mutex
	articles  []model.Article
	index     int
	received  bool
	summaries map[string]string
	wake      chan struct{}
}

// Update replaces the article list. The first update wakes Start so the
// initial card is drawn without waiting a full interval; Update itself never
// draws.
func (c *Carousel) Update(articles []model.Article) {
	c.mu.Lock()
	first := !c.received
	c.received = true
	c.articles = articles
	if first || c.index >= len(articles) {
		c.index = 0
	}
	wake := c.wakeChan()
	c.mu.Unlock()
	slog.Debug("carousel: received articles", "count", len(articles))
	if first {
		select {
		case wake <- struct{}{}:
		default:
		}
	}
}

func (c *Carousel) Start(ctx context.Context) error {
	if c.Interval <= 0 {
		c.Interval = 30 * time.Second
	}
	c.mu.Lock()
	wake := c.wakeChan()
	c.mu.Unlock()

	t := time.NewTicker(c.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-wake:
			c.Draw(ctx)
			t.Reset(c.Interval)
		case <-t.C:
			c.mu.Lock()
			ready := c.received
			c.mu.Unlock()
			if ready {
				c.Draw(ctx)
			}
		}
	}
}

// Draw renders the current article and moves to the next one.
func (c *Carousel) Draw(ctx context.Context) {
	now := c.now()
	c.mu.Lock()
	total := len(c.articles)
	var (
		a model.Article
		i int
	)
	if total > 0 {
		i = c.index
		a = c.articles[i]
		c.index = (c.index + 1) % total
	}
	c.mu.Unlock()

	card := display.Placeholder(c.Options, now)
	if total > 0 {
		card = display.NewCard(a, i, total, c.summary(ctx, a), c.Options, now)
	}
	out, err := display.Render(card)
	if err != nil {
		slog.Error("carousel: render failed", "error", err)
		return
	}
	fmt.Fprint(c.Out, "\n"+out)
}

// summary returns the memoized AI teaser for the article, if configured.
func (c *Carousel) summary(ctx context.Context, a model.Article) string {
	if c.Summarizer == nil || a.URL == "" {
		return ""
	}
	c.mu.Lock()
	s, ok := c.summaries[a.URL]
	c.mu.Unlock()
	if ok {
		return s
	}
	s, err := c.Summarizer.SummarizeArticle(ctx, a.Title, a.Description, c.Language)
	if err != nil {
		return ""
	}
	c.mu.Lock()
	if c.summaries == nil {
		c.summaries = map[string]string{}
	}
	c.summaries[a.URL] = s
	c.mu.Unlock()
	return s
}

// wakeChan must be called with c.mu held.
func (c *Carousel) wakeChan() chan struct{} {
	if c.wake == nil {
		c.wake = make(chan struct{}, 1)
	}
	return c.wake
}

func (c *Carousel) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
