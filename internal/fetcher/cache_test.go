package fetcher

import (
	"testing"
	"time"

	"news-carousel/internal/model"
)

func makeArticles(titles ...string) []model.Article {
	out := make([]model.Article, 0, len(titles))
	for _, t := range titles {
		out = append(out, model.Article{Title: t})
	}
	return out
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	if _, _, ok := c.Get(); ok {
		t.Fatalf("new cache must be empty")
	}
	ts := time.Unix(100, 0)
	c.Set(makeArticles("a", "b"), ts)
	got, at, ok := c.Get()
	if !ok || len(got) != 2 || !at.Equal(ts) {
		t.Fatalf("unexpected get: %v %v %v", got, at, ok)
	}

	c.Invalidate()
	got, at, ok = c.Get()
	if !ok || len(got) != 2 {
		t.Fatalf("invalidate must keep contents")
	}
	if !at.IsZero() {
		t.Fatalf("invalidate must clear timestamp, got %v", at)
	}

	c.Set(makeArticles("c"), ts.Add(time.Minute))
	got, _, _ = c.Get()
	if len(got) != 1 || got[0].Title != "c" {
		t.Fatalf("set must replace wholesale: %v", got)
	}
}

func TestMemoryCacheCopies(t *testing.T) {
	c := NewMemoryCache()
	in := makeArticles("a")
	c.Set(in, time.Unix(1, 0))
	in[0].Title = "changed"
	got, _, _ := c.Get()
	if got[0].Title != "a" {
		t.Fatalf("cache aliased caller slice")
	}
}
