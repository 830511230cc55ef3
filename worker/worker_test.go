package worker

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"news-carousel/internal/display"
	"news-carousel/internal/fetcher"
	"news-carousel/internal/model"
)

type stubFetcher struct {
	articles []model.Article
	err      error
	calls    int
	last     fetcher.RequestConfig
}

func (s *stubFetcher) Fetch(ctx context.Context, cfg fetcher.RequestConfig) ([]model.Article, error) {
	s.calls++
	s.last = cfg
	return s.articles, s.err
}

type stubPublisher struct {
	got []model.Article
	ttl time.Duration
}

func (p *stubPublisher) PublishArticles(ctx context.Context, articles []model.Article, ttl time.Duration) error {
	p.got = articles
	p.ttl = ttl
	return nil
}

type stubSink struct{ got [][]model.Article }

func (s *stubSink) Update(a []model.Article) { s.got = append(s.got, a) }

func payload() map[string]any {
	return map[string]any{
		"apiKey":        "k",
		"choice":        "headlines",
		"query":         map[string]any{"country": "us"},
		"pageSize":      5,
		"fetchInterval": int64(60000),
	}
}

func TestRefresherRunOnce(t *testing.T) {
	f := &stubFetcher{articles: []model.Article{{Title: "a"}, {Title: "b"}}}
	pub := &stubPublisher{}
	sink := &stubSink{}
	r := &Refresher{Fetcher: f, Payload: payload(), Publisher: pub, Sinks: []Sink{sink}}

	if !r.RunOnce(context.Background()) {
		t.Fatalf("expected success")
	}
	if f.last.Count != 5 || f.last.Mode != fetcher.ModeHeadlines {
		t.Errorf("unexpected request: %+v", f.last)
	}
	if len(pub.got) != 2 || pub.ttl != 2*time.Minute {
		t.Errorf("unexpected publish: %d articles ttl=%v", len(pub.got), pub.ttl)
	}
	if len(sink.got) != 1 || len(sink.got[0]) != 2 {
		t.Errorf("sink not updated: %v", sink.got)
	}
}

func TestRefresherFailureKeepsSinks(t *testing.T) {
	f := &stubFetcher{err: fetcher.ErrUpstreamRequestFailed}
	sink := &stubSink{}
	r := &Refresher{Fetcher: f, Payload: payload(), Sinks: []Sink{sink}}
	if r.RunOnce(context.Background()) {
		t.Fatalf("expected failure")
	}
	if len(sink.got) != 0 {
		t.Fatalf("sink must not be updated on failure")
	}
}

func TestRefresherInvalidPayload(t *testing.T) {
	f := &stubFetcher{}
	r := &Refresher{Fetcher: f, Payload: map[string]any{"choice": "headlines"}}
	if r.RunOnce(context.Background()) {
		t.Fatalf("expected failure")
	}
	if f.calls != 0 {
		t.Fatalf("fetcher must not be called for an invalid payload")
	}
}

func TestRefresherStartStops(t *testing.T) {
	f := &stubFetcher{}
	r := &Refresher{Fetcher: f, Payload: payload(), Schedule: "@every 1h"}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("refresher did not stop")
	}
	if f.calls != 1 {
		t.Fatalf("expected the initial run, got %d calls", f.calls)
	}
}

func TestRefresherBadSchedule(t *testing.T) {
	r := &Refresher{Fetcher: &stubFetcher{}, Payload: payload(), Schedule: "every now and then"}
	if err := r.Start(context.Background()); err == nil {
		t.Fatalf("expected schedule parse error")
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func fixedNow() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

func TestCarouselRotates(t *testing.T) {
	out := &syncBuffer{}
	c := &Carousel{Out: out, Options: display.Options{Header: "News"}, Now: fixedNow}
	c.Update([]model.Article{{Title: "first"}, {Title: "second"}})
	c.Draw(context.Background())
	c.Draw(context.Background())
	c.Draw(context.Background())

	s := out.String()
	if strings.Count(s, "first") != 2 || strings.Count(s, "second") != 1 {
		t.Fatalf("unexpected rotation:\n%s", s)
	}
	if !strings.Contains(s, "[1/2]") || !strings.Contains(s, "[2/2]") {
		t.Fatalf("missing position markers:\n%s", s)
	}
}

func TestCarouselShrinkingListResetsIndex(t *testing.T) {
	out := &syncBuffer{}
	c := &Carousel{Out: out, Now: fixedNow}
	c.Update([]model.Article{{Title: "a"}, {Title: "b"}, {Title: "c"}})
	c.Draw(context.Background())
	c.Draw(context.Background())
	c.Draw(context.Background())
	c.Update([]model.Article{{Title: "z"}})
	c.Draw(context.Background())
	if !strings.HasSuffix(strings.TrimSpace(out.String()), "z") {
		t.Fatalf("expected z after shrink:\n%s", out.String())
	}
}

func TestCarouselEmptyList(t *testing.T) {
	out := &syncBuffer{}
	c := &Carousel{Out: out, Now: fixedNow}
	c.Update(nil)
	if out.String() != "" {
		t.Fatalf("Update must not draw:\n%s", out.String())
	}
	c.Draw(context.Background())
	if !strings.Contains(out.String(), "No articles to show.") {
		t.Fatalf("expected placeholder:\n%s", out.String())
	}
}

func TestCarouselStartDrawsFirstUpdatePromptly(t *testing.T) {
	out := &syncBuffer{}
	c := &Carousel{Out: out, Interval: time.Hour, Now: fixedNow}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	c.Update([]model.Article{{Title: "breaking"}})
	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), "breaking") {
		if time.Now().After(deadline) {
			t.Fatalf("first update was not drawn")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Start: %v", err)
	}
}

type blockingSummarizer struct{ release chan struct{} }

func (s *blockingSummarizer) SummarizeArticle(ctx context.Context, title, content, language string) (string, error) {
	select {
	case <-s.release:
	case <-ctx.Done():
	}
	return "", nil
}

func TestCarouselUpdateDoesNotBlockOnSummarizer(t *testing.T) {
	sum := &blockingSummarizer{release: make(chan struct{})}
	defer close(sum.release)
	c := &Carousel{Out: &syncBuffer{}, Interval: time.Hour, Summarizer: sum, Now: fixedNow}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Start(ctx)

	done := make(chan struct{})
	go func() {
		c.Update([]model.Article{{Title: "slow", URL: "https://x/slow"}})
		c.Update([]model.Article{{Title: "slower", URL: "https://x/slower"}})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Update blocked on drawing")
	}
}

type countingSummarizer struct{ calls int }

func (s *countingSummarizer) SummarizeArticle(ctx context.Context, title, content, language string) (string, error) {
	s.calls++
	if title == "broken" {
		return "", errors.New("boom")
	}
	return "tl;dr " + title, nil
}

func TestCarouselMemoizesSummaries(t *testing.T) {
	out := &syncBuffer{}
	sum := &countingSummarizer{}
	c := &Carousel{Out: out, Summarizer: sum, Now: fixedNow}
	c.Update([]model.Article{{Title: "one", URL: "https://x/1"}})
	c.Draw(context.Background())
	c.Draw(context.Background())
	if sum.calls != 1 {
		t.Fatalf("expected one summarizer call, got %d", sum.calls)
	}
	if !strings.Contains(out.String(), "> tl;dr one") {
		t.Fatalf("summary not rendered:\n%s", out.String())
	}
}

type blockingWorker struct{ started chan struct{} }

func (w *blockingWorker) Start(ctx context.Context) error {
	close(w.started)
	<-ctx.Done()
	return nil
}

func TestManagerReturnsWorkerStartError(t *testing.T) {
	r := &Refresher{Fetcher: &stubFetcher{}, Payload: payload(), Schedule: "every now and then"}
	w := &blockingWorker{started: make(chan struct{})}
	done := make(chan error, 1)
	go func() { done <- NewManager(r, w).Start(context.Background()) }()
	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected the schedule error")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("manager kept running after a worker failed")
	}
}

func TestManagerStopsOnCancel(t *testing.T) {
	w := &blockingWorker{started: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewManager(w).Start(ctx) }()
	<-w.started
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Manager.Start: %v", err)
	}
}
