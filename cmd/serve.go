package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"news-carousel/internal/ai"
	"news-carousel/internal/display"
	"news-carousel/internal/redisclient"
	"news-carousel/internal/storage"
	"news-carousel/worker"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Fetch on schedule and rotate articles on screen",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		f, err := newFetcher(cfg.NewsAPI)
		if err != nil {
			return err
		}
		payload, err := cfg.NewsAPI.Payload()
		if err != nil {
			return err
		}
		drawInterval, err := time.ParseDuration(cfg.Display.DrawInterval)
		if err != nil {
			return fmt.Errorf("invalid display.draw_interval: %w", err)
		}
		if _, err := cron.ParseStandard(cfg.NewsAPI.Schedule); err != nil {
			return fmt.Errorf("invalid newsapi.schedule: %w", err)
		}

		var summarizer ai.Summarizer
		if cfg.OpenAI.APIKey != "" {
			summarizer = ai.NewOpenAI(ai.Config{APIKey: cfg.OpenAI.APIKey, Model: cfg.OpenAI.Model, BaseURL: cfg.OpenAI.BaseURL})
		}

		carousel := &worker.Carousel{
			Out:      cmd.OutOrStdout(),
			Interval: drawInterval,
			Options: display.Options{
				Header:     cfg.Display.Header,
				TimeFormat: cfg.Display.TimeFormat,
				Width:      cfg.Display.Width,
				ShowLink:   cfg.Display.ShowLink,
			},
			Summarizer: summarizer,
			Language:   cfg.Display.Language,
		}
		refresher := &worker.Refresher{
			Fetcher:  f,
			Payload:  payload,
			Schedule: cfg.NewsAPI.Schedule,
			Sinks:    []worker.Sink{carousel},
		}

		// Redis is optional: it only announces updates to other displays.
		if cfg.Redis.Addr != "" {
			rdb := redisclient.New(cfg.Redis)
			defer rdb.Close()
			refresher.Publisher = storage.NewRedisStore(rdb, cfg.Redis.Channel, cfg.Redis.Snapshot)
			slog.Info("serve: publishing updates to redis", "addr", cfg.Redis.Addr, "channel", cfg.Redis.Channel)
		}

		mgr := worker.NewManager(refresher, carousel)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			slog.Info("serve: received signal, shutting down", "signal", s.String())
			cancel()
		}()

		slog.Info("serve: starting", "choice", cfg.NewsAPI.Choice, "page_size", cfg.NewsAPI.PageSize, "schedule", cfg.NewsAPI.Schedule, "draw_interval", drawInterval)
		return mgr.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
