package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"news-carousel/internal/model"
	"news-carousel/internal/redisclient"
	"news-carousel/internal/storage"

	"github.com/spf13/cobra"
)

var errRedisDisabled = errors.New("redis is not configured: set redis.addr in config.yaml")

// watchCmd prints the latest published update and every update after it.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print article updates published by serve",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg.Redis.Addr == "" {
			return errRedisDisabled
		}
		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()
		store := storage.NewRedisStore(rdb, cfg.Redis.Channel, cfg.Redis.Snapshot)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		show := func(u model.Update) {
			fmt.Fprintf(out, "%s: %d articles\n", u.UpdatedAt.Format("2006-01-02 15:04:05"), len(u.Articles))
			for i, a := range u.Articles {
				fmt.Fprintf(out, "  %2d. %s (%s)\n", i+1, a.Title, a.Source)
			}
		}
		if u, ok, err := store.Latest(ctx); err != nil {
			return err
		} else if ok {
			show(u)
		}
		return store.Watch(ctx, show)
	},
}

func init() {
	redisCmd.AddCommand(watchCmd)
}
