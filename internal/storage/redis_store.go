package storage

import (
	"context"
	"encoding/json"
	"time"

	"news-carousel/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisStore announces article updates to display clients. It is a
// notification bus, not the fetch cache: the fetcher never reads from it.
type RedisStore struct {
	rdb       *redis.Client
	channel   string
	latestKey string
}

func NewRedisStore(rdb *redis.Client, channel, latestKey string) *RedisStore {
	return &RedisStore{rdb: rdb, channel: channel, latestKey: latestKey}
}

// PublishArticles stores the list under the latest key for late joiners and
// publishes it on the update channel.
func (s *RedisStore) PublishArticles(ctx context.Context, articles []model.Article, ttl time.Duration) error {
	if articles == nil {
		articles = []model.Article{}
	}
	b, err := json.Marshal(model.Update{UpdatedAt: time.Now().UTC(), Articles: articles})
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.latestKey, b, ttl).Err(); err != nil {
		return err
	}
	return s.rdb.Publish(ctx, s.channel, b).Err()
}

// Latest returns the last published update, if any.
func (s *RedisStore) Latest(ctx context.Context) (model.Update, bool, error) {
	var u model.Update
	b, err := s.rdb.Get(ctx, s.latestKey).Bytes()
	if err == redis.Nil {
		return u, false, nil
	}
	if err != nil {
		return u, false, err
	}
	if err := json.Unmarshal(b, &u); err != nil {
		return u, false, err
	}
	return u, true, nil
}

// Watch calls fn for every update published until ctx is done.
func (s *RedisStore) Watch(ctx context.Context, fn func(model.Update)) error {
	sub := s.rdb.Subscribe(ctx, s.channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var u model.Update
			if err := json.Unmarshal([]byte(msg.Payload), &u); err != nil {
				continue
			}
			fn(u)
		}
	}
}
