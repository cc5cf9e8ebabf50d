package summary

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-country-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStore shares the summary image between replicas under a single key.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Save(ctx context.Context, image []byte) error {
	if err := s.client.Set(ctx, s.key, image, 0).Err(); err != nil {
		return fmt.Errorf("failed to store summary image in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSummaryNotFound
		}
		return nil, fmt.Errorf("failed to load summary image from redis: %w", err)
	}
	return data, nil
}
