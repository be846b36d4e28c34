package caching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CacheService wraps Redis for the only cross-request state the API keeps,
// fixed-window rate limiting. Request responses are always computed from the
// database.
type CacheService interface {
	IsRateLimited(ctx context.Context, key string, limit int) (bool, error)
	IncrementRateLimit(ctx context.Context, key string, window time.Duration) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("redis ping failed on initialization")
	}

	return &redisCacheService{client: client}
}

func rateLimitKey(key string) string {
	return fmt.Sprintf("taskhive:ratelimit:%s", key)
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int) (bool, error) {
	count, err := r.client.Get(ctx, rateLimitKey(key)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return count >= limit, nil
}

func (r *redisCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	k := rateLimitKey(key)
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, window)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
