package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"persona-match/internal/domain"
)

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

type redisMatchCache struct {
	client redisKV
	ttl    time.Duration
	prefix string
}

func NewRedisMatchCache(client *redis.Client, ttl time.Duration) MatchCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisMatchCache{
		client: client,
		ttl:    ttl,
		prefix: "match:",
	}
}

func (c *redisMatchCache) genKey() string {
	return c.prefix + "gen"
}

func (c *redisMatchCache) Generation(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	gen, err := c.client.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *redisMatchCache) Get(ctx context.Context, gen int64, userID string) (domain.MatchReport, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	payload, err := c.client.Get(ctx, c.prefix+"report:"+reportKey(gen, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.MatchReport{}, false, nil
	}
	if err != nil {
		return domain.MatchReport{}, false, err
	}
	var report domain.MatchReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return domain.MatchReport{}, false, err
	}
	return report, true, nil
}

func (c *redisMatchCache) Set(ctx context.Context, gen int64, userID string, report domain.MatchReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return c.client.Set(ctx, c.prefix+"report:"+reportKey(gen, userID), payload, c.ttl).Err()
}

// Invalidate no borra claves: las de generaciones viejas expiran por TTL.
func (c *redisMatchCache) Invalidate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return c.client.Incr(ctx, c.genKey()).Err()
}
