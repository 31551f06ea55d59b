package counter

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rd-risk-mcp-server/internal/domain"
)

// redisClient is the subset of the go-redis API the store uses
type redisClient interface {
	HIncrBy(ctx context.Context, key, field string, incr int64) *redis.IntCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStore keeps the counts in one Redis hash, one field per tier. HINCRBY is atomic on the server.
type RedisStore struct {
	client redisClient
	key    string
}

var _ domain.CounterStore = (*RedisStore)(nil)

// NewRedisStore connects to Redis and returns a store writing under keyPrefix.
func NewRedisStore(ctx context.Context, cfg domain.RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisStore(client, cfg.KeyPrefix), nil
}

func newRedisStore(client redisClient, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "rdrisk:"
	}
	return &RedisStore{
		client: client,
		key:    keyPrefix + "assessments",
	}
}

// Increment adds one completed assessment for tier.
func (s *RedisStore) Increment(ctx context.Context, tier domain.Tier) error {
	if err := validTier(tier); err != nil {
		return err
	}
	if err := s.client.HIncrBy(ctx, s.key, string(tier), 1).Err(); err != nil {
		return fmt.Errorf("failed to increment counter: %w", err)
	}
	return nil
}

// Totals returns the totals overall and per tier.
func (s *RedisStore) Totals(ctx context.Context) (*domain.CounterTotals, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read counters: %w", err)
	}

	totals := newTotals()
	for tier, raw := range fields {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt counter %s=%q: %w", tier, raw, err)
		}
		addTier(totals, tier, n)
	}
	return totals, nil
}

// Ping verifies Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
