package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Masaru124/Attendance-app/config"
)

// Client wraps the Redis connection. It backs the verified-claims cache
// used by the authentication middleware and the rate limiter; callers must
// tolerate a nil *Client and skip both.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects to Redis and pings it.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── verified-claims cache ──

const claimsCachePrefix = "authcache:"

// GetClaims returns the cached claims JSON for a token digest, or "" on miss.
func (c *Client) GetClaims(ctx context.Context, digest string) (string, error) {
	val, err := c.rdb.Get(ctx, claimsCachePrefix+digest).Result()
	if err == goredis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// SetClaims caches the claims JSON for a token digest.
func (c *Client) SetClaims(ctx context.Context, digest, claimsJSON string, ttl time.Duration) error {
	return c.rdb.Set(ctx, claimsCachePrefix+digest, claimsJSON, ttl).Err()
}

// ── rate limiting ──

// CheckRateLimit reports whether another request is allowed under the
// fixed-window counter identified by key.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(limit), nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
