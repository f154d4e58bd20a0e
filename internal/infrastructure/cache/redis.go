package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aalekhpatel07/text-cleaner/internal/pkg/config"
	"github.com/redis/go-redis/v9"
)

// RedisCache stores cleaned text keyed by pipeline signature and input.
type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
	prefix string
	ttl    time.Duration
}

type Option func(*RedisCache)

// WithTTL sets the expiration for cached results. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(r *RedisCache) {
		r.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(r *RedisCache) {
		r.prefix = prefix
	}
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg *config.CacheConfig, logger *slog.Logger, opts ...Option) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("redis connection established",
		slog.String("addr", cfg.Addr()),
		slog.Int("db", cfg.DB),
	)

	opts = append([]Option{WithTTL(cfg.TTL), WithPrefix(cfg.Prefix)}, opts...)
	return NewFromClient(client, logger, opts...), nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client *redis.Client, logger *slog.Logger, opts ...Option) *RedisCache {
	r := &RedisCache{
		client: client,
		logger: logger,
		prefix: "textclean",
		ttl:    time.Hour,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key derives the cache key for text cleaned by the pipeline with the given
// signature.
func (r *RedisCache) Key(signature, text string) string {
	h := sha256.New()
	h.Write([]byte(signature))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return r.prefix + ":result:" + hex.EncodeToString(h.Sum(nil))
}

// Get returns a cached result. A miss is not an error.
func (r *RedisCache) Get(ctx context.Context, signature, text string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.Key(signature, text)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cached result: %w", err)
	}
	return val, true, nil
}

// Set stores a cleaned result.
func (r *RedisCache) Set(ctx context.Context, signature, text, cleaned string) error {
	if err := r.client.Set(ctx, r.Key(signature, text), cleaned, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache result: %w", err)
	}
	return nil
}

// Ping checks if Redis is alive
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Health returns health status of Redis
func (r *RedisCache) Health(ctx context.Context) map[string]any {
	if err := r.Ping(ctx); err != nil {
		return map[string]any{"status": "down", "error": err.Error()}
	}
	stats := r.client.PoolStats()
	return map[string]any{
		"status":      "up",
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
	}
}

// Close closes the Redis connection
func (r *RedisCache) Close() error {
	r.logger.Info("closing redis connection")
	return r.client.Close()
}
