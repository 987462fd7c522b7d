package memoize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vyrodovalexey/decorate/observability"
	"github.com/vyrodovalexey/decorate/retry"
)

// RedisConfig contains configuration for the Redis-backed store.
type RedisConfig struct {
	// URL is the Redis connection URL, e.g. redis://localhost:6379/0.
	URL string

	// KeyPrefix is prepended to every store key. Default "memoize:".
	KeyPrefix string

	// TTL is the expiration applied to stored entries.
	// Zero means entries never expire.
	TTL time.Duration
}

// redisStore implements Store on top of Redis.
type redisStore struct {
	logger    observability.Logger
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// redisRetryConfig returns the retry configuration for Redis operations.
func redisRetryConfig() *retry.Config {
	return &retry.Config{
		MaxTries: 3,
		Delay:    100 * time.Millisecond,
	}
}

// isRetryableRedisError checks if the error is retryable (network/connection errors).
func isRetryableRedisError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// NewRedisStore creates a Redis-backed Store. It fails fast when the URL is
// missing, malformed, or the server is unreachable.
func NewRedisStore(cfg *RedisConfig, logger observability.Logger) (Store, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("%w: redis URL is required", ErrInvalidStoreConfig)
	}
	if logger == nil {
		logger = observability.NopLogger()
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid redis URL: %s", ErrInvalidStoreConfig, err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("memoize: redis connection failed: %w", err)
	}

	keyPrefix := cfg.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "memoize:"
	}

	logger.Info("memoize redis store initialized",
		observability.String("keyPrefix", keyPrefix),
		observability.Duration("ttl", cfg.TTL))

	return &redisStore{
		logger:    logger,
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       cfg.TTL,
	}, nil
}

// Get retrieves a value from Redis. Returns ErrNoEntry on a miss.
func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	fullKey := s.keyPrefix + key

	var result []byte
	err := retry.Do(ctx, redisRetryConfig(), func() error {
		val, getErr := s.client.Get(ctx, fullKey).Bytes()
		if getErr == nil {
			result = val
		}
		return getErr
	}, &retry.Options{
		ShouldRetry: isRetryableRedisError,
		OnRetry: func(attempt int, err error, _ time.Duration) {
			s.logger.Debug("retrying redis get",
				observability.String("key", fullKey),
				observability.Int("attempt", attempt),
				observability.Error(err))
		},
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoEntry
		}
		return nil, err
	}

	return result, nil
}

// Set stores a value in Redis with the configured TTL.
func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	fullKey := s.keyPrefix + key

	return retry.Do(ctx, redisRetryConfig(), func() error {
		return s.client.Set(ctx, fullKey, value, s.ttl).Err()
	}, &retry.Options{
		ShouldRetry: isRetryableRedisError,
		OnRetry: func(attempt int, err error, _ time.Duration) {
			s.logger.Debug("retrying redis set",
				observability.String("key", fullKey),
				observability.Int("attempt", attempt),
				observability.Error(err))
		},
	})
}

// Close closes the Redis connection.
func (s *redisStore) Close() error {
	return s.client.Close()
}
