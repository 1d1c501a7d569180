// Package ratelimit throttles checkout submissions per client with a redis
// sliding window, so a stuck retry loop cannot hammer the payin provider.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/andeanlabs/usdc-storefront/internal/config"
	"github.com/redis/go-redis/v9"
)

type CheckoutLimiter struct {
	client *redis.Client
	config *config.Config
}

func NewCheckoutLimiter(cfg *config.Config) (*CheckoutLimiter, error) {

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConnect.Addr,
		Username: cfg.RedisConnect.Username,
		Password: cfg.RedisConnect.Password,
		DB:       cfg.RedisConnect.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &CheckoutLimiter{client: client, config: cfg}, nil
}

// NewCheckoutLimiterWithClient is used by tests to inject a mock client.
func NewCheckoutLimiterWithClient(client *redis.Client, cfg *config.Config) *CheckoutLimiter {
	return &CheckoutLimiter{client: client, config: cfg}
}

func (l *CheckoutLimiter) Close() error {
	return l.client.Close()
}

// Allow returns whether the client may submit, the attempts left, and the
// seconds to wait when it may not.
func (l *CheckoutLimiter) Allow(ctx context.Context, clientKey string) (bool, int, int, error) {

	key := fmt.Sprintf("checkout_attempts:%s", clientKey)

	now := time.Now().Unix()

	// only submissions inside the window count.
	windowStart := now - int64(l.config.RateConfig.WindowSize.Seconds())

	pipe := l.client.Pipeline()

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, l.config.RateConfig.WindowSize)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, 0, err
	}

	attempts := count.Val()
	remaining := l.config.RateConfig.MaxAttempts - attempts

	if attempts >= l.config.RateConfig.MaxAttempts {
		oldest, err := l.client.ZRange(ctx, key, 0, 0).Result()
		if err != nil || len(oldest) == 0 {
			return false, 0, 0, err
		}

		oldestTime, err := strconv.ParseInt(oldest[0], 10, 64)
		if err != nil {
			return false, 0, 0, err
		}

		retryAfter := int64(l.config.RateConfig.WindowSize.Seconds()) - (now - oldestTime)

		return false, 0, int(retryAfter), nil
	}

	return true, int(remaining), 0, nil
}
