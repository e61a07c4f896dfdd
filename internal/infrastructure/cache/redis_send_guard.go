package cache

import (
	"context"
	"fmt"
	"time"

	appchase "github.com/meda/backend/internal/application/chase"
	"github.com/meda/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// RedisSendGuard implements SendGuard using Redis SETNX. Suitable for
// deployments where multiple instances share the chase queue.
type RedisSendGuard struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSendGuard creates a Redis-backed send guard and verifies the
// connection.
func NewRedisSendGuard(cfg config.RedisConfig) (*RedisSendGuard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSendGuard{
		client:    client,
		keyPrefix: "chase:send:",
	}, nil
}

// NewRedisSendGuardWithClient creates a guard with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisSendGuardWithClient(client *redis.Client, keyPrefix string) *RedisSendGuard {
	if keyPrefix == "" {
		keyPrefix = "chase:send:"
	}
	return &RedisSendGuard{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Claim takes the token if it is free. SETNX with TTL makes the claim atomic
// across instances.
func (g *RedisSendGuard) Claim(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	claimed, err := g.client.SetNX(ctx, g.keyPrefix+token, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim send token: %w", err)
	}
	return claimed, nil
}

// Release frees a claimed token so a retry can claim it again
func (g *RedisSendGuard) Release(ctx context.Context, token string) error {
	if err := g.client.Del(ctx, g.keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to release send token: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (g *RedisSendGuard) Close() error {
	return g.client.Close()
}

// Ensure RedisSendGuard implements SendGuard
var _ appchase.SendGuard = (*RedisSendGuard)(nil)
