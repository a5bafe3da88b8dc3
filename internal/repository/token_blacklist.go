package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist stores revoked access token ids in Redis until they
// would have expired anyway. A nil receiver or client degrades to a
// no-op, which keeps tests free of a Redis dependency.
type TokenBlacklist struct {
	client *redis.Client
}

func NewTokenBlacklist(redisAddr, password string) (*TokenBlacklist, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         redisAddr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &TokenBlacklist{client: rdb}, nil
}

// Revoke marks the token id as revoked for the remaining token lifetime.
func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if b == nil || b.client == nil {
		return nil
	}
	if ttl <= 0 {
		// Already expired, nothing to store.
		return nil
	}
	key := fmt.Sprintf("revoked:jti:%s", jti)
	return b.client.Set(ctx, key, "1", ttl).Err()
}

// IsRevoked reports whether the token id has been revoked.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if b == nil || b.client == nil {
		return false, nil
	}
	key := fmt.Sprintf("revoked:jti:%s", jti)
	if err := b.client.Get(ctx, key).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
