package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "blacklist:"

// RevocationList stores revoked token IDs until their natural expiry.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisRevocationList keeps one key per revoked token ID.
type RedisRevocationList struct {
	client redis.Cmdable
}

// NewRedisRevocationList wraps a go-redis client.
func NewRedisRevocationList(client redis.Cmdable) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

func (r *RedisRevocationList) key(tokenID string) string {
	return revokedKeyPrefix + tokenID
}

// Revoke sets the key with the given TTL.
func (r *RedisRevocationList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(tokenID), "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token %s: %w", tokenID, err)
	}
	return nil
}

// IsRevoked reports whether the key exists.
func (r *RedisRevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("check revocation %s: %w", tokenID, err)
	}
	return n > 0, nil
}
