package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTokenRepo keeps the valid refresh-token set in Redis. A key exists
// while its token is honored; the TTL matches the token expiry so entries
// disappear on their own.
type RedisTokenRepo struct {
	client *redis.Client
}

func NewRedisTokenRepo(client *redis.Client) *RedisTokenRepo {
	return &RedisTokenRepo{
		client: client,
	}
}

func (r *RedisTokenRepo) Register(ctx context.Context, jti string, expiresAt time.Time) error {
	return r.client.Set(ctx, key(jti), "1", safeTTL(expiresAt)).Err()
}

func (r *RedisTokenRepo) IsValid(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, key(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisTokenRepo) Revoke(ctx context.Context, jti string) error {
	return r.client.Del(ctx, key(jti)).Err()
}

func key(jti string) string {
	return "rt:" + jti
}

func safeTTL(exp time.Time) time.Duration {
	ttl := time.Until(exp)
	if ttl <= 0 {
		// minimal TTL so the key still disappears
		return time.Second
	}
	return ttl
}
