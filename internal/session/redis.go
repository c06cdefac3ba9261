package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Redis is a Registry shared by every API instance. Keys expire with the session.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

var _ Registry = (*Redis)(nil)

func (r *Redis) Create(ctx context.Context, sid, uid string, ttl time.Duration) error {
	return r.client.Set(ctx, keyPrefix+sid, uid, ttl).Err()
}

func (r *Redis) Active(ctx context.Context, sid string) (string, error) {
	uid, err := r.client.Get(ctx, keyPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrRevoked
	}
	if err != nil {
		return "", err
	}
	return uid, nil
}

func (r *Redis) Revoke(ctx context.Context, sid string) error {
	return r.client.Del(ctx, keyPrefix+sid).Err()
}
