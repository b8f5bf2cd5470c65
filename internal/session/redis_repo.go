package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "movers:session:"

// RedisRepo stores sessions as JSON values that expire after idleTTL.
// Expiry is handled by redis, so DeleteIdle is a no-op.
type RedisRepo struct {
	client  *redis.Client
	idleTTL time.Duration
}

func NewRedisRepo(client *redis.Client, idleTTL time.Duration) *RedisRepo {
	return &RedisRepo{client: client, idleTTL: idleTTL}
}

func redisKey(key string) string {
	return redisKeyPrefix + key
}

func (r *RedisRepo) Load(ctx context.Context, key string) (Session, error) {
	raw, err := r.client.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Empty(), ErrNotFound
		}
		return Empty(), fmt.Errorf("failed to load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Empty(), fmt.Errorf("failed to decode session: %w", err)
	}
	return s, nil
}

func (r *RedisRepo) Save(ctx context.Context, key string, s Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, redisKey(key), raw, r.idleTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisRepo) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *RedisRepo) Touch(ctx context.Context, key string) error {
	ok, err := r.client.Expire(ctx, redisKey(key), r.idleTTL).Result()
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (r *RedisRepo) DeleteIdle(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

func (r *RedisRepo) Count(ctx context.Context) (int, error) {
	n := 0
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}
