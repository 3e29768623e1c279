package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const pendingValue = "\x00pending"

// RedisStore keeps keys in Redis so retries are recognised across instances.
type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, prefix: "idem:order:"}
}

func (s *RedisStore) Claim(ctx context.Context, key string) (string, bool, error) {
	k := s.prefix + key
	ok, err := s.rdb.SetNX(ctx, k, pendingValue, s.ttl).Result()
	if err != nil {
		return "", false, err
	}
	if ok {
		return "", true, nil
	}

	v, err := s.rdb.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; the caller may retry
		return "", false, ErrInProgress
	}
	if err != nil {
		return "", false, err
	}
	if v == pendingValue {
		return "", false, ErrInProgress
	}
	return v, false, nil
}

func (s *RedisStore) Complete(ctx context.Context, key, value string) error {
	return s.rdb.Set(ctx, s.prefix+key, value, s.ttl).Err()
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.prefix+key).Err()
}
