package otp

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
)

// RedisStore keeps challenges in redis under verify_otp_code:<number>
// with a TTL, so abandoned challenges evict themselves.
type RedisStore struct {
	Client *goredis.Client
}

func challengeKey(number string) string {
	return "verify_otp_code:" + number
}

func (s *RedisStore) Exists(ctx context.Context, number string) (bool, error) {
	n, err := s.Client.Exists(ctx, challengeKey(number)).Result()
	return n > 0, err
}

func (s *RedisStore) Create(ctx context.Context, number, code string) error {
	return s.Client.Set(ctx, challengeKey(number), code, challengeTTL).Err()
}

func (s *RedisStore) Validate(ctx context.Context, number, code string) (bool, error) {
	stored, err := s.Client.Get(ctx, challengeKey(number)).Result()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == code, nil
}

func (s *RedisStore) Delete(ctx context.Context, number string) error {
	return s.Client.Del(ctx, challengeKey(number)).Err()
}
