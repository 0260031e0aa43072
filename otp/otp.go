package otp

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/salamatlab/clinic-booking/models"
	"github.com/salamatlab/clinic-booking/redis"
)

// TTL for redis-backed challenges. The durable DB fallback has no expiry;
// its rows live until consumed.
const challengeTTL = 2 * time.Minute

// ErrInvalidCode is returned for a wrong code and for a missing challenge
// alike, so callers cannot probe which numbers have a pending challenge.
var ErrInvalidCode = errors.New("invalid otp code")

// Store holds at most one pending challenge per mobile number.
type Store interface {
	Exists(ctx context.Context, number string) (bool, error)
	Create(ctx context.Context, number, code string) error
	Validate(ctx context.Context, number, code string) (bool, error)
	Delete(ctx context.Context, number string) error
}

// StoreFor picks the challenge backend from the use_redis_cache setting.
// The flag is read once here so a single request never mixes backends.
// No row, or a false value, selects the durable DB backend.
func StoreFor(db *gorm.DB) Store {
	if models.GetBoolSetting(db, models.SettingUseRedisCache, false) {
		return &RedisStore{Client: redis.Client}
	}
	return &DBStore{DB: db}
}

// NewChallenge stores code for number unless a challenge is already
// pending, in which case nothing changes and created is false. That makes
// repeated send-code requests a no-op instead of a duplicate SMS.
func NewChallenge(ctx context.Context, store Store, number, code string) (created bool, err error) {
	exists, err := store.Exists(ctx, number)
	if err != nil || exists {
		return false, err
	}
	if err := store.Create(ctx, number, code); err != nil {
		return false, err
	}
	return true, nil
}

// Verify checks code against the pending challenge for number and
// consumes the challenge on success. A wrong code leaves the challenge in
// place for another attempt.
func Verify(ctx context.Context, store Store, number, code string) error {
	ok, err := store.Validate(ctx, number, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCode
	}
	return store.Delete(ctx, number)
}
