package otp

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/salamatlab/clinic-booking/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.OTPManager{}, &models.Setting{}))
	return db
}

func TestChallengeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := &DBStore{DB: testDB(t)}

	created, err := NewChallenge(ctx, store, "09121234567", "12345")
	require.NoError(t, err)
	require.True(t, created)

	exists, err := store.Exists(ctx, "09121234567")
	require.NoError(t, err)
	require.True(t, exists)

	// A second send request while pending is a no-op.
	created, err = NewChallenge(ctx, store, "09121234567", "99999")
	require.NoError(t, err)
	require.False(t, created)

	// The wrong code is rejected and the challenge survives.
	require.ErrorIs(t, Verify(ctx, store, "09121234567", "00000"), ErrInvalidCode)
	exists, err = store.Exists(ctx, "09121234567")
	require.NoError(t, err)
	require.True(t, exists)

	// The original code, not the ignored resend attempt, verifies and
	// consumes the challenge.
	require.NoError(t, Verify(ctx, store, "09121234567", "12345"))
	exists, err = store.Exists(ctx, "09121234567")
	require.NoError(t, err)
	require.False(t, exists)

	// Single use: the consumed code no longer verifies.
	require.ErrorIs(t, Verify(ctx, store, "09121234567", "12345"), ErrInvalidCode)
}

func TestVerifyWithoutChallenge(t *testing.T) {
	store := &DBStore{DB: testDB(t)}
	// Indistinguishable from a wrong code on purpose.
	require.ErrorIs(t, Verify(context.Background(), store, "09120000000", "12345"), ErrInvalidCode)
}

func TestChallengesAreScopedToNumber(t *testing.T) {
	ctx := context.Background()
	store := &DBStore{DB: testDB(t)}

	_, err := NewChallenge(ctx, store, "09121111111", "11111")
	require.NoError(t, err)
	_, err = NewChallenge(ctx, store, "09122222222", "22222")
	require.NoError(t, err)

	require.ErrorIs(t, Verify(ctx, store, "09121111111", "22222"), ErrInvalidCode)
	require.NoError(t, Verify(ctx, store, "09122222222", "22222"))

	exists, err := store.Exists(ctx, "09121111111")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestStoreForReadsSetting(t *testing.T) {
	db := testDB(t)

	// No setting row selects the durable fallback.
	_, ok := StoreFor(db).(*DBStore)
	require.True(t, ok)

	require.NoError(t, db.Create(&models.Setting{
		Type:  models.SettingUseRedisCache,
		Value: "true",
	}).Error)
	_, ok = StoreFor(db).(*RedisStore)
	require.True(t, ok)

	// An unparsable value falls back to the default backend.
	require.NoError(t, db.Model(&models.Setting{}).
		Where("type = ?", models.SettingUseRedisCache).
		Update("value", "maybe").Error)
	_, ok = StoreFor(db).(*DBStore)
	require.True(t, ok)
}
