package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gocare/internal/otp/entity"
	"github.com/shandysiswandi/gocare/internal/pkg/goerror"
	"github.com/shandysiswandi/gocare/internal/pkg/instrument"
)

func newCacheForTest(t *testing.T) (*miniredis.Miniredis, *Cache) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return m, NewCache(client, instrument.NewNoop())
}

func newRecord(id int64, now time.Time) entity.Record {
	return entity.Record{
		ID:         id,
		Identifier: "9876543210",
		Channel:    entity.ChannelPhone,
		Purpose:    entity.PurposeLogin,
		CodeHash:   "abc123",
		ExpiresAt:  now.Add(10 * time.Minute),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestCacheReplaceAndFind(t *testing.T) {
	// Arrange
	m, c := newCacheForTest(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	// Act
	if err := c.ReplaceRecord(ctx, newRecord(1, now)); err != nil {
		t.Fatalf("replace 1: %v", err)
	}
	if err := c.ReplaceRecord(ctx, newRecord(2, now)); err != nil {
		t.Fatalf("replace 2: %v", err)
	}
	got, err := c.FindActiveRecord(ctx, "9876543210", entity.ChannelPhone, now)

	// Assert
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != 2 || got.Purpose != entity.PurposeLogin || got.CodeHash != "abc123" {
		t.Fatalf("record = %+v", got)
	}
	if !got.ExpiresAt.Equal(now.Add(10 * time.Minute)) {
		t.Fatalf("expires_at = %v", got.ExpiresAt)
	}
	if ttl := m.TTL("otp:phone:9876543210"); ttl <= 0 {
		t.Fatalf("key must carry an expiry, ttl = %v", ttl)
	}
	if _, err := c.FindActiveRecord(ctx, "9876543210", entity.ChannelEmail, now); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("other channel = %v, want ErrNotFound", err)
	}
}

func TestCacheFindExpired(t *testing.T) {
	_, c := newCacheForTest(t)
	ctx := context.Background()
	now := time.Now()

	if err := c.ReplaceRecord(ctx, newRecord(1, now)); err != nil {
		t.Fatalf("replace: %v", err)
	}

	_, err := c.FindActiveRecord(ctx, "9876543210", entity.ChannelPhone, now.Add(11*time.Minute))
	if !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("find = %v, want ErrNotFound", err)
	}
}

func TestCacheIncrementAttempts(t *testing.T) {
	_, c := newCacheForTest(t)
	ctx := context.Background()
	now := time.Now()
	rec := newRecord(7, now)

	if err := c.ReplaceRecord(ctx, rec); err != nil {
		t.Fatalf("replace: %v", err)
	}
	for range 2 {
		if err := c.IncrementAttempts(ctx, rec, now); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}

	got, err := c.FindActiveRecord(ctx, rec.Identifier, rec.Channel, now)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Attempts != 2 {
		t.Fatalf("attempts = %d, want 2", got.Attempts)
	}

	stale := rec
	stale.ID = 6
	if err := c.IncrementAttempts(ctx, stale, now); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("stale increment = %v, want ErrNotFound", err)
	}
}

func TestCacheDeleteRecord(t *testing.T) {
	_, c := newCacheForTest(t)
	ctx := context.Background()
	now := time.Now()
	rec := newRecord(3, now)

	if err := c.ReplaceRecord(ctx, rec); err != nil {
		t.Fatalf("replace: %v", err)
	}

	stale := rec
	stale.ID = 2
	if err := c.DeleteRecord(ctx, stale); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("stale delete = %v, want ErrNotFound", err)
	}
	if err := c.DeleteRecord(ctx, rec); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.FindActiveRecord(ctx, rec.Identifier, rec.Channel, now); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("find after delete = %v", err)
	}
}

func TestCacheCooldown(t *testing.T) {
	m, c := newCacheForTest(t)
	ctx := context.Background()

	first, err := c.AcquireCooldown(ctx, "a@b.co", entity.ChannelEmail, 30*time.Second)
	if err != nil || !first {
		t.Fatalf("first acquire = %v, %v", first, err)
	}
	second, err := c.AcquireCooldown(ctx, "a@b.co", entity.ChannelEmail, 30*time.Second)
	if err != nil || second {
		t.Fatalf("second acquire = %v, %v", second, err)
	}

	m.FastForward(31 * time.Second)

	third, err := c.AcquireCooldown(ctx, "a@b.co", entity.ChannelEmail, 30*time.Second)
	if err != nil || !third {
		t.Fatalf("acquire after window = %v, %v", third, err)
	}
}

func TestCacheReleaseCooldown(t *testing.T) {
	// Arrange
	_, c := newCacheForTest(t)
	ctx := context.Background()
	if ok, err := c.AcquireCooldown(ctx, "9876543210", entity.ChannelPhone, time.Minute); err != nil || !ok {
		t.Fatalf("acquire = %v, %v", ok, err)
	}

	// Act
	err := c.ReleaseCooldown(ctx, "9876543210", entity.ChannelPhone)

	// Assert
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, err := c.AcquireCooldown(ctx, "9876543210", entity.ChannelPhone, time.Minute); err != nil || !ok {
		t.Fatalf("acquire after release = %v, %v", ok, err)
	}
}
