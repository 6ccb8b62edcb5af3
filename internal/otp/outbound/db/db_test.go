package db

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gocare/internal/otp/entity"
	"github.com/shandysiswandi/gocare/internal/pkg/goerror"
	"github.com/shandysiswandi/gocare/internal/pkg/instrument"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func newDBForTest(t *testing.T) *DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:17-alpine",
		postgres.WithDatabase("gocare"),
		postgres.WithUsername("gocare"),
		postgres.WithPassword("gocare"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	db := NewDB(pool, instrument.NewNoop())
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// schema is idempotent
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate again: %v", err)
	}

	return db
}

func record(id int64, now time.Time) entity.Record {
	return entity.Record{
		ID:         id,
		Identifier: "patient@clinic.in",
		Channel:    entity.ChannelEmail,
		Purpose:    entity.PurposeRegistration,
		CodeHash:   "deadbeef",
		ExpiresAt:  now.Add(10 * time.Minute),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestDBRecordLifecycle(t *testing.T) {
	// Arrange
	db := newDBForTest(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	// Act
	if err := db.ReplaceRecord(ctx, record(1, now)); err != nil {
		t.Fatalf("replace 1: %v", err)
	}
	if err := db.ReplaceRecord(ctx, record(2, now)); err != nil {
		t.Fatalf("replace 2: %v", err)
	}
	got, err := db.FindActiveRecord(ctx, "patient@clinic.in", entity.ChannelEmail, now)

	// Assert
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != 2 || got.Purpose != entity.PurposeRegistration || got.Attempts != 0 {
		t.Fatalf("record = %+v", got)
	}

	if err := db.IncrementAttempts(ctx, *got, now); err != nil {
		t.Fatalf("increment: %v", err)
	}
	got, err = db.FindActiveRecord(ctx, "patient@clinic.in", entity.ChannelEmail, now)
	if err != nil || got.Attempts != 1 {
		t.Fatalf("after increment = %+v, %v", got, err)
	}

	if err := db.DeleteRecord(ctx, *got); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := db.DeleteRecord(ctx, *got); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("second delete = %v, want ErrNotFound", err)
	}
	if err := db.IncrementAttempts(ctx, *got, now); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("increment after delete = %v, want ErrNotFound", err)
	}
}

func TestDBExpiry(t *testing.T) {
	db := newDBForTest(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := db.ReplaceRecord(ctx, record(10, now)); err != nil {
		t.Fatalf("replace: %v", err)
	}

	later := now.Add(11 * time.Minute)
	if _, err := db.FindActiveRecord(ctx, "patient@clinic.in", entity.ChannelEmail, later); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("find expired = %v, want ErrNotFound", err)
	}

	n, err := db.DeleteExpired(ctx, later)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Fatalf("swept = %d, want 1", n)
	}
}

func TestDBConcurrentReplaceLastWriterWins(t *testing.T) {
	// Arrange
	db := newDBForTest(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	if err := db.ReplaceRecord(ctx, record(20, now)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Act
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Go(func() {
			errs[i] = db.ReplaceRecord(ctx, record(int64(100+i), now))
		})
	}
	wg.Wait()

	// Assert
	for i, err := range errs {
		if err != nil {
			t.Fatalf("replace %d: %v", i, err)
		}
	}
	got, err := db.FindActiveRecord(ctx, "patient@clinic.in", entity.ChannelEmail, now)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID < 100 || got.ID >= 108 {
		t.Fatalf("record id = %d, want one of the concurrent writes", got.ID)
	}
}
