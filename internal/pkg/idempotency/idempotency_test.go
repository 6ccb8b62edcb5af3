package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTrackerForTest(t *testing.T) (*miniredis.Miniredis, *StateTracker) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return m, New(client)
}

func TestExecRunsOnce(t *testing.T) {
	// Arrange
	_, tracker := newTrackerForTest(t)
	ctx := context.Background()
	calls := 0
	fn := func(context.Context) error {
		calls++
		return nil
	}

	// Act
	first := tracker.Exec(ctx, "send-phone:k1", fn)
	second := tracker.Exec(ctx, "send-phone:k1", fn)

	// Assert
	if first != nil {
		t.Fatalf("first exec: %v", first)
	}
	if !errors.Is(second, ErrAlreadyCompleted) {
		t.Fatalf("second exec = %v, want ErrAlreadyCompleted", second)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestExecMarksFailure(t *testing.T) {
	_, tracker := newTrackerForTest(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := tracker.Exec(ctx, "k2", func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("exec = %v, want boom", err)
	}

	err = tracker.Exec(ctx, "k2", func(context.Context) error { return nil })
	if !errors.Is(err, ErrAlreadyFailed) {
		t.Fatalf("replay = %v, want ErrAlreadyFailed", err)
	}
}

func TestExecStateExpires(t *testing.T) {
	m, tracker := newTrackerForTest(t)
	ctx := context.Background()
	noop := func(context.Context) error { return nil }

	if err := tracker.Exec(ctx, "k3", noop, WithStateTTL(time.Second)); err != nil {
		t.Fatalf("exec: %v", err)
	}

	m.FastForward(2 * time.Second)

	if err := tracker.Exec(ctx, "k3", noop); err != nil {
		t.Fatalf("exec after ttl: %v", err)
	}
}

func TestAcquireInvalidState(t *testing.T) {
	m, tracker := newTrackerForTest(t)
	if err := m.Set("idempotency:k4", "garbage"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := tracker.Acquire(context.Background(), "k4", time.Minute); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("acquire = %v, want ErrInvalidState", err)
	}
}
