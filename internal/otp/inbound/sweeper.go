package inbound

import (
	"context"
	"log/slog"
	"time"
)

type sweeperUC interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// Sweeper periodically removes expired records. Verification never relies on
// it; expired records are already rejected at read time.
type Sweeper struct {
	uc       sweeperUC
	interval time.Duration
}

func NewSweeper(uc sweeperUC, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{uc: uc, interval: interval}
}

// Run sweeps on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "otp sweeper stopped")
			return nil
		case <-ticker.C:
			// errors are logged by the usecase; the next tick retries
			_, _ = s.uc.SweepExpired(ctx)
		}
	}
}
