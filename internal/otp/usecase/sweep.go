package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gocare/internal/pkg/goerror"
)

// SweepExpired removes records past their expiry and returns how many were removed.
func (s *Usecase) SweepExpired(ctx context.Context) (int64, error) {
	ctx, span := s.startSpan(ctx, "SweepExpired")
	defer span.End()

	n, err := s.repoStore.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete expired otp records", "error", err)
		return 0, goerror.NewServer(err)
	}

	if n > 0 {
		slog.InfoContext(ctx, "expired otp records swept", "count", n)
	}

	return n, nil
}
