package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gocare/internal/otp/entity"
	"github.com/shandysiswandi/gocare/internal/pkg/goerror"
)

type VerifyInput struct {
	Identifier string         `validate:"required"`
	Code       string         `validate:"required"`
	Channel    entity.Channel `validate:"required,oneof=phone email"`
}

type VerifyOutput struct {
	Valid  bool
	Reason entity.Reason
}

// Verify checks code against the active record of the identifier and channel.
// A failed check is reported through VerifyOutput; only store failures are errors.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	now := s.clock.Now()
	rec, err := s.repoStore.FindActiveRecord(ctx, in.Identifier, in.Channel, now)
	if errors.Is(err, goerror.ErrNotFound) {
		return &VerifyOutput{Reason: entity.ReasonExpiredOrNotFound}, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find otp record", "channel", in.Channel, "error", err)
		return nil, goerror.NewServer(err)
	}

	// the ceiling is checked before the code so a correct code cannot rescue
	// an exhausted record
	if rec.Attempts >= s.maxAttempts() {
		if err := s.repoStore.DeleteRecord(ctx, *rec); err != nil && !errors.Is(err, goerror.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to repo delete otp record", "record_id", rec.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
		return &VerifyOutput{Reason: entity.ReasonTooManyAttempts}, nil
	}

	if !s.hmac.Verify(rec.CodeHash, in.Code) {
		err := s.repoStore.IncrementAttempts(ctx, *rec, now)
		if errors.Is(err, goerror.ErrNotFound) {
			// replaced or consumed concurrently
			return &VerifyOutput{Reason: entity.ReasonExpiredOrNotFound}, nil
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo increment otp attempts", "record_id", rec.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
		return &VerifyOutput{Reason: entity.ReasonInvalidCode}, nil
	}

	err = s.repoStore.DeleteRecord(ctx, *rec)
	if errors.Is(err, goerror.ErrNotFound) {
		return &VerifyOutput{Reason: entity.ReasonExpiredOrNotFound}, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete otp record", "record_id", rec.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &VerifyOutput{Valid: true}, nil
}
