package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gocare/internal/otp/entity"
	"github.com/shandysiswandi/gocare/internal/pkg/goerror"
)

type VerifyPhoneInput struct {
	Phone string `validate:"required"`
	OTP   string `validate:"required"`
}

type VerifyEmailInput struct {
	Email string `validate:"required"`
	OTP   string `validate:"required"`
}

type codeShape struct {
	OTP string `validate:"numeric,len=6"`
}

func (s *Usecase) VerifyPhone(ctx context.Context, in VerifyPhoneInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyPhone")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	return s.verify(ctx, VerifyInput{
		Identifier: entity.NormalizePhone(in.Phone, s.cfg.GetString("sms.default_country_code")),
		Code:       in.OTP,
		Channel:    entity.ChannelPhone,
	})
}

func (s *Usecase) VerifyEmail(ctx context.Context, in VerifyEmailInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyEmail")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	return s.verify(ctx, VerifyInput{
		Identifier: entity.NormalizeEmail(in.Email),
		Code:       in.OTP,
		Channel:    entity.ChannelEmail,
	})
}

// verify rejects a code that cannot have been issued without touching the
// stored record, so it costs no attempt.
func (s *Usecase) verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	if err := s.validator.Validate(codeShape{OTP: in.Code}); err != nil {
		slog.WarnContext(ctx, "otp verification failed", "channel", in.Channel, "reason", entity.ReasonInvalidCode, "error", err)
		return &VerifyOutput{Reason: entity.ReasonInvalidCode}, nil
	}

	out, err := s.Verify(ctx, in)
	if err != nil {
		return nil, err
	}

	if !out.Valid {
		slog.WarnContext(ctx, "otp verification failed", "channel", in.Channel, "reason", out.Reason)
	}

	return out, nil
}
