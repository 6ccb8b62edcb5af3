package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gocare/internal/otp/entity"
	"github.com/shandysiswandi/gocare/internal/pkg/goerror"
)

type IssueInput struct {
	Identifier string         `validate:"required"`
	Channel    entity.Channel `validate:"required,oneof=phone email"`
	Purpose    entity.Purpose `validate:"omitempty,oneof=registration doctor-registration login appointment verification password-reset"`
}

type IssueOutput struct {
	Code      string
	ExpiresAt time.Time
}

// Issue replaces any record for the identifier and channel with a fresh code
// and returns the plaintext code. Delivery is up to the caller.
func (s *Usecase) Issue(ctx context.Context, in IssueInput) (_ *IssueOutput, err error) {
	ctx, span := s.startSpan(ctx, "Issue")
	defer span.End()

	in.Purpose = in.Purpose.OrDefault()
	if err = s.validator.Validate(in); err != nil {
		slog.DebugContext(ctx, "invalid issue input", "error", err)
		return nil, goerror.NewInvalidInput(err)
	}

	if cd := s.cfg.GetSecond("modules.otp.resend_cooldown_seconds"); cd > 0 {
		ok, cErr := s.repoCooldown.AcquireCooldown(ctx, in.Identifier, in.Channel, cd)
		if cErr != nil {
			slog.ErrorContext(ctx, "failed to repo acquire cooldown", "channel", in.Channel, "error", cErr)
			return nil, goerror.NewServer(cErr)
		}
		if !ok {
			return nil, goerror.NewBusiness("Please wait before requesting another OTP", goerror.CodeTooManyRequest)
		}

		// no code was stored, so the window must not block a retry
		defer func() {
			if err == nil {
				return
			}
			if rErr := s.repoCooldown.ReleaseCooldown(context.WithoutCancel(ctx), in.Identifier, in.Channel); rErr != nil {
				slog.ErrorContext(ctx, "failed to repo release cooldown", "channel", in.Channel, "error", rErr)
			}
		}()
	}

	code, err := s.code.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	codeHash, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	rec := entity.Record{
		ID:         s.uid.Generate(),
		Identifier: in.Identifier,
		Channel:    in.Channel,
		Purpose:    in.Purpose,
		CodeHash:   string(codeHash),
		Attempts:   0,
		ExpiresAt:  now.Add(s.ttl()),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err = s.repoStore.ReplaceRecord(ctx, rec); err != nil {
		slog.ErrorContext(ctx, "failed to repo replace otp record", "channel", in.Channel, "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.DebugContext(ctx, "otp issued", "channel", in.Channel, "purpose", in.Purpose, "code", code)

	return &IssueOutput{Code: code, ExpiresAt: rec.ExpiresAt}, nil
}
