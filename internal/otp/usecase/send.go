package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gocare/internal/otp/entity"
	"github.com/shandysiswandi/gocare/internal/pkg/goerror"
	"github.com/shandysiswandi/gocare/internal/pkg/idempotency"
)

type SendPhoneInput struct {
	Phone          string         `validate:"required,phone_digits"`
	Purpose        entity.Purpose `validate:"omitempty,oneof=registration doctor-registration login appointment verification password-reset"`
	IdempotencyKey string         `validate:"omitempty,max=128"`
}

type SendEmailInput struct {
	Email          string         `validate:"required,email_simple"`
	Name           string         `validate:"omitempty,max=100"`
	Purpose        entity.Purpose `validate:"omitempty,oneof=registration doctor-registration login appointment verification password-reset"`
	IdempotencyKey string         `validate:"omitempty,max=128"`
}

type SendOutput struct {
	// Code is set only when modules.otp.expose_code_in_response is enabled.
	Code string
}

func (s *Usecase) SendPhone(ctx context.Context, in SendPhoneInput) (*SendOutput, error) {
	ctx, span := s.startSpan(ctx, "SendPhone")
	defer span.End()

	in.Phone = entity.NormalizePhone(in.Phone, s.cfg.GetString("sms.default_country_code"))
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	return s.send(ctx, "send-phone", in.IdempotencyKey, IssueInput{
		Identifier: in.Phone,
		Channel:    entity.ChannelPhone,
		Purpose:    in.Purpose,
	}, "")
}

func (s *Usecase) SendEmail(ctx context.Context, in SendEmailInput) (*SendOutput, error) {
	ctx, span := s.startSpan(ctx, "SendEmail")
	defer span.End()

	in.Email = entity.NormalizeEmail(in.Email)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	return s.send(ctx, "send-email", in.IdempotencyKey, IssueInput{
		Identifier: in.Email,
		Channel:    entity.ChannelEmail,
		Purpose:    in.Purpose,
	}, in.Name)
}

func (s *Usecase) send(ctx context.Context, op, idemKey string, in IssueInput, name string) (*SendOutput, error) {
	var out *IssueOutput
	issue := func(ctx context.Context) (err error) {
		out, err = s.Issue(ctx, in)
		return err
	}

	var err error
	if idemKey == "" {
		err = issue(ctx)
	} else {
		err = s.idemp.Exec(ctx, "otp:"+op+":"+idemKey, issue,
			idempotency.WithStateTTL(s.cfg.GetSecond("modules.otp.idempotency_ttl_seconds")))
	}
	if err != nil {
		return nil, s.mapSendError(ctx, err)
	}

	ev := OTPIssuedEvent{
		Channel:     in.Channel,
		Destination: in.Identifier,
		Name:        name,
		Code:        out.Code,
		Purpose:     in.Purpose.OrDefault(),
		ExpiresAt:   out.ExpiresAt,
	}
	s.goroutine.Go(context.WithoutCancel(ctx), "otp.deliver", func(ctx context.Context) error {
		return s.repoMessaging.PublishOTPIssued(ctx, ev)
	})

	if !s.cfg.GetBool("modules.otp.expose_code_in_response") {
		return &SendOutput{}, nil
	}

	return &SendOutput{Code: out.Code}, nil
}

func (s *Usecase) mapSendError(ctx context.Context, err error) error {
	var gErr *goerror.Error
	switch {
	case errors.Is(err, idempotency.ErrAlreadyInProgress),
		errors.Is(err, idempotency.ErrAlreadyCompleted),
		errors.Is(err, idempotency.ErrAlreadyFailed):
		return goerror.NewBusiness("Duplicate request", goerror.CodeConflict)
	case errors.As(err, &gErr):
		return gErr
	default:
		slog.ErrorContext(ctx, "failed to run idempotent issue", "error", err)
		return goerror.NewServer(err)
	}
}
