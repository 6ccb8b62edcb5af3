package usecase

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/shandysiswandi/gocare/internal/notification/entity"
	"github.com/shandysiswandi/gocare/internal/pkg/mail"
	"github.com/shandysiswandi/gocare/internal/pkg/sms"
)

type ConsumeOTPIssuedInput struct {
	Channel     entity.Channel `validate:"required,oneof=1 2"`
	Destination string         `validate:"required"`
	Name        string
	Code        string `validate:"required,numeric,len=6"`
	Purpose     string
	ExpiresAt   time.Time `validate:"required"`
}

// ConsumeOTPIssued delivers an issued code once. The result is logged and
// returned; a failed delivery is never retried.
func (s *Usecase) ConsumeOTPIssued(ctx context.Context, in ConsumeOTPIssuedInput) entity.DeliveryResult {
	ctx, span := s.startSpan(ctx, "ConsumeOTPIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return entity.DeliveryResult{Error: err.Error()}
	}

	remaining := in.ExpiresAt.Sub(s.clock.Now())
	if remaining <= 0 {
		slog.WarnContext(ctx, "otp expired before delivery", "channel", in.Channel.String(), "purpose", in.Purpose)
		return entity.DeliveryResult{Error: "otp expired before delivery"}
	}

	data := s.baseTemplateData()
	data["code"] = in.Code
	data["minutes"] = int(math.Ceil(remaining.Minutes()))
	data["name"] = in.Name
	if in.Name == "" {
		data["name"] = "there"
	}

	var res entity.DeliveryResult
	switch in.Channel {
	case entity.ChannelEmail:
		res = s.sendOTPEmail(ctx, in.Destination, data)
	default:
		res = s.sendOTPSMS(ctx, in.Destination, data)
	}

	switch {
	case res.Success:
		slog.InfoContext(ctx, "otp delivered", "channel", in.Channel.String(), "purpose", in.Purpose)
	case res.NotConfigured:
		slog.WarnContext(ctx, "otp not delivered, provider not configured", "channel", in.Channel.String(), "purpose", in.Purpose)
	default:
		slog.ErrorContext(ctx, "failed to deliver otp", "channel", in.Channel.String(), "purpose", in.Purpose, "error", res.Error)
	}

	return res
}

func (s *Usecase) sendOTPEmail(ctx context.Context, to string, data map[string]any) entity.DeliveryResult {
	subject, err := s.renderText("subject", otpEmailSubject, data)
	if err != nil {
		return entity.DeliveryResult{Error: err.Error()}
	}
	textBody, err := s.renderText("text", otpEmailText, data)
	if err != nil {
		return entity.DeliveryResult{Error: err.Error()}
	}
	htmlBody, err := s.renderTemplate("html", otpEmailHTML, data)
	if err != nil {
		return entity.DeliveryResult{Error: err.Error()}
	}

	err = s.repoMail.Send(ctx, mail.Message{
		To:       []string{to},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	})
	return deliveryResult(err, mail.ErrNotConfigured)
}

func (s *Usecase) sendOTPSMS(ctx context.Context, phone string, data map[string]any) entity.DeliveryResult {
	text, err := s.renderText("sms", otpSMSText, data)
	if err != nil {
		return entity.DeliveryResult{Error: err.Error()}
	}

	return deliveryResult(s.repoSMS.Send(ctx, phone, text), sms.ErrNotConfigured)
}

func deliveryResult(err, notConfigured error) entity.DeliveryResult {
	switch {
	case err == nil:
		return entity.DeliveryResult{Success: true}
	case errors.Is(err, notConfigured):
		return entity.DeliveryResult{Error: err.Error(), NotConfigured: true}
	default:
		return entity.DeliveryResult{Error: err.Error()}
	}
}
