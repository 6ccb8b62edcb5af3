package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/gocare/internal/notification/entity"
	"github.com/shandysiswandi/gocare/internal/notification/usecase"
	"github.com/shandysiswandi/gocare/internal/pkg/instrument"
	"github.com/shandysiswandi/gocare/internal/pkg/messaging"
	"github.com/shandysiswandi/gocare/internal/pkg/uid"
	"github.com/shandysiswandi/gocare/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := msg.Header(keyOfCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// OTPIssuedNotification never returns an error: delivery is attempted once
// and a redelivery would send the same code twice.
func (h *MQHandler) OTPIssuedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "OTPIssuedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: otp issued notification", "msg_body", string(body))

	var payload event.OTPIssuedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of otp issued notification", "msg_body", string(body), "error", err)
		return nil
	}

	res := h.uc.ConsumeOTPIssued(ctx, usecase.ConsumeOTPIssuedInput{
		Channel:     entity.ChannelFromString(payload.Channel),
		Destination: payload.Destination,
		Name:        payload.Name,
		Code:        payload.Code,
		Purpose:     payload.Purpose,
		ExpiresAt:   payload.ExpiresAt,
	})

	slog.DebugContext(ctx, "otp issued notification handled",
		"success", res.Success,
		"not_configured", res.NotConfigured,
		"error", res.Error,
	)

	return nil
}
