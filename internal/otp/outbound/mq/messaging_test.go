package mq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shandysiswandi/gocare/internal/otp/entity"
	"github.com/shandysiswandi/gocare/internal/otp/usecase"
	"github.com/shandysiswandi/gocare/internal/pkg/instrument"
	"github.com/shandysiswandi/gocare/internal/pkg/messaging"
	"github.com/shandysiswandi/gocare/internal/shared/event"
)

func TestPublishOTPIssued(t *testing.T) {
	// Arrange
	bus := messaging.NewMemory()
	t.Cleanup(func() { _ = bus.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan messaging.Message, 1)
	consumeErr := make(chan error, 1)
	go func() {
		consumeErr <- bus.Consume(ctx, event.OTPIssuedDestination, func(_ context.Context, msg messaging.Message) error {
			received <- msg
			return nil
		}, messaging.WithGroup(event.OTPIssuedConsumerNotification), messaging.WithAutoAck(true))
	}()

	pub := NewMessaging(bus, instrument.NewNoop())
	expiresAt := time.Date(2026, 3, 1, 9, 10, 0, 0, time.UTC)
	pubCtx := instrument.SetCorrelationID(ctx, "cid-1")

	deadline := time.Now().Add(2 * time.Second)
	for bus.Groups(event.OTPIssuedDestination) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("consumer never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Act
	err := pub.PublishOTPIssued(pubCtx, usecase.OTPIssuedEvent{
		Channel:     entity.ChannelEmail,
		Destination: "patient@clinic.in",
		Name:        "Asha",
		Code:        "123456",
		Purpose:     entity.PurposeLogin,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	// Assert
	select {
	case msg := <-received:
		if got := msg.Header(keyOfCorrelationID); got != "cid-1" {
			t.Fatalf("correlation header = %q", got)
		}
		var body event.OTPIssuedMessage
		if err := json.Unmarshal(msg.Body(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Channel != "email" || body.Destination != "patient@clinic.in" || body.Code != "123456" || body.Purpose != "login" {
			t.Fatalf("body = %+v", body)
		}
		if !body.ExpiresAt.Equal(expiresAt) {
			t.Fatalf("expires_at = %v", body.ExpiresAt)
		}
	case <-ctx.Done():
		t.Fatal("message not delivered")
	}

	cancel()
	<-consumeErr
}
