package inbound

import (
	"context"

	"github.com/shandysiswandi/gocare/internal/notification/entity"
	"github.com/shandysiswandi/gocare/internal/notification/usecase"
)

type uc interface {
	ConsumeOTPIssued(ctx context.Context, in usecase.ConsumeOTPIssuedInput) entity.DeliveryResult
}
