package inbound

import (
	"context"

	"github.com/shandysiswandi/gocare/internal/otp/usecase"
	"github.com/shandysiswandi/gocare/internal/pkg/router"
)

type uc interface {
	SendPhone(ctx context.Context, in usecase.SendPhoneInput) (*usecase.SendOutput, error)
	SendEmail(ctx context.Context, in usecase.SendEmailInput) (*usecase.SendOutput, error)

	VerifyPhone(ctx context.Context, in usecase.VerifyPhoneInput) (*usecase.VerifyOutput, error)
	VerifyEmail(ctx context.Context, in usecase.VerifyEmailInput) (*usecase.VerifyOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/otp/send-phone", end.SendPhone)
	r.POST("/api/otp/send-email", end.SendEmail)
	//
	r.POST("/api/otp/verify-phone", end.VerifyPhone)
	r.POST("/api/otp/verify-email", end.VerifyEmail)
}
