package inbound

import (
	"github.com/shandysiswandi/gocare/internal/otp/entity"
	"github.com/shandysiswandi/gocare/internal/otp/usecase"
	"github.com/shandysiswandi/gocare/internal/pkg/router"
)

// HTTPEndpoint exposes the OTP issue and verify routes.
type HTTPEndpoint struct {
	uc uc
}

// SendPhone issues a code for a phone number and queues it for SMS delivery.
func (h *HTTPEndpoint) SendPhone(r *router.Request) (any, error) {
	var req SendPhoneRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.SendPhone(r.Context(), usecase.SendPhoneInput{
		Phone:          req.Phone,
		Purpose:        entity.Purpose(req.Purpose),
		IdempotencyKey: r.GetHeader(headerIdempotencyKey),
	})
	if err != nil {
		return nil, err
	}

	return SendResponse{Msg: "OTP sent to your phone", Success: true, OTP: resp.Code}, nil
}

// SendEmail issues a code for an email address and queues it for delivery.
func (h *HTTPEndpoint) SendEmail(r *router.Request) (any, error) {
	var req SendEmailRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.SendEmail(r.Context(), usecase.SendEmailInput{
		Email:          req.Email,
		Name:           req.Name,
		Purpose:        entity.Purpose(req.Purpose),
		IdempotencyKey: r.GetHeader(headerIdempotencyKey),
	})
	if err != nil {
		return nil, err
	}

	return SendResponse{Msg: "OTP sent to your email", Success: true, OTP: resp.Code}, nil
}

func (h *HTTPEndpoint) VerifyPhone(r *router.Request) (any, error) {
	var req VerifyPhoneRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyPhone(r.Context(), usecase.VerifyPhoneInput{
		Phone: req.Phone,
		OTP:   req.OTP,
	})
	if err != nil {
		return nil, err
	}

	return verifyResponse(resp), nil
}

func (h *HTTPEndpoint) VerifyEmail(r *router.Request) (any, error) {
	var req VerifyEmailRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyEmail(r.Context(), usecase.VerifyEmailInput{
		Email: req.Email,
		OTP:   req.OTP,
	})
	if err != nil {
		return nil, err
	}

	return verifyResponse(resp), nil
}

// verifyResponse never tells the caller why a code was rejected.
func verifyResponse(out *usecase.VerifyOutput) VerifyResponse {
	if !out.Valid {
		return VerifyResponse{Msg: "Invalid or expired OTP", Verified: false}
	}
	return VerifyResponse{Msg: "OTP verified successfully", Verified: true}
}
