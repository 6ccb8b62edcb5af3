package inbound

import "net/http"

const headerIdempotencyKey = "Idempotency-Key"

type SendPhoneRequest struct {
	Phone   string `json:"phone"`
	Purpose string `json:"purpose"`
}

type SendEmailRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Purpose string `json:"purpose"`
}

type SendResponse struct {
	Msg     string `json:"message"`
	Success bool   `json:"success"`
	OTP     string `json:"otp,omitempty"`
}

func (SendResponse) Flat() {}

func (SendResponse) StatusCode() int { return http.StatusOK }

type VerifyPhoneRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyResponse is written as 200 when verified and 400 otherwise.
type VerifyResponse struct {
	Msg      string `json:"message"`
	Verified bool   `json:"verified"`
}

func (VerifyResponse) Flat() {}

func (v VerifyResponse) StatusCode() int {
	if v.Verified {
		return http.StatusOK
	}
	return http.StatusBadRequest
}
