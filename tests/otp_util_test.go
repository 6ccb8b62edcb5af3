package tests

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

type sendData struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	OTP     string `json:"otp"`
}

type verifyData struct {
	Message  string `json:"message"`
	Verified bool   `json:"verified"`
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

// uniquePhone returns a ten digit mobile number that differs per call.
func uniquePhone() string {
	return fmt.Sprintf("9%09d", time.Now().UnixNano()%1_000_000_000)
}

func sendPhone(t *testing.T, phone string) sendData {
	t.Helper()

	status, body := doJSON(t, http.MethodPost, "/api/otp/send-phone", map[string]string{"phone": phone}, nil)
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("send-phone failed: status=%d message=%q", status, errEnv.Message)
	}

	var data sendData
	decodeJSON(t, body, &data)
	if data.OTP == "" {
		t.Fatal("send-phone returned no otp; start the server with MODULES_OTP_EXPOSE_CODE_IN_RESPONSE=true")
	}

	return data
}

func sendEmail(t *testing.T, email string) sendData {
	t.Helper()

	payload := map[string]string{"email": email, "name": "Asha"}
	status, body := doJSON(t, http.MethodPost, "/api/otp/send-email", payload, nil)
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("send-email failed: status=%d message=%q", status, errEnv.Message)
	}

	var data sendData
	decodeJSON(t, body, &data)
	if data.OTP == "" {
		t.Fatal("send-email returned no otp; start the server with MODULES_OTP_EXPOSE_CODE_IN_RESPONSE=true")
	}

	return data
}

func verifyPhone(t *testing.T, phone, code string) (int, verifyData) {
	t.Helper()

	status, body := doJSON(t, http.MethodPost, "/api/otp/verify-phone", map[string]string{"phone": phone, "otp": code}, nil)

	var data verifyData
	decodeJSON(t, body, &data)

	return status, data
}

// wrongCode returns a six digit code different from code.
func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}
