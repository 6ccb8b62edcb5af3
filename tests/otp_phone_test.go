package tests

import (
	"net/http"
	"testing"
)

func TestSendAndVerifyPhone(t *testing.T) {
	// Arrange
	phone := uniquePhone()
	sent := sendPhone(t, "+91 "+phone)

	// Act
	status, data := verifyPhone(t, phone, sent.OTP)

	// Assert
	if status != http.StatusOK || !data.Verified {
		t.Fatalf("verify failed: status=%d message=%q", status, data.Message)
	}
	if data.Message != "OTP verified successfully" {
		t.Fatalf("message = %q", data.Message)
	}
}

func TestVerifyPhoneIsSingleUse(t *testing.T) {
	// Arrange
	phone := uniquePhone()
	sent := sendPhone(t, phone)
	if status, _ := verifyPhone(t, phone, sent.OTP); status != http.StatusOK {
		t.Fatalf("first verify status = %d", status)
	}

	// Act
	status, data := verifyPhone(t, phone, sent.OTP)

	// Assert
	if status != http.StatusBadRequest || data.Verified {
		t.Fatalf("replay must fail: status=%d verified=%v", status, data.Verified)
	}
}

func TestVerifyPhoneAttemptCeiling(t *testing.T) {
	// Arrange
	phone := uniquePhone()
	sent := sendPhone(t, phone)
	bad := wrongCode(sent.OTP)

	// Act
	for range 3 {
		if status, _ := verifyPhone(t, phone, bad); status != http.StatusBadRequest {
			t.Fatalf("wrong code status = %d", status)
		}
	}
	status, data := verifyPhone(t, phone, sent.OTP)

	// Assert
	if status != http.StatusBadRequest || data.Verified {
		t.Fatalf("correct code after ceiling must fail: status=%d verified=%v", status, data.Verified)
	}
}

func TestResendReplacesPhoneCode(t *testing.T) {
	// Arrange
	phone := uniquePhone()
	first := sendPhone(t, phone)
	second := sendPhone(t, phone)
	if first.OTP == second.OTP {
		t.Skip("generator produced the same code twice")
	}

	// Act
	oldStatus, _ := verifyPhone(t, phone, first.OTP)
	newStatus, _ := verifyPhone(t, phone, second.OTP)

	// Assert
	if oldStatus != http.StatusBadRequest {
		t.Fatalf("old code status = %d, want 400", oldStatus)
	}
	if newStatus != http.StatusOK {
		t.Fatalf("new code status = %d, want 200", newStatus)
	}
}

func TestSendPhoneValidation(t *testing.T) {
	status, body := doJSON(t, http.MethodPost, "/api/otp/send-phone", map[string]string{"phone": "12345"}, nil)

	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if env := decodeError(t, body); env.Message == "" {
		t.Fatal("missing error message")
	}
}

func TestVerifyPhoneMalformedCode(t *testing.T) {
	// Arrange
	phone := uniquePhone()
	sent := sendPhone(t, phone)

	// Act
	status, data := verifyPhone(t, phone, "12ab")

	// Assert
	if status != http.StatusBadRequest || data.Verified || data.Message != "Invalid or expired OTP" {
		t.Fatalf("malformed code: status=%d body=%+v", status, data)
	}
	if status, _ := verifyPhone(t, phone, sent.OTP); status != http.StatusOK {
		t.Fatalf("correct code after malformed one: status=%d", status)
	}
}
