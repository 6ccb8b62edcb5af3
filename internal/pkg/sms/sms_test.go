package sms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewSelectsProvider(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "fast2sms by key", cfg: Config{Fast2SMSAPIKey: "k", TwilioAccountSID: "s"}, want: "*sms.Fast2SMS"},
		{name: "twilio by sid", cfg: Config{TwilioAccountSID: "s", TwilioAuthToken: "t", TwilioFrom: "+1555"}, want: "*sms.Twilio"},
		{name: "log fallback", cfg: Config{}, want: "*sms.Log"},
		{name: "explicit twilio", cfg: Config{Provider: "Twilio", Fast2SMSAPIKey: "k", TwilioAccountSID: "s", TwilioAuthToken: "t", TwilioFrom: "+1555"}, want: "*sms.Twilio"},
		{name: "fast2sms without key", cfg: Config{Provider: "fast2sms"}, want: "*sms.Log"},
		{name: "twilio without token", cfg: Config{Provider: "twilio", TwilioAccountSID: "s", TwilioFrom: "+1555"}, want: "*sms.Log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			if got := typeName(s); got != tt.want {
				t.Fatalf("provider = %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := New(Config{Provider: "pigeon"}); err == nil {
		t.Fatal("expected unknown provider error")
	}
}

func typeName(s Sender) string {
	switch s.(type) {
	case *Fast2SMS:
		return "*sms.Fast2SMS"
	case *Twilio:
		return "*sms.Twilio"
	case *Log:
		return "*sms.Log"
	default:
		return "unknown"
	}
}

func TestFast2SMSSend(t *testing.T) {
	// Arrange
	var got fast2smsRequest
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"return":true,"request_id":"x","message":["sent"]}`))
	}))
	defer srv.Close()

	f := NewFast2SMS("secret", srv.Client())
	f.baseURL = srv.URL

	// Act
	err := f.Send(context.Background(), "+91 98765-43210", "Your OTP is 123456")

	// Assert
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotAuth != "secret" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if got.Numbers != "9876543210" || got.Route != "q" || got.Language != "english" {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestFast2SMSRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"return":false,"message":"Invalid Authentication"}`))
	}))
	defer srv.Close()

	f := NewFast2SMS("bad", srv.Client())
	f.baseURL = srv.URL

	if err := f.Send(context.Background(), "9876543210", "hi"); err == nil {
		t.Fatal("expected rejection error")
	}
}

func TestTwilioSend(t *testing.T) {
	// Arrange
	var gotPath, gotTo, gotFrom, gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, _, _ = r.BasicAuth()
		_ = r.ParseForm()
		gotTo, gotFrom = r.PostForm.Get("To"), r.PostForm.Get("From")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM1"}`))
	}))
	defer srv.Close()

	tw := NewTwilio("AC1", "token", "+15550001111", "91", srv.Client())
	tw.baseURL = srv.URL

	// Act
	err := tw.Send(context.Background(), "9876543210", "hello")

	// Assert
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotPath != "/Accounts/AC1/Messages.json" {
		t.Fatalf("path = %s", gotPath)
	}
	if gotTo != "+919876543210" || gotFrom != "+15550001111" || gotUser != "AC1" {
		t.Fatalf("to=%s from=%s user=%s", gotTo, gotFrom, gotUser)
	}
}

func TestTwilioErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid To"}`))
	}))
	defer srv.Close()

	tw := NewTwilio("AC1", "token", "+1555", "", srv.Client())
	tw.baseURL = srv.URL

	if err := tw.Send(context.Background(), "+919876543210", "hello"); err == nil {
		t.Fatal("expected error")
	}
}

func TestLogNotConfigured(t *testing.T) {
	if err := NewLog().Send(context.Background(), "9876543210", "hi"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
