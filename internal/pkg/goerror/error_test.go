package goerror

import (
	"errors"
	"net/http"
	"testing"
)

func TestErrorStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "server", err: NewServer(errors.New("db down")), want: http.StatusInternalServerError},
		{name: "invalid input", err: NewInvalidInput(errors.New("bad")), want: http.StatusBadRequest},
		{name: "invalid format", err: NewInvalidFormat(), want: http.StatusBadRequest},
		{name: "throttled", err: NewBusiness("slow down", CodeTooManyRequest), want: http.StatusTooManyRequests},
		{name: "conflict", err: NewBusiness("replay", CodeConflict), want: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gerr *Error
			if !errors.As(tt.err, &gerr) {
				t.Fatalf("expected *Error, got %T", tt.err)
			}
			if got := gerr.StatusCode(); got != tt.want {
				t.Fatalf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewInvalidInputFields(t *testing.T) {
	err := NewInvalidInput(nil, "phone", "phone must contain at least 10 digits")

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if gerr.Fields()["phone"] == "" {
		t.Fatalf("expected phone field message, got %v", gerr.Fields())
	}

	odd := NewInvalidInput(nil, "phone")
	if !errors.As(odd, &gerr) || gerr.Code() != CodeInvalidFormat {
		t.Fatalf("expected invalid format for odd kv, got %v", odd)
	}
}

func TestNewServerUnwrap(t *testing.T) {
	cause := errors.New("redis unreachable")
	err := NewServer(cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause")
	}

	var gerr *Error
	if !errors.As(err, &gerr) || gerr.Msg() != "Internal server error" {
		t.Fatalf("unexpected message: %v", err)
	}
}
