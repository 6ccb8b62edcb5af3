package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/gocare/internal/pkg/config"
	"github.com/shandysiswandi/gocare/internal/pkg/goerror"
	"github.com/shandysiswandi/gocare/internal/pkg/instrument"
	"github.com/shandysiswandi/gocare/internal/pkg/validator"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type flatResponse struct {
	Msg      string `json:"message"`
	Verified bool   `json:"verified"`
	code     int
}

func (flatResponse) Flat() {}

func (f flatResponse) StatusCode() int { return f.code }

type wrappedResponse struct {
	Name string `json:"name"`
}

func (wrappedResponse) Message() string { return "done" }

func newTestRouter(t *testing.T, yaml string) *Router {
	t.Helper()
	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return NewRouter(Config{Config: cfg, UUID: fixedID("cid-1"), Instrument: instrument.NewNoop()})
}

func serve(r http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRouterEncodesResponses(t *testing.T) {
	r := newTestRouter(t, "app: {name: test}")
	r.POST("/flat", func(*Request) (any, error) {
		return flatResponse{Msg: "Invalid or expired OTP", code: http.StatusBadRequest}, nil
	})
	r.GET("/wrapped", func(*Request) (any, error) {
		return wrappedResponse{Name: "x"}, nil
	})

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}{
		{
			name:       "flat response keeps its own shape",
			method:     http.MethodPost,
			path:       "/flat",
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				if body["message"] != "Invalid or expired OTP" || body["verified"] != false {
					t.Fatalf("body = %v", body)
				}
				if _, ok := body["data"]; ok {
					t.Fatalf("flat body must not be wrapped: %v", body)
				}
			},
		},
		{
			name:       "envelope response",
			method:     http.MethodGet,
			path:       "/wrapped",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				data, _ := body["data"].(map[string]any)
				if body["message"] != "done" || data["name"] != "x" {
					t.Fatalf("body = %v", body)
				}
			},
		},
		{
			name:       "welcome",
			method:     http.MethodGet,
			path:       "/",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				if body["message"] == "" {
					t.Fatalf("body = %v", body)
				}
			},
		},
		{
			name:       "not found",
			method:     http.MethodGet,
			path:       "/nope",
			wantStatus: http.StatusNotFound,
			check:      func(*testing.T, map[string]any) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(r, tt.method, tt.path, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			tt.check(t, decode(t, rec))
		})
	}
}

func TestRouterEncodesErrors(t *testing.T) {
	r := newTestRouter(t, "app: {name: test}")
	r.POST("/validation", func(*Request) (any, error) {
		return nil, goerror.NewInvalidInput(validator.V10ValidationError{"phone": "phone is a required field"})
	})
	r.POST("/throttled", func(*Request) (any, error) {
		return nil, goerror.NewBusiness("Please wait before requesting another OTP", goerror.CodeTooManyRequest)
	})
	r.POST("/plain", func(*Request) (any, error) {
		return nil, errors.New("db down")
	})
	r.POST("/panic", func(*Request) (any, error) {
		panic("boom")
	})

	rec := serve(r, http.MethodPost, "/validation", "")
	body := decode(t, rec)
	fields, _ := body["error"].(map[string]any)
	if rec.Code != http.StatusBadRequest || fields["phone"] == nil {
		t.Fatalf("validation: %d %v", rec.Code, body)
	}

	if rec := serve(r, http.MethodPost, "/throttled", ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("throttled status = %d", rec.Code)
	}

	rec = serve(r, http.MethodPost, "/plain", "")
	if rec.Code != http.StatusInternalServerError || decode(t, rec)["message"] != "Internal server error" {
		t.Fatalf("plain error leaked: %d %s", rec.Code, rec.Body.String())
	}

	if rec := serve(r, http.MethodPost, "/panic", ""); rec.Code != http.StatusInternalServerError {
		t.Fatalf("panic status = %d", rec.Code)
	}
}

func TestRouterCorrelationID(t *testing.T) {
	r := newTestRouter(t, "app: {name: test}")
	var seen string
	r.GET("/cid", func(req *Request) (any, error) {
		seen = instrument.GetCorrelationID(req.Context())
		return wrappedResponse{}, nil
	})

	rec := serve(r, http.MethodGet, "/cid", "")
	if seen != "cid-1" || rec.Header().Get(HeaderCorrelationID) != "cid-1" {
		t.Fatalf("generated cid = %q / %q", seen, rec.Header().Get(HeaderCorrelationID))
	}

	serve(r, http.MethodGet, "/cid", "", HeaderRequestID, "from-proxy")
	if seen != "from-proxy" {
		t.Fatalf("propagated cid = %q", seen)
	}
}

func TestRouterMaintenance(t *testing.T) {
	r := newTestRouter(t, "app:\n  maintenance:\n    endpoints: [\"/api/otp/send-phone\"]\n")
	r.POST("/api/otp/send-phone", func(*Request) (any, error) { return wrappedResponse{}, nil })
	r.POST("/api/otp/send-email", func(*Request) (any, error) { return wrappedResponse{}, nil })

	if rec := serve(r, http.MethodPost, "/api/otp/send-phone", "{}"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("blocked route status = %d", rec.Code)
	}
	if rec := serve(r, http.MethodPost, "/api/otp/send-email", "{}"); rec.Code != http.StatusOK {
		t.Fatalf("open route status = %d", rec.Code)
	}
}

func TestDecodeBody(t *testing.T) {
	type in struct {
		Phone string `json:"phone"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"phone":"9876543210"}`},
		{name: "unknown fields ignored", body: `{"phone":"9876543210","name":"A"}`},
		{name: "empty", body: ``, wantErr: true},
		{name: "trailing data", body: `{"phone":"1"}{"phone":"2"}`, wantErr: true},
		{name: "not json", body: `phone=1`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))}
			var dst in
			err := req.DecodeBody(&dst)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	if got := clientIP(req); got != "10.0.0.1" {
		t.Fatalf("remote = %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := clientIP(req); got != "203.0.113.9" {
		t.Fatalf("forwarded = %q", got)
	}
}
