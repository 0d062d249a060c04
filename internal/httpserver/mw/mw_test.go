package mw

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/gemshub/internal/auth"
	"github.com/MrSnakeDoc/gemshub/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequireSession(t *testing.T) {
	gate, err := auth.NewGate("s3cret", auth.NewMemorySessions(time.Minute), time.Hour, true, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	token, err := gate.Login(context.Background(), "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	h := RequireSession(gate, logger.Nop())(okHandler)

	tests := []struct {
		name   string
		cookie string
		want   int
	}{
		{name: "no cookie", want: http.StatusUnauthorized},
		{name: "forged cookie", cookie: "valid", want: http.StatusUnauthorized},
		{name: "live session", cookie: token, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/gems", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && rec.Body.String() != `{"error":"Unauthorized"}`+"\n" {
				t.Errorf("body = %q", rec.Body.String())
			}
		})
	}
}

func TestWriteJSONErrorEscapesMessage(t *testing.T) {
	msg := `slow down, "admin" \ retry later`
	rec := httptest.NewRecorder()
	WriteJSONError(rec, http.StatusTooManyRequests, msg)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body %q is not valid JSON: %v", rec.Body, err)
	}
	if body["error"] != msg {
		t.Errorf("error = %q, want %q", body["error"], msg)
	}
}

func TestRateLimit(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	h := RateLimit(RateLimitConfig{
		Burst:     2,
		PerMinute: 1,
		Now:       func() time.Time { return now },
	})(okHandler)

	do := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := do("10.0.0.1:1234"); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}

	rec := do("10.0.0.1:1234")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 response should carry Retry-After")
	}

	if rec := do("10.0.0.2:1234"); rec.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", rec.Code)
	}

	now = now.Add(2 * time.Minute)
	if rec := do("10.0.0.1:1234"); rec.Code != http.StatusOK {
		t.Errorf("after refill status = %d, want 200", rec.Code)
	}
}

func TestEnforceHost(t *testing.T) {
	h := EnforceHost([]string{"gems.example.com", "*.internal.lan"}, logger.Nop())(okHandler)

	tests := []struct {
		host string
		want int
	}{
		{"gems.example.com", http.StatusOK},
		{"GEMS.example.com", http.StatusOK},
		{"admin.internal.lan", http.StatusOK},
		{"evil.com", http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = tt.host
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("host %q status = %d, want %d", tt.host, rec.Code, tt.want)
		}
	}
}

func TestAllowOnlyCIDRS(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"10.0.0.0/8"}, false, logger.Nop())(okHandler)

	tests := []struct {
		remote string
		want   int
	}{
		{"10.1.2.3:5555", http.StatusOK},
		{"192.168.1.1:5555", http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		req.RemoteAddr = tt.remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("remote %s status = %d, want %d", tt.remote, rec.Code, tt.want)
		}
	}
}
