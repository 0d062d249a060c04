package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{name: "remote addr", remote: "1.2.3.4:5678", want: "1.2.3.4"},
		{name: "ipv6 remote addr", remote: "[::1]:5678", want: "::1"},
		{name: "untrusted proxy header ignored", remote: "1.2.3.4:5678", headers: map[string]string{"X-Forwarded-For": "9.9.9.9"}, want: "1.2.3.4"},
		{name: "cloudflare header", remote: "127.0.0.1:1", headers: map[string]string{"CF-Connecting-IP": "5.6.7.8"}, trustProxy: true, want: "5.6.7.8"},
		{name: "left-most forwarded for", remote: "127.0.0.1:1", headers: map[string]string{"X-Forwarded-For": " 9.9.9.9, 10.0.0.1"}, trustProxy: true, want: "9.9.9.9"},
		{name: "real ip", remote: "127.0.0.1:1", headers: map[string]string{"X-Real-IP": "8.8.8.8"}, trustProxy: true, want: "8.8.8.8"},
		{name: "trusted without headers", remote: "127.0.0.1:1", trustProxy: true, want: "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", "192.168.1.10", "fd00::/8", "garbage", ""})
	if m.IsEmpty() {
		t.Fatal("matcher should not be empty")
	}

	tests := []struct {
		ip   string
		want bool
	}{
		{"10.20.30.40", true},
		{"192.168.1.10", true},
		{"192.168.1.11", false},
		{"::ffff:10.0.0.1", true},
		{"fd12::1", true},
		{"not-an-ip", false},
	}
	for _, tt := range tests {
		if got := m.Allow(tt.ip); got != tt.want {
			t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("matcher from nil list should be empty")
	}
}
