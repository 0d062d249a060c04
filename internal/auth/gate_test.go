package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/gemshub/internal/logger"
)

func newTestGate(t *testing.T, ttl time.Duration) *Gate {
	t.Helper()
	g, err := NewGate("s3cret", NewMemorySessions(time.Minute), ttl, true, logger.Nop())
	if err != nil {
		t.Fatalf("NewGate() error = %v", err)
	}
	return g
}

func TestNewGateRequiresSecret(t *testing.T) {
	if _, err := NewGate("", NewMemorySessions(time.Minute), time.Hour, true, logger.Nop()); err == nil {
		t.Error("NewGate() without a secret should fail")
	}
	if _, err := NewGate("x", nil, time.Hour, true, logger.Nop()); err == nil {
		t.Error("NewGate() without a session store should fail")
	}
}

func TestLogin(t *testing.T) {
	g := newTestGate(t, time.Hour)
	ctx := context.Background()

	if _, err := g.Login(ctx, ""); !errors.Is(err, ErrPasswordRequired) {
		t.Errorf("Login(\"\") error = %v, want ErrPasswordRequired", err)
	}
	if _, err := g.Login(ctx, "wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Login(wrong) error = %v, want ErrInvalidPassword", err)
	}

	token, err := g.Login(ctx, "s3cret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" || token == "valid" {
		t.Errorf("Login() token = %q, want a random token", token)
	}
	if !g.Valid(ctx, token) {
		t.Error("freshly issued token should be valid")
	}
	if g.Valid(ctx, "forged") {
		t.Error("unknown token should not be valid")
	}
	if g.Valid(ctx, "") {
		t.Error("empty token should not be valid")
	}

	other, err := g.Login(ctx, "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if other == token {
		t.Error("each login should issue a distinct token")
	}
}

func TestLogout(t *testing.T) {
	g := newTestGate(t, time.Hour)
	ctx := context.Background()

	token, err := g.Login(ctx, "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Logout(ctx, token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if g.Valid(ctx, token) {
		t.Error("token should be invalid after logout")
	}
	if err := g.Logout(ctx, "never-issued"); err != nil {
		t.Errorf("Logout(unknown) error = %v, want nil", err)
	}
}

func TestSessionExpires(t *testing.T) {
	g := newTestGate(t, 20*time.Millisecond)
	ctx := context.Background()

	token, err := g.Login(ctx, "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if g.Valid(ctx, token) {
		t.Error("token should expire after the session TTL")
	}
}

func TestCookies(t *testing.T) {
	g := newTestGate(t, 24*time.Hour)

	c := g.SessionCookie("tok")
	if c.Name != CookieName || c.Value != "tok" {
		t.Errorf("cookie = %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteNoneMode || c.Path != "/" {
		t.Errorf("cookie attributes = %+v", c)
	}
	if c.MaxAge != 86400 {
		t.Errorf("MaxAge = %d, want 86400", c.MaxAge)
	}

	cleared := g.ClearedCookie()
	if cleared.Value != "" || cleared.MaxAge >= 0 {
		t.Errorf("cleared cookie = %+v, want empty value and negative MaxAge", cleared)
	}

	insecure, err := NewGate("x", NewMemorySessions(time.Minute), time.Hour, false, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if c := insecure.SessionCookie("tok"); c.Secure || c.SameSite != http.SameSiteLaxMode {
		t.Errorf("insecure cookie = %+v, want Lax without Secure", c)
	}
}

func TestToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := Token(r); got != "" {
		t.Errorf("Token() without cookie = %q", got)
	}
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "abc"})
	if got := Token(r); got != "abc" {
		t.Errorf("Token() = %q, want abc", got)
	}
}
