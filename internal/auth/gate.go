package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/gemshub/internal/logger"
)

const (
	// CookieName carries the admin session token.
	CookieName = "admin_session"
	// DefaultSessionTTL is how long a login stays valid.
	DefaultSessionTTL = 24 * time.Hour
)

var (
	ErrPasswordRequired = errors.New("password is required")
	ErrInvalidPassword  = errors.New("invalid password")
)

// SessionStore keeps issued session tokens until they expire.
type SessionStore interface {
	Save(ctx context.Context, token string, ttl time.Duration) error
	Exists(ctx context.Context, token string) (bool, error)
	Delete(ctx context.Context, token string) error
}

// Gate checks the shared admin secret and tracks the sessions it issued.
type Gate struct {
	secret       []byte
	sessions     SessionStore
	ttl          time.Duration
	secureCookie bool
	logger       logger.Logger
	newToken     func() string
}

// NewGate refuses to build a gate without a secret: there is no default
// admin password.
func NewGate(secret string, sessions SessionStore, ttl time.Duration, secureCookie bool, log logger.Logger) (*Gate, error) {
	if secret == "" {
		return nil, errors.New("admin password is not configured")
	}
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Gate{
		secret:       []byte(secret),
		sessions:     sessions,
		ttl:          ttl,
		secureCookie: secureCookie,
		logger:       log,
		newToken:     uuid.NewString,
	}, nil
}

// Login compares password with the secret and, on match, issues a session
// token.
func (g *Gate) Login(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", ErrPasswordRequired
	}
	if subtle.ConstantTimeCompare([]byte(password), g.secret) != 1 {
		return "", ErrInvalidPassword
	}

	token := g.newToken()
	if err := g.sessions.Save(ctx, token, g.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Valid reports whether token belongs to a live session. Store errors count
// as "not authenticated".
func (g *Gate) Valid(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	ok, err := g.sessions.Exists(ctx, token)
	if err != nil {
		g.logger.Warn("session lookup failed", logger.Error(err))
		return false
	}
	return ok
}

// Logout forgets the session. Unknown tokens are not an error.
func (g *Gate) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := g.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Token extracts the session token from the request cookie.
func Token(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// SessionCookie is set on successful login. SameSite=None lets the admin UI
// be served from another origin; browsers only accept it with Secure.
func (g *Gate) SessionCookie(token string) *http.Cookie {
	return g.cookie(token, int(g.ttl.Seconds()))
}

// ClearedCookie expires the session cookie.
func (g *Gate) ClearedCookie() *http.Cookie {
	return g.cookie("", -1)
}

func (g *Gate) cookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteNoneMode
	if !g.secureCookie {
		sameSite = http.SameSiteLaxMode
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   g.secureCookie,
		SameSite: sameSite,
	}
}
