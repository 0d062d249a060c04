package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/gemshub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/gemshub/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/gemshub/internal/httpserver/mw"
)

func init() { Register("auth", registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	loginLimit := mw.RateLimit(mw.RateLimitConfig{
		Burst:      d.LoginBurst,
		PerMinute:  d.LoginPerMin,
		MaxEntries: 10_000,
		TrustProxy: d.TrustProxy,
		Message:    "Too many login attempts",
	})

	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Route("/api/auth", func(r chi.Router) {
		r.With(loginLimit).Post("/login", handlers.Login(d))
		r.Post("/logout", handlers.Logout(d))
		r.Get("/session", handlers.Session(d))
	})
}
