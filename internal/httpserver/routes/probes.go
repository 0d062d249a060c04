package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/gemshub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/gemshub/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/gemshub/internal/httpserver/mw"
)

func init() { Register("probes", registerProbes) }

// registerProbes mounts liveness and readiness, restricted to the
// configured CIDRs.
func registerProbes(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
		r.Get("/healthz", handlers.Healthz(d))
		r.Get("/readyz", handlers.Readyz(d))
	})
}
