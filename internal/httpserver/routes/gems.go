package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/gemshub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/gemshub/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/gemshub/internal/httpserver/mw"
)

func init() { Register("gems", registerGems) }

// registerGems mounts the admin API. Every route needs a live session.
func registerGems(r chi.Router, d deps.Deps) {
	r.With(
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.RequireSession(d.Gate, d.Logger),
	).Route("/api/gems", func(r chi.Router) {
		r.Get("/", handlers.ListGems(d))
		r.Post("/", handlers.CreateGem(d))
		r.Get("/download", handlers.DownloadGems(d))
		r.Post("/sync", handlers.Sync(d))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.GetGem(d))
			r.Put("/", handlers.UpdateGem(d))
			r.Delete("/", handlers.DeleteGem(d))
			r.Patch("/toggle", handlers.ToggleGem(d))
		})
	})
}
