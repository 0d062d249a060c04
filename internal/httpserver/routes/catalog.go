package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/gemshub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/gemshub/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/gemshub/internal/httpserver/mw"
)

func init() { Register("catalog", registerCatalog) }

func registerCatalog(r chi.Router, d deps.Deps) {
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Get("/api/catalog", handlers.Catalog(d))
}
