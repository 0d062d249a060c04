package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/gemshub/internal/domain"
	"github.com/MrSnakeDoc/gemshub/internal/httpserver/deps"
)

// Catalog serves published gems, optionally filtered by ?q=.
// Gems stored without an icon are served with domain.DefaultIcon.
func Catalog(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		found := domain.Search(d.Store.Published(), query)
		gems := make([]domain.Gem, len(found))
		for i, g := range found {
			g.Icon = domain.IconOrDefault(g.Icon)
			gems[i] = g
		}
		writeJSON(w, d.Logger, http.StatusOK, gems)
	}
}
