package mw

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/MrSnakeDoc/gemshub/internal/auth"
	"github.com/MrSnakeDoc/gemshub/internal/logger"
)

// RequireSession rejects requests without a live admin session cookie.
func RequireSession(gate *auth.Gate, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !gate.Valid(r.Context(), auth.Token(r)) {
				log.Debug("admin request without valid session",
					logger.String("method", r.Method),
					logger.String("path", r.URL.Path))
				WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// WriteJSONError writes the {"error": msg} body the API uses everywhere.
func WriteJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg})
}
