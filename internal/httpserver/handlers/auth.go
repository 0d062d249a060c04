package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/gemshub/internal/auth"
	"github.com/MrSnakeDoc/gemshub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/gemshub/internal/logger"
	"github.com/MrSnakeDoc/gemshub/internal/utils"
)

type loginRequest struct {
	Password string `json:"password"`
}

type sessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

// Login exchanges the admin password for a session cookie.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, msgInvalidJSON)
			return
		}

		token, err := d.Gate.Login(r.Context(), req.Password)
		switch {
		case errors.Is(err, auth.ErrPasswordRequired):
			writeError(w, d.Logger, http.StatusBadRequest, "Password is required.")
			return
		case errors.Is(err, auth.ErrInvalidPassword):
			d.Logger.Warn("admin login rejected",
				logger.String("remote_ip", utils.ClientIP(r, d.TrustProxy)))
			writeError(w, d.Logger, http.StatusUnauthorized, "Invalid password.")
			return
		case err != nil:
			d.Logger.Error("admin login failed", logger.Error(err))
			writeError(w, d.Logger, http.StatusInternalServerError, "Login unavailable")
			return
		}

		d.Logger.Info("admin logged in",
			logger.String("remote_ip", utils.ClientIP(r, d.TrustProxy)))
		http.SetCookie(w, d.Gate.SessionCookie(token))
		writeJSON(w, d.Logger, http.StatusOK, successResponse{Success: true})
	}
}

// Logout forgets the session and clears the cookie.
func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Gate.Logout(r.Context(), auth.Token(r)); err != nil {
			d.Logger.Warn("failed to delete session", logger.Error(err))
		}
		http.SetCookie(w, d.Gate.ClearedCookie())
		writeJSON(w, d.Logger, http.StatusOK, successResponse{Success: true})
	}
}

// Session tells the admin UI whether its cookie is still good.
func Session(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, d.Logger, http.StatusOK, sessionResponse{
			Authenticated: d.Gate.Valid(r.Context(), auth.Token(r)),
		})
	}
}
