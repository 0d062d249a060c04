package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/gemshub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/gemshub/internal/logger"
)

type syncResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count,omitempty"`
}

// Sync pushes the whole collection to the remote mirror. With the resync
// scheduler running the push is handed to it; otherwise it runs inline.
func Sync(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Mirror == nil || !d.Mirror.Enabled() {
			writeError(w, d.Logger, http.StatusServiceUnavailable, "Remote mirror is not configured")
			return
		}

		if d.SyncTrigger != nil {
			select {
			case d.SyncTrigger <- struct{}{}:
				d.Logger.Info("manual mirror sync queued",
					logger.String("remote_ip", r.RemoteAddr))
				writeJSON(w, d.Logger, http.StatusAccepted, syncResponse{Status: "queued"})
			default:
				d.Logger.Warn("mirror sync already pending",
					logger.String("remote_ip", r.RemoteAddr))
				writeError(w, d.Logger, http.StatusTooManyRequests, "Sync already pending")
			}
			return
		}

		count, err := d.Mirror.Resync(r.Context(), d.Store.All)
		if err != nil {
			d.Logger.Error("manual mirror sync failed", logger.Error(err))
			writeError(w, d.Logger, http.StatusBadGateway, "Sync failed")
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, syncResponse{Status: "synced", Count: count})
	}
}
