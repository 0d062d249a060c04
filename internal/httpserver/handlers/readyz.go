package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/MrSnakeDoc/gemshub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/gemshub/internal/logger"
)

type readyzResponse struct {
	Ready  bool              `json:"ready"`
	Checks map[string]string `json:"checks"`
}

// Readyz reports whether the data directory and the session backend are
// usable.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := readyzResponse{Ready: true, Checks: map[string]string{}}

		if err := checkDataDir(d.Store.Path()); err != nil {
			resp.Ready = false
			resp.Checks["store"] = err.Error()
		} else {
			resp.Checks["store"] = "ok"
		}

		if d.Sessions != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.Sessions.Ping(ctx); err != nil {
				d.Logger.Warn("session backend not ready", logger.Error(err))
				resp.Ready = false
				resp.Checks["sessions"] = "unreachable"
			} else {
				resp.Checks["sessions"] = "ok"
			}
		} else {
			resp.Checks["sessions"] = "memory"
		}

		if d.Mirror != nil && d.Mirror.Enabled() {
			resp.Checks["mirror"] = "enabled"
		} else {
			resp.Checks["mirror"] = "disabled"
		}

		status := http.StatusOK
		if !resp.Ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, d.Logger, status, resp)
	}
}

// checkDataDir succeeds when the file's directory exists or can be created
// by the first write.
func checkDataDir(path string) error {
	dir := filepath.Dir(path)
	for {
		info, err := os.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return &os.PathError{Op: "stat", Path: dir, Err: os.ErrInvalid}
			}
			return nil
		}
		if !os.IsNotExist(err) {
			return err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return err
		}
		dir = parent
	}
}
