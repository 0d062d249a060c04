package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/gemshub/internal/domain"
	"github.com/MrSnakeDoc/gemshub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/gemshub/internal/logger"
	"github.com/MrSnakeDoc/gemshub/internal/store/file"
)

const (
	msgNotFound    = "Not found"
	msgSaveFailed  = "Failed to save gems"
	msgInvalidJSON = "Invalid JSON body"
	msgInvalidGem  = "Invalid gem"
)

// ListGems returns every gem, published or not.
func ListGems(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, d.Logger, http.StatusOK, d.Store.All())
	}
}

// CreateGem validates the body and stores a new gem.
func CreateGem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields domain.GemFields
		if err := decodeJSON(r, &fields); err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, msgInvalidJSON)
			return
		}
		if err := domain.ValidateFields(fields); err != nil {
			writeValidationError(w, d.Logger, err)
			return
		}

		gem, err := d.Store.Create(fields)
		if err != nil {
			writeStoreError(w, d.Logger, err)
			return
		}
		writeJSON(w, d.Logger, http.StatusCreated, gem)
	}
}

// GetGem returns one gem by id.
func GetGem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gem, err := d.Store.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, d.Logger, err)
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, gem)
	}
}

// UpdateGem applies a partial update.
func UpdateGem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch domain.Patch
		if err := decodeJSON(r, &patch); err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, msgInvalidJSON)
			return
		}
		if err := domain.ValidatePatch(patch); err != nil {
			writeValidationError(w, d.Logger, err)
			return
		}

		gem, err := d.Store.Update(chi.URLParam(r, "id"), patch)
		if err != nil {
			writeStoreError(w, d.Logger, err)
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, gem)
	}
}

// DeleteGem removes a gem.
func DeleteGem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed, err := d.Store.Remove(chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, d.Logger, err)
			return
		}
		if !removed {
			writeError(w, d.Logger, http.StatusNotFound, msgNotFound)
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, successResponse{Success: true})
	}
}

// ToggleGem flips the published flag.
func ToggleGem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gem, err := d.Store.TogglePublished(chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, d.Logger, err)
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, gem)
	}
}

// DownloadGems serves the canonical snapshot as a file attachment.
func DownloadGems(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := d.Store.Snapshot()
		if err != nil {
			d.Logger.Error("failed to build snapshot", logger.Error(err))
			writeError(w, d.Logger, http.StatusInternalServerError, "Failed to export gems")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", "attachment; filename=gems.json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(snapshot); err != nil {
			d.Logger.Debug("failed to write snapshot", logger.Error(err))
		}
	}
}

func writeValidationError(w http.ResponseWriter, log logger.Logger, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, log, http.StatusBadRequest, errorResponse{Error: msgInvalidGem, Fields: verr.Fields})
		return
	}
	writeError(w, log, http.StatusBadRequest, err.Error())
}

func writeStoreError(w http.ResponseWriter, log logger.Logger, err error) {
	if errors.Is(err, file.ErrNotFound) {
		writeError(w, log, http.StatusNotFound, msgNotFound)
		return
	}
	log.Error("gem store write failed", logger.Error(err))
	writeError(w, log, http.StatusInternalServerError, msgSaveFailed)
}
