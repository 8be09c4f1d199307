package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"miningdash/internal/logger"
	"miningdash/internal/middleware"
	"miningdash/internal/store"
	"miningdash/internal/validator"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondValidation writes a 400 for validator failures and false for anything else.
func respondValidation(w http.ResponseWriter, err error) bool {
	var verr *validator.Error
	if errors.As(err, &verr) {
		respondError(w, http.StatusBadRequest, verr.Error())
		return true
	}
	return false
}

// respondStoreError maps ErrNotFound to 404 and everything else to a logged 500.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg, failMsg string) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, notFoundMsg)
		return
	}
	logger.WithField("path", r.URL.Path).Errorf("%s: %v", failMsg, err)
	respondError(w, http.StatusInternalServerError, failMsg)
}

func decodeJSON(r *http.Request, dest any) error {
	return json.NewDecoder(r.Body).Decode(dest)
}

func ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
	}
	return id, ok
}

// parseLimit reads ?limit=, falling back to the default on absent or invalid
// values and clamping to the maximum.
func parseLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
