package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Ebenezer-Bakouan/backend/internal/audio"
	"github.com/Ebenezer-Bakouan/backend/internal/logging"
	"github.com/Ebenezer-Bakouan/backend/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, r *http.Request, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		logging.NewLogger(r.Context()).WithField("status", status).Errorf("%s: %v", logMsg, err)
	}

	respondWithJSON(w, r, status, errorResponse{Error: userMsg})
}

func respondWithJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.NewLogger(r.Context()).Errorf("Failed to write response: %v", err)
	}
}

// respondWithServiceError maps service errors onto HTTP statuses
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrDictationNotFound), errors.Is(err, service.ErrAttemptNotFound):
		respondWithError(w, r, http.StatusNotFound, err.Error(), "", nil)
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, r, http.StatusBadRequest, err.Error(), "", nil)
	case errors.Is(err, service.ErrGenerationFailed), errors.Is(err, service.ErrGenerationIncomplete):
		respondWithError(w, r, http.StatusBadGateway, ErrGenerationUnavailable, "Generation failed", err)
	case errors.Is(err, audio.ErrNarrationDisabled):
		respondWithError(w, r, http.StatusServiceUnavailable, ErrNarrationUnavailable, "", nil)
	default:
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, r, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return false
	}
	return true
}
