package handlers

import (
	"net/http"
	"strconv"

	"github.com/Ebenezer-Bakouan/backend/internal/service"
)

const defaultAttemptListLimit = 50

type submitRequest struct {
	SubmissionText *string `json:"submission_text"`
	UserText       *string `json:"user_text"`
	TimeTaken      *int    `json:"time_taken"`
}

type legacyCorrectRequest struct {
	DictationID *int64 `json:"dictation_id"`
	Text        string `json:"text"`
}

// AttemptHandler handles grading and attempt history
type AttemptHandler struct {
	grading    *service.GradingService
	dictations *service.DictationService
}

// NewAttemptHandler creates a new attempt handler
func NewAttemptHandler(grading *service.GradingService, dictations *service.DictationService) *AttemptHandler {
	return &AttemptHandler{grading: grading, dictations: dictations}
}

// Submit grades a submission for the dictation in the path
func (h *AttemptHandler) Submit(w http.ResponseWriter, r *http.Request) {
	dictationID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	submission := req.SubmissionText
	if submission == nil {
		submission = req.UserText
	}
	if submission == nil {
		respondWithError(w, r, http.StatusBadRequest, ErrMissingSubmission, "", nil)
		return
	}

	resp, err := h.grading.GradeSubmission(r.Context(), service.GradeRequest{
		DictationID:  dictationID,
		Submission:   *submission,
		UserID:       GetUserIDFromContext(r.Context()),
		TimeTakenSec: req.TimeTaken,
	})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, r, http.StatusOK, resp)
}

// LegacyCorrect grades {dictation_id, text}; without an id the most recent
// dictation is used.
func (h *AttemptHandler) LegacyCorrect(w http.ResponseWriter, r *http.Request) {
	var req legacyCorrectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var dictationID int64
	if req.DictationID != nil {
		dictationID = *req.DictationID
	} else {
		latest, err := h.dictations.Latest(r.Context())
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		dictationID = latest.ID
	}

	resp, err := h.grading.GradeSubmission(r.Context(), service.GradeRequest{
		DictationID: dictationID,
		Submission:  req.Text,
		UserID:      GetUserIDFromContext(r.Context()),
	})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, r, http.StatusOK, resp)
}

// List returns a dictation's attempts, newest first
func (h *AttemptHandler) List(w http.ResponseWriter, r *http.Request) {
	dictationID, ok := pathID(w, r)
	if !ok {
		return
	}

	limit := defaultAttemptListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondWithError(w, r, http.StatusBadRequest, "Invalid limit", "", nil)
			return
		}
		limit = n
	}

	attempts, err := h.grading.ListAttempts(r.Context(), dictationID, limit)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, r, http.StatusOK, attempts)
}

// Get returns one attempt
func (h *AttemptHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	attempt, err := h.grading.GetAttempt(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, r, http.StatusOK, attempt)
}

// Progress returns the caller's progress rows
func (h *AttemptHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	rows, err := h.grading.Progress(r.Context(), *userID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, r, http.StatusOK, rows)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, r, http.StatusBadRequest, ErrInvalidID, "", nil)
		return 0, false
	}
	return id, true
}
