package handlers

import (
	"net/http"

	"github.com/Ebenezer-Bakouan/backend/internal/models"
	"github.com/Ebenezer-Bakouan/backend/internal/service"
)

// DictationHandler handles dictation reading, entry and generation
type DictationHandler struct {
	dictations *service.DictationService
	narration  *service.NarrationService
}

// NewDictationHandler creates a new dictation handler
func NewDictationHandler(dictations *service.DictationService, narration *service.NarrationService) *DictationHandler {
	return &DictationHandler{dictations: dictations, narration: narration}
}

// List returns public dictations, filtered by ?difficulty=
func (h *DictationHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.dictations.ListPublic(r.Context(), r.URL.Query().Get("difficulty"))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, r, http.StatusOK, list)
}

// Get returns one dictation
func (h *DictationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	d, err := h.dictations.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, r, http.StatusOK, d)
}

// Create stores a manually entered dictation owned by the caller
func (h *DictationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateDictationInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.OwnerID = GetUserIDFromContext(r.Context())

	d, err := h.dictations.Create(r.Context(), input)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, r, http.StatusCreated, d)
}

// Generate creates a dictation with the generation model
func (h *DictationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var params service.GenerationParams
	if r.ContentLength != 0 && !decodeJSON(w, r, &params) {
		return
	}

	generated, err := h.dictations.Generate(r.Context(), params)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, r, http.StatusOK, generated)
}

// Narrate (re)generates a dictation's audio
func (h *DictationHandler) Narrate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	d, err := h.dictations.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	if _, err := h.narration.Narrate(r.Context(), d); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, r, http.StatusOK, struct {
		Status string            `json:"status"`
		Dict   *models.Dictation `json:"dictation"`
	}{"audio generated", d})
}
