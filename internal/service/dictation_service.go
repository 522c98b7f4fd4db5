package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Ebenezer-Bakouan/backend/internal/audio"
	"github.com/Ebenezer-Bakouan/backend/internal/grading"
	"github.com/Ebenezer-Bakouan/backend/internal/logging"
	"github.com/Ebenezer-Bakouan/backend/internal/models"
	"github.com/Ebenezer-Bakouan/backend/internal/repository"
)

var generationRequiredKeys = []string{"text", "title", "difficulty", "longueur_reelle", "vocabulaire_rare", "score_difficulte"}

// DictationStore persists dictations.
type DictationStore interface {
	DictationReader
	Create(ctx context.Context, d *models.Dictation) (int64, error)
	List(ctx context.Context, filter repository.DictationFilter) ([]models.Dictation, error)
}

// GeneratedDictation is what the generation model is asked to return, and,
// once stored, what the generate endpoint responds with.
type GeneratedDictation struct {
	ID                int64    `json:"id"`
	Text              string   `json:"text"`
	AudioURL          *string  `json:"audio_url"`
	Title             string   `json:"title"`
	Difficulty        string   `json:"difficulty"`
	LongueurReelle    string   `json:"longueur_reelle"`
	VocabulaireRare   []string `json:"vocabulaire_rare"`
	ScoreDifficulte   float64  `json:"score_difficulte"`
	TypesConjugaisons []string `json:"types_conjugaisons,omitempty"`
	AccordsComplexes  []string `json:"accords_complexes,omitempty"`
}

// generationSchema is the subset of GeneratedDictation the model fills in.
type generationSchema struct {
	Title             string   `json:"title"`
	Text              string   `json:"text"`
	Difficulty        string   `json:"difficulty"`
	LongueurReelle    string   `json:"longueur_reelle"`
	VocabulaireRare   []string `json:"vocabulaire_rare"`
	ScoreDifficulte   float64  `json:"score_difficulte"`
	TypesConjugaisons []string `json:"types_conjugaisons,omitempty"`
	AccordsComplexes  []string `json:"accords_complexes,omitempty"`
}

// GenerationSchema is reflected into the response schema for providers that
// support constrained output.
func GenerationSchema() any {
	return generationSchema{}
}

// CreateDictationInput is a manually entered dictation
type CreateDictationInput struct {
	Title      string   `json:"title"`
	Text       string   `json:"text"`
	Difficulty string   `json:"difficulty"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	IsPublic   *bool    `json:"is_public"`
	OwnerID    *int64   `json:"-"`
}

// DictationService handles dictation creation, lookup and generation
type DictationService struct {
	dictations DictationStore
	generator  grading.Client
	narration  *NarrationService
	timeout    time.Duration
}

// NewDictationService creates a dictation service. A nil generator disables
// generation; a nil narration service stores dictations without audio.
func NewDictationService(dictations DictationStore, generator grading.Client, narration *NarrationService, timeout time.Duration) *DictationService {
	if timeout <= 0 {
		timeout = grading.DefaultTimeout
	}
	return &DictationService{
		dictations: dictations,
		generator:  generator,
		narration:  narration,
		timeout:    timeout,
	}
}

// Create stores a manually entered dictation
func (s *DictationService) Create(ctx context.Context, input CreateDictationInput) (*models.Dictation, error) {
	title := strings.TrimSpace(input.Title)
	text := strings.TrimSpace(input.Text)
	if title == "" || text == "" {
		return nil, fmt.Errorf("%w: title and text are required", ErrInvalidInput)
	}

	difficulty := models.DifficultyMedium
	if input.Difficulty != "" {
		if !models.ValidDifficulty(input.Difficulty) {
			return nil, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidInput, input.Difficulty)
		}
		difficulty = input.Difficulty
	}

	d := &models.Dictation{
		Title:      title,
		Text:       text,
		Difficulty: difficulty,
		IsPublic:   input.IsPublic == nil || *input.IsPublic,
		OwnerID:    input.OwnerID,
		Category:   strings.TrimSpace(input.Category),
		Tags:       input.Tags,
	}
	if _, err := s.dictations.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return d, nil
}

// Get returns one dictation
func (s *DictationService) Get(ctx context.Context, id int64) (*models.Dictation, error) {
	d, err := s.dictations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	if d == nil {
		return nil, ErrDictationNotFound
	}
	return d, nil
}

// ListPublic returns public dictations, optionally of one difficulty
func (s *DictationService) ListPublic(ctx context.Context, difficulty string) ([]models.Dictation, error) {
	if difficulty != "" && !models.ValidDifficulty(difficulty) {
		return nil, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidInput, difficulty)
	}
	list, err := s.dictations.List(ctx, repository.DictationFilter{Difficulty: difficulty, PublicOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	return list, nil
}

// Latest returns the most recently created dictation
func (s *DictationService) Latest(ctx context.Context) (*models.Dictation, error) {
	list, err := s.dictations.List(ctx, repository.DictationFilter{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	if len(list) == 0 {
		return nil, ErrDictationNotFound
	}
	return &list[0], nil
}

// Generate asks the generation model for a new dictation, narrates it and
// stores it. A narration failure keeps the dictation without audio.
func (s *DictationService) Generate(ctx context.Context, params GenerationParams) (*GeneratedDictation, error) {
	log := logging.NewLogger(ctx)
	if s.generator == nil {
		return nil, fmt.Errorf("%w: no generator configured", ErrGenerationFailed)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	raw, err := s.generator.Generate(callCtx, BuildGenerationPrompt(params))
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	generated, err := parseGeneration(raw)
	if err != nil {
		log.Errorf("Unusable generation response: %v", err)
		return nil, err
	}

	if url, err := s.narration.Render(ctx, generated.Text); err == nil {
		generated.AudioURL = &url
	} else if !errors.Is(err, audio.ErrNarrationDisabled) {
		log.Warnf("Narration failed, keeping dictation without audio: %v", err)
	}

	d := &models.Dictation{
		Title:      generated.Title,
		Text:       generated.Text,
		Difficulty: models.NormalizeDifficulty(generated.Difficulty),
		AudioURL:   generated.AudioURL,
		IsPublic:   true,
		Tags:       generated.VocabulaireRare,
	}
	if _, err := s.dictations.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	generated.ID = d.ID
	log.WithField("dictation_id", d.ID).Info("Generated dictation")
	return generated, nil
}

func parseGeneration(raw string) (*GeneratedDictation, error) {
	fields, err := grading.DecodeObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if missing := grading.MissingKeys(fields, generationRequiredKeys...); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrGenerationIncomplete, strings.Join(missing, ", "))
	}

	g := &GeneratedDictation{
		Title:             jsonString(fields["title"]),
		Text:              jsonString(fields["text"]),
		Difficulty:        jsonString(fields["difficulty"]),
		LongueurReelle:    jsonString(fields["longueur_reelle"]),
		VocabulaireRare:   jsonStrings(fields["vocabulaire_rare"]),
		ScoreDifficulte:   jsonNumber(fields["score_difficulte"]),
		TypesConjugaisons: jsonStrings(fields["types_conjugaisons"]),
		AccordsComplexes:  jsonStrings(fields["accords_complexes"]),
	}
	if strings.TrimSpace(g.Text) == "" || strings.TrimSpace(g.Title) == "" {
		return nil, fmt.Errorf("%w: empty title or text", ErrGenerationIncomplete)
	}
	if g.VocabulaireRare == nil {
		g.VocabulaireRare = []string{}
	}
	return g, nil
}

func jsonString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.Trim(strings.TrimSpace(string(raw)), `"`)
}

func jsonStrings(raw json.RawMessage) []string {
	if raw == nil {
		return nil
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, strings.TrimSpace(fmt.Sprint(item)))
	}
	return out
}

func jsonNumber(raw json.RawMessage) float64 {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	n, _ = strconv.ParseFloat(jsonString(raw), 64)
	return n
}
