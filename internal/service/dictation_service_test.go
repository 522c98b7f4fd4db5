package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ebenezer-Bakouan/backend/internal/models"
)

const generatedJSON = "Voici la dictée :\n```json\n" + `{"title": "Le marché de Koudougou", "text": "Le matin, le marché s'éveille.",
"difficulty": "facile", "longueur_reelle": "courte", "vocabulaire_rare": ["dolo", "karité", "soumbala"],
"score_difficulte": "4", "types_conjugaisons": ["imparfait"]}` + "\n```"

func TestBuildGenerationPromptDefaults(t *testing.T) {
	prompt := BuildGenerationPrompt(GenerationParams{})

	assert.Contains(t, prompt, "Âge : 12 ans")
	assert.Contains(t, prompt, `"la vie au village"`)
	assert.Contains(t, prompt, "Longueur souhaitée : moyenne")
	assert.Contains(t, prompt, "Type de contenu : narratif")
	assert.Contains(t, prompt, "Inclure conjugaisons difficiles : non")

	custom := BuildGenerationPrompt(GenerationParams{Topic: "la saison des pluies", IncludeConjugation: true})
	assert.Contains(t, custom, `"la saison des pluies"`)
	assert.Contains(t, custom, "Inclure conjugaisons difficiles : oui")
}

func TestGenerate(t *testing.T) {
	dictations := newMemDictations()
	store := &memAudioStore{}
	narration := NewNarrationService(&stubSynth{data: []byte("mp3")}, store, dictations)
	client := &stubClient{response: generatedJSON}
	svc := NewDictationService(dictations, client, narration, 0)

	got, err := svc.Generate(context.Background(), GenerationParams{Level: "facile"})
	require.NoError(t, err)

	assert.Equal(t, int32(1), client.calls.Load())
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "Le marché de Koudougou", got.Title)
	assert.Equal(t, 4.0, got.ScoreDifficulte)
	assert.Equal(t, []string{"dolo", "karité", "soumbala"}, got.VocabulaireRare)
	assert.Equal(t, []string{"imparfait"}, got.TypesConjugaisons)
	require.NotNil(t, got.AudioURL)
	assert.True(t, strings.HasPrefix(*got.AudioURL, "/media/dictations/"))
	assert.Len(t, store.saved, 1)

	stored, err := dictations.GetByID(context.Background(), got.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyEasy, stored.Difficulty)
	assert.Equal(t, *got.AudioURL, *stored.AudioURL)
}

func TestGenerateFailures(t *testing.T) {
	tests := []struct {
		name    string
		client  *stubClient
		wantErr error
	}{
		{"service error", &stubClient{err: errors.New("quota")}, ErrGenerationFailed},
		{"not json", &stubClient{response: "pas de json"}, ErrGenerationFailed},
		{"missing score", &stubClient{response: `{"title": "t", "text": "x", "difficulty": "facile", "longueur_reelle": "courte", "vocabulaire_rare": []}`}, ErrGenerationIncomplete},
		{"empty text", &stubClient{response: `{"title": "t", "text": " ", "difficulty": "facile", "longueur_reelle": "courte", "vocabulaire_rare": [], "score_difficulte": 3}`}, ErrGenerationIncomplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dictations := newMemDictations()
			svc := NewDictationService(dictations, tt.client, nil, 0)

			_, err := svc.Generate(context.Background(), GenerationParams{})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, dictations.items)
		})
	}
}

func TestGenerateWithoutGenerator(t *testing.T) {
	svc := NewDictationService(newMemDictations(), nil, nil, 0)
	_, err := svc.Generate(context.Background(), GenerationParams{})
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestGenerateKeepsDictationWhenNarrationFails(t *testing.T) {
	dictations := newMemDictations()
	narration := NewNarrationService(&stubSynth{err: errors.New("tts down")}, &memAudioStore{}, dictations)
	svc := NewDictationService(dictations, &stubClient{response: generatedJSON}, narration, 0)

	got, err := svc.Generate(context.Background(), GenerationParams{})
	require.NoError(t, err)
	assert.Nil(t, got.AudioURL)
	assert.Len(t, dictations.items, 1)
}

func TestCreateDictation(t *testing.T) {
	private := false
	tests := []struct {
		name    string
		input   CreateDictationInput
		wantErr error
		check   func(t *testing.T, d *models.Dictation)
	}{
		{
			name:  "defaults",
			input: CreateDictationInput{Title: " Le chien ", Text: referenceText},
			check: func(t *testing.T, d *models.Dictation) {
				assert.Equal(t, "Le chien", d.Title)
				assert.Equal(t, models.DifficultyMedium, d.Difficulty)
				assert.True(t, d.IsPublic)
				assert.Equal(t, []string{}, d.Tags)
			},
		},
		{
			name:  "explicit fields",
			input: CreateDictationInput{Title: "t", Text: "x", Difficulty: models.DifficultyHard, IsPublic: &private, Tags: []string{"a"}},
			check: func(t *testing.T, d *models.Dictation) {
				assert.Equal(t, models.DifficultyHard, d.Difficulty)
				assert.False(t, d.IsPublic)
				assert.Equal(t, []string{"a"}, d.Tags)
			},
		},
		{name: "missing text", input: CreateDictationInput{Title: "t"}, wantErr: ErrInvalidInput},
		{name: "bad difficulty", input: CreateDictationInput{Title: "t", Text: "x", Difficulty: "extreme"}, wantErr: ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewDictationService(newMemDictations(), nil, nil, 0)
			d, err := svc.Create(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, d.ID)
			tt.check(t, d)
		})
	}
}

func TestGetAndListPublic(t *testing.T) {
	dictations := newMemDictations(
		models.Dictation{ID: 1, Title: "a", Difficulty: models.DifficultyEasy, IsPublic: true},
		models.Dictation{ID: 2, Title: "b", Difficulty: models.DifficultyHard, IsPublic: true},
		models.Dictation{ID: 3, Title: "c", Difficulty: models.DifficultyEasy, IsPublic: false},
	)
	svc := NewDictationService(dictations, nil, nil, 0)
	ctx := context.Background()

	d, err := svc.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "b", d.Title)

	_, err = svc.Get(ctx, 9)
	assert.ErrorIs(t, err, ErrDictationNotFound)

	easy, err := svc.ListPublic(ctx, models.DifficultyEasy)
	require.NoError(t, err)
	require.Len(t, easy, 1)
	assert.Equal(t, "a", easy[0].Title)

	_, err = svc.ListPublic(ctx, "bogus")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNarrate(t *testing.T) {
	dictations := newMemDictations(models.Dictation{ID: 1, Title: "a", Text: referenceText})
	store := &memAudioStore{}
	svc := NewNarrationService(&stubSynth{data: []byte("mp3")}, store, dictations)

	d, _ := dictations.GetByID(context.Background(), 1)
	url, err := svc.Narrate(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, url, *d.AudioURL)

	stored, _ := dictations.GetByID(context.Background(), 1)
	assert.Equal(t, url, *stored.AudioURL)

	var disabled *NarrationService
	_, err = disabled.Render(context.Background(), "x")
	assert.Error(t, err)
}
