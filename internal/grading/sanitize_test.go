package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bareResponse = `{"score": 92, "errors": [{"word": "chie", "correction": "chien", "description": "Erreur d'orthographe"}], "correction": "Le chien court dans le jardin.", "total_words": 6, "error_count": 1, "pedagogical_advice": {"summary": "Attention aux finales", "tips": ["Relire"], "exercises": ["Copier la phrase"]}}`

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bare", bareResponse},
		{"json fence", "```json\n" + bareResponse + "\n```"},
		{"plain fence", "```\n" + bareResponse + "\n```"},
		{"prose around fence", "Voici la correction :\n```json\n" + bareResponse + "\n```\nBon courage !"},
		{"prose without fence", "Voici : " + bareResponse + " Merci."},
		{"whitespace", "\n\n  " + bareResponse + "  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, bareResponse, ExtractJSON(tt.raw))
		})
	}
}

func TestParseResponseFencedEqualsBare(t *testing.T) {
	bare, err := ParseResponse(bareResponse)
	require.NoError(t, err)

	fenced, err := ParseResponse("```json " + bareResponse + " ```")
	require.NoError(t, err)

	assert.Equal(t, bare, fenced)
	assert.Equal(t, 92.0, bare.Score)
	assert.Equal(t, 1, bare.ErrorCount)
	require.NotNil(t, bare.PedagogicalAdvice)
	assert.Equal(t, []string{"Relire"}, bare.PedagogicalAdvice.Tips)
}

func TestParseResponseFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"garbage", "Désolé, je ne peux pas corriger ce texte.", ErrGradingResponseInvalid},
		{"empty", "", ErrGradingResponseInvalid},
		{"truncated json", `{"score": 80, "errors": [`, ErrGradingResponseInvalid},
		{"array", `[1, 2, 3]`, ErrGradingResponseInvalid},
		{"missing error_count", `{"score": 80, "errors": [], "correction": "x", "total_words": 1}`, ErrGradingResponseIncomplete},
		{"missing everything", `{}`, ErrGradingResponseIncomplete},
		{"null score", `{"score": null, "errors": [], "correction": "x", "total_words": 1, "error_count": 0}`, ErrGradingResponseInvalid},
		{"errors not a list", `{"score": 80, "errors": "aucune", "correction": "x", "total_words": 1, "error_count": 0}`, ErrGradingResponseInvalid},
		{"NaN score", `{"score": "NaN", "errors": [], "correction": "x", "total_words": 1, "error_count": 0}`, ErrGradingResponseInvalid},
		{"infinite score", `{"score": "-Inf", "errors": [], "correction": "x", "total_words": 1, "error_count": 0}`, ErrGradingResponseInvalid},
		{"overflowing score", `{"score": 1e999, "errors": [], "correction": "x", "total_words": 1, "error_count": 0}`, ErrGradingResponseInvalid},
		{"negative total_words", `{"score": 80, "errors": [], "correction": "x", "total_words": -1, "error_count": 0}`, ErrGradingResponseInvalid},
		{"NaN total_words", `{"score": 80, "errors": [], "correction": "x", "total_words": "NaN", "error_count": 0}`, ErrGradingResponseInvalid},
		{"negative error_count", `{"score": 80, "errors": [], "correction": "x", "total_words": 1, "error_count": -4}`, ErrGradingResponseInvalid},
		{"huge error_count", `{"score": 80, "errors": [], "correction": "x", "total_words": 1, "error_count": 1e12}`, ErrGradingResponseInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseResponse(tt.raw)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseResponseFillsErrorDefaults(t *testing.T) {
	raw := `{"score": 70, "errors": [{"word": "chie"}, {"word": null, "correction": 3, "description": null}, "virgule oubliée", null], "correction": null, "total_words": 6, "error_count": 4}`

	result, err := ParseResponse(raw)
	require.NoError(t, err)
	require.Len(t, result.Errors, 4)

	assert.Equal(t, "chie", result.Errors[0].Word)
	assert.Equal(t, "", result.Errors[0].Correction)
	assert.Equal(t, "", result.Errors[0].Description)
	assert.Equal(t, "", result.Errors[1].Word)
	assert.Equal(t, "3", result.Errors[1].Correction)
	assert.Equal(t, "virgule oubliée", result.Errors[2].Description)
	assert.Equal(t, "", result.Errors[3].Word)
	assert.Equal(t, "", result.Correction)
	assert.Nil(t, result.PedagogicalAdvice)
}

func TestParseResponseClampsScore(t *testing.T) {
	tests := []struct {
		score string
		want  float64
	}{
		{"150", 100},
		{"-20", 0},
		{`"85"`, 85},
		{"87.5", 87.5},
	}

	for _, tt := range tests {
		t.Run(tt.score, func(t *testing.T) {
			raw := `{"score": ` + tt.score + `, "errors": null, "correction": "x", "total_words": 1, "error_count": 0}`
			result, err := ParseResponse(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Score)
			assert.NotNil(t, result.Errors)
		})
	}
}
