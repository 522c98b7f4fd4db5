package grading

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Ebenezer-Bakouan/backend/internal/models"
)

const fallbackPenalty = 5

// FallbackScore compares normalized reference and submission word by word
// at the same positions, padding the shorter side with empty words. It does
// not realign after an insertion or deletion, so one dropped word flags
// every following position. Words are compared without surrounding
// punctuation. Score is max(0, 100 - 5*mismatches).
func FallbackScore(normReference, normSubmission, rawReference string) *models.GradingResult {
	refWords := Words(normReference)
	subWords := Words(normSubmission)

	n := max(len(refWords), len(subWords))
	errs := make([]models.ErrorEntry, 0)
	for i := 0; i < n; i++ {
		ref := wordAt(refWords, i)
		sub := wordAt(subWords, i)
		if stripPunct(ref) == stripPunct(sub) {
			continue
		}
		errs = append(errs, models.ErrorEntry{
			Word:        sub,
			Correction:  ref,
			Description: mismatchDescription(i+1, ref, sub),
		})
	}

	return &models.GradingResult{
		Score:      float64(max(0, 100-fallbackPenalty*len(errs))),
		Errors:     errs,
		Correction: rawReference,
		TotalWords: WordCount(rawReference),
		ErrorCount: len(errs),
	}
}

func wordAt(words []string, i int) string {
	if i < len(words) {
		return words[i]
	}
	return ""
}

func stripPunct(w string) string {
	return strings.TrimFunc(w, unicode.IsPunct)
}

func mismatchDescription(pos int, ref, sub string) string {
	switch {
	case sub == "":
		return fmt.Sprintf("Mot %d : mot manquant, « %s » attendu.", pos, ref)
	case ref == "":
		return fmt.Sprintf("Mot %d : « %s » est en trop.", pos, sub)
	default:
		return fmt.Sprintf("Mot %d : « %s » au lieu de « %s ».", pos, sub, ref)
	}
}
