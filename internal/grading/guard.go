package grading

import "github.com/Ebenezer-Bakouan/backend/internal/models"

const (
	emptySubmissionMessage = "Le texte est vide. Veuillez écrire la dictée."
	tooShortMessage        = "Le texte est trop court. Veuillez écrire la dictée complète."

	// minLengthRatio is the inverse of the minimum share of the reference
	// length a submission must reach (10%).
	minLengthRatio = 10
)

// CheckSubmission short-circuits submissions that cannot be graded
// meaningfully. It takes normalized submission and reference plus the raw
// reference, and returns a zero-score result with the reason when the
// submission is empty or shorter than a tenth of the reference. A nil
// result means grading should proceed.
func CheckSubmission(normSubmission, normReference, rawReference string) (*models.GradingResult, error) {
	switch {
	case normSubmission == "":
		return zeroResult(rawReference, emptySubmissionMessage), ErrEmptySubmission
	case charCount(normSubmission)*minLengthRatio < charCount(normReference):
		return zeroResult(rawReference, tooShortMessage), ErrSubmissionTooShort
	}
	return nil, nil
}

func zeroResult(rawReference, description string) *models.GradingResult {
	total := WordCount(rawReference)
	return &models.GradingResult{
		Score: 0,
		Errors: []models.ErrorEntry{
			{Word: "", Correction: "", Description: description},
		},
		Correction: rawReference,
		TotalWords: total,
		ErrorCount: total,
	}
}
