package grading

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Ebenezer-Bakouan/backend/internal/models"
)

const fence = "```"

// maxCount bounds total_words and error_count; a dictation is a few hundred
// words at most.
const maxCount = 100000

var requiredKeys = []string{"score", "errors", "correction", "total_words", "error_count"}

// ExtractJSON pulls a JSON object out of noisy model output. Code fences
// (with or without a language tag) are stripped first, then anything before
// the first '{' and after the last '}' is dropped.
func ExtractJSON(raw string) string {
	text := strings.TrimSpace(raw)

	if i := strings.Index(text, fence); i >= 0 {
		inner := strings.TrimLeft(text[i+len(fence):], "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
		if j := strings.Index(inner, fence); j >= 0 {
			inner = inner[:j]
		}
		text = strings.TrimSpace(inner)
	}

	if !strings.HasPrefix(text, "{") {
		if i := strings.Index(text, "{"); i >= 0 {
			text = text[i:]
		}
	}
	if !strings.HasSuffix(text, "}") {
		if i := strings.LastIndex(text, "}"); i >= 0 {
			text = text[:i+1]
		}
	}
	return text
}

// ParseResponse turns raw grader output into a validated result. It returns
// ErrGradingResponseInvalid when no JSON object can be decoded and
// ErrGradingResponseIncomplete when a required key is missing. Error entries
// always come back with non-null word, correction and description.
func ParseResponse(raw string) (*models.GradingResult, error) {
	fields, err := DecodeObject(raw)
	if err != nil {
		return nil, err
	}
	if missing := MissingKeys(fields, requiredKeys...); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrGradingResponseIncomplete, strings.Join(missing, ", "))
	}

	score, err := decodeNumber(fields["score"])
	if err != nil {
		return nil, fmt.Errorf("%w: score: %v", ErrGradingResponseInvalid, err)
	}
	totalWords, err := decodeCount(fields["total_words"])
	if err != nil {
		return nil, fmt.Errorf("%w: total_words: %v", ErrGradingResponseInvalid, err)
	}
	errorCount, err := decodeCount(fields["error_count"])
	if err != nil {
		return nil, fmt.Errorf("%w: error_count: %v", ErrGradingResponseInvalid, err)
	}
	entries, err := decodeErrors(fields["errors"])
	if err != nil {
		return nil, fmt.Errorf("%w: errors: %v", ErrGradingResponseInvalid, err)
	}

	result := &models.GradingResult{
		Score:      clampScore(score),
		Errors:     entries,
		Correction: decodeLooseString(fields["correction"]),
		TotalWords: totalWords,
		ErrorCount: errorCount,
	}
	if advice, ok := fields["pedagogical_advice"]; ok {
		result.PedagogicalAdvice = decodeAdvice(advice)
	}
	return result, nil
}

// DecodeObject extracts and decodes the JSON object found in raw.
func DecodeObject(raw string) (map[string]json.RawMessage, error) {
	payload := ExtractJSON(raw)
	if payload == "" {
		return nil, fmt.Errorf("%w: empty response", ErrGradingResponseInvalid)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGradingResponseInvalid, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: not an object", ErrGradingResponseInvalid)
	}
	return fields, nil
}

// MissingKeys lists the keys absent from fields, in the order given.
func MissingKeys(fields map[string]json.RawMessage, keys ...string) []string {
	var missing []string
	for _, key := range keys {
		if _, ok := fields[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

func clampScore(score float64) float64 {
	return math.Min(100, math.Max(0, score))
}

// decodeNumber accepts JSON numbers and numeric strings such as "85".
// NaN and infinities are rejected.
func decodeNumber(raw json.RawMessage) (float64, error) {
	if strings.TrimSpace(string(raw)) == "null" {
		return 0, fmt.Errorf("null value")
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("not a number: %s", raw)
		}
		n, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", s)
		}
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("not a finite number: %s", raw)
	}
	return n, nil
}

// decodeCount is decodeNumber restricted to [0, maxCount].
func decodeCount(raw json.RawMessage) (int, error) {
	n, err := decodeNumber(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > maxCount {
		return 0, fmt.Errorf("count out of range: %v", n)
	}
	return int(n), nil
}

func decodeErrors(raw json.RawMessage) ([]models.ErrorEntry, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}

	entries := make([]models.ErrorEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, decodeErrorEntry(item))
	}
	return entries, nil
}

// decodeErrorEntry never fails: objects have their three fields coerced to
// strings, a bare string becomes the description, anything else is empty.
func decodeErrorEntry(raw json.RawMessage) models.ErrorEntry {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil && obj != nil {
		return models.ErrorEntry{
			Word:        looseString(obj["word"]),
			Correction:  looseString(obj["correction"]),
			Description: looseString(obj["description"]),
		}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return models.ErrorEntry{Description: s}
	}
	return models.ErrorEntry{}
}

func decodeLooseString(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return looseString(v)
}

func looseString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func decodeAdvice(raw json.RawMessage) *models.PedagogicalAdvice {
	var loose struct {
		Summary   any   `json:"summary"`
		Tips      []any `json:"tips"`
		Exercises []any `json:"exercises"`
	}
	if err := json.Unmarshal(raw, &loose); err != nil {
		return nil
	}
	if loose.Summary == nil && loose.Tips == nil && loose.Exercises == nil {
		return nil
	}

	advice := &models.PedagogicalAdvice{
		Summary:   looseString(loose.Summary),
		Tips:      make([]string, 0, len(loose.Tips)),
		Exercises: make([]string, 0, len(loose.Exercises)),
	}
	for _, tip := range loose.Tips {
		advice.Tips = append(advice.Tips, looseString(tip))
	}
	for _, ex := range loose.Exercises {
		advice.Exercises = append(advice.Exercises, looseString(ex))
	}
	return advice
}
