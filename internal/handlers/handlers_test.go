package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ebenezer-Bakouan/backend/internal/database"
	"github.com/Ebenezer-Bakouan/backend/internal/grading"
	"github.com/Ebenezer-Bakouan/backend/internal/models"
	"github.com/Ebenezer-Bakouan/backend/internal/repository"
	"github.com/Ebenezer-Bakouan/backend/internal/security"
	"github.com/Ebenezer-Bakouan/backend/internal/service"
)

const (
	testSecret    = "test-secret"
	referenceText = "Le chien court dans le jardin."
)

type testServer struct {
	handler    http.Handler
	dictation  *models.Dictation
	graderHits *atomic.Int32
}

func newTestServer(t *testing.T, grader grading.ClientFunc, rate int) *testServer {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping handler test in short mode")
	}
	ctx := context.Background()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "dictee.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations(ctx, "../../migrations"))

	dictationRepo := repository.NewDictationRepository(db)
	d := &models.Dictation{Title: "Le chien", Text: referenceText, Difficulty: models.DifficultyEasy, IsPublic: true}
	_, err = dictationRepo.Create(ctx, d)
	require.NoError(t, err)

	hits := &atomic.Int32{}
	client := grading.ClientFunc(func(ctx context.Context, prompt string) (string, error) {
		hits.Add(1)
		return grader(ctx, prompt)
	})

	gradingService := service.NewGradingService(
		grading.NewPipeline(client, time.Second),
		dictationRepo,
		repository.NewAttemptRepository(db),
		repository.NewProgressRepository(db),
	)
	dictationService := service.NewDictationService(dictationRepo, nil, nil, time.Second)

	routes := Routes{
		Attempts:   NewAttemptHandler(gradingService, dictationService),
		Dictations: NewDictationHandler(dictationService, nil),
		Middleware: NewMiddleware(testSecret, security.NewRateLimiter(rate, time.Minute)),
		MediaPath:  t.TempDir(),
	}
	return &testServer{handler: routes.Handler(), dictation: d, graderHits: hits}
}

func failingGrader(context.Context, string) (string, error) {
	return "", errors.New("unavailable")
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func signToken(t *testing.T, userID int64, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           userID,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expires)},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestSubmitAttempt(t *testing.T) {
	s := newTestServer(t, failingGrader, 0)
	path := "/api/dictations/1/attempts"

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantScore  float64
		wantHits   int32
	}{
		{"fallback scoring", path, `{"submission_text": "Le chat court dans le jardin.", "time_taken": 30}`, http.StatusOK, 95, 1},
		{"legacy user_text key", path, `{"user_text": "Le chien court dans le jardin."}`, http.StatusOK, 100, 1},
		{"empty submission short-circuits", path, `{"submission_text": ""}`, http.StatusOK, 0, 0},
		{"missing field", path, `{}`, http.StatusBadRequest, 0, 0},
		{"bad json", path, `{`, http.StatusBadRequest, 0, 0},
		{"unknown dictation", "/api/dictations/99/attempts", `{"submission_text": "x"}`, http.StatusNotFound, 0, 0},
		{"bad id", "/api/dictations/abc/attempts", `{"submission_text": "x"}`, http.StatusBadRequest, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := s.graderHits.Load()
			rec := s.do(t, http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantHits, s.graderHits.Load()-before)
			if tt.wantStatus != http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"error"`)
				return
			}

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantScore, resp["score"])
			assert.NotZero(t, resp["attempt_id"])
			assert.Contains(t, resp, "errors")
			assert.Contains(t, resp, "correction")
			assert.Contains(t, resp, "total_words")
			assert.Contains(t, resp, "error_count")
		})
	}
}

func TestListAndGetAttempts(t *testing.T) {
	s := newTestServer(t, failingGrader, 0)

	for _, text := range []string{"Le chat court dans le jardin.", referenceText} {
		rec := s.do(t, http.MethodPost, "/api/dictations/1/attempts", `{"submission_text": "`+text+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := s.do(t, http.MethodGet, "/api/dictations/1/attempts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var attempts []models.Attempt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &attempts))
	require.Len(t, attempts, 2)
	assert.Equal(t, referenceText, attempts[0].UserText)
	assert.Equal(t, models.SourceFallback, attempts[0].GradingSource)

	rec = s.do(t, http.MethodGet, "/api/attempts/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Le chat")

	rec = s.do(t, http.MethodGet, "/api/attempts/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLegacyCorrectUsesLatestDictation(t *testing.T) {
	s := newTestServer(t, func(context.Context, string) (string, error) {
		return `{"score": 88, "errors": [], "correction": "c", "total_words": 6, "error_count": 0}`, nil
	}, 0)

	rec := s.do(t, http.MethodPost, "/api/dictation/correct/", `{"text": "Le chien court dans le jardin"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 88.0, resp["score"])
	assert.Equal(t, int32(1), s.graderHits.Load())
}

func TestDictationEndpoints(t *testing.T) {
	s := newTestServer(t, failingGrader, 0)

	rec := s.do(t, http.MethodPost, "/api/dictations", `{"title": "La pluie", "text": "Il pleut sur Ouagadougou.", "difficulty": "hard"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/dictations", `{"title": "", "text": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/dictations?difficulty=hard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Dictation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "La pluie", list[0].Title)

	rec = s.do(t, http.MethodGet, "/api/dictations/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Le chien")

	rec = s.do(t, http.MethodGet, "/api/dictations/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/dictation/generate/", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/dictations/1/audio", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestProgressRequiresAuth(t *testing.T) {
	s := newTestServer(t, failingGrader, 0)

	rec := s.do(t, http.MethodGet, "/api/progress", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := "Bearer " + signToken(t, 7, time.Now().Add(time.Hour))
	rec = s.do(t, http.MethodPost, "/api/dictations/1/attempts", `{"submission_text": "Le chien court dans le jardin."}`, "Authorization", token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/progress", "", "Authorization", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []models.UserProgress
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].UserID)
	assert.True(t, rows[0].IsMastered)
}

func TestOptionalAuthRejectsBadTokens(t *testing.T) {
	s := newTestServer(t, failingGrader, 0)

	tests := []struct {
		name   string
		header string
	}{
		{"not bearer", "Basic abc"},
		{"garbage", "Bearer not-a-token"},
		{"expired", "Bearer " + signToken(t, 7, time.Now().Add(-time.Hour))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/dictations", "", "Authorization", tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRateLimitedSubmission(t *testing.T) {
	s := newTestServer(t, failingGrader, 1)
	body := `{"submission_text": "Le chien court dans le jardin."}`

	rec := s.do(t, http.MethodPost, "/api/dictations/1/attempts", body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/dictations/1/attempts", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHealthAndRequestID(t *testing.T) {
	s := newTestServer(t, failingGrader, 0)

	rec := s.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = s.do(t, http.MethodGet, "/healthz", "", "X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
