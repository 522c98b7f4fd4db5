package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Ebenezer-Bakouan/backend/internal/logging"
	"github.com/Ebenezer-Bakouan/backend/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const UserIDContextKey ContextKey = "user_id"

// Claims are the bearer token claims issued by the external identity
// provider. Only the user id is used.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Middleware holds dependencies for middleware functions
type Middleware struct {
	jwtSecret []byte
	limiter   *security.RateLimiter
}

// NewMiddleware creates a new middleware instance. An empty secret disables
// bearer authentication and every request is anonymous.
func NewMiddleware(jwtSecret string, limiter *security.RateLimiter) *Middleware {
	return &Middleware{jwtSecret: []byte(jwtSecret), limiter: limiter}
}

// OptionalAuth attaches the caller's user id when a valid bearer token is
// sent. A missing header is anonymous; a bad token is rejected.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || len(m.jwtSecret) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			respondWithError(w, r, http.StatusUnauthorized, "Invalid Authorization header format", "", nil)
			return
		}

		userID, err := m.parseToken(token)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			}
			respondWithError(w, r, http.StatusUnauthorized, msg, "", nil)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) parseToken(token string) (int64, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}
	if !parsed.Valid || claims.UserID <= 0 {
		return 0, jwt.ErrTokenInvalidClaims
	}
	return claims.UserID, nil
}

// RequireAuth rejects anonymous callers
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if GetUserIDFromContext(r.Context()) == nil {
			respondWithError(w, r, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}
		next(w, r)
	}
}

// RateLimit limits requests per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.limiter != nil && !m.limiter.Allow(security.GetClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			respondWithError(w, r, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logging middleware tags each request with an id and logs it
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := logging.WithRequestID(r.Context(), requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		logging.NewLogger(ctx).
			WithField("status", rec.status).
			WithField("duration", time.Since(start).String()).
			Infof("%s %s", r.Method, r.URL.Path)
	})
}

// GetUserIDFromContext returns the authenticated user id, or nil
func GetUserIDFromContext(ctx context.Context) *int64 {
	id, ok := ctx.Value(UserIDContextKey).(int64)
	if !ok {
		return nil
	}
	return &id
}
