package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"example.com/workoutlog/internal/logutil"
	"example.com/workoutlog/internal/observability"
)

const bearerPrefix = "Bearer "

// Verifier validates a raw token and returns its claims.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// Skipper allows callers to bypass authentication for specific requests.
type Skipper func(r *http.Request) bool

// Middleware provides HTTP middleware for bearer-token validation.
type Middleware struct {
	verifier Verifier
	skipper  Skipper
}

// NewMiddleware constructs a middleware with optional skipper.
func NewMiddleware(verifier Verifier, skipper Skipper) Middleware {
	return Middleware{verifier: verifier, skipper: skipper}
}

// Wrap wraps an http.Handler with authentication. Requests without a bearer
// token get 401, requests with an unusable token get 403.
func (m Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.skipper != nil && m.skipper(r) {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.parseRequest(r)
		if err != nil {
			logger := logutil.GetOrDefault(r.Context())
			logger.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected request")
			switch {
			case errors.Is(err, ErrMissingToken):
				observability.RecordAuthRejected(observability.ReasonMissingToken)
				writeAuthError(w, http.StatusUnauthorized, "Token missing")
			case errors.Is(err, ErrTokenExpired):
				observability.RecordAuthRejected(observability.ReasonExpiredToken)
				writeAuthError(w, http.StatusForbidden, "Invalid token")
			default:
				observability.RecordAuthRejected(observability.ReasonInvalidToken)
				writeAuthError(w, http.StatusForbidden, "Invalid token")
			}
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// WrapFunc is Wrap for plain handler functions.
func (m Middleware) WrapFunc(next http.HandlerFunc) http.Handler {
	return m.Wrap(next)
}

func (m Middleware) parseRequest(r *http.Request) (*Claims, error) {
	header := r.Header.Get("Authorization")
	if strings.TrimSpace(header) == "" {
		return nil, ErrMissingToken
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		if strings.TrimSpace(header) == strings.TrimSpace(bearerPrefix) {
			return nil, ErrMissingToken
		}
		return nil, ErrInvalidToken
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return nil, ErrMissingToken
	}
	return m.verifier.Verify(token)
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
