package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"slices"
	"strings"
)

// APIKeyHeader is accepted in place of an Authorization bearer token.
const APIKeyHeader = "X-API-Key"

// TokenValidator checks request tokens against a fixed set.
type TokenValidator struct {
	tokens [][]byte
}

// NewTokenValidator creates a validator for tokens. Empty tokens are ignored.
func NewTokenValidator(tokens []string) *TokenValidator {
	v := &TokenValidator{}
	for _, token := range tokens {
		if token = strings.TrimSpace(token); token != "" {
			v.tokens = append(v.tokens, []byte(token))
		}
	}
	return v
}

// Enabled reports whether any token is configured.
func (v *TokenValidator) Enabled() bool {
	return v != nil && len(v.tokens) > 0
}

// Validate reports whether token matches a configured token. Every
// configured token is compared so timing does not reveal which one matched.
func (v *TokenValidator) Validate(token string) bool {
	if token == "" {
		return false
	}
	candidate := []byte(token)
	match := 0
	for _, t := range v.tokens {
		match |= subtle.ConstantTimeCompare(candidate, t)
	}
	return match == 1
}

// AuthMiddleware requires a valid token on requests whose method is in
// methods; other methods pass through. The token is read from
// "Authorization: Bearer <token>" or X-API-Key. A validator without tokens
// disables the check.
//
// Example usage:
//
//	guard := AuthMiddleware(NewTokenValidator(cfg.Auth.AdminTokens), logger, http.MethodPost)
func AuthMiddleware(validator *TokenValidator, logger *slog.Logger, methods ...string) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		if !validator.Enabled() {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(methods, r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			token, found := extractToken(r)
			if !found || !validator.Validate(token) {
				logger.WarnContext(r.Context(), "rejected unauthenticated request",
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"token_present", found,
				)
				w.Header().Set("WWW-Authenticate", `Bearer realm="llmrouter"`)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"message":"missing or invalid API token","type":"authentication_error","code":"invalid_api_key"}}` + "\n"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractToken(r *http.Request) (string, bool) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		scheme, token, ok := strings.Cut(auth, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			token = strings.TrimSpace(token)
			return token, token != ""
		}
		return "", true
	}
	if key := strings.TrimSpace(r.Header.Get(APIKeyHeader)); key != "" {
		return key, true
	}
	return "", false
}
