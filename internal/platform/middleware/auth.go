package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// TokenValidator defines the interface for validating bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*TokenClaims, error)
}

// TokenClaims represents the claims we expect from the token validator. The
// email is what the per-community membership check keys on.
type TokenClaims struct {
	Subject string
	Email   string
}

type contextKeyEmail struct{}
type contextKeySubject struct{}

// GetCallerEmail retrieves the authenticated caller email from the context.
func GetCallerEmail(ctx context.Context) string {
	email, ok := ctx.Value(contextKeyEmail{}).(string)
	if !ok {
		return ""
	}
	return email
}

// GetCallerSubject retrieves the authenticated subject from the context.
func GetCallerSubject(ctx context.Context) string {
	sub, ok := ctx.Value(contextKeySubject{}).(string)
	if !ok {
		return ""
	}
	return sub
}

// RequireAuth rejects requests without a valid bearer token and stashes the
// caller identity in the request context. Per-community membership is checked
// downstream by handlers; this gate only establishes who is calling.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx = context.WithValue(ctx, contextKeyEmail{}, claims.Email)
			ctx = context.WithValue(ctx, contextKeySubject{}, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
