package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"applytrack/internal/auth"
	"applytrack/internal/domain"
	"applytrack/internal/httputil"
)

// publicPaths skip authentication. Diagnostics has its own shared secret.
var publicPaths = map[string]bool{
	"/health":            true,
	"/debug/diagnostics": true,
}

// AuthMiddleware verifies the bearer token and stores the user id on the request.
// Requests without a valid token get 401 with signed_out set.
func AuthMiddleware(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token, err := bearerToken(r)
			if err != nil {
				respondSignedOut(w, err)
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("authentication failed", "path", r.URL.Path, "error", err)
				respondSignedOut(w, err)
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}

// DevAuth signs every request in as userID. Only wired when no Supabase
// project is configured outside production.
func DevAuth(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, httputil.WithUserID(r, userID))
		})
	}
}

// bearerToken reads the Authorization header. EventSource cannot set headers,
// so the events stream may pass the token as ?access_token=.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		if r.URL.Path == "/api/events" {
			if token := r.URL.Query().Get("access_token"); token != "" {
				return token, nil
			}
		}
		return "", &domain.UnauthenticatedError{Message: "missing authorization header"}
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", &domain.UnauthenticatedError{Message: "authorization header must be a bearer token"}
	}
	return strings.TrimSpace(token), nil
}

func respondSignedOut(w http.ResponseWriter, err error) {
	message := "unauthenticated"
	var authErr *domain.UnauthenticatedError
	if errors.As(err, &authErr) {
		message = authErr.Message
	}
	httputil.RespondErrorWithExtras(w, http.StatusUnauthorized, message, map[string]interface{}{
		"signed_out": true,
	})
}
