package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"applytrack/internal/domain"
	"applytrack/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// allowedAlgorithms guards against algorithm confusion
var allowedAlgorithms = []string{"RS256", "ES256"}

// SupabaseJWTVerifier verifies Supabase access tokens against the project's JWKS.
type SupabaseJWTVerifier struct {
	keyfunc jwt.Keyfunc
	close   func()
	logger  *slog.Logger
}

// NewJWTVerifier fetches public keys from jwksURL. keyfunc caches them and
// refreshes in the background until Close is called.
func NewJWTVerifier(jwksURL string, logger *slog.Logger) (*SupabaseJWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)

	return &SupabaseJWTVerifier{
		keyfunc: jwks.Keyfunc,
		close:   cancel,
		logger:  logger,
	}, nil
}

// NewStaticVerifier verifies tokens with a fixed keyfunc. Used by tests and
// self-hosted deployments that pin a single key.
func NewStaticVerifier(kf jwt.Keyfunc, logger *slog.Logger) *SupabaseJWTVerifier {
	return &SupabaseJWTVerifier{keyfunc: kf, close: func() {}, logger: logger}
}

func unauthenticated(reason string) error {
	return &domain.UnauthenticatedError{Message: "sign in again: " + reason}
}

// VerifyToken validates a token and extracts the Supabase claims.
func (v *SupabaseJWTVerifier) VerifyToken(tokenString string) (*models.SupabaseClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SupabaseClaims{}, v.keyfunc,
		jwt.WithValidMethods(allowedAlgorithms),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Debug("token rejected", "error", err)
		return nil, unauthenticated("invalid token")
	}

	claims, ok := token.Claims.(*models.SupabaseClaims)
	if !ok || !token.Valid {
		return nil, unauthenticated("invalid token")
	}

	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, unauthenticated("token has no subject")
	}

	// Anonymous sessions have no saved applications
	if claims.Role != "authenticated" || claims.IsAnonymous {
		v.logger.Debug("token role rejected", "role", claims.Role, "user_id", claims.Subject)
		return nil, unauthenticated("not signed in")
	}

	return claims, nil
}

// Close stops the background JWKS refresh.
func (v *SupabaseJWTVerifier) Close() error {
	v.close()
	v.logger.Info("JWT verifier closed")
	return nil
}
