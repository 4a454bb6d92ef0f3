package auth

import "applytrack/internal/domain/models"

// JWTVerifier validates bearer tokens and returns their claims.
type JWTVerifier interface {
	// VerifyToken returns an UnauthenticatedError for any token that is invalid,
	// expired, signed with an unexpected algorithm or not issued to a signed-in user.
	VerifyToken(tokenString string) (*models.SupabaseClaims, error)

	Close() error
}
