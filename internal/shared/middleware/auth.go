package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-backend/internal/shared/response"
	"library-backend/pkg/jwt"
)

// Context keys set by AuthMiddleware.
const (
	ContextKeyLibrarianID = "librarianID"
	ContextKeyClaims      = "claims"
	ContextKeyToken       = "token"
)

const credentialsMessage = "Could not validate credentials"

// Authenticator resolves a bearer token to its claims.
// It fails for invalid, expired and revoked tokens and for inactive librarians.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*jwt.Claims, error)
}

// AuthMiddleware rejects requests without a valid bearer token with 401.
// When the token cannot be checked at all it answers 503 instead.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			response.Abort(c, http.StatusUnauthorized, credentialsMessage, "missing or malformed authorization header")
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), token)
		if errors.Is(err, jwt.ErrVerificationUnavailable) {
			log.Error().Err(err).Str("request_id", c.GetString(ContextKeyRequestID)).Msg("authentication backend failed")
			response.Abort(c, http.StatusServiceUnavailable, "Authentication temporarily unavailable", nil)
			return
		}
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString(ContextKeyRequestID)).Msg("authentication failed")
			c.Header("WWW-Authenticate", "Bearer")
			response.Abort(c, http.StatusUnauthorized, credentialsMessage, nil)
			return
		}

		librarianID, err := uuid.Parse(claims.LibrarianID)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, credentialsMessage, nil)
			return
		}

		c.Set(ContextKeyLibrarianID, librarianID)
		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyToken, token)

		c.Next()
	}
}

// bearerToken extracts <token> from "Bearer <token>". The scheme is case insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// ClaimsFromContext returns the claims stored by AuthMiddleware.
func ClaimsFromContext(c *gin.Context) (*jwt.Claims, bool) {
	v, ok := c.Get(ContextKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}

// LibrarianIDFromContext returns the authenticated librarian id.
func LibrarianIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextKeyLibrarianID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
