package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenVerifier validates a session token and returns the external
// subject id. Satisfied by *ClerkClient.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

const identityKey = "clerkUserID"

// RequireAuth rejects requests without a valid bearer token and stores the
// external subject id in the gin context for handlers.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, err := authenticate(c, verifier)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(identityKey, subject)
		c.Next()
	}
}

// OptionalAuth stores the identity when a valid token is present but never
// blocks the request. Generation endpoints use this: they work the same for
// anonymous callers.
func OptionalAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if subject, err := authenticate(c, verifier); err == nil && subject != "" {
			c.Set(identityKey, subject)
		}
		c.Next()
	}
}

// Identity returns the external subject id stored by the middleware.
func Identity(c *gin.Context) (string, bool) {
	subject, ok := c.Get(identityKey)
	if !ok {
		return "", false
	}
	id, ok := subject.(string)
	return id, ok && id != ""
}

func authenticate(c *gin.Context, verifier TokenVerifier) (string, error) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", ErrInvalidToken
	}
	return verifier.VerifyToken(c.Request.Context(), token)
}
