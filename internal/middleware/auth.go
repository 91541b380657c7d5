package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"eventdesk/api/internal/identity"
	"eventdesk/api/internal/models"
	"eventdesk/api/internal/repository"
)

const currentUserKey = "current_user"

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (identity.Principal, error)
}

type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// Auth resolves the bearer token to an internal admin user. A valid external
// identity is not enough: the email must match a provisioned nu_users row.
func Auth(verifier TokenVerifier, users UserDirectory, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")

		principal, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, identity.ErrInvalidToken) {
				log.Warn().Err(err).Msg("token verification failed")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		user, err := users.FindByEmail(c.Request.Context(), principal.Email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not_registered"})
				return
			}
			log.Error().Err(err).Str("email", principal.Email).Msg("user lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireAdmin gates mutating routes behind the admin capability.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}

// CurrentUser returns the user resolved by Auth for this request.
func CurrentUser(c *gin.Context) (models.User, bool) {
	val, exists := c.Get(currentUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}
