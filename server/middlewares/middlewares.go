package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ahadhasan/guardian-news-server/model"
	"github.com/ahadhasan/guardian-news-server/server/token"
)

// ContextEmailKey is the gin context key under which the Authenticated gate
// stores the verified email claim.
const ContextEmailKey = "userEmail"

// UserFinder is the single lookup the admin gate needs against the user
// collection.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// Authenticated requires a valid "Authorization: Bearer <token>" header. On
// failure the request is aborted with 401 and no further processing happens.
// On success the verified email is stored in the request context for
// downstream handlers.
func Authenticated(maker *token.Maker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")
		email, err := maker.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}
		c.Set(ContextEmailKey, email)
		c.Next()
	}
}

// AdminOnly must run after Authenticated. It looks up the caller by the
// verified email and requires the admin role; a missing user or role
// mismatch aborts with 403. Costs one user lookup per request.
func AdminOnly(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(ContextEmailKey)
		user, err := users.FindByEmail(c.Request.Context(), email)
		if err != nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			return
		}
		c.Next()
	}
}

// CallerEmail returns the email the Authenticated gate stored on the request.
func CallerEmail(c *gin.Context) string {
	return c.GetString(ContextEmailKey)
}
