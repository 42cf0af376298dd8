package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"qna-service/internal/auth"
	"qna-service/internal/models"
	"qna-service/internal/service"
)

const (
	userIDKey      = "user_id"
	currentUserKey = "current_user"
)

// RequireAuth validates the bearer token and loads the subject from the
// store. Every rejection reason (malformed, bad signature, expired, missing
// or unknown subject) collapses into the same generic 401 so clients cannot
// tell which check failed.
func RequireAuth(tokens *auth.Manager, users service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := identityFrom(c, tokens, users)
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		c.Set(userIDKey, user.ID)
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// OptionalAuth is the anonymous-tolerant variant: any rejection simply means
// no identity is present, the request proceeds.
func OptionalAuth(tokens *auth.Manager, users service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := identityFrom(c, tokens, users); ok {
			c.Set(userIDKey, user.ID)
			c.Set(currentUserKey, user)
		}
		c.Next()
	}
}

func identityFrom(c *gin.Context, tokens *auth.Manager, users service.UserService) (*models.User, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}

	username, err := tokens.Validate(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, false
	}

	// The subject may have disappeared since the token was issued.
	user, err := users.GetByUsername(c.Request.Context(), username)
	if err != nil {
		return nil, false
	}
	return user, true
}

// CurrentUser returns the authenticated user set by RequireAuth or
// OptionalAuth, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
