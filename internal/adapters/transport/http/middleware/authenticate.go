package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskora/taskora/internal/domain/auth/model"
)

const userContextKey = "currentUser"

// TokenValidator resolves a bearer access token to the user it belongs to.
type TokenValidator interface {
	Validate(ctx context.Context, accessToken string) (model.User, error)
}

// Authenticate guards a route group with a bearer access token. Any missing,
// malformed, expired, or otherwise rejected token yields the same response.
func Authenticate(v TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			unauthenticated(c)
			return
		}

		user, err := v.Validate(c.Request.Context(), token)
		if err != nil {
			unauthenticated(c)
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

func unauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate"})
}

// CurrentUser returns the user set by Authenticate for this request.
func CurrentUser(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return model.User{}, false
	}
	user, ok := v.(model.User)
	return user, ok
}
