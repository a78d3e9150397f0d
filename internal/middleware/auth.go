package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/T-manDon/alx-files-manager/internal/models"
	"github.com/T-manDon/alx-files-manager/internal/service"
)

const userContextKey = "current_user"

// Auth resolves the X-Token header to a user and aborts with 401 otherwise.
// Store outages surface as 401 too; /status is the operator's signal for
// those, not authenticated endpoints.
func Auth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Token")

		user, err := auth.CurrentUser(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser extracts the authenticated user set by Auth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	val, exists := c.Get(userContextKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}
