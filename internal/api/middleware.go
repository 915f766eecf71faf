package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beatbook/dj-agency-backend/internal/auth"
)

// RequireSystemAdmin ensures the authenticated staff member holds the system
// admin claim. It MUST be used after auth.AuthRequired middleware; the claim
// is read from the token, so no user lookup happens per request.
func RequireSystemAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.GetUserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if !auth.IsSystemAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: system admin access required"})
			return
		}

		c.Next()
	}
}
