package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/beatbook/dj-agency-backend/internal/pkg/response"
)

// AuthRequired is a Gin middleware that validates JWT from Authorization: Bearer <token>
func AuthRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Envelope{
				Success: false,
				Error:   "missing Authorization header",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Envelope{
				Success: false,
				Error:   "invalid Authorization header format",
			})
			return
		}

		claims, err := jwtManager.ParseAndValidate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Envelope{
				Success: false,
				Error:   "invalid or expired token",
			})
			return
		}

		// Store user info into Gin context for later handlers.
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxSystemAdmin, claims.SystemAdmin)

		c.Next()
	}
}
