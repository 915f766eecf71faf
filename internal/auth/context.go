package auth

import "github.com/gin-gonic/gin"

// Gin context keys set by AuthRequired.
const (
	ctxUserID      = "auth.userID"
	ctxUserEmail   = "auth.userEmail"
	ctxSystemAdmin = "auth.systemAdmin"
)

// GetUserID returns the authenticated staff member's ID, or "" when the
// request carries no valid token.
func GetUserID(c *gin.Context) string {
	return getString(c, ctxUserID)
}

// GetUserEmail returns the authenticated staff member's email, or "".
func GetUserEmail(c *gin.Context) string {
	return getString(c, ctxUserEmail)
}

// IsSystemAdmin reports whether the token carried the system admin claim.
func IsSystemAdmin(c *gin.Context) bool {
	if v, ok := c.Get(ctxSystemAdmin); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

func getString(c *gin.Context, key string) string {
	if v, ok := c.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
