package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatbook/dj-agency-backend/internal/auth"
)

func adminTestRouter(t *testing.T) (*gin.Engine, *auth.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager := auth.NewJWTManager("test-secret", time.Minute)

	r := gin.New()
	r.POST("/admin-only", auth.AuthRequired(manager), RequireSystemAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, manager
}

func TestRequireSystemAdmin(t *testing.T) {
	router, manager := adminTestRouter(t)

	do := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin-only", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("admin token passes without a user lookup", func(t *testing.T) {
		token, err := manager.GenerateAccessToken("admin-1", "root@b.com", true)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, do(token).Code)
	})

	t.Run("non-admin token is forbidden", func(t *testing.T) {
		token, err := manager.GenerateAccessToken("user-1", "a@b.com", false)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, do(token).Code)
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("").Code)
	})
}
