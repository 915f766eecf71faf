package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/events", authMiddleware)

	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
}
