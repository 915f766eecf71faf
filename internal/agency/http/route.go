package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/agencies", authMiddleware)

	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.PATCH("/:id", h.Update)
	group.DELETE("/:id", h.Deactivate)

	group.POST("/:id/members", h.AddMember)
	group.GET("/:id/members", h.ListMembers)
	group.DELETE("/:id/members/:user_id", h.RemoveMember)
}
