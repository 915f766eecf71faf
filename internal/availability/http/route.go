package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/availability", authMiddleware)

	group.GET("", h.List)
	group.POST("", h.Upsert)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)

	group.GET("/check", h.Check)
	group.GET("/conflicts", h.Conflicts)
	group.GET("/available-djs", h.AvailableDJs)
	group.GET("/suggestions", h.Suggestions)

	group.GET("/calendar/:dj_id", h.Calendar)
	group.GET("/range/:dj_id", h.Range)
	group.GET("/stats/:dj_id", h.Stats)

	group.POST("/mark-unavailable", h.MarkUnavailable)
	group.POST("/mark-available", h.MarkAvailable)
	group.POST("/reserve-for-event", h.ReserveForEvent)
	group.POST("/block-range", h.BlockRange)

	group.DELETE("/cleanup", h.Cleanup)
}
