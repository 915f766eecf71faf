package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/reservations", authMiddleware)

	group.POST("", h.Create)
	group.POST("/hold", h.CreateHold)
	group.GET("", h.List)
	group.GET("/requiring-action", h.RequiringAction)
	group.GET("/stats", h.Stats)
	group.GET("/number/:number", h.GetByNumber)
	group.GET("/:id", h.Get)

	group.POST("/:id/confirm", h.Confirm)
	group.POST("/:id/approve", h.Approve)
	group.POST("/:id/cancel", h.Cancel)
	group.POST("/:id/reject", h.Reject)
	group.POST("/:id/extend-hold", h.ExtendHold)
	group.POST("/:id/convert-to-evento", h.ConvertToEvent)

	// Cron-style trigger, restricted to system admins. The in-process
	// sweeper makes this a manual backstop rather than the primary path.
	group.POST("/expire-old-holds", adminMiddleware, h.ExpireOldHolds)
}
