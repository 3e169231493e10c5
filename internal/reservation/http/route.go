package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/reservations")
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/schedule", h.Schedule)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.POST("/:id/cancel", h.Cancel)

		group.POST("/:id/payment/proof", h.SubmitProof)

		// === Admin Routes ===
		group.POST("/:id/payment/verify", adminMiddleware, h.VerifyPayment)
		group.POST("/:id/payment/reset", adminMiddleware, h.ResetPayment)
	}

	// Availability rides under the spaces path but is served by the
	// booking engine, which owns the overlap logic.
	g.GET("/spaces/:id/availability", authMiddleware, h.Availability)
}
