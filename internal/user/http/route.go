package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/users")
	group.Use(authMiddleware)
	{
		group.GET("/me", h.Me)

		// === Admin Routes ===
		group.GET("", adminMiddleware, h.List)
		group.PATCH("/:id", adminMiddleware, h.Update)
	}
}
