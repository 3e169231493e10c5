package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/proofs")
	group.Use(authMiddleware)
	{
		group.GET("/:id", h.Download)
		group.GET("/:id/thumbnail", h.DownloadThumbnail)
	}
}
