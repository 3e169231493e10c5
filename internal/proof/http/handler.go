package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/auth"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/request"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/response"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/proof"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/user"
)

type Handler struct {
	service     proof.Service
	userService user.Service
}

func NewHandler(service proof.Service, userService user.Service) *Handler {
	return &Handler{service: service, userService: userService}
}

// canView allows the uploader and administrators to retrieve a proof.
func (h *Handler) canView(c *gin.Context, p *proof.Proof) bool {
	callerID := auth.GetUserID(c)
	if callerID == p.UploaderID {
		return true
	}
	return h.userService.IsAdmin(c.Request.Context(), callerID)
}

func (h *Handler) Download(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	stream, p, err := h.service.Download(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	if !h.canView(c, p) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+p.Filename+`"`)
	c.Header("Content-Type", p.ContentType)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		// Response already started; nothing useful to send.
		return
	}
}

func (h *Handler) DownloadThumbnail(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	stream, p, err := h.service.DownloadThumbnail(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	if !h.canView(c, p) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	c.Header("Content-Type", "image/jpeg")
	if _, err := io.Copy(c.Writer, stream); err != nil {
		return
	}
}
