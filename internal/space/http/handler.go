package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/request"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/response"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/timeslot"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/space"
)

type Handler struct {
	service space.Service
}

func NewHandler(service space.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListSpacesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	filter := space.Filter{
		RequiresPayment: req.RequiresPayment,
		IsActive:        req.IsActive,
		Page:            req.Page,
		PageSize:        req.PageSize,
	}

	spaces, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list spaces"})
		return
	}

	items := make([]SpaceResponse, len(spaces))
	for i, s := range spaces {
		items[i] = NewSpaceResponse(s)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	s, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSpaceResponse(s))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateSpaceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	opens, err := timeslot.Parse(body.OpensAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid opens_at"})
		return
	}
	closes, err := timeslot.Parse(body.ClosesAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid closes_at"})
		return
	}

	s, err := h.service.Create(c.Request.Context(), space.CreateRequest{
		Name:            body.Name,
		Description:     body.Description,
		Capacity:        body.Capacity,
		OpensAt:         opens,
		ClosesAt:        closes,
		RequiresPayment: body.RequiresPayment,
		Fee:             body.Fee,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewSpaceResponse(s))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateSpaceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	opens, err := parseTimeOfDay(body.OpensAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid opens_at"})
		return
	}
	closes, err := parseTimeOfDay(body.ClosesAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid closes_at"})
		return
	}

	s, err := h.service.Update(c.Request.Context(), uri.ID, space.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Capacity:    body.Capacity,
		OpensAt:     opens,
		ClosesAt:    closes,
		Fee:         body.Fee,
		IsActive:    body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSpaceResponse(s))
}

func (h *Handler) Deactivate(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) GetPaymentMethods(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	s, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]PaymentMethodResponse, len(s.PaymentMethods))
	for i, m := range s.PaymentMethods {
		items[i] = PaymentMethodResponse{ID: m.ID, Label: m.Label, AccountRef: m.AccountRef, Position: m.Position}
	}
	c.JSON(http.StatusOK, gin.H{"methods": items})
}

func (h *Handler) SetPaymentMethods(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body SetPaymentMethodsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	methods := make([]space.PaymentMethod, len(body.Methods))
	for i, m := range body.Methods {
		methods[i] = space.PaymentMethod{Label: m.Label, AccountRef: m.AccountRef, Position: i}
	}

	saved, err := h.service.SetPaymentMethods(c.Request.Context(), uri.ID, methods)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]PaymentMethodResponse, len(saved))
	for i, m := range saved {
		items[i] = PaymentMethodResponse{ID: m.ID, Label: m.Label, AccountRef: m.AccountRef, Position: m.Position}
	}
	c.JSON(http.StatusOK, gin.H{"methods": items})
}
