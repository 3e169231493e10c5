package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/auth"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/request"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/response"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/timeslot"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/reservation"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/user"
)

type Handler struct {
	service     reservation.Service
	readModel   *reservation.ReadModel
	userService user.Service
}

func NewHandler(service reservation.Service, readModel *reservation.ReadModel, userService user.Service) *Handler {
	return &Handler{
		service:     service,
		readModel:   readModel,
		userService: userService,
	}
}

func (h *Handler) isAdmin(c *gin.Context) bool {
	return h.userService.IsAdmin(c.Request.Context(), auth.GetUserID(c))
}

// List returns reservations scoped by role: admins see everything with
// filters and pagination, members see only their own active bookings.
func (h *Handler) List(c *gin.Context) {
	callerID := auth.GetUserID(c)
	isAdmin := h.isAdmin(c)

	if !isAdmin {
		items := h.readModel.ByRequester(callerID)
		out := make([]ReservationResponse, len(items))
		for i, r := range items {
			out[i] = NewReservationResponse(r, callerID, false)
		}
		c.JSON(http.StatusOK, response.NewPageResponse(out, 1, len(out), len(out)))
		return
	}

	var req ListReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := reservation.Filter{
		RequesterID: req.RequesterID,
		SpaceID:     req.SpaceID,
		Status:      req.Status,
		Page:        req.Page,
		PageSize:    req.PageSize,
	}
	if req.Date != "" {
		d, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		filter.Date = &d
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]ReservationResponse, len(items))
	for i, r := range items {
		out[i] = NewReservationResponse(r, callerID, true)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(out, req.Page, req.PageSize, total))
}

// Schedule returns the active reservations for a space on a day, the
// projection a booking calendar renders. Contact details are redacted
// for non-admin viewers.
func (h *Handler) Schedule(c *gin.Context) {
	spaceID := c.Query("space_id")
	if _, err := uuid.Parse(spaceID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid space_id"})
		return
	}
	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	callerID := auth.GetUserID(c)
	isAdmin := h.isAdmin(c)

	items := h.readModel.BySpaceAndDate(spaceID, date)
	out := make([]ReservationResponse, len(items))
	for i, r := range items {
		out[i] = NewReservationResponse(r, callerID, isAdmin)
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateReservationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	callerID := auth.GetUserID(c)
	if callerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	date, err := time.Parse(dateLayout, body.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	start, err := timeslot.Parse(body.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_time"})
		return
	}
	end, err := timeslot.Parse(body.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_time"})
		return
	}

	r, err := h.service.Create(c.Request.Context(), reservation.CreateRequest{
		RequesterID: callerID,
		SpaceID:     body.SpaceID,
		Date:        date,
		Start:       start,
		End:         end,
		EventLabel:  body.EventLabel,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewReservationResponse(r, callerID, false))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	callerID := auth.GetUserID(c)
	isAdmin := h.isAdmin(c)
	if !isAdmin && r.RequesterID != callerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r, callerID, isAdmin))
}

func (h *Handler) Cancel(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	callerID := auth.GetUserID(c)
	if err := h.service.Cancel(c.Request.Context(), uri.ID, callerID, h.isAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Availability returns the free slots within a space's operating hours.
func (h *Handler) Availability(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	slots, err := h.service.AvailableSlots(c.Request.Context(), uri.ID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date.Format(dateLayout),
		"slots": NewSlotResponses(slots),
	})
}

// SubmitProof uploads a payment-proof file for the reservation.
func (h *Handler) SubmitProof(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	fileHeader, err := c.FormFile("proof")
	if err != nil {
		response.Error(c, reservation.ErrNoFileSelected)
		return
	}

	callerID := auth.GetUserID(c)
	r, err := h.service.SubmitProof(c.Request.Context(), reservation.SubmitProofRequest{
		ReservationID: uri.ID,
		CallerID:      callerID,
		File:          fileHeader,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r, callerID, false))
}

// VerifyPayment records the administrator's verification decision.
func (h *Handler) VerifyPayment(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	adminID := auth.GetUserID(c)
	r, err := h.service.VerifyPayment(c.Request.Context(), uri.ID, adminID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r, adminID, true))
}

// ResetPayment regresses a payment to pending for re-review.
func (h *Handler) ResetPayment(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	adminID := auth.GetUserID(c)
	r, err := h.service.ResetPayment(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r, adminID, true))
}
