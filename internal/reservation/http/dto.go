package http

import (
	"time"

	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/request"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/timeslot"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/reservation"
	spaceHttp "github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/space/http"
	userHttp "github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/user/http"
)

const dateLayout = "2006-01-02"

// PaymentResponse is the payment sub-record of a reservation.
type PaymentResponse struct {
	Required   bool       `json:"required"`
	Status     string     `json:"status"`
	ProofURL   *string    `json:"proof_url,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	VerifiedBy *string    `json:"verified_by,omitempty"`
}

type RequesterResponse struct {
	userHttp.UserTag
	// Contact fields are omitted for viewers who are neither the
	// requester nor an administrator.
	Email string  `json:"email,omitempty"`
	Unit  *string `json:"unit,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

type ReservationResponse struct {
	ID         string            `json:"id"`
	Space      spaceHttp.SpaceTag `json:"space"`
	Requester  RequesterResponse `json:"requester"`
	Date       string            `json:"date"`
	StartTime  string            `json:"start_time"`
	EndTime    string            `json:"end_time"`
	EventLabel string            `json:"event_label,omitempty"`
	Status     string            `json:"status"`
	Phase      string            `json:"phase"`
	CanCancel  bool              `json:"can_cancel"`
	Payment    PaymentResponse   `json:"payment"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// NewReservationResponse projects a reservation for a viewer. Contact
// details are visible to admins and to the requester themself.
func NewReservationResponse(r *reservation.Reservation, viewerID string, isAdmin bool) ReservationResponse {
	now := time.Now().UTC()

	requester := RequesterResponse{
		UserTag: userHttp.UserTag{ID: r.RequesterID, Name: r.RequesterName},
	}
	if isAdmin || r.RequesterID == viewerID {
		requester.Email = r.RequesterEmail
		requester.Unit = r.RequesterUnit
		requester.Phone = r.RequesterPhone
	}

	return ReservationResponse{
		ID:         r.ID,
		Space:      spaceHttp.SpaceTag{ID: r.SpaceID, Name: r.SpaceName},
		Requester:  requester,
		Date:       r.Date.Format(dateLayout),
		StartTime:  r.Start.String(),
		EndTime:    r.End.String(),
		EventLabel: r.EventLabel,
		Status:     string(r.Status),
		Phase:      string(r.CurrentPhase(now)),
		CanCancel:  r.CanCancel(now),
		Payment: PaymentResponse{
			Required:   r.RequiresPayment,
			Status:     string(r.PaymentStatus),
			ProofURL:   r.PaymentProofURL,
			VerifiedAt: r.PaymentVerifiedAt,
			VerifiedBy: r.PaymentVerifiedBy,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ListReservationsRequest defines the admin list filters.
type ListReservationsRequest struct {
	request.ListParams
	RequesterID string `form:"requester_id" binding:"omitempty,uuid"`
	SpaceID     string `form:"space_id" binding:"omitempty,uuid"`
	Status      string `form:"status" binding:"omitempty,oneof=confirmed cancelled"`
	Date        string `form:"date"`
}

type CreateReservationBody struct {
	SpaceID    string `json:"space_id" binding:"required,uuid"`
	Date       string `json:"date" binding:"required"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
	EventLabel string `json:"event_label" binding:"max=200"`
}

type SlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func NewSlotResponses(slots []timeslot.Interval) []SlotResponse {
	out := make([]SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = SlotResponse{StartTime: s.Start.String(), EndTime: s.End.String()}
	}
	return out
}
