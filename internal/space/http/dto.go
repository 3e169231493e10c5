package http

import (
	"time"

	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/request"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/timeslot"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/space"
)

// SpaceTag is the minimal space reference embedded in other responses.
type SpaceTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PaymentMethodBody struct {
	Label      string `json:"label" binding:"required"`
	AccountRef string `json:"account_ref" binding:"required"`
}

type PaymentMethodResponse struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	AccountRef string `json:"account_ref"`
	Position   int    `json:"position"`
}

type SpaceResponse struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name"`
	Description     string                  `json:"description"`
	Capacity        int                     `json:"capacity"`
	OpensAt         string                  `json:"opens_at"`
	ClosesAt        string                  `json:"closes_at"`
	RequiresPayment bool                    `json:"requires_payment"`
	Fee             float64                 `json:"fee"`
	IsActive        bool                    `json:"is_active"`
	PaymentMethods  []PaymentMethodResponse `json:"payment_methods,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

func NewSpaceResponse(s *space.Space) SpaceResponse {
	methods := make([]PaymentMethodResponse, len(s.PaymentMethods))
	for i, m := range s.PaymentMethods {
		methods[i] = PaymentMethodResponse{
			ID:         m.ID,
			Label:      m.Label,
			AccountRef: m.AccountRef,
			Position:   m.Position,
		}
	}

	return SpaceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		Capacity:        s.Capacity,
		OpensAt:         s.OpensAt.String(),
		ClosesAt:        s.ClosesAt.String(),
		RequiresPayment: s.RequiresPayment,
		Fee:             s.Fee,
		IsActive:        s.IsActive,
		PaymentMethods:  methods,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// ListSpacesRequest defines query parameters for listing spaces.
type ListSpacesRequest struct {
	request.ListParams
	RequiresPayment *bool `form:"requires_payment"`
	IsActive        *bool `form:"is_active"`
}

type CreateSpaceBody struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	Capacity        int     `json:"capacity" binding:"required,gt=0"`
	OpensAt         string  `json:"opens_at" binding:"required"`
	ClosesAt        string  `json:"closes_at" binding:"required"`
	RequiresPayment bool    `json:"requires_payment"`
	Fee             float64 `json:"fee" binding:"omitempty,gte=0"`
}

type UpdateSpaceBody struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Capacity    *int     `json:"capacity" binding:"omitempty,gt=0"`
	OpensAt     *string  `json:"opens_at"`
	ClosesAt    *string  `json:"closes_at"`
	Fee         *float64 `json:"fee" binding:"omitempty,gte=0"`
	IsActive    *bool    `json:"is_active"`
}

type SetPaymentMethodsBody struct {
	Methods []PaymentMethodBody `json:"methods" binding:"required,dive"`
}

// parseTimeOfDay converts an optional "HH:MM" string into a TimeOfDay pointer.
func parseTimeOfDay(s *string) (*timeslot.TimeOfDay, error) {
	if s == nil {
		return nil, nil
	}
	t, err := timeslot.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
