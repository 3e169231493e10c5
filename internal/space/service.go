package space

import (
	"context"
	"strings"

	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/timeslot"
)

type CreateRequest struct {
	Name            string
	Description     string
	Capacity        int
	OpensAt         timeslot.TimeOfDay
	ClosesAt        timeslot.TimeOfDay
	RequiresPayment bool
	Fee             float64
}

// UpdateRequest carries optional field updates. Nil means unchanged.
// RequiresPayment is deliberately immutable after creation: reservations
// copy the policy at booking time and the two must never diverge.
type UpdateRequest struct {
	Name        *string
	Description *string
	Capacity    *int
	OpensAt     *timeslot.TimeOfDay
	ClosesAt    *timeslot.TimeOfDay
	Fee         *float64
	IsActive    *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Space, error)
	GetByID(ctx context.Context, id string) (*Space, error)
	List(ctx context.Context, filter Filter) ([]*Space, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Space, error)
	Deactivate(ctx context.Context, id string) error
	SetPaymentMethods(ctx context.Context, spaceID string, methods []PaymentMethod) ([]PaymentMethod, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Space, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if req.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if !timeslot.NewInterval(req.OpensAt, req.ClosesAt).Valid() {
		return nil, ErrInvalidOperatingHours
	}

	sp := &Space{
		Name:            strings.TrimSpace(req.Name),
		Description:     strings.TrimSpace(req.Description),
		Capacity:        req.Capacity,
		OpensAt:         req.OpensAt,
		ClosesAt:        req.ClosesAt,
		RequiresPayment: req.RequiresPayment,
		Fee:             req.Fee,
		IsActive:        true,
	}

	if err := s.repo.Create(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Space, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Space, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Space, error) {
	sp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		sp.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		sp.Description = strings.TrimSpace(*req.Description)
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, ErrInvalidCapacity
		}
		sp.Capacity = *req.Capacity
	}
	if req.OpensAt != nil {
		sp.OpensAt = *req.OpensAt
	}
	if req.ClosesAt != nil {
		sp.ClosesAt = *req.ClosesAt
	}
	if !sp.OperatingHours().Valid() {
		return nil, ErrInvalidOperatingHours
	}
	if req.Fee != nil {
		sp.Fee = *req.Fee
	}
	if req.IsActive != nil {
		sp.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *service) SetPaymentMethods(ctx context.Context, spaceID string, methods []PaymentMethod) ([]PaymentMethod, error) {
	if _, err := s.repo.GetByID(ctx, spaceID); err != nil {
		return nil, err
	}
	for _, m := range methods {
		if strings.TrimSpace(m.Label) == "" || strings.TrimSpace(m.AccountRef) == "" {
			return nil, ErrInvalidPaymentMethod
		}
	}
	if err := s.repo.ReplacePaymentMethods(ctx, spaceID, methods); err != nil {
		return nil, err
	}
	return s.repo.ListPaymentMethods(ctx, spaceID)
}
