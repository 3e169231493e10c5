package space

import (
	"net/http"
	"time"

	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/apperror"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/timeslot"
)

var (
	ErrNotFound              = apperror.New(http.StatusNotFound, "space not found")
	ErrEmptyName             = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrInvalidCapacity       = apperror.New(http.StatusBadRequest, "capacity must be positive")
	ErrInvalidOperatingHours = apperror.New(http.StatusBadRequest, "closing time must be after opening time")
	ErrInvalidPaymentMethod  = apperror.New(http.StatusBadRequest, "payment method label and account are required")
)

// Space is a bookable shared asset (e.g. BBQ area, social hall, pool).
type Space struct {
	ID          string
	Name        string
	Description string
	Capacity    int
	OpensAt     timeslot.TimeOfDay
	ClosesAt    timeslot.TimeOfDay
	// RequiresPayment fixes the payment policy copied onto every
	// reservation at creation time.
	RequiresPayment bool
	Fee             float64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time

	PaymentMethods []PaymentMethod
}

// OperatingHours returns the bookable window as a half-open interval.
func (s *Space) OperatingHours() timeslot.Interval {
	return timeslot.NewInterval(s.OpensAt, s.ClosesAt)
}

// PaymentMethod is one accepted way to pay for a space, in display order.
type PaymentMethod struct {
	ID         string
	SpaceID    string
	Label      string
	AccountRef string
	Position   int
}

// Filter defines parameters for listing spaces.
type Filter struct {
	RequiresPayment *bool
	IsActive        *bool
	Page            int
	PageSize        int
}
