package reservation

import (
	"net/http"
	"time"

	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/apperror"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/timeslot"
)

var (
	ErrNotFound              = apperror.New(http.StatusNotFound, "reservation not found")
	ErrSpaceNotFound         = apperror.New(http.StatusNotFound, "space not found")
	ErrSpaceInactive         = apperror.New(http.StatusBadRequest, "space is not available for booking")
	ErrSlotUnavailable       = apperror.New(http.StatusConflict, "time slot already reserved")
	ErrInvalidTimeRange      = apperror.New(http.StatusBadRequest, "end time must be after start time")
	ErrOutsideOperatingHours = apperror.New(http.StatusBadRequest, "requested slot is outside the space's operating hours")
	ErrPermissionDenied      = apperror.New(http.StatusForbidden, "permission denied")
	ErrCancellationCutoff    = apperror.New(http.StatusConflict, "reservations starting within 24 hours cannot be cancelled")

	ErrPaymentNotApplicable = apperror.New(http.StatusBadRequest, "reservation does not require payment")
	ErrNoFileSelected       = apperror.New(http.StatusBadRequest, "no payment proof file selected")
	ErrUploadFailed         = apperror.New(http.StatusBadGateway, "failed to store payment proof")
	ErrNoProofAvailable     = apperror.New(http.StatusConflict, "no payment proof on record")
	ErrPaymentNotResettable = apperror.New(http.StatusConflict, "payment has not been submitted yet")
)

// Status is the persisted lifecycle state of a reservation. Temporal
// phases (upcoming, in progress, completed) are computed from the clock,
// never stored.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Phase is the derived temporal state of a non-cancelled reservation.
type Phase string

const (
	PhaseUpcoming   Phase = "upcoming"
	PhaseInProgress Phase = "in_progress"
	PhaseCompleted  Phase = "completed"
	PhaseCancelled  Phase = "cancelled"
)

// PaymentStatus tracks the payment-verification workflow.
type PaymentStatus string

const (
	PaymentNotRequired PaymentStatus = "not_required"
	PaymentPending     PaymentStatus = "pending"
	PaymentSubmitted   PaymentStatus = "submitted"
	PaymentVerified    PaymentStatus = "verified"
)

// CancellationCutoff is the minimum lead time before the reservation
// start at which a member may still cancel.
const CancellationCutoff = 24 * time.Hour

// Reservation is a booking of a space for a time slot on a calendar day.
type Reservation struct {
	ID        string
	SpaceID   string
	SpaceName string

	RequesterID    string
	RequesterName  string
	RequesterEmail string
	RequesterUnit  *string
	RequesterPhone *string

	// Date is the calendar day at midnight UTC; Start/End are
	// wall-clock minutes within that day.
	Date  time.Time
	Start timeslot.TimeOfDay
	End   timeslot.TimeOfDay

	EventLabel string
	Status     Status

	// Payment sub-record. RequiresPayment is copied from the space at
	// creation and never changes; PaymentStatus is not_required iff
	// RequiresPayment is false.
	RequiresPayment   bool
	PaymentStatus     PaymentStatus
	PaymentProofURL   *string
	PaymentVerifiedAt *time.Time
	PaymentVerifiedBy *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the reservation's time slot as a half-open interval.
func (r *Reservation) Interval() timeslot.Interval {
	return timeslot.NewInterval(r.Start, r.End)
}

// Active reports whether the reservation still blocks its slot.
func (r *Reservation) Active() bool {
	return r.Status != StatusCancelled
}

// StartsAt returns the absolute start instant.
func (r *Reservation) StartsAt() time.Time {
	return r.Date.Add(time.Duration(r.Start) * time.Minute)
}

// EndsAt returns the absolute end instant.
func (r *Reservation) EndsAt() time.Time {
	return r.Date.Add(time.Duration(r.End) * time.Minute)
}

// CurrentPhase computes the temporal phase relative to now.
func (r *Reservation) CurrentPhase(now time.Time) Phase {
	if r.Status == StatusCancelled {
		return PhaseCancelled
	}
	switch {
	case now.Before(r.StartsAt()):
		return PhaseUpcoming
	case now.Before(r.EndsAt()):
		return PhaseInProgress
	default:
		return PhaseCompleted
	}
}

// CanCancel reports whether the cancellation policy permits cancelling
// this reservation at the given instant: it must not already be
// cancelled or completed, and its start must be at least the cutoff away.
func (r *Reservation) CanCancel(now time.Time) bool {
	if r.Status == StatusCancelled {
		return false
	}
	if r.CurrentPhase(now) == PhaseCompleted {
		return false
	}
	return r.StartsAt().Sub(now) >= CancellationCutoff
}

// DateOnly truncates a timestamp to its calendar day at midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Filter defines parameters for listing reservations.
type Filter struct {
	RequesterID string
	SpaceID     string
	Status      string
	Date        *time.Time
	Page        int
	PageSize    int
}
