package reservation

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/timeslot"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/space"
)

// CreateRequest carries the fields for booking a slot.
type CreateRequest struct {
	RequesterID string
	SpaceID     string
	Date        time.Time
	Start       timeslot.TimeOfDay
	End         timeslot.TimeOfDay
	EventLabel  string
}

type Service interface {
	// Create books the slot if it does not overlap any active
	// reservation for the same space and day. The in-process check is
	// an early rejection; the store's exclusion constraint is the
	// source of truth under concurrent writers.
	Create(ctx context.Context, req CreateRequest) (*Reservation, error)
	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)

	// Cancel retires the reservation. Cancelling an already-cancelled
	// reservation is a no-op. Members are bound by the cutoff policy;
	// admins may cancel any reservation at any time.
	Cancel(ctx context.Context, id, callerID string, isAdmin bool) error

	IsSlotAvailable(ctx context.Context, spaceID string, date time.Time, start, end timeslot.TimeOfDay) (bool, error)
	AvailableSlots(ctx context.Context, spaceID string, date time.Time) ([]timeslot.Interval, error)

	SubmitProof(ctx context.Context, req SubmitProofRequest) (*Reservation, error)
	VerifyPayment(ctx context.Context, id, adminID string) (*Reservation, error)
	ResetPayment(ctx context.Context, id string) (*Reservation, error)
}

type service struct {
	repo         Repository
	spaceService space.Service
	proofs       ProofStore
	readModel    *ReadModel

	now func() time.Time
}

// NewService creates the booking coordinator. readModel may be nil in
// contexts that do not maintain a synchronized view (e.g. one-shot tools).
func NewService(repo Repository, spaceService space.Service, proofs ProofStore, readModel *ReadModel) Service {
	return &service{
		repo:         repo,
		spaceService: spaceService,
		proofs:       proofs,
		readModel:    readModel,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Reservation, error) {
	candidate := timeslot.NewInterval(req.Start, req.End)
	if !candidate.Valid() {
		return nil, ErrInvalidTimeRange
	}

	sp, err := s.spaceService.GetByID(ctx, req.SpaceID)
	if err != nil {
		if errors.Is(err, space.ErrNotFound) {
			return nil, ErrSpaceNotFound
		}
		return nil, err
	}
	if !sp.IsActive {
		return nil, ErrSpaceInactive
	}

	hours := sp.OperatingHours()
	if candidate.Start < hours.Start || candidate.End > hours.End {
		return nil, ErrOutsideOperatingHours
	}

	// Early rejection against the currently known reservation set. A
	// concurrent writer may still slip in between this check and the
	// insert; the exclusion constraint in Repository.Create closes
	// that window.
	available, err := s.isSlotFree(ctx, req.SpaceID, req.Date, candidate)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrSlotUnavailable
	}

	r := &Reservation{
		SpaceID:         req.SpaceID,
		RequesterID:     req.RequesterID,
		Date:            DateOnly(req.Date),
		Start:           req.Start,
		End:             req.End,
		EventLabel:      strings.TrimSpace(req.EventLabel),
		Status:          StatusConfirmed,
		RequiresPayment: sp.RequiresPayment,
		PaymentStatus:   initialPaymentStatus(sp.RequiresPayment),
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	r.SpaceName = sp.Name

	s.refresh(ctx)
	return r, nil
}

// initialPaymentStatus derives the payment state fixed at creation:
// pending when the space charges for use, not_required otherwise.
func initialPaymentStatus(requiresPayment bool) PaymentStatus {
	if requiresPayment {
		return PaymentPending
	}
	return PaymentNotRequired
}

func (s *service) GetByID(ctx context.Context, id string) (*Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Cancel(ctx context.Context, id, callerID string, isAdmin bool) error {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !isAdmin && r.RequesterID != callerID {
		return ErrPermissionDenied
	}

	// Idempotent: a cancelled reservation stays cancelled.
	if r.Status == StatusCancelled {
		return nil
	}

	if !isAdmin && !r.CanCancel(s.now()) {
		return ErrCancellationCutoff
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusCancelled); err != nil {
		return err
	}

	s.refresh(ctx)
	return nil
}

func (s *service) IsSlotAvailable(ctx context.Context, spaceID string, date time.Time, start, end timeslot.TimeOfDay) (bool, error) {
	candidate := timeslot.NewInterval(start, end)
	if !candidate.Valid() {
		return false, ErrInvalidTimeRange
	}
	return s.isSlotFree(ctx, spaceID, date, candidate)
}

func (s *service) isSlotFree(ctx context.Context, spaceID string, date time.Time, candidate timeslot.Interval) (bool, error) {
	existing, err := s.repo.ListActive(ctx, spaceID, date)
	if err != nil {
		return false, err
	}
	for _, r := range existing {
		if timeslot.Overlaps(candidate, r.Interval()) {
			return false, nil
		}
	}
	return true, nil
}

// AvailableSlots returns the free gaps within the space's operating
// hours on the given day.
func (s *service) AvailableSlots(ctx context.Context, spaceID string, date time.Time) ([]timeslot.Interval, error) {
	sp, err := s.spaceService.GetByID(ctx, spaceID)
	if err != nil {
		if errors.Is(err, space.ErrNotFound) {
			return nil, ErrSpaceNotFound
		}
		return nil, err
	}

	existing, err := s.repo.ListActive(ctx, spaceID, date)
	if err != nil {
		return nil, err
	}

	taken := make([]timeslot.Interval, len(existing))
	for i, r := range existing {
		taken[i] = r.Interval()
	}

	return FreeSlots(sp.OperatingHours(), taken), nil
}

// FreeSlots subtracts the taken intervals from the bookable window and
// returns the remaining gaps in chronological order.
func FreeSlots(window timeslot.Interval, taken []timeslot.Interval) []timeslot.Interval {
	sorted := make([]timeslot.Interval, len(taken))
	copy(sorted, taken)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	free := []timeslot.Interval{}
	cursor := window.Start
	for _, iv := range sorted {
		if iv.End <= cursor || iv.Start >= window.End {
			continue
		}
		if iv.Start > cursor {
			free = append(free, timeslot.NewInterval(cursor, iv.Start))
		}
		if iv.End > cursor {
			cursor = iv.End
		}
	}
	if cursor < window.End {
		free = append(free, timeslot.NewInterval(cursor, window.End))
	}
	return free
}

// refresh synchronizes the read model after a successful mutation so
// the caller observes the authoritative post-write state.
func (s *service) refresh(ctx context.Context) {
	if s.readModel != nil {
		_ = s.readModel.Refresh(ctx)
	}
}
