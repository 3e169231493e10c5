package reservation

import (
	"context"
	"fmt"
	"mime/multipart"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/timeslot"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/space"
)

// fakeRepo is an in-memory Repository. Create enforces the same overlap
// rule the database exclusion constraint does, so tests exercise the
// conflict path the service sees under concurrent writers.
type fakeRepo struct {
	mu           sync.Mutex
	reservations map[string]*Reservation
	seq          int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{reservations: make(map[string]*Reservation)}
}

func (f *fakeRepo) Create(_ context.Context, r *Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, other := range f.reservations {
		if other.SpaceID == r.SpaceID && other.Date.Equal(r.Date) && other.Active() &&
			timeslot.Overlaps(r.Interval(), other.Interval()) {
			return ErrSlotUnavailable
		}
	}

	f.seq++
	r.ID = fmt.Sprintf("res-%d", f.seq)
	// Spread creation times so ordering assertions are deterministic.
	r.CreatedAt = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Minute)
	r.UpdatedAt = r.CreatedAt

	clone := *r
	f.reservations[r.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *r
	return &clone, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = r.UpdatedAt.Add(time.Second)
	return nil
}

func (f *fakeRepo) UpdatePayment(_ context.Context, updated *Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[updated.ID]
	if !ok {
		return ErrNotFound
	}
	r.PaymentStatus = updated.PaymentStatus
	r.PaymentProofURL = updated.PaymentProofURL
	r.PaymentVerifiedAt = updated.PaymentVerifiedAt
	r.PaymentVerifiedBy = updated.PaymentVerifiedBy
	r.UpdatedAt = r.UpdatedAt.Add(time.Second)
	return nil
}

func (f *fakeRepo) ListActive(_ context.Context, spaceID string, date time.Time) ([]*Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	day := DateOnly(date)
	var out []*Reservation
	for _, r := range f.reservations {
		if r.SpaceID == spaceID && r.Date.Equal(day) && r.Active() {
			clone := *r
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

func (f *fakeRepo) List(_ context.Context, filter Filter) ([]*Reservation, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Reservation
	for _, r := range f.reservations {
		if filter.RequesterID != "" && r.RequesterID != filter.RequesterID {
			continue
		}
		if filter.SpaceID != "" && r.SpaceID != filter.SpaceID {
			continue
		}
		if filter.Status != "" && string(r.Status) != filter.Status {
			continue
		}
		clone := *r
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (f *fakeRepo) ListAll(_ context.Context) ([]*Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Reservation
	for _, r := range f.reservations {
		clone := *r
		out = append(out, &clone)
	}
	return out, nil
}

// fakeSpaceService serves a fixed set of spaces.
type fakeSpaceService struct {
	spaces map[string]*space.Space
}

func newFakeSpaceService(spaces ...*space.Space) *fakeSpaceService {
	m := make(map[string]*space.Space, len(spaces))
	for _, s := range spaces {
		m[s.ID] = s
	}
	return &fakeSpaceService{spaces: m}
}

func (f *fakeSpaceService) GetByID(_ context.Context, id string) (*space.Space, error) {
	s, ok := f.spaces[id]
	if !ok {
		return nil, space.ErrNotFound
	}
	return s, nil
}

func (f *fakeSpaceService) Create(context.Context, space.CreateRequest) (*space.Space, error) {
	panic("not used in tests")
}

func (f *fakeSpaceService) List(context.Context, space.Filter) ([]*space.Space, int, error) {
	panic("not used in tests")
}

func (f *fakeSpaceService) Update(context.Context, string, space.UpdateRequest) (*space.Space, error) {
	panic("not used in tests")
}

func (f *fakeSpaceService) Deactivate(context.Context, string) error {
	panic("not used in tests")
}

func (f *fakeSpaceService) SetPaymentMethods(context.Context, string, []space.PaymentMethod) ([]space.PaymentMethod, error) {
	panic("not used in tests")
}

// fakeProofStore records uploads and returns a deterministic URL.
type fakeProofStore struct {
	calls int
	err   error
}

func (f *fakeProofStore) Store(_ context.Context, reservationID, _ string, _ *multipart.FileHeader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.calls++
	return fmt.Sprintf("/v1/proofs/proof-%s-%d", reservationID, f.calls), nil
}

func mustTime(t *testing.T, s string) timeslot.TimeOfDay {
	t.Helper()
	v, err := timeslot.Parse(s)
	require.NoError(t, err)
	return v
}

func freeSpace(id string) *space.Space {
	return &space.Space{
		ID:       id,
		Name:     "Community Hall",
		Capacity: 50,
		OpensAt:  timeslot.TimeOfDay(8 * 60),
		ClosesAt: timeslot.TimeOfDay(22 * 60),
		IsActive: true,
	}
}

func paidSpace(id string) *space.Space {
	s := freeSpace(id)
	s.Name = "BBQ Area"
	s.RequiresPayment = true
	s.Fee = 25
	return s
}

type testEnv struct {
	repo   *fakeRepo
	spaces *fakeSpaceService
	proofs *fakeProofStore
	svc    *service
}

func newTestEnv(t *testing.T, spaces ...*space.Space) *testEnv {
	t.Helper()
	repo := newFakeRepo()
	spaceSvc := newFakeSpaceService(spaces...)
	proofs := &fakeProofStore{}
	svc := NewService(repo, spaceSvc, proofs, nil).(*service)
	return &testEnv{repo: repo, spaces: spaceSvc, proofs: proofs, svc: svc}
}

func (e *testEnv) createReservation(t *testing.T, requesterID, spaceID string, date time.Time, start, end string) *Reservation {
	t.Helper()
	r, err := e.svc.Create(context.Background(), CreateRequest{
		RequesterID: requesterID,
		SpaceID:     spaceID,
		Date:        date,
		Start:       mustTime(t, start),
		End:         mustTime(t, end),
	})
	require.NoError(t, err)
	return r
}

var testDay = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

func TestCreateReservation(t *testing.T) {
	env := newTestEnv(t, freeSpace("hall"))

	r := env.createReservation(t, "alice", "hall", testDay, "10:00", "12:00")

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, StatusConfirmed, r.Status)
	assert.Equal(t, PaymentNotRequired, r.PaymentStatus)
	assert.False(t, r.RequiresPayment)
	assert.Equal(t, testDay, r.Date)
	assert.Equal(t, "Community Hall", r.SpaceName)
}

func TestCreateReservationPaidSpaceStartsPending(t *testing.T) {
	env := newTestEnv(t, paidSpace("bbq"))

	r := env.createReservation(t, "alice", "bbq", testDay, "10:00", "12:00")

	assert.True(t, r.RequiresPayment)
	assert.Equal(t, PaymentPending, r.PaymentStatus)
	assert.Nil(t, r.PaymentProofURL)
}

func TestCreateReservationRejectsOverlap(t *testing.T) {
	env := newTestEnv(t, freeSpace("hall"))
	env.createReservation(t, "alice", "hall", testDay, "10:00", "12:00")

	tests := []struct {
		name       string
		start, end string
		wantErr    error
	}{
		{"identical slot", "10:00", "12:00", ErrSlotUnavailable},
		{"overlaps tail", "11:00", "13:00", ErrSlotUnavailable},
		{"overlaps head", "09:00", "10:30", ErrSlotUnavailable},
		{"fully contains", "09:00", "13:00", ErrSlotUnavailable},
		{"contained within", "10:30", "11:30", ErrSlotUnavailable},
		{"touching end is free", "12:00", "13:00", nil},
		{"touching start is free", "09:00", "10:00", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Create(context.Background(), CreateRequest{
				RequesterID: "bob",
				SpaceID:     "hall",
				Date:        testDay,
				Start:       mustTime(t, tt.start),
				End:         mustTime(t, tt.end),
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateReservationOtherDayOrSpaceDoesNotConflict(t *testing.T) {
	env := newTestEnv(t, freeSpace("hall"), freeSpace("gym"))
	env.createReservation(t, "alice", "hall", testDay, "10:00", "12:00")

	// Same slot, different day.
	env.createReservation(t, "bob", "hall", testDay.AddDate(0, 0, 1), "10:00", "12:00")
	// Same slot and day, different space.
	env.createReservation(t, "bob", "gym", testDay, "10:00", "12:00")
}

func TestCreateReservationCancelledSlotIsReusable(t *testing.T) {
	env := newTestEnv(t, freeSpace("hall"))
	admin := true

	r := env.createReservation(t, "alice", "hall", testDay, "10:00", "12:00")
	require.NoError(t, env.svc.Cancel(context.Background(), r.ID, "admin", admin))

	env.createReservation(t, "bob", "hall", testDay, "10:00", "12:00")
}

func TestCreateReservationValidation(t *testing.T) {
	env := newTestEnv(t, freeSpace("hall"))

	tests := []struct {
		name       string
		spaceID    string
		start, end string
		wantErr    error
	}{
		{"end before start", "hall", "12:00", "10:00", ErrInvalidTimeRange},
		{"zero length", "hall", "10:00", "10:00", ErrInvalidTimeRange},
		{"before opening", "hall", "07:00", "09:00", ErrOutsideOperatingHours},
		{"after closing", "hall", "21:00", "23:00", ErrOutsideOperatingHours},
		{"unknown space", "nope", "10:00", "12:00", ErrSpaceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Create(context.Background(), CreateRequest{
				RequesterID: "alice",
				SpaceID:     tt.spaceID,
				Date:        testDay,
				Start:       mustTime(t, tt.start),
				End:         mustTime(t, tt.end),
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateReservationInactiveSpace(t *testing.T) {
	closed := freeSpace("hall")
	closed.IsActive = false
	env := newTestEnv(t, closed)

	_, err := env.svc.Create(context.Background(), CreateRequest{
		RequesterID: "alice",
		SpaceID:     "hall",
		Date:        testDay,
		Start:       mustTime(t, "10:00"),
		End:         mustTime(t, "12:00"),
	})
	assert.ErrorIs(t, err, ErrSpaceInactive)
}

func TestCancelReservation(t *testing.T) {
	env := newTestEnv(t, freeSpace("hall"))
	r := env.createReservation(t, "alice", "hall", testDay, "10:00", "12:00")

	// Far enough ahead of the slot that the cutoff allows it.
	env.svc.now = func() time.Time { return testDay.Add(-48 * time.Hour) }

	require.NoError(t, env.svc.Cancel(context.Background(), r.ID, "alice", false))

	got, err := env.repo.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
}

func TestCancelReservationIsIdempotent(t *testing.T) {
	env := newTestEnv(t, freeSpace("hall"))
	r := env.createReservation(t, "alice", "hall", testDay, "10:00", "12:00")
	env.svc.now = func() time.Time { return testDay.Add(-48 * time.Hour) }

	require.NoError(t, env.svc.Cancel(context.Background(), r.ID, "alice", false))
	require.NoError(t, env.svc.Cancel(context.Background(), r.ID, "alice", false))
}

func TestCancelReservationPermissions(t *testing.T) {
	env := newTestEnv(t, freeSpace("hall"))
	r := env.createReservation(t, "alice", "hall", testDay, "10:00", "12:00")
	env.svc.now = func() time.Time { return testDay.Add(-48 * time.Hour) }

	err := env.svc.Cancel(context.Background(), r.ID, "bob", false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// Admins can cancel anyone's reservation.
	require.NoError(t, env.svc.Cancel(context.Background(), r.ID, "someone-else", true))
}

func TestCancelReservationCutoff(t *testing.T) {
	env := newTestEnv(t, freeSpace("hall"))
	r := env.createReservation(t, "alice", "hall", testDay, "10:00", "12:00")
	startsAt := testDay.Add(10 * time.Hour)

	// 23 hours before start: inside the cutoff, member is refused.
	env.svc.now = func() time.Time { return startsAt.Add(-23 * time.Hour) }
	err := env.svc.Cancel(context.Background(), r.ID, "alice", false)
	assert.ErrorIs(t, err, ErrCancellationCutoff)

	// An admin is not bound by the cutoff.
	require.NoError(t, env.svc.Cancel(context.Background(), r.ID, "admin", true))
}

func TestCancelReservationAtExactCutoff(t *testing.T) {
	env := newTestEnv(t, freeSpace("hall"))
	r := env.createReservation(t, "alice", "hall", testDay, "10:00", "12:00")
	startsAt := testDay.Add(10 * time.Hour)

	// Exactly 24 hours before start is still allowed.
	env.svc.now = func() time.Time { return startsAt.Add(-CancellationCutoff) }
	require.NoError(t, env.svc.Cancel(context.Background(), r.ID, "alice", false))
}

func TestCancelReservationNotFound(t *testing.T) {
	env := newTestEnv(t, freeSpace("hall"))
	err := env.svc.Cancel(context.Background(), "missing", "alice", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsSlotAvailable(t *testing.T) {
	env := newTestEnv(t, freeSpace("hall"))
	env.createReservation(t, "alice", "hall", testDay, "10:00", "12:00")

	ok, err := env.svc.IsSlotAvailable(context.Background(), "hall", testDay,
		mustTime(t, "12:00"), mustTime(t, "14:00"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.svc.IsSlotAvailable(context.Background(), "hall", testDay,
		mustTime(t, "11:00"), mustTime(t, "13:00"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = env.svc.IsSlotAvailable(context.Background(), "hall", testDay,
		mustTime(t, "14:00"), mustTime(t, "12:00"))
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestAvailableSlots(t *testing.T) {
	env := newTestEnv(t, freeSpace("hall"))
	env.createReservation(t, "alice", "hall", testDay, "10:00", "12:00")
	env.createReservation(t, "bob", "hall", testDay, "15:00", "16:00")

	slots, err := env.svc.AvailableSlots(context.Background(), "hall", testDay)
	require.NoError(t, err)

	want := []timeslot.Interval{
		{Start: mustTime(t, "08:00"), End: mustTime(t, "10:00")},
		{Start: mustTime(t, "12:00"), End: mustTime(t, "15:00")},
		{Start: mustTime(t, "16:00"), End: mustTime(t, "22:00")},
	}
	assert.Equal(t, want, slots)
}

func TestFreeSlots(t *testing.T) {
	window := timeslot.Interval{Start: mustTime(t, "09:00"), End: mustTime(t, "18:00")}

	tests := []struct {
		name  string
		taken []timeslot.Interval
		want  []timeslot.Interval
	}{
		{
			name:  "empty day is fully free",
			taken: nil,
			want:  []timeslot.Interval{window},
		},
		{
			name: "one booking in the middle",
			taken: []timeslot.Interval{
				{Start: mustTime(t, "12:00"), End: mustTime(t, "13:00")},
			},
			want: []timeslot.Interval{
				{Start: mustTime(t, "09:00"), End: mustTime(t, "12:00")},
				{Start: mustTime(t, "13:00"), End: mustTime(t, "18:00")},
			},
		},
		{
			name: "unsorted input is handled",
			taken: []timeslot.Interval{
				{Start: mustTime(t, "15:00"), End: mustTime(t, "16:00")},
				{Start: mustTime(t, "09:00"), End: mustTime(t, "10:00")},
			},
			want: []timeslot.Interval{
				{Start: mustTime(t, "10:00"), End: mustTime(t, "15:00")},
				{Start: mustTime(t, "16:00"), End: mustTime(t, "18:00")},
			},
		},
		{
			name: "back to back bookings leave no gap between",
			taken: []timeslot.Interval{
				{Start: mustTime(t, "10:00"), End: mustTime(t, "12:00")},
				{Start: mustTime(t, "12:00"), End: mustTime(t, "14:00")},
			},
			want: []timeslot.Interval{
				{Start: mustTime(t, "09:00"), End: mustTime(t, "10:00")},
				{Start: mustTime(t, "14:00"), End: mustTime(t, "18:00")},
			},
		},
		{
			name: "booking overlapping window edges is clipped",
			taken: []timeslot.Interval{
				{Start: mustTime(t, "08:00"), End: mustTime(t, "09:30")},
				{Start: mustTime(t, "17:30"), End: mustTime(t, "19:00")},
			},
			want: []timeslot.Interval{
				{Start: mustTime(t, "09:30"), End: mustTime(t, "17:30")},
			},
		},
		{
			name: "fully booked day",
			taken: []timeslot.Interval{
				{Start: mustTime(t, "09:00"), End: mustTime(t, "18:00")},
			},
			want: []timeslot.Interval{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FreeSlots(window, tt.taken))
		})
	}
}

func TestReservationPhases(t *testing.T) {
	r := &Reservation{
		Date:   testDay,
		Start:  mustTime(t, "10:00"),
		End:    mustTime(t, "12:00"),
		Status: StatusConfirmed,
	}

	assert.Equal(t, PhaseUpcoming, r.CurrentPhase(testDay.Add(9*time.Hour)))
	assert.Equal(t, PhaseInProgress, r.CurrentPhase(testDay.Add(11*time.Hour)))
	assert.Equal(t, PhaseCompleted, r.CurrentPhase(testDay.Add(13*time.Hour)))

	r.Status = StatusCancelled
	assert.Equal(t, PhaseCancelled, r.CurrentPhase(testDay.Add(9*time.Hour)))
}
