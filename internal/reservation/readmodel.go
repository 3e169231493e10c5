package reservation

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/timeslot"
)

// ReadModel maintains an in-memory replica of the reservation set,
// refreshed wholesale from the store. It reacts to change notifications
// by re-reading everything; reservation volumes are small enough that
// simplicity wins over incremental patching.
type ReadModel struct {
	repo Repository

	mu           sync.RWMutex
	reservations map[string]*Reservation
	refreshedAt  time.Time
}

func NewReadModel(repo Repository) *ReadModel {
	return &ReadModel{
		repo:         repo,
		reservations: make(map[string]*Reservation),
	}
}

// Refresh re-reads the full reservation set and replaces the in-memory
// view. Callers observing the model after a write they issued see at
// least their own write once Refresh returns.
func (m *ReadModel) Refresh(ctx context.Context) error {
	all, err := m.repo.ListAll(ctx)
	if err != nil {
		return err
	}

	next := make(map[string]*Reservation, len(all))
	for _, r := range all {
		next[r.ID] = r
	}

	m.mu.Lock()
	m.reservations = next
	m.refreshedAt = time.Now().UTC()
	m.mu.Unlock()
	return nil
}

// Invalidate reloads the view in response to a change notification.
// Failures are logged and retried on the next notification; the stale
// view keeps serving reads in the meantime.
func (m *ReadModel) Invalidate() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.Refresh(ctx); err != nil {
		log.Printf("read model refresh failed: %v", err)
	}
}

// RefreshedAt returns when the view was last synchronized.
func (m *ReadModel) RefreshedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshedAt
}

// Get returns the cached reservation, if present.
func (m *ReadModel) Get(id string) (*Reservation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reservations[id]
	return r, ok
}

// ByRequester returns the requester's active reservations, newest first.
func (m *ReadModel) ByRequester(requesterID string) []*Reservation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Reservation
	for _, r := range m.reservations {
		if r.RequesterID == requesterID && r.Active() {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// BySpaceAndDate returns the active reservations blocking slots for a
// space on a calendar day, ordered by start time.
func (m *ReadModel) BySpaceAndDate(spaceID string, date time.Time) []*Reservation {
	day := DateOnly(date)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Reservation
	for _, r := range m.reservations {
		if r.SpaceID == spaceID && r.Date.Equal(day) && r.Active() {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return out
}

// TakenIntervals projects the occupied slots for a space/day, the input
// the overlap checker runs against when serving availability queries
// from the cache.
func (m *ReadModel) TakenIntervals(spaceID string, date time.Time) []timeslot.Interval {
	active := m.BySpaceAndDate(spaceID, date)
	out := make([]timeslot.Interval, len(active))
	for i, r := range active {
		out[i] = r.Interval()
	}
	return out
}

// View returns a copy of the reservation appropriate for the viewer's
// role: admins and the requester see contact details, everyone else
// gets them redacted.
func (m *ReadModel) View(r *Reservation, viewerID string, isAdmin bool) Reservation {
	v := *r
	if !isAdmin && r.RequesterID != viewerID {
		v.RequesterEmail = ""
		v.RequesterUnit = nil
		v.RequesterPhone = nil
	}
	return v
}
