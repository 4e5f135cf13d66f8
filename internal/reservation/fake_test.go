package reservation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nekogravitycat/arena-booking-backend/internal/facility"
	"github.com/nekogravitycat/arena-booking-backend/internal/notification"
	"github.com/nekogravitycat/arena-booking-backend/internal/promotion"
)

// memRepository keeps reservations in memory. Create holds one mutex for the
// whole check-and-insert, standing in for the facility-day lock.
type memRepository struct {
	mu    sync.Mutex
	rows  map[string]*Reservation
	clock time.Time

	createErr error
	listErr   error
	// createHook runs inside Create before the check, with the lock held.
	createHook func(ctx context.Context) error
}

func newMemRepository() *memRepository {
	return &memRepository{
		rows:  map[string]*Reservation{},
		clock: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
	}
}

func clone(r *Reservation) *Reservation {
	c := *r
	c.TimeSlots = append([]string(nil), r.TimeSlots...)
	return &c
}

// seed stores r as-is, bypassing every check.
func (m *memRepository) seed(r *Reservation) *Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		m.clock = m.clock.Add(time.Second)
		r.CreatedAt = m.clock
		r.UpdatedAt = m.clock
	}
	m.rows[r.ID] = clone(r)
	return r
}

func (m *memRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(r), nil
}

func (m *memRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, 0, m.listErr
	}

	var out []*Reservation
	for _, r := range m.rows {
		if filter.FacilityID != 0 && r.FacilityID != filter.FacilityID {
			continue
		}
		if filter.UserID != "" && (r.UserID == nil || *r.UserID != filter.UserID) {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, clone(r))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, len(out), nil
}

func (m *memRepository) ListOccupying(ctx context.Context, facilityID int64, date time.Time) ([]*Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.occupying(facilityID, date), nil
}

func (m *memRepository) occupying(facilityID int64, date time.Time) []*Reservation {
	var out []*Reservation
	for _, r := range m.rows {
		if r.FacilityID == facilityID && r.BookingDate.Equal(date) && r.Status.Occupies() {
			out = append(out, clone(r))
		}
	}
	return out
}

func (m *memRepository) Create(ctx context.Context, r *Reservation, check CheckFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createHook != nil {
		if err := m.createHook(ctx); err != nil {
			return err
		}
	}
	if m.createErr != nil {
		return m.createErr
	}
	if check != nil {
		if err := check(m.occupying(r.FacilityID, r.BookingDate)); err != nil {
			return err
		}
	}

	m.clock = m.clock.Add(time.Second)
	r.ID = uuid.NewString()
	r.CreatedAt = m.clock
	r.UpdatedAt = m.clock
	m.rows[r.ID] = clone(r)
	return nil
}

func (m *memRepository) UpdateStatus(ctx context.Context, id string, from, to Status) (*Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	if r.Status != from {
		return nil, ErrConcurrentUpdate
	}
	r.Status = to
	m.clock = m.clock.Add(time.Second)
	r.UpdatedAt = m.clock
	return clone(r), nil
}

type stubFacilities map[int64]*facility.Facility

func (s stubFacilities) GetByID(ctx context.Context, id int64) (*facility.Facility, error) {
	f, ok := s[id]
	if !ok {
		return nil, facility.ErrNotFound
	}
	return f, nil
}

// stubPromotions prices with promotions keyed by id and rejects unknown ids.
type stubPromotions map[string]*promotion.Promotion

func (s stubPromotions) Quote(ctx context.Context, promotionID, userID string, base float64) (promotion.Quote, error) {
	if promotionID == "" {
		return promotion.NewQuote(base, nil), nil
	}
	p, ok := s[promotionID]
	if !ok {
		return promotion.Quote{}, promotion.ErrNotFound
	}
	return promotion.NewQuote(base, p), nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []*notification.Notification
	err  error
}

func (n *recordingNotifier) Send(ctx context.Context, msg *notification.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}
