package reservation

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/nekogravitycat/arena-booking-backend/internal/facility"
	"github.com/nekogravitycat/arena-booking-backend/internal/notification"
	"github.com/nekogravitycat/arena-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/arena-booking-backend/internal/promotion"
	"github.com/rs/zerolog"
)

// FacilityReader is the slice of the facility service the booking core reads.
type FacilityReader interface {
	GetByID(ctx context.Context, id int64) (*facility.Facility, error)
}

// PromotionQuoter prices a booking with an optional promotion.
type PromotionQuoter interface {
	Quote(ctx context.Context, promotionID, userID string, base float64) (promotion.Quote, error)
}

// Notifier delivers a notification to a user's inbox.
type Notifier interface {
	Send(ctx context.Context, n *notification.Notification) error
}

type CreateRequest struct {
	FacilityID  int64
	Date        time.Time
	Slots       []string
	UserID      string
	PromotionID string
	// ClientTotal is the price the client displayed. The server price wins.
	ClientTotal *float64
}

type Service interface {
	// OccupiedSlots returns the labels held on facilityID and date, in day order.
	OccupiedSlots(ctx context.Context, facilityID int64, date time.Time) ([]string, error)
	Availability(ctx context.Context, facilityID int64, date time.Time) (*Availability, error)

	Create(ctx context.Context, req CreateRequest) (*Reservation, error)
	GetByID(ctx context.Context, id string, actor Actor) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	Grouped(ctx context.Context, filter Filter) ([]Group, error)

	UpdateStatus(ctx context.Context, id string, to Status, actor Actor) (*Reservation, error)

	// Location is the zone facility days and slot labels are read in.
	Location() *time.Location
}

type Options struct {
	Location *time.Location
	// WriteTimeout bounds a booking write. Zero disables the bound.
	WriteTimeout time.Duration
	Logger       zerolog.Logger
	Metrics      Metrics
}

// Metrics receives booking counters. The zero value records nothing.
type Metrics struct {
	Created    func()
	Conflict   func()
	Transition func(status string)
}

type service struct {
	repo       Repository
	facilities FacilityReader
	promotions PromotionQuoter
	notifier   Notifier
	loc        *time.Location
	timeout    time.Duration
	logger     zerolog.Logger
	metrics    Metrics
}

func NewService(repo Repository, facilities FacilityReader, promotions PromotionQuoter, notifier Notifier, opts Options) Service {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo:       repo,
		facilities: facilities,
		promotions: promotions,
		notifier:   notifier,
		loc:        loc,
		timeout:    opts.WriteTimeout,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
	}
}

func (s *service) Location() *time.Location {
	return s.loc
}

// storageErr passes domain errors through and turns anything else into
// ErrStorageUnavailable, so a store failure is never mistaken for success.
func storageErr(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return ErrStorageUnavailable.WithCause(err)
}

func (s *service) GetByID(ctx context.Context, id string, actor Actor) (*Reservation, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if !actor.IsAdmin && !r.OwnedBy(actor.UserID) {
		return nil, ErrForbidden
	}
	return r, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, storageErr(err)
	}
	return items, total, nil
}

func (s *service) Grouped(ctx context.Context, filter Filter) ([]Group, error) {
	items, _, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return GroupByCreation(items, s.loc), nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
