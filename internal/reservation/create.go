package reservation

import (
	"context"
	"errors"
	"math"

	"github.com/nekogravitycat/arena-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/arena-booking-backend/internal/promotion"
	"github.com/nekogravitycat/arena-booking-backend/internal/slot"
)

// selection validates requested labels against the daily schedule and
// returns them canonical, deduplicated and in day order.
func selection(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, ErrInvalidSlotSelection
	}
	var labels, invalid []string
	for _, r := range raw {
		l, ok := slot.ParseLabel(r)
		if !ok || !slot.InCatalog(l) {
			invalid = append(invalid, r)
			continue
		}
		labels = append(labels, l)
	}
	if len(invalid) > 0 {
		return nil, ErrInvalidSlotSelection.WithDetails(InvalidSlotDetails{InvalidSlots: invalid})
	}
	return slot.Sort(labels), nil
}

func conflictErr(conflicts []string) error {
	return ErrSlotConflict.WithDetails(SlotConflictDetails{ConflictingSlots: conflicts})
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Reservation, error) {
	// 1. Validate selection before touching storage
	labels, err := selection(req.Slots)
	if err != nil {
		return nil, err
	}
	if req.Date.IsZero() {
		return nil, ErrInvalidDate
	}

	// 2. Facility must exist and be open
	f, err := s.facilities.GetByID(ctx, req.FacilityID)
	if err != nil {
		return nil, storageErr(err)
	}
	if !f.Bookable() {
		return nil, ErrFacilityUnavailable
	}

	// 3. Fresh availability read; fails fast before pricing
	occupied, err := s.OccupiedSlots(ctx, req.FacilityID, req.Date)
	if err != nil {
		return nil, err
	}
	if conflicts := slot.NewSet(occupied...).Intersect(labels); len(conflicts) > 0 {
		s.countConflict()
		return nil, conflictErr(conflicts)
	}

	// 4. Price
	base := f.HourlyRate * float64(len(labels))
	quote, err := s.promotions.Quote(ctx, req.PromotionID, req.UserID, base)
	if err != nil {
		return nil, storageErr(err)
	}
	if req.ClientTotal != nil && math.Abs(*req.ClientTotal-quote.Total) > 0.005 {
		s.logger.Warn().
			Int64("facility_id", req.FacilityID).
			Float64("client_total", *req.ClientTotal).
			Float64("server_total", quote.Total).
			Msg("client price differs from computed price")
	}

	// 5. Persist under the facility-day lock, re-checking occupancy there
	res := &Reservation{
		FacilityID:   req.FacilityID,
		FacilityName: f.Name,
		BookingDate:  req.Date,
		TimeSlots:    labels,
		Status:       StatusPending,
		TotalPrice:   quote.Total,
		Discount:     quote.Discount,
	}
	if start, end, ok := slot.Bounds(labels, req.Date, s.loc); ok {
		res.StartTime, res.EndTime = &start, &end
	}
	if req.UserID != "" {
		uid := req.UserID
		res.UserID = &uid
	}
	if quote.Promotion != nil {
		pid := quote.Promotion.ID
		res.PromotionID = &pid
	}

	writeCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	err = s.repo.Create(writeCtx, res, func(existing []*Reservation) error {
		if conflicts := occupancy(existing, s.loc).Intersect(labels); len(conflicts) > 0 {
			return conflictErr(conflicts)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotConflict):
			s.countConflict()
			if !hasConflictDetails(err) {
				return nil, conflictErr(labels)
			}
			return nil, err
		case errors.Is(err, ErrBookingOutcomeUnknown), errors.Is(err, promotion.ErrInvalid):
			return nil, err
		}
		return nil, storageErr(err)
	}

	if s.metrics.Created != nil {
		s.metrics.Created()
	}
	s.logger.Info().
		Str("reservation_id", res.ID).
		Int64("facility_id", res.FacilityID).
		Str("date", FormatDate(res.BookingDate)).
		Strs("slots", res.TimeSlots).
		Float64("total_price", res.TotalPrice).
		Msg("reservation created")

	return res, nil
}

func hasConflictDetails(err error) bool {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return false
	}
	_, ok := appErr.Details.(SlotConflictDetails)
	return ok
}

func (s *service) countConflict() {
	if s.metrics.Conflict != nil {
		s.metrics.Conflict()
	}
}
