package reservation

import (
	"context"
	"errors"

	"github.com/nekogravitycat/arena-booking-backend/internal/notification"
)

// UpdateStatus moves a reservation to status to.
//
// Setting the current status again is a no-op. Only admins may approve,
// reject or cancel; the owner may request cancellation of their own
// reservation. Every applied change except a cancellation request sends
// exactly one notification to the owner. Delivery failures are logged and
// never undo the change.
func (s *service) UpdateStatus(ctx context.Context, id string, to Status, actor Actor) (*Reservation, error) {
	if !to.Settable() {
		return nil, ErrInvalidStatus
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}

	if !actor.IsAdmin {
		if to != StatusRequestToCancel || !current.OwnedBy(actor.UserID) {
			return nil, ErrForbidden
		}
	}

	if current.Status == to {
		return current, nil
	}
	if !CanTransition(current.Status, to) {
		return nil, ErrInvalidTransition.WithDetails(TransitionDetails{From: current.Status, To: to})
	}

	updated, err := s.repo.UpdateStatus(ctx, id, current.Status, to)
	if err != nil {
		if errors.Is(err, ErrConcurrentUpdate) {
			return nil, err
		}
		return nil, storageErr(err)
	}

	if s.metrics.Transition != nil {
		s.metrics.Transition(string(to))
	}
	s.logger.Info().
		Str("reservation_id", id).
		Str("from", string(current.Status)).
		Str("to", string(to)).
		Str("actor", actor.UserID).
		Msg("reservation status changed")

	if to != StatusRequestToCancel {
		s.notifyStatus(ctx, updated)
	}
	return updated, nil
}

func (s *service) notifyStatus(ctx context.Context, r *Reservation) {
	if s.notifier == nil || r.UserID == nil {
		return
	}

	name := r.FacilityName
	if name == "" {
		if f, err := s.facilities.GetByID(ctx, r.FacilityID); err == nil {
			name = f.Name
		}
	}
	start, end, _ := r.Window(s.loc)
	title, msg := notification.BookingStatusMessage(name, string(r.Status), start, end, s.loc)

	n := &notification.Notification{
		UserID:    *r.UserID,
		Title:     title,
		Message:   msg,
		Type:      notification.TypeBooking,
		RelatedID: r.ID,
	}
	if err := s.notifier.Send(ctx, n); err != nil {
		s.logger.Error().Err(err).
			Str("reservation_id", r.ID).
			Str("user_id", *r.UserID).
			Msg("status notification failed")
	}
}
