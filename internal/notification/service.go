package notification

import (
	"context"

	"github.com/rs/zerolog"
)

type Service interface {
	// Send stores n in the user's inbox and publishes it when a broker is configured.
	Send(ctx context.Context, n *Notification) error
	List(ctx context.Context, filter Filter) ([]*Notification, int, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type service struct {
	repo      Repository
	publisher Publisher
	logger    zerolog.Logger
}

// NewService builds the inbox service. publisher may be nil.
func NewService(repo Repository, publisher Publisher, logger zerolog.Logger) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *service) Send(ctx context.Context, n *Notification) error {
	if n.Type == "" {
		n.Type = TypeBooking
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	if s.publisher != nil {
		// The inbox row is the record of delivery; the broker copy is best-effort.
		if err := s.publisher.PublishJSON(ctx, "notification."+n.Type, n); err != nil {
			s.logger.Warn().Err(err).Str("notification_id", n.ID).Msg("publish notification failed")
		}
	}
	return nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Notification, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) MarkRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}
