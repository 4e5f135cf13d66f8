package promotion

import (
	"context"
	"time"
)

type Service interface {
	// Quote validates promotionID for userID and prices base with it.
	// An empty promotionID yields an undiscounted quote.
	Quote(ctx context.Context, promotionID, userID string, base float64) (Quote, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Quote(ctx context.Context, promotionID, userID string, base float64) (Quote, error) {
	if promotionID == "" {
		return NewQuote(base, nil), nil
	}

	p, err := s.repo.GetByID(ctx, promotionID)
	if err != nil {
		return Quote{}, err
	}
	if err := p.Check(s.now()); err != nil {
		return Quote{}, err
	}

	if userID != "" {
		used, err := s.repo.HasUsed(ctx, promotionID, userID)
		if err != nil {
			return Quote{}, err
		}
		if used {
			return Quote{}, ErrAlreadyUsed
		}
	}

	return NewQuote(base, p), nil
}
