package promotion

import (
	"math"
	"net/http"
	"time"

	"github.com/nekogravitycat/arena-booking-backend/internal/pkg/apperror"
)

var (
	ErrInvalid     = apperror.New(http.StatusUnprocessableEntity, "PromotionInvalid", "promotion is not valid")
	ErrNotFound    = apperror.New(http.StatusUnprocessableEntity, "PromotionInvalid", "promotion not found")
	ErrInactive    = apperror.New(http.StatusUnprocessableEntity, "PromotionInvalid", "promotion is not active")
	ErrExpired     = apperror.New(http.StatusUnprocessableEntity, "PromotionInvalid", "promotion is outside its validity window")
	ErrAlreadyUsed = apperror.New(http.StatusUnprocessableEntity, "PromotionInvalid", "promotion has already been used")
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Promotion is a discount a user may apply once when booking.
// A fixed amount takes precedence over a percentage.
type Promotion struct {
	ID                 string
	Code               string
	DiscountAmount     *float64
	DiscountPercentage *float64
	ValidFrom          time.Time
	ValidUntil         time.Time
	Status             Status
	CreatedAt          time.Time
}

// Check reports why the promotion cannot be used at now, or nil.
func (p *Promotion) Check(now time.Time) error {
	if p.Status != StatusActive {
		return ErrInactive
	}
	if now.Before(p.ValidFrom) || now.After(p.ValidUntil) {
		return ErrExpired
	}
	return nil
}

// Discount returns the amount taken off base. It never exceeds base.
func (p *Promotion) Discount(base float64) float64 {
	if base <= 0 {
		return 0
	}
	var d float64
	switch {
	case p.DiscountAmount != nil && *p.DiscountAmount > 0:
		d = *p.DiscountAmount
	case p.DiscountPercentage != nil && *p.DiscountPercentage > 0:
		d = base * *p.DiscountPercentage / 100
	}
	return roundCents(math.Min(math.Max(d, 0), base))
}

// Quote is the priced outcome of applying an optional promotion.
type Quote struct {
	Base      float64
	Discount  float64
	Total     float64
	Promotion *Promotion
}

// NewQuote prices base with p, which may be nil. Total is never negative.
func NewQuote(base float64, p *Promotion) Quote {
	q := Quote{Base: roundCents(base), Promotion: p}
	if p != nil {
		q.Discount = p.Discount(base)
	}
	q.Total = roundCents(math.Max(q.Base-q.Discount, 0))
	return q
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
