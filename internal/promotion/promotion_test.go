package promotion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestQuote(t *testing.T) {
	tests := []struct {
		name      string
		base      float64
		promotion *Promotion
		want      float64
	}{
		{"no promotion", 1500, nil, 1500},
		{"fixed amount", 1500, &Promotion{DiscountAmount: ptr(200)}, 1300},
		{"percentage", 1500, &Promotion{DiscountPercentage: ptr(50)}, 750},
		{"fixed wins over percentage", 1500, &Promotion{DiscountAmount: ptr(100), DiscountPercentage: ptr(50)}, 1400},
		{"zero fixed falls back to percentage", 1000, &Promotion{DiscountAmount: ptr(0), DiscountPercentage: ptr(10)}, 900},
		{"discount larger than price", 500, &Promotion{DiscountAmount: ptr(9999)}, 0},
		{"over one hundred percent", 500, &Promotion{DiscountPercentage: ptr(150)}, 0},
		{"fractional percentage rounds to cents", 333, &Promotion{DiscountPercentage: ptr(33.333)}, 222},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQuote(tt.base, tt.promotion)
			assert.InDelta(t, tt.want, q.Total, 0.001)
			assert.GreaterOrEqual(t, q.Total, 0.0)
			assert.InDelta(t, tt.base, q.Total+q.Discount, 0.001)
		})
	}
}

func TestCheck(t *testing.T) {
	now := time.Date(2026, 1, 12, 10, 0, 0, 0, time.UTC)
	window := func(p Promotion) *Promotion {
		p.ValidFrom = now.Add(-time.Hour)
		p.ValidUntil = now.Add(time.Hour)
		return &p
	}

	assert.NoError(t, window(Promotion{Status: StatusActive}).Check(now))
	assert.ErrorIs(t, window(Promotion{Status: StatusInactive}).Check(now), ErrInactive)
	assert.ErrorIs(t, window(Promotion{Status: StatusActive}).Check(now.Add(2*time.Hour)), ErrExpired)
	assert.ErrorIs(t, window(Promotion{Status: StatusActive}).Check(now.Add(-2*time.Hour)), ErrExpired)

	// Every rejection reason shares the PromotionInvalid kind.
	assert.ErrorIs(t, ErrExpired, ErrInvalid)
	assert.ErrorIs(t, ErrAlreadyUsed, ErrInvalid)
}

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, p *Promotion) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*Promotion, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*Promotion)
	return p, args.Error(1)
}

func (m *mockRepository) HasUsed(ctx context.Context, promotionID, userID string) (bool, error) {
	args := m.Called(ctx, promotionID, userID)
	return args.Bool(0), args.Error(1)
}

func TestServiceQuote(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 12, 10, 0, 0, 0, time.UTC)
	active := &Promotion{
		ID:             "promo-1",
		DiscountAmount: ptr(200),
		Status:         StatusActive,
		ValidFrom:      now.Add(-24 * time.Hour),
		ValidUntil:     now.Add(24 * time.Hour),
	}

	t.Run("no promotion skips the store", func(t *testing.T) {
		repo := new(mockRepository)
		svc := &service{repo: repo, now: func() time.Time { return now }}

		q, err := svc.Quote(ctx, "", "user-1", 1500)
		require.NoError(t, err)
		assert.Equal(t, 1500.0, q.Total)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("valid promotion", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetByID", ctx, "promo-1").Return(active, nil)
		repo.On("HasUsed", ctx, "promo-1", "user-1").Return(false, nil)
		svc := &service{repo: repo, now: func() time.Time { return now }}

		q, err := svc.Quote(ctx, "promo-1", "user-1", 1500)
		require.NoError(t, err)
		assert.Equal(t, 1300.0, q.Total)
		assert.Equal(t, 200.0, q.Discount)
		repo.AssertExpectations(t)
	})

	t.Run("already used", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetByID", ctx, "promo-1").Return(active, nil)
		repo.On("HasUsed", ctx, "promo-1", "user-1").Return(true, nil)
		svc := &service{repo: repo, now: func() time.Time { return now }}

		_, err := svc.Quote(ctx, "promo-1", "user-1", 1500)
		assert.ErrorIs(t, err, ErrAlreadyUsed)
	})

	t.Run("guest skips usage check", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetByID", ctx, "promo-1").Return(active, nil)
		svc := &service{repo: repo, now: func() time.Time { return now }}

		_, err := svc.Quote(ctx, "promo-1", "", 1500)
		require.NoError(t, err)
		repo.AssertNotCalled(t, "HasUsed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown promotion", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetByID", ctx, "missing").Return(nil, ErrNotFound)
		svc := &service{repo: repo, now: func() time.Time { return now }}

		_, err := svc.Quote(ctx, "missing", "user-1", 1500)
		assert.ErrorIs(t, err, ErrInvalid)
	})
}
