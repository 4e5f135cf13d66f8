package promotion

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, p *Promotion) error
	GetByID(ctx context.Context, id string) (*Promotion, error)
	// HasUsed reports whether userID already redeemed the promotion.
	HasUsed(ctx context.Context, promotionID, userID string) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, p *Promotion) error {
	if p.Status == "" {
		p.Status = StatusActive
	}
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.promotions").
		Columns("code", "discount_amount", "discount_percentage", "valid_from", "valid_until", "status").
		Values(p.Code, p.DiscountAmount, p.DiscountPercentage, p.ValidFrom, p.ValidUntil, p.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create promotion query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return fmt.Errorf("create promotion failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Promotion, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "code", "discount_amount", "discount_percentage",
		"valid_from", "valid_until", "status", "created_at",
	).
		From("public.promotions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get promotion query failed: %w", err)
	}

	var p Promotion
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.Code, &p.DiscountAmount, &p.DiscountPercentage,
		&p.ValidFrom, &p.ValidUntil, &p.Status, &p.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get promotion failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) HasUsed(ctx context.Context, promotionID, userID string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sub, args, err := psql.Select("1").
		From("public.promotion_usage").
		Where(squirrel.Eq{"promotion_id": promotionID, "user_id": userID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build promotion usage query failed: %w", err)
	}

	var used bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&used); err != nil {
		return false, fmt.Errorf("check promotion usage failed: %w", err)
	}
	return used, nil
}
