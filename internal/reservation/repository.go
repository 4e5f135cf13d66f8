package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/arena-booking-backend/internal/promotion"
)

// CheckFunc inspects the reservations already holding slots on the
// facility-day and returns an error to abort the insert.
type CheckFunc func(existing []*Reservation) error

type Repository interface {
	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)

	// ListOccupying returns the reservations on facilityID and date whose
	// status holds slots, in any stored spelling.
	ListOccupying(ctx context.Context, facilityID int64, date time.Time) ([]*Reservation, error)

	// Create inserts r in its own transaction while holding a lock scoped to
	// (facility, date). check runs under the same lock against a fresh read,
	// so no other booking for that day can slip in between check and insert.
	// r.ID, r.CreatedAt and r.UpdatedAt are filled on success.
	Create(ctx context.Context, r *Reservation, check CheckFunc) error

	// UpdateStatus moves the reservation from one status to another. It fails
	// with ErrConcurrentUpdate when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to Status) (*Reservation, error)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const (
	slotIndexName       = "reservation_slots_occupied_uniq"
	promotionUsageIndex = "promotion_usage_once_per_user"
)

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var reservationColumns = []string{
	"r.id", "r.facility_id", "COALESCE(f.name, '')", "r.user_id", "r.booking_date",
	"r.time_slots", "r.start_time", "r.end_time", "r.status",
	"r.total_price", "r.discount", "r.promotion_id", "r.created_at", "r.updated_at",
}

func selectReservations(extra ...string) squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select(append(append([]string{}, reservationColumns...), extra...)...).
		From("public.reservations r").
		LeftJoin("public.facilities f ON f.id = r.facility_id")
}

func scanReservation(row pgx.Row, extra ...any) (*Reservation, error) {
	var res Reservation
	var status string
	dest := []any{
		&res.ID, &res.FacilityID, &res.FacilityName, &res.UserID, &res.BookingDate,
		&res.TimeSlots, &res.StartTime, &res.EndTime, &status,
		&res.TotalPrice, &res.Discount, &res.PromotionID, &res.CreatedAt, &res.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if s, ok := ParseStatus(status); ok {
		res.Status = s
	} else {
		res.Status = Status(status)
	}
	return &res, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	return getByID(ctx, r.pool, id)
}

func getByID(ctx context.Context, q querier, id string) (*Reservation, error) {
	query, args, err := selectReservations().
		Where(squirrel.Eq{"r.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get reservation query failed: %w", err)
	}

	res, err := scanReservation(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation failed: %w", err)
	}
	return res, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	query := selectReservations("count(*) OVER() AS total_count")

	if filter.FacilityID != 0 {
		query = query.Where(squirrel.Eq{"r.facility_id": filter.FacilityID})
	}
	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"r.user_id": filter.UserID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"r.status": spellings(filter.Status)})
	}
	if filter.DateFrom != nil {
		query = query.Where(squirrel.GtOrEq{"r.booking_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		query = query.Where(squirrel.LtOrEq{"r.booking_date": *filter.DateTo})
	}

	orderDir := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		orderDir = "ASC"
	}
	query = query.OrderBy("r.created_at "+orderDir, "r.id")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var out []*Reservation
	var total int
	for rows.Next() {
		res, err := scanReservation(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan reservation failed: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate reservations failed: %w", err)
	}
	return out, total, nil
}

func (r *pgxRepository) ListOccupying(ctx context.Context, facilityID int64, date time.Time) ([]*Reservation, error) {
	return listOccupying(ctx, r.pool, facilityID, date)
}

func listOccupying(ctx context.Context, q querier, facilityID int64, date time.Time) ([]*Reservation, error) {
	query, args, err := selectReservations().
		Where(squirrel.Eq{"r.facility_id": facilityID}).
		Where(squirrel.Eq{"r.booking_date": date}).
		Where(squirrel.Eq{"r.status": spellings(occupyingStatuses...)}).
		OrderBy("r.created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build occupancy query failed: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read occupancy failed: %w", err)
	}
	defer rows.Close()

	var out []*Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation failed: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate occupancy failed: %w", err)
	}
	return out, nil
}

func dayLockKey(facilityID int64, date time.Time) string {
	return fmt.Sprintf("reservation:%d:%s", facilityID, FormatDate(date))
}

func (r *pgxRepository) Create(ctx context.Context, res *Reservation, check CheckFunc) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin reservation tx failed: %w", err)
	}
	defer func() {
		// No-op after a successful commit.
		_ = tx.Rollback(context.Background())
	}()

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", dayLockKey(res.FacilityID, res.BookingDate)); err != nil {
		return fmt.Errorf("lock facility day failed: %w", err)
	}

	existing, err := listOccupying(ctx, tx, res.FacilityID, res.BookingDate)
	if err != nil {
		return err
	}
	if check != nil {
		if err := check(existing); err != nil {
			return err
		}
	}

	if err := insertReservation(ctx, tx, res); err != nil {
		return err
	}
	if err := insertSlots(ctx, tx, res); err != nil {
		return err
	}
	if res.PromotionID != nil && res.UserID != nil {
		if err := insertPromotionUsage(ctx, tx, res); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		if ctx.Err() != nil {
			return ErrBookingOutcomeUnknown.WithCause(err)
		}
		return fmt.Errorf("commit reservation failed: %w", err)
	}
	return nil
}

func insertReservation(ctx context.Context, tx pgx.Tx, res *Reservation) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.reservations").
		Columns(
			"facility_id", "user_id", "booking_date", "time_slots", "start_time", "end_time",
			"status", "total_price", "discount", "promotion_id",
		).
		Values(
			res.FacilityID, res.UserID, res.BookingDate, res.TimeSlots, res.StartTime, res.EndTime,
			string(res.Status), res.TotalPrice, res.Discount, res.PromotionID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create reservation query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return fmt.Errorf("create reservation failed: %w", err)
	}
	return nil
}

func insertSlots(ctx context.Context, tx pgx.Tx, res *Reservation) error {
	if len(res.TimeSlots) == 0 {
		return nil
	}
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	builder := psql.Insert("public.reservation_slots").
		Columns("reservation_id", "facility_id", "booking_date", "slot_label")
	for _, label := range res.TimeSlots {
		builder = builder.Values(res.ID, res.FacilityID, res.BookingDate, label)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build reservation slots query failed: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == slotIndexName {
			return ErrSlotConflict.WithCause(err)
		}
		return fmt.Errorf("create reservation slots failed: %w", err)
	}
	return nil
}

func insertPromotionUsage(ctx context.Context, tx pgx.Tx, res *Reservation) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.promotion_usage").
		Columns("promotion_id", "user_id", "reservation_id").
		Values(*res.PromotionID, *res.UserID, res.ID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build promotion usage query failed: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == promotionUsageIndex {
			return promotion.ErrAlreadyUsed.WithCause(err)
		}
		return fmt.Errorf("record promotion usage failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, from, to Status) (*Reservation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin status tx failed: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.reservations").
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": spellings(from)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update status query failed: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update reservation status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		if _, err := getByID(ctx, tx, id); err != nil {
			return nil, err
		}
		return nil, ErrConcurrentUpdate
	}

	if to.TerminalNegative() {
		release, args, err := psql.Update("public.reservation_slots").
			Set("active", false).
			Where(squirrel.Eq{"reservation_id": id}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build release slots query failed: %w", err)
		}
		if _, err := tx.Exec(ctx, release, args...); err != nil {
			return nil, fmt.Errorf("release reservation slots failed: %w", err)
		}
	}

	updated, err := getByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit status update failed: %w", err)
	}
	return updated, nil
}
