package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/timeslot"
)

type Repository interface {
	// Create inserts the reservation. The reservations table carries an
	// exclusion constraint over (space_id, date, slot range) for
	// non-cancelled rows, so a concurrent overlapping insert fails here
	// with ErrSlotUnavailable even if the in-process check passed.
	Create(ctx context.Context, r *Reservation) error
	GetByID(ctx context.Context, id string) (*Reservation, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdatePayment(ctx context.Context, r *Reservation) error

	// ListActive returns all non-cancelled reservations for a space on
	// a calendar day, the working set for overlap checks.
	ListActive(ctx context.Context, spaceID string, date time.Time) ([]*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	// ListAll returns the full reservation set for read-model refreshes.
	ListAll(ctx context.Context) ([]*Reservation, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var reservationColumns = []string{
	"r.id", "r.space_id", "s.name",
	"r.requester_id", "COALESCE(u.display_name, u.email)", "u.email", "u.unit", "u.phone",
	"r.date", "r.start_minute", "r.end_minute",
	"r.event_label", "r.status",
	"r.requires_payment", "r.payment_status", "r.payment_proof_url",
	"r.payment_verified_at", "r.payment_verified_by",
	"r.created_at", "r.updated_at",
}

func scanReservation(row pgx.Row, extra ...any) (*Reservation, error) {
	var r Reservation
	var start, end int
	dest := []any{
		&r.ID, &r.SpaceID, &r.SpaceName,
		&r.RequesterID, &r.RequesterName, &r.RequesterEmail, &r.RequesterUnit, &r.RequesterPhone,
		&r.Date, &start, &end,
		&r.EventLabel, &r.Status,
		&r.RequiresPayment, &r.PaymentStatus, &r.PaymentProofURL,
		&r.PaymentVerifiedAt, &r.PaymentVerifiedBy,
		&r.CreatedAt, &r.UpdatedAt,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan reservation failed: %w", err)
	}
	r.Start = timeslot.TimeOfDay(start)
	r.End = timeslot.TimeOfDay(end)
	r.Date = DateOnly(r.Date)
	return &r, nil
}

func (repo *pgxRepository) Create(ctx context.Context, r *Reservation) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.reservations").
		Columns("space_id", "requester_id", "date", "start_minute", "end_minute",
			"event_label", "status", "requires_payment", "payment_status").
		Values(r.SpaceID, r.RequesterID, r.Date, int(r.Start), int(r.End),
			r.EventLabel, r.Status, r.RequiresPayment, r.PaymentStatus).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create reservation query failed: %w", err)
	}

	if err := repo.pool.QueryRow(ctx, query, args...).
		Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
			return ErrSlotUnavailable
		}
		return fmt.Errorf("create reservation failed: %w", err)
	}
	return nil
}

func (repo *pgxRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(reservationColumns...).
		From("public.reservations r").
		Join("public.spaces s ON r.space_id = s.id").
		Join("public.users u ON r.requester_id = u.id").
		Where(squirrel.Eq{"r.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get reservation query failed: %w", err)
	}

	return scanReservation(repo.pool.QueryRow(ctx, query, args...))
}

func (repo *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.reservations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update reservation status query failed: %w", err)
	}

	ct, err := repo.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update reservation status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *pgxRepository) UpdatePayment(ctx context.Context, r *Reservation) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.reservations").
		Set("payment_status", r.PaymentStatus).
		Set("payment_proof_url", r.PaymentProofURL).
		Set("payment_verified_at", r.PaymentVerifiedAt).
		Set("payment_verified_by", r.PaymentVerifiedBy).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": r.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update reservation payment query failed: %w", err)
	}

	ct, err := repo.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update reservation payment failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *pgxRepository) ListActive(ctx context.Context, spaceID string, date time.Time) ([]*Reservation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(reservationColumns...).
		From("public.reservations r").
		Join("public.spaces s ON r.space_id = s.id").
		Join("public.users u ON r.requester_id = u.id").
		Where(squirrel.Eq{"r.space_id": spaceID}).
		Where(squirrel.Eq{"r.date": DateOnly(date)}).
		Where(squirrel.NotEq{"r.status": StatusCancelled}).
		OrderBy("r.start_minute ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list active reservations query failed: %w", err)
	}

	return repo.queryMany(ctx, query, args)
}

func (repo *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	cols := append([]string{}, reservationColumns...)
	cols = append(cols, "count(*) OVER() AS total_count")
	query := psql.Select(cols...).
		From("public.reservations r").
		Join("public.spaces s ON r.space_id = s.id").
		Join("public.users u ON r.requester_id = u.id")

	if filter.RequesterID != "" {
		query = query.Where(squirrel.Eq{"r.requester_id": filter.RequesterID})
	}
	if filter.SpaceID != "" {
		query = query.Where(squirrel.Eq{"r.space_id": filter.SpaceID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"r.status": filter.Status})
	}
	if filter.Date != nil {
		query = query.Where(squirrel.Eq{"r.date": DateOnly(*filter.Date)})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.OrderBy("r.created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := repo.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var reservations []*Reservation
	var total int
	for rows.Next() {
		r, err := scanReservation(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		reservations = append(reservations, r)
	}
	return reservations, total, nil
}

func (repo *pgxRepository) ListAll(ctx context.Context) ([]*Reservation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(reservationColumns...).
		From("public.reservations r").
		Join("public.spaces s ON r.space_id = s.id").
		Join("public.users u ON r.requester_id = u.id").
		OrderBy("r.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list all reservations query failed: %w", err)
	}

	return repo.queryMany(ctx, query, args)
}

func (repo *pgxRepository) queryMany(ctx context.Context, sql string, args []any) ([]*Reservation, error) {
	rows, err := repo.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query reservations failed: %w", err)
	}
	defer rows.Close()

	var reservations []*Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	return reservations, nil
}
