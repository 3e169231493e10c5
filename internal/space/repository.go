package space

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/timeslot"
)

func minuteTimes(opens, closes int) (timeslot.TimeOfDay, timeslot.TimeOfDay) {
	return timeslot.TimeOfDay(opens), timeslot.TimeOfDay(closes)
}

type Repository interface {
	Create(ctx context.Context, s *Space) error
	GetByID(ctx context.Context, id string) (*Space, error)
	List(ctx context.Context, filter Filter) ([]*Space, int, error)
	Update(ctx context.Context, s *Space) error
	Deactivate(ctx context.Context, id string) error

	ListPaymentMethods(ctx context.Context, spaceID string) ([]PaymentMethod, error)
	ReplacePaymentMethods(ctx context.Context, spaceID string, methods []PaymentMethod) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, s *Space) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.spaces").
		Columns("name", "description", "capacity", "opens_at_minute", "closes_at_minute",
			"requires_payment", "fee", "is_active").
		Values(s.Name, s.Description, s.Capacity, int(s.OpensAt), int(s.ClosesAt),
			s.RequiresPayment, s.Fee, s.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create space query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Space, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "name", "description", "capacity", "opens_at_minute", "closes_at_minute",
		"requires_payment", "fee", "is_active", "created_at", "updated_at",
	).
		From("public.spaces").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get space query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var s Space
	var opens, closes int
	if err := row.Scan(
		&s.ID, &s.Name, &s.Description, &s.Capacity, &opens, &closes,
		&s.RequiresPayment, &s.Fee, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get space failed: %w", err)
	}
	s.OpensAt, s.ClosesAt = minuteTimes(opens, closes)

	methods, err := r.ListPaymentMethods(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.PaymentMethods = methods

	return &s, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Space, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "name", "description", "capacity", "opens_at_minute", "closes_at_minute",
		"requires_payment", "fee", "is_active", "created_at", "updated_at",
		"count(*) OVER() AS total_count",
	).From("public.spaces")

	if filter.RequiresPayment != nil {
		query = query.Where(squirrel.Eq{"requires_payment": *filter.RequiresPayment})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.OrderBy("name ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list spaces query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list spaces failed: %w", err)
	}
	defer rows.Close()

	var spaces []*Space
	var total int

	for rows.Next() {
		var s Space
		var opens, closes int
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Description, &s.Capacity, &opens, &closes,
			&s.RequiresPayment, &s.Fee, &s.IsActive, &s.CreatedAt, &s.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan space failed: %w", err)
		}
		s.OpensAt, s.ClosesAt = minuteTimes(opens, closes)
		spaces = append(spaces, &s)
	}

	return spaces, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, s *Space) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.spaces").
		Set("name", s.Name).
		Set("description", s.Description).
		Set("capacity", s.Capacity).
		Set("opens_at_minute", int(s.OpensAt)).
		Set("closes_at_minute", int(s.ClosesAt)).
		Set("requires_payment", s.RequiresPayment).
		Set("fee", s.Fee).
		Set("is_active", s.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update space query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update space failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-disables a space. Existing reservations remain intact.
func (r *pgxRepository) Deactivate(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.spaces").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deactivate space query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deactivate space failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListPaymentMethods(ctx context.Context, spaceID string) ([]PaymentMethod, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "space_id", "label", "account_ref", "position").
		From("public.space_payment_methods").
		Where(squirrel.Eq{"space_id": spaceID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list payment methods query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payment methods failed: %w", err)
	}
	defer rows.Close()

	var methods []PaymentMethod
	for rows.Next() {
		var m PaymentMethod
		if err := rows.Scan(&m.ID, &m.SpaceID, &m.Label, &m.AccountRef, &m.Position); err != nil {
			return nil, fmt.Errorf("scan payment method failed: %w", err)
		}
		methods = append(methods, m)
	}
	return methods, nil
}

// ReplacePaymentMethods swaps the full ordered list in one transaction.
func (r *pgxRepository) ReplacePaymentMethods(ctx context.Context, spaceID string, methods []PaymentMethod) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace payment methods failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	delSQL, delArgs, err := psql.Delete("public.space_payment_methods").
		Where(squirrel.Eq{"space_id": spaceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete payment methods query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete payment methods failed: %w", err)
	}

	for i, m := range methods {
		insSQL, insArgs, err := psql.Insert("public.space_payment_methods").
			Columns("space_id", "label", "account_ref", "position").
			Values(spaceID, m.Label, m.AccountRef, i).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert payment method query failed: %w", err)
		}
		if _, err := tx.Exec(ctx, insSQL, insArgs...); err != nil {
			return fmt.Errorf("insert payment method failed: %w", err)
		}
	}

	return tx.Commit(ctx)
}
