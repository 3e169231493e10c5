package proof

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, p *Proof) error
	GetByID(ctx context.Context, id string) (*Proof, error)
	GetLatestByReservation(ctx context.Context, reservationID string) (*Proof, error)
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var proofColumns = []string{
	"id", "reservation_id", "uploader_id", "filename",
	"storage_path", "thumbnail_path", "content_type", "size", "created_at",
}

func scanProof(row pgx.Row) (*Proof, error) {
	var p Proof
	if err := row.Scan(
		&p.ID, &p.ReservationID, &p.UploaderID, &p.Filename,
		&p.StoragePath, &p.ThumbnailPath, &p.ContentType, &p.Size, &p.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan proof failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) Create(ctx context.Context, p *Proof) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.payment_proofs").
		Columns("id", "reservation_id", "uploader_id", "filename",
			"storage_path", "thumbnail_path", "content_type", "size", "created_at").
		Values(p.ID, p.ReservationID, p.UploaderID, p.Filename,
			p.StoragePath, p.ThumbnailPath, p.ContentType, p.Size, p.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create proof query failed: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("create proof failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Proof, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(proofColumns...).
		From("public.payment_proofs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get proof query failed: %w", err)
	}
	return scanProof(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) GetLatestByReservation(ctx context.Context, reservationID string) (*Proof, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(proofColumns...).
		From("public.payment_proofs").
		Where(squirrel.Eq{"reservation_id": reservationID}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get latest proof query failed: %w", err)
	}
	return scanProof(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.payment_proofs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete proof query failed: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete proof failed: %w", err)
	}
	return nil
}
