package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rmaia/farmadelivery/internal/catalog/app"
	"github.com/rmaia/farmadelivery/internal/catalog/domain"
)

type EntryRepo struct {
	pool *pgxpool.Pool
}

func NewEntryRepo(pool *pgxpool.Pool) *EntryRepo {
	return &EntryRepo{pool: pool}
}

func (r *EntryRepo) Create(ctx context.Context, e domain.Entry) (domain.Entry, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO catalog_entries (establishment_id, product_id, name, price_amount, reference_amount, stock)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		e.EstablishmentID, e.ProductID, e.Name, e.PriceAmount, e.ReferenceAmount, e.Stock)

	if err := row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return domain.Entry{}, err
	}
	return e, nil
}

func (r *EntryRepo) Get(ctx context.Context, id int64) (domain.Entry, error) {
	var e domain.Entry
	row := r.pool.QueryRow(ctx,
		`SELECT id, establishment_id, product_id, name, price_amount, reference_amount, stock, created_at, updated_at
		 FROM catalog_entries WHERE id = $1`, id)

	err := row.Scan(&e.ID, &e.EstablishmentID, &e.ProductID, &e.Name, &e.PriceAmount, &e.ReferenceAmount, &e.Stock, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Entry{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Entry{}, err
	}
	return e, nil
}

func (r *EntryRepo) ListByEstablishment(ctx context.Context, establishmentID int64, limit int, cursor int64) ([]domain.Entry, int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, establishment_id, product_id, name, price_amount, reference_amount, stock, created_at, updated_at
		 FROM catalog_entries
		 WHERE establishment_id = $1 AND id > $2
		 ORDER BY id
		 LIMIT $3`, establishmentID, cursor, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Entry
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.EstablishmentID, &e.ProductID, &e.Name, &e.PriceAmount, &e.ReferenceAmount, &e.Stock, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var next int64
	if len(out) == limit {
		next = out[len(out)-1].ID
	}
	return out, next, nil
}

func (r *EntryRepo) UpdatePrice(ctx context.Context, id int64, amount int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE catalog_entries SET price_amount = $2, updated_at = now() WHERE id = $1`, id, amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app.ErrNotFound
	}
	return nil
}

func (r *EntryRepo) SetStock(ctx context.Context, id int64, stock int32) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE catalog_entries SET stock = $2, updated_at = now() WHERE id = $1`, id, stock)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app.ErrNotFound
	}
	return nil
}
