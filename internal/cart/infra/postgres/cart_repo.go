package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rmaia/farmadelivery/internal/cart/app"
	"github.com/rmaia/farmadelivery/internal/cart/domain"
)

type CartRepo struct {
	pool *pgxpool.Pool
}

func NewCartRepo(pool *pgxpool.Pool) *CartRepo {
	return &CartRepo{pool: pool}
}

func (r *CartRepo) execTX(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %w; rollback err: %v", err, rbErr)
		}
		return err
	}
	return tx.Commit(ctx)
}

func (r *CartRepo) GetByClient(ctx context.Context, clientID int64) (domain.Cart, error) {
	var cart domain.Cart
	row := r.pool.QueryRow(ctx,
		`SELECT id, client_id, establishment_id, created_at, updated_at
		 FROM carts WHERE client_id = $1`, clientID)

	err := row.Scan(&cart.ID, &cart.ClientID, &cart.EstablishmentID, &cart.CreatedAt, &cart.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Cart{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Cart{}, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT entry_id, product_id, name, unit_amount, quantity
		 FROM cart_items WHERE cart_id = $1 ORDER BY position`, cart.ID)
	if err != nil {
		return domain.Cart{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(&it.EntryID, &it.ProductID, &it.Name, &it.UnitAmount, &it.Quantity); err != nil {
			return domain.Cart{}, err
		}
		cart.Items = append(cart.Items, it)
	}
	return cart, rows.Err()
}

func (r *CartRepo) Create(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO carts (client_id, establishment_id)
		 VALUES ($1, $2)
		 ON CONFLICT (client_id) DO UPDATE SET updated_at = now()
		 RETURNING id, created_at, updated_at`,
		cart.ClientID, cart.EstablishmentID)

	if err := row.Scan(&cart.ID, &cart.CreatedAt, &cart.UpdatedAt); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

// Save rewrites the cart's lines in one transaction.
func (r *CartRepo) Save(ctx context.Context, cart domain.Cart) error {
	return r.execTX(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE carts SET establishment_id = $2, updated_at = now() WHERE id = $1`,
			cart.ID, cart.EstablishmentID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return app.ErrNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cart.ID); err != nil {
			return err
		}
		for i, it := range cart.Items {
			_, err := tx.Exec(ctx,
				`INSERT INTO cart_items (cart_id, position, entry_id, product_id, name, unit_amount, quantity)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				cart.ID, i, it.EntryID, it.ProductID, it.Name, it.UnitAmount, it.Quantity)
			if err != nil {
				return fmt.Errorf("failed to insert line %d: %w", i, err)
			}
		}
		return nil
	})
}

func (r *CartRepo) Clear(ctx context.Context, cartID int64) error {
	return r.execTX(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`UPDATE carts SET establishment_id = 0, updated_at = now() WHERE id = $1`, cartID)
		return err
	})
}
