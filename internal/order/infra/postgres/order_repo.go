package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rmaia/farmadelivery/internal/order/app"
	"github.com/rmaia/farmadelivery/internal/order/domain"
)

type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

func (r *OrderRepo) execTX(ctx context.Context, fn func(tx pgx.Tx) error) error {
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

// Create persists the order and its frozen items in one transaction.
func (r *OrderRepo) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	err := r.execTX(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO orders (client_id, establishment_id, subtotal_amount, delivery_fee_amount, total_amount, status, prescription_ids)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id, created_at, updated_at`,
			order.ClientID, order.EstablishmentID, order.SubtotalAmount, order.DeliveryFeeAmount,
			order.TotalAmount, order.Status, order.PrescriptionIDs)
		if err := row.Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i, it := range order.Items {
			_, err := tx.Exec(ctx,
				`INSERT INTO order_items (order_id, position, entry_id, product_id, name, unit_amount, quantity, line_total_amount)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				order.ID, i, it.EntryID, it.ProductID, it.Name, it.UnitAmount, it.Quantity, it.LineTotalAmount)
			if err != nil {
				return fmt.Errorf("failed to insert item %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (r *OrderRepo) Get(ctx context.Context, id int64) (domain.Order, error) {
	var o domain.Order
	row := r.pool.QueryRow(ctx,
		`SELECT id, client_id, establishment_id, subtotal_amount, delivery_fee_amount, total_amount, status, prescription_ids, created_at, updated_at
		 FROM orders WHERE id = $1`, id)

	err := row.Scan(&o.ID, &o.ClientID, &o.EstablishmentID, &o.SubtotalAmount, &o.DeliveryFeeAmount,
		&o.TotalAmount, &o.Status, &o.PrescriptionIDs, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}

	items, err := r.items(ctx, o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepo) items(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT entry_id, product_id, name, unit_amount, quantity, line_total_amount
		 FROM order_items WHERE order_id = $1 ORDER BY position`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.EntryID, &it.ProductID, &it.Name, &it.UnitAmount, &it.Quantity, &it.LineTotalAmount); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// UpdateStatus is a compare-and-swap on the status column.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.Status) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`,
		id, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OrderRepo) ListByEstablishment(ctx context.Context, establishmentID int64, status domain.Status, limit int) ([]domain.Order, error) {
	query := `SELECT id, client_id, establishment_id, subtotal_amount, delivery_fee_amount, total_amount, status, prescription_ids, created_at, updated_at
		 FROM orders WHERE establishment_id = $1`
	args := []any{establishmentID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY id LIMIT %d`, limit)

	return r.list(ctx, query, args...)
}

func (r *OrderRepo) ListAwaitingPaymentBefore(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	return r.list(ctx,
		`SELECT id, client_id, establishment_id, subtotal_amount, delivery_fee_amount, total_amount, status, prescription_ids, created_at, updated_at
		 FROM orders WHERE status = $1 AND created_at < $2 ORDER BY id`,
		domain.StatusAguardandoPagamento, cutoff)
}

func (r *OrderRepo) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.ClientID, &o.EstablishmentID, &o.SubtotalAmount, &o.DeliveryFeeAmount,
			&o.TotalAmount, &o.Status, &o.PrescriptionIDs, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		items, err := r.items(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}
