package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/wavemark/commerce-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Transact(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepository) GetStore(ctx context.Context, tx *sqlx.Tx, id string) (*model.Store, error) {
	var s model.Store
	err := tx.GetContext(ctx, &s, `SELECT * FROM stores WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) GetSellerAccount(ctx context.Context, tx *sqlx.Tx, userID string) (*model.SellerAccount, error) {
	var a model.SellerAccount
	query := `SELECT id, stripe_account_id, charges_enabled FROM users WHERE id = $1 LIMIT 1`
	err := tx.GetContext(ctx, &a, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *PGRepository) GetVariants(ctx context.Context, tx *sqlx.Tx, storeID string, ids []string) ([]model.ProductVariant, error) {
	if len(ids) == 0 {
		return []model.ProductVariant{}, nil
	}

	// The join pins every variant to the store being checked out; a variant
	// id belonging to another store's product simply is not returned.
	query, args, err := sqlx.In(`
        SELECT pv.* FROM product_variants pv
        JOIN products p ON p.id = pv.product_id
        WHERE p.store_id = ? AND pv.id IN (?)
    `, storeID, ids)
	if err != nil {
		return nil, err
	}
	query = tx.Rebind(query)

	var variants []model.ProductVariant
	err = tx.SelectContext(ctx, &variants, query, args...)
	return variants, err
}

func (r *PGRepository) ReserveStock(ctx context.Context, tx *sqlx.Tx, variantID string, quantity int64) (bool, error) {
	// Conditional update closes the check-then-write race: two concurrent
	// purchases cannot both reserve the last unit.
	query := `
        UPDATE inventory_items
        SET reserved_quantity = reserved_quantity + $1, updated_at = NOW()
        WHERE variant_id = $2 AND stock_quantity - reserved_quantity >= $1
    `
	res, err := tx.ExecContext(ctx, query, quantity, variantID)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *PGRepository) InsertOrder(ctx context.Context, tx *sqlx.Tx, o *model.Order) error {
	query := `
        INSERT INTO orders (
            id, store_id, buyer_id, status, total_amount, currency,
            shipping_address, billing_address, payment_intent_id, created_at, updated_at
        )
        VALUES (
            :id, :store_id, :buyer_id, :status, :total_amount, :currency,
            :shipping_address, :billing_address, :payment_intent_id, :created_at, :updated_at
        )
    `
	_, err := tx.NamedExecContext(ctx, query, o)
	return err
}

func (r *PGRepository) InsertOrderLines(ctx context.Context, tx *sqlx.Tx, lines []model.OrderLine) error {
	query := `
        INSERT INTO order_lines (id, order_id, variant_id, quantity, unit_price, line_total, created_at, updated_at)
        VALUES (:id, :order_id, :variant_id, :quantity, :unit_price, :line_total, :created_at, :updated_at)
    `
	for i := range lines {
		if _, err := tx.NamedExecContext(ctx, query, &lines[i]); err != nil {
			return fmt.Errorf("failed to insert order line for variant %s: %w", lines[i].VariantID, err)
		}
	}
	return nil
}

func (r *PGRepository) SetPaymentIntent(ctx context.Context, tx *sqlx.Tx, orderID, intentID string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE orders SET payment_intent_id = $1, updated_at = NOW() WHERE id = $2`,
		intentID, orderID)
	return err
}

func (r *PGRepository) FindOrderByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := r.DB.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	err = r.DB.SelectContext(ctx, &o.Lines,
		`SELECT * FROM order_lines WHERE order_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) Settle(ctx context.Context, paymentIntentID string, success bool) (*model.Order, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Row lock plus the pending filter makes settlement idempotent under
	// duplicate events.
	var o model.Order
	err = tx.GetContext(ctx, &o,
		`SELECT * FROM orders WHERE payment_intent_id = $1 AND status = $2 FOR UPDATE`,
		paymentIntentID, model.OrderStatusPending)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var lines []model.OrderLine
	err = tx.SelectContext(ctx, &lines, `SELECT * FROM order_lines WHERE order_id = $1`, o.ID)
	if err != nil {
		return nil, err
	}

	commitQuery := `
        UPDATE inventory_items
        SET stock_quantity = stock_quantity - $1,
            reserved_quantity = reserved_quantity - $1,
            updated_at = NOW()
        WHERE variant_id = $2
    `
	releaseQuery := `
        UPDATE inventory_items
        SET reserved_quantity = GREATEST(reserved_quantity - $1, 0),
            updated_at = NOW()
        WHERE variant_id = $2
    `
	for _, line := range lines {
		query := releaseQuery
		if success {
			query = commitQuery
		}
		if _, err := tx.ExecContext(ctx, query, line.Quantity, line.VariantID); err != nil {
			return nil, fmt.Errorf("failed to settle stock for variant %s: %w", line.VariantID, err)
		}
	}

	status := model.OrderStatusFailed
	if success {
		status = model.OrderStatusPaid
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`, status, o.ID); err != nil {
		return nil, err
	}
	o.Status = status
	o.Lines = lines

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &o, nil
}
