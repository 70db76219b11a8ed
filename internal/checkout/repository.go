package checkout

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/wavemark/commerce-service/internal/model"
)

type Repository interface {
	// Transact runs fn inside one database transaction; any error rolls back
	// every write fn performed.
	Transact(ctx context.Context, fn func(tx *sqlx.Tx) error) error

	GetStore(ctx context.Context, tx *sqlx.Tx, id string) (*model.Store, error)
	GetSellerAccount(ctx context.Context, tx *sqlx.Tx, userID string) (*model.SellerAccount, error)

	// GetVariants loads only variants whose product belongs to the store, so
	// ids from another store drop out of the result and fail the caller's
	// count check.
	GetVariants(ctx context.Context, tx *sqlx.Tx, storeID string, ids []string) ([]model.ProductVariant, error)

	// ReserveStock is the atomic sufficiency gate: it bumps reserved_quantity
	// only while enough unreserved stock remains, reporting false otherwise.
	ReserveStock(ctx context.Context, tx *sqlx.Tx, variantID string, quantity int64) (bool, error)

	InsertOrder(ctx context.Context, tx *sqlx.Tx, o *model.Order) error
	InsertOrderLines(ctx context.Context, tx *sqlx.Tx, lines []model.OrderLine) error
	SetPaymentIntent(ctx context.Context, tx *sqlx.Tx, orderID, intentID string) error

	FindOrderByID(ctx context.Context, id string) (*model.Order, error)

	// Settle moves the pending order attached to the payment intent to
	// paid/failed and commits or releases its stock reservations, all in one
	// transaction. Returns nil without error when no pending order matches,
	// which makes repeated settlement events no-ops.
	Settle(ctx context.Context, paymentIntentID string, success bool) (*model.Order, error)
}
