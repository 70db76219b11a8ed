package model

import "time"

// InventoryItem is one-to-one with a ProductVariant. A missing row reads as
// zero stock; catalog writes create the row alongside the variant.
type InventoryItem struct {
	VariantID        string    `db:"variant_id" json:"variant_id"`
	StockQuantity    int64     `db:"stock_quantity" json:"stock_quantity"`
	ReservedQuantity int64     `db:"reserved_quantity" json:"reserved_quantity"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}
