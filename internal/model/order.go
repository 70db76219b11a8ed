package model

const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"
)

type Order struct {
	BaseModel
	StoreID         string      `db:"store_id" json:"store_id"`
	BuyerID         *string     `db:"buyer_id" json:"buyer_id"` // nil for guest checkout
	Status          string      `db:"status" json:"status"`
	TotalAmount     int64       `db:"total_amount" json:"total_amount"` // minor currency units
	Currency        string      `db:"currency" json:"currency"`
	ShippingAddress string      `db:"shipping_address" json:"shipping_address"`
	BillingAddress  string      `db:"billing_address" json:"billing_address"`
	PaymentIntentID *string     `db:"payment_intent_id" json:"payment_intent_id"`
	Lines           []OrderLine `db:"-" json:"lines"`
}

// OrderLine snapshots the variant price at checkout time; later price changes
// on the variant must not alter persisted lines.
type OrderLine struct {
	BaseModel
	OrderID   string `db:"order_id" json:"order_id"`
	VariantID string `db:"variant_id" json:"variant_id"`
	Quantity  int64  `db:"quantity" json:"quantity"`
	UnitPrice int64  `db:"unit_price" json:"unit_price"`
	LineTotal int64  `db:"line_total" json:"line_total"`
}
